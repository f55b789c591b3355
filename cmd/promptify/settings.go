package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thinkscotty/promptify/internal/ai"
	"github.com/thinkscotty/promptify/internal/auth"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage provider settings",
	Long: `Read and write the settings the gateway resolves on every call.

Keys: ` + strings.Join(ai.SettingKeys, ", ") + `.
A removed key falls back to its default.`,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings (API key masked)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		settings, err := a.db.ListSettings()
		if err != nil {
			return fmt.Errorf("listing settings: %w", err)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tVALUE\tUPDATED")
		for _, s := range settings {
			if s.Key == auth.HashSetting {
				continue
			}
			value := s.Value
			if s.Key == ai.KeyAPIKey {
				value = ai.MaskSecret(value)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Key, value, s.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ai.ValidateSetting(args[0], ""); err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		value, err := a.db.GetSetting(args[0])
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s is not set", args[0])
		}
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], strings.TrimSpace(args[1])
		if err := ai.ValidateSetting(key, value); err != nil {
			return err
		}
		if value == "" {
			return fmt.Errorf("value for %s is empty, use 'promptify settings unset %s' to remove it", key, key)
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.db.SetSetting(key, value)
	},
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a setting so it falls back to its default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ai.ValidateSetting(args[0], ""); err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.db.DeleteSetting(args[0])
	},
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the HTTP API access key",
}

var keyRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Replace the access key and print the new one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		key, err := auth.Rotate(a.db)
		if err != nil {
			return err
		}
		fmt.Println(key)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)

	keyCmd.AddCommand(keyRotateCmd)
}
