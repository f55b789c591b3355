package ai

import (
	"strings"
	"testing"
)

func TestEnhance(t *testing.T) {
	got := Enhance("write a haiku about rain")

	want := "Act as a professional prompt engineer. Improve the following user prompt for use with an AI language model:\n" +
		"\"write a haiku about rain\".\n" +
		"Return an enhanced prompt, without any additional commentary. Structure the prompt to get the best possible results."
	if got != want {
		t.Errorf("Enhance() =\n%q\nwant\n%q", got, want)
	}
}

func TestEnhanceIsDeterministic(t *testing.T) {
	if Enhance("x") != Enhance("x") {
		t.Error("Enhance is not deterministic")
	}
}

func TestEnhanceKeepsRawPromptVerbatim(t *testing.T) {
	raw := "  line one\nline \"two\"  "
	got := Enhance(raw)
	if !strings.Contains(got, "\""+raw+"\".") {
		t.Errorf("Enhance() altered the raw prompt: %q", got)
	}
	if strings.Count(got, enhancePrefix) != 1 {
		t.Error("instruction prefix should appear exactly once")
	}
}
