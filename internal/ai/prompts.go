package ai

const (
	enhancePrefix = "Act as a professional prompt engineer. Improve the following user prompt for use with an AI language model:\n\""
	enhanceSuffix = "\".\nReturn an enhanced prompt, without any additional commentary. Structure the prompt to get the best possible results."
)

// Enhance wraps a raw user prompt in the prompt-engineering instruction template.
// It is applied once per generation query and never to connection tests.
func Enhance(raw string) string {
	return enhancePrefix + raw + enhanceSuffix
}
