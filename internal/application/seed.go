package application

import "fmt"

const seedTemplate = `I have selected the following text: "%s"

I also took a screenshot of my current screen (if available).

Please help me understand or discuss this content. You can ask me questions about it, explain it, or help me with any related tasks. I will be asking you questions about this content.`

// SeedMessageText renders the fixed seed template with the captured text
// embedded verbatim, without truncation.
func SeedMessageText(captured string) string {
	return fmt.Sprintf(seedTemplate, captured)
}
