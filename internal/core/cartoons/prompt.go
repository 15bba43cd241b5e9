package cartoons

import "strings"

const promptHeader = `Create a 4-panel comic strip in a single image based on this description: `

const promptRequirements = `

Requirements:
- 2x2 grid layout
- sequential story
- cute, family-friendly cartoon style
- consistent characters/setting
- bright cheerful colors
`

const defaultTheme = `Create a heartwarming daily adventure story.`

// BuildPrompt composes the fixed generation prompt from the image
// analysis and the user's optional story theme.
func BuildPrompt(analysis, userText string) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString(analysis)
	b.WriteString(promptRequirements)
	if strings.TrimSpace(userText) != "" {
		b.WriteString("User's story theme: ")
		b.WriteString(userText)
	} else {
		b.WriteString(defaultTheme)
	}
	return b.String()
}
