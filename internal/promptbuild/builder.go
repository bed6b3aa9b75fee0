// Package promptbuild renders the prompts sent to the language model.
// Every function is pure: identical input yields byte-identical output.
package promptbuild

import "strings"

type section struct {
	title   string
	content string
}

func appendSection(list []section, title, content string) []section {
	content = strings.TrimSpace(content)
	if content == "" {
		return list
	}
	return append(list, section{title: title, content: content})
}

// renderSections joins sections with blank lines. A titled section is
// rendered as "Title:\ncontent".
func renderSections(sections []section) string {
	var out strings.Builder
	for i, s := range sections {
		if i > 0 {
			out.WriteString("\n\n")
		}
		if s.title != "" {
			out.WriteString(s.title)
			out.WriteString(":\n")
		}
		out.WriteString(s.content)
	}
	return strings.TrimSpace(out.String())
}

func quoted(s string) string {
	return `"` + strings.TrimSpace(s) + `"`
}

func bulletList(items []string) string {
	var out strings.Builder
	for i, item := range items {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString("- ")
		out.WriteString(item)
	}
	return out.String()
}
