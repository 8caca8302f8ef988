package generate

import "strings"

const indent = "    "

// File is the text of a generated file: an import block followed by content
// lines.
type File struct {
	Imports Imports
	content []string
}

// Add appends content lines.
func (f *File) Add(lines ...string) {
	f.content = append(f.content, lines...)
}

// Render returns the file text.
func (f *File) Render() string {
	var b strings.Builder
	if imports := f.Imports.String(); imports != "" {
		b.WriteString(imports)
		b.WriteString("\n\n")
	}
	b.WriteString(strings.Join(f.content, "\n"))
	return b.String()
}
