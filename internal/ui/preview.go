package ui

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultPreviewLines is the number of lines shown before a preview is cut.
const DefaultPreviewLines = 40

// Preview is a bordered box showing the head of a generated file.
type Preview struct {
	Title    string
	Content  string
	MaxLines int // 0 shows everything
	Width    int
}

// NewPreview creates a preview of content
func NewPreview(title, content string) *Preview {
	return &Preview{
		Title:    title,
		Content:  content,
		MaxLines: DefaultPreviewLines,
		Width:    GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (p *Preview) SetWidth(width int) *Preview {
	p.Width = width
	return p
}

// SetMaxLines limits the number of content lines rendered
func (p *Preview) SetMaxLines(n int) *Preview {
	p.MaxLines = n
	return p
}

// Lines returns the content lines to render and the number of lines cut.
func (p *Preview) Lines() ([]string, int) {
	lines := strings.Split(strings.TrimRight(p.Content, "\n"), "\n")
	if p.MaxLines <= 0 || len(lines) <= p.MaxLines {
		return lines, 0
	}
	return lines[:p.MaxLines], len(lines) - p.MaxLines
}

// Render returns the styled preview box
func (p *Preview) Render() string {
	width := p.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines, cut := p.Lines()
	for i, line := range lines {
		// Tabs render inconsistently inside boxes
		lines[i] = PreviewContentStyle.Render(strings.ReplaceAll(line, "\t", "    "))
	}
	if cut > 0 {
		lines = append(lines, StepNoteStyle.Render(fmt.Sprintf("... %d more lines", cut)))
	}

	body := PreviewBoxStyle(width).Render(strings.Join(lines, "\n"))
	if p.Title == "" {
		return body
	}
	return "  " + PreviewTitleStyle.Render(p.Title) + "\n" + body
}

// String implements fmt.Stringer
func (p *Preview) String() string {
	return p.Render()
}

var assignmentRe = regexp.MustCompile(`^([A-Z_][A-Z0-9_]*)\s*[:?]?=\s*(.*)$`)

// Variables extracts simple "NAME = value" assignments from Makefile text.
// Continued values are reported with their first line only.
func Variables(makefile string) []Detail {
	var out []Detail
	for _, line := range strings.Split(makefile, "\n") {
		m := assignmentRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		out = append(out, Detail{Key: m[1], Value: strings.TrimSpace(strings.TrimSuffix(m[2], "\\"))})
	}
	return out
}
