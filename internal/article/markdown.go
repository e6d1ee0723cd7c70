package article

import "strings"

// RenderMarkdown formats section summaries as a Markdown document. Top-level
// keys render as level-2 headings and subsection keys as level-3 headings,
// each followed by the summary text and a blank line. Input order is kept,
// and identical input yields byte-identical output.
func RenderMarkdown(summaries []SectionSummary) string {
	if len(summaries) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range summaries {
		if strings.Contains(s.Key, KeySeparator) {
			b.WriteString("### ")
		} else {
			b.WriteString("## ")
		}
		b.WriteString(s.Key)
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(s.Summary))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// RenderText formats the raw extracted document as readable headed text,
// mirroring the Markdown heading levels used for summaries. This is the
// plain-text artifact written alongside the JSON content dump.
func RenderText(d *Document) string {
	var b strings.Builder
	for _, s := range d.Sections() {
		if len(s.Paragraphs) == 0 {
			continue
		}
		if s.IsSubsection() {
			b.WriteString("### ")
		} else {
			b.WriteString("## ")
		}
		b.WriteString(s.Key)
		b.WriteString("\n")
		for _, p := range s.Paragraphs {
			b.WriteString("\n")
			b.WriteString(p)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()) + "\n"
}
