package article

import "strings"

// KeySeparator joins a top-level heading and a subheading into one section
// key, e.g. "Early life" or "Legacy > In popular culture".
const KeySeparator = " > "

// Section is one heading-delimited unit of article text.
type Section struct {
	Key        string
	Paragraphs []string
}

// IsSubsection reports whether the section key names a subheading path.
func (s Section) IsSubsection() bool {
	return strings.Contains(s.Key, KeySeparator)
}

// Text concatenates the section's paragraphs into a single block separated
// by blank lines, trimmed.
func (s Section) Text() string {
	return strings.TrimSpace(strings.Join(s.Paragraphs, "\n\n"))
}

// Document is an ordered sequence of sections. Order follows the source
// document and is preserved through every stage; keys are unique within one
// document (Append merges repeated keys in place).
type Document struct {
	sections []Section
	index    map[string]int
}

// Append adds a paragraph under the given key, creating the section at the
// end of the document on first sight of the key.
func (d *Document) Append(key string, paragraph string) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[key]; ok {
		d.sections[i].Paragraphs = append(d.sections[i].Paragraphs, paragraph)
		return
	}
	d.index[key] = len(d.sections)
	d.sections = append(d.sections, Section{Key: key, Paragraphs: []string{paragraph}})
}

// AddSection appends a complete section, merging paragraphs if the key is
// already present.
func (d *Document) AddSection(s Section) {
	for _, p := range s.Paragraphs {
		d.Append(s.Key, p)
	}
	if len(s.Paragraphs) == 0 {
		if d.index == nil {
			d.index = make(map[string]int)
		}
		if _, ok := d.index[s.Key]; !ok {
			d.index[s.Key] = len(d.sections)
			d.sections = append(d.sections, Section{Key: s.Key})
		}
	}
}

// Sections returns the sections in document order. The returned slice is
// shared; callers must not mutate it.
func (d *Document) Sections() []Section {
	return d.sections
}

// Keys returns the section keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.sections))
	for _, s := range d.sections {
		keys = append(keys, s.Key)
	}
	return keys
}

// Len returns the number of sections.
func (d *Document) Len() int {
	return len(d.sections)
}

// SectionSummary pairs a section key with its generated summary text.
type SectionSummary struct {
	Key     string
	Summary string
}
