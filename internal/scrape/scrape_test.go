package scrape

import (
	"strings"
	"testing"
)

const longPara = "Alexander III of Macedon, commonly known as Alexander the Great, was a king of the ancient Greek kingdom of Macedon."

func wrap(body string) []byte {
	return []byte(`<html><body><div id="mw-content-text">` + body + `</div></body></html>`)
}

func TestExtract_HeadingHierarchy(t *testing.T) {
	doc, err := WikipediaExtractor{}.Extract(wrap(`
		<p>` + longPara + `</p>
		<h2>Military campaigns<span>[edit]</span></h2>
		<p>` + longPara + `</p>
		<h3>Persia</h3>
		<p>` + longPara + `</p>
	`))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := []string{"Introduction", "Military campaigns", "Military campaigns > Persia"}
	keys := doc.Keys()
	if len(keys) != len(want) {
		t.Fatalf("unexpected keys: %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d: got %q want %q", i, keys[i], want[i])
		}
	}
}

func TestExtract_SkipSectionsDropFollowingParagraphs(t *testing.T) {
	doc, err := WikipediaExtractor{}.Extract(wrap(`
		<h2>History</h2>
		<p>` + longPara + `</p>
		<h2>References</h2>
		<p>` + longPara + `</p>
		<h2>Legacy</h2>
		<p>` + longPara + `</p>
	`))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	for _, k := range doc.Keys() {
		if k == "References" {
			t.Fatalf("skip section leaked into output: %v", doc.Keys())
		}
	}
	if len(doc.Keys()) != 2 {
		t.Fatalf("expected History and Legacy only, got %v", doc.Keys())
	}
}

func TestExtract_SubheadingWithoutTopIsSkipped(t *testing.T) {
	// A subheading arriving while the current top heading is closed (after a
	// skip section) must not open a section of its own.
	doc, err := WikipediaExtractor{}.Extract(wrap(`
		<h2>See also</h2>
		<h3>Orphan subsection</h3>
		<p>` + longPara + `</p>
		<h2>Legacy</h2>
		<p>` + longPara + `</p>
	`))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got := doc.Keys(); len(got) != 1 || got[0] != "Legacy" {
		t.Fatalf("expected only Legacy, got %v", got)
	}
}

func TestExtract_CleansCitationsAndWhitespace(t *testing.T) {
	doc, err := WikipediaExtractor{}.Extract(wrap(`
		<h2>History</h2>
		<p>Alexander   was  born in Pella[1] in 356 BC[2] and he was tutored by Aristotle until the age of sixteen.</p>
	`))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	got := doc.Sections()[0].Paragraphs[0]
	if strings.Contains(got, "[1]") || strings.Contains(got, "  ") {
		t.Fatalf("text not cleaned: %q", got)
	}
	if !strings.HasPrefix(got, "Alexander was born in Pella in 356 BC") {
		t.Fatalf("unexpected cleaned text: %q", got)
	}
}

func TestExtract_ShortAndBoilerplateParagraphsDropped(t *testing.T) {
	doc, err := WikipediaExtractor{}.Extract(wrap(`
		<h2>History</h2>
		<p>Short.</p>
		<p>This article includes material from the 1911 encyclopedia and other sources of that era entirely.</p>
		<p>` + longPara + `</p>
	`))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	paras := doc.Sections()[0].Paragraphs
	if len(paras) != 1 {
		t.Fatalf("expected one surviving paragraph, got %v", paras)
	}
}

func TestExtract_NoContent(t *testing.T) {
	_, err := WikipediaExtractor{}.Extract([]byte(`<html><body><div id="mw-content-text"></div></body></html>`))
	if err != ErrNoContent {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestExtract_FallsBackToBody(t *testing.T) {
	doc, err := WikipediaExtractor{}.Extract([]byte(`<html><body><h2>History</h2><p>` + longPara + `</p></body></html>`))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if doc.Len() != 1 || doc.Keys()[0] != "History" {
		t.Fatalf("unexpected document: %v", doc.Keys())
	}
}

var _ Extractor = WikipediaExtractor{}
