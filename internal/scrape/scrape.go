package scrape

import (
	"bytes"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/hyperifyio/wikidigest/internal/article"
)

// Extractor converts raw HTML bytes into an ordered section document.
// Implementations should be deterministic and avoid side effects.
type Extractor interface {
	Extract(input []byte) (*article.Document, error)
}

// DefaultSkipSections lists navigational and reference headings that carry
// no prose worth summarizing.
var DefaultSkipSections = []string{
	"Contents",
	"References",
	"External links",
	"See also",
	"Further reading",
	"Notes",
}

// defaultBoilerplateMarkers flags paragraphs that are page furniture rather
// than article prose.
var defaultBoilerplateMarkers = []string{
	"coordinates:",
	"wikimedia commons",
	"category:",
	"this article",
}

// ErrNoContent is returned when the page has no recognizable article body.
var ErrNoContent = errors.New("no article content found")

var citationRe = regexp.MustCompile(`\[\d+\]`)

// WikipediaExtractor walks a MediaWiki-rendered page and groups paragraphs
// under their heading path ("Top" or "Top > Sub"). Headings in SkipSections
// close the current section; paragraphs under them are dropped until the
// next kept top-level heading.
type WikipediaExtractor struct {
	// MinParagraphChars drops paragraphs shorter than this after cleaning.
	// Zero means the default of 50.
	MinParagraphChars int
	// SkipSections overrides DefaultSkipSections when non-nil.
	SkipSections []string
}

func (e WikipediaExtractor) Extract(input []byte) (*article.Document, error) {
	root, err := html.Parse(bytes.NewReader(input))
	if err != nil {
		return nil, err
	}
	content := findContentRoot(root)
	if content == nil {
		return nil, ErrNoContent
	}

	minChars := e.MinParagraphChars
	if minChars <= 0 {
		minChars = 50
	}
	skip := e.SkipSections
	if skip == nil {
		skip = DefaultSkipSections
	}
	skipSet := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		skipSet[s] = struct{}{}
	}

	doc := &article.Document{}
	// "Introduction" holds lead paragraphs before the first h2.
	currentTop := "Introduction"
	currentSub := ""

	walkBlocks(content, func(n *html.Node) {
		switch strings.ToLower(n.Data) {
		case "h2":
			heading := cleanHeading(textOf(n))
			if _, skipped := skipSet[heading]; skipped {
				currentTop = ""
				currentSub = ""
				return
			}
			currentTop = heading
			currentSub = ""
		case "h3":
			currentSub = cleanHeading(textOf(n))
		case "p":
			if currentTop == "" {
				return
			}
			para := cleanText(textOf(n))
			if len(para) < minChars {
				return
			}
			if isBoilerplate(para) {
				return
			}
			key := currentTop
			if currentSub != "" {
				key = currentTop + article.KeySeparator + currentSub
			}
			doc.Append(key, para)
		}
	})

	if doc.Len() == 0 {
		return nil, ErrNoContent
	}
	return doc, nil
}

// findContentRoot prefers the MediaWiki content container, falling back to
// <body> for pages rendered without it.
func findContentRoot(root *html.Node) *html.Node {
	if n := findByID(root, "mw-content-text"); n != nil {
		return n
	}
	return findFirst(root, "body")
}

// walkBlocks visits h2, h3 and p elements in document order. Nested block
// elements inside a paragraph are not re-visited.
func walkBlocks(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "h2", "h3", "p":
			visit(n)
			return
		case "script", "style", "noscript", "nav", "footer", "aside", "table":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkBlocks(c, visit)
	}
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if strings.EqualFold(attr.Key, "id") && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return b.String()
}

// cleanHeading strips the "[edit]" affordance and applies text cleaning.
func cleanHeading(s string) string {
	return cleanText(strings.ReplaceAll(s, "[edit]", ""))
}

// cleanText removes bracketed citation markers, collapses whitespace runs,
// and normalizes to NFC so heading keys compare consistently.
func cleanText(s string) string {
	s = citationRe.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	return norm.NFC.String(strings.TrimSpace(s))
}

func isBoilerplate(para string) bool {
	lower := strings.ToLower(para)
	for _, marker := range defaultBoilerplateMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
