package article

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// EncodeJSON writes the document as a JSON object mapping section key to
// paragraph list, in document order, with 2-space indentation and non-ASCII
// characters left unescaped. The shape round-trips with external tools that
// consume the raw content artifact.
func EncodeJSON(w io.Writer, d *Document) error {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, s := range d.Sections() {
		key, err := marshalCompact(s.Key)
		if err != nil {
			return fmt.Errorf("marshal key %q: %w", s.Key, err)
		}
		paras := s.Paragraphs
		if paras == nil {
			paras = []string{}
		}
		val, err := marshalIndented(paras, "  ")
		if err != nil {
			return fmt.Errorf("marshal section %q: %w", s.Key, err)
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
		if i < d.Len()-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}")
	_, err := w.Write(buf.Bytes())
	return err
}

// DecodeJSON reads a JSON object of key → paragraphs and reconstructs the
// document preserving the object's key order, which encoding/json's map
// decoding would lose.
func DecodeJSON(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read object start: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}
	doc := &Document{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}
		var paragraphs []string
		if err := dec.Decode(&paragraphs); err != nil {
			return nil, fmt.Errorf("decode section %q: %w", key, err)
		}
		doc.AddSection(Section{Key: key, Paragraphs: paragraphs})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read object end: %w", err)
	}
	return doc, nil
}

func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func marshalIndented(v any, prefix string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
