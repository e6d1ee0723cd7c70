package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/wikidigest/internal/article"
)

// Artifact file names under DataDir. The JSON dump is the section mapping
// consumed by other tools; the text file is a human-readable rendering.
const (
	rawTextArtifact = "raw_wiki_content.txt"
	rawJSONArtifact = "raw_wiki_content.json"
)

// writeArtifacts persists the extracted document under DataDir. An empty
// DataDir disables artifact writing.
func (a *App) writeArtifacts(doc *article.Document) error {
	dir := a.cfg.DataDir
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir data dir: %w", err)
	}

	txtPath := filepath.Join(dir, rawTextArtifact)
	if err := os.WriteFile(txtPath, []byte(article.RenderText(doc)), 0o644); err != nil {
		return fmt.Errorf("write text artifact: %w", err)
	}

	var buf bytes.Buffer
	if err := article.EncodeJSON(&buf, doc); err != nil {
		return fmt.Errorf("encode JSON artifact: %w", err)
	}
	jsonPath := filepath.Join(dir, rawJSONArtifact)
	if err := os.WriteFile(jsonPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write JSON artifact: %w", err)
	}

	log.Debug().Str("text", txtPath).Str("json", jsonPath).Msg("wrote content artifacts")
	return nil
}
