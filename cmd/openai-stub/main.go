// Command openai-stub is a tiny OpenAI-compatible chat completion server for
// offline runs of wikidigest. It answers every summarization request with a
// canned summary derived from the section text, and can simulate rate
// limiting via FAIL_FIRST to exercise the retry path manually.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func main() {
	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}
	// FAIL_FIRST=N makes the first N completion calls return HTTP 429.
	var failFirst int64
	if v := strings.TrimSpace(os.Getenv("FAIL_FIRST")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			failFirst = n
		}
	}
	var calls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if n := atomic.AddInt64(&calls, 1); n <= failFirst {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "rate limit exceeded", "type": "rate_limit_error"},
			})
			return
		}
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		user := ""
		if len(req.Messages) >= 2 {
			user = req.Messages[1].Content
		}
		content := "Summary: " + firstWords(sectionText(user), 12)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "stub",
			"object": "chat.completion",
			"model":  model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	})

	log.Printf("openai-stub listening on %s (model %s)", addr, model)
	log.Fatal(http.ListenAndServe(addr, mux))
}

// sectionText strips the instruction preamble from the user message,
// returning the embedded section text.
func sectionText(user string) string {
	if i := strings.Index(user, "\n\n"); i >= 0 {
		return strings.TrimSpace(user[i+2:])
	}
	return strings.TrimSpace(user)
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	out := strings.Join(fields, " ")
	if out == "" {
		out = "no content provided."
	}
	return out
}
