package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"formlens/internal/config"
)

// fakeGemini serves generateContent with a fixed reply and batchEmbedContents
// with one-hot vectors keyed by text length
type fakeGemini struct {
	reply      string
	status     int
	embedCalls atomic.Int32
	embedTexts atomic.Int32
	lastPrompt atomic.Value
	server     *httptest.Server
}

func newFakeGemini(t *testing.T, reply string) *fakeGemini {
	t.Helper()
	f := &fakeGemini{reply: reply, status: http.StatusOK}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGemini) config() *config.AIConfig {
	return &config.AIConfig{
		APIKey:          "test-key",
		BaseURL:         f.server.URL,
		EmbeddingModel:  "embed-test",
		GenerationModel: "gen-test",
		TimeoutMS:       2000,
	}
}

func (f *fakeGemini) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("key") != "test-key" {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	if f.status != http.StatusOK {
		w.WriteHeader(f.status)
		w.Write([]byte(`{"error":{"message":"unavailable"}}`))
		return
	}

	switch {
	case strings.HasSuffix(r.URL.Path, "/embed-test:batchEmbedContents"):
		var req struct {
			Requests []struct {
				Model   string        `json:"model"`
				Content geminiContent `json:"content"`
			} `json:"requests"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.embedCalls.Add(1)
		f.embedTexts.Add(int32(len(req.Requests)))

		type embedding struct {
			Values []float64 `json:"values"`
		}
		resp := struct {
			Embeddings []embedding `json:"embeddings"`
		}{}
		for _, item := range req.Requests {
			v := make([]float64, 128)
			v[len(item.Content.Parts[0].Text)%128] = 1
			resp.Embeddings = append(resp.Embeddings, embedding{Values: v})
		}
		json.NewEncoder(w).Encode(resp)

	case strings.HasSuffix(r.URL.Path, "/gen-test:generateContent"):
		var req struct {
			Contents []geminiContent `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.lastPrompt.Store(req.Contents[0].Parts[0].Text)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": geminiContent{Parts: []geminiPart{{Text: f.reply}}}},
			},
		})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
