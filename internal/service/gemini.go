package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"formlens/internal/config"
)

// geminiClient speaks the Gemini REST API for text generation and embeddings
type geminiClient struct {
	config *config.AIConfig
	client *http.Client
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// generate returns the first candidate's text for prompt
func (c *geminiClient) generate(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	var geminiResp struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
	}
	if err := c.post(ctx, c.config.ModelEndpoint(modelName, "generateContent"), reqBody, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", fmt.Errorf("empty response from Gemini")
}

// batchEmbed returns one embedding per text, in order
func (c *geminiClient) batchEmbed(ctx context.Context, modelName string, texts []string) ([][]float64, error) {
	type embedRequest struct {
		Model   string        `json:"model"`
		Content geminiContent `json:"content"`
	}
	requests := make([]embedRequest, 0, len(texts))
	for _, t := range texts {
		requests = append(requests, embedRequest{
			Model:   "models/" + modelName,
			Content: geminiContent{Parts: []geminiPart{{Text: t}}},
		})
	}

	var embedResp struct {
		Embeddings []struct {
			Values []float64 `json:"values"`
		} `json:"embeddings"`
	}
	body := map[string]interface{}{"requests": requests}
	if err := c.post(ctx, c.config.ModelEndpoint(modelName, "batchEmbedContents"), body, &embedResp); err != nil {
		return nil, err
	}

	if len(embedResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d embeddings for %d texts", len(embedResp.Embeddings), len(texts))
	}
	vectors := make([][]float64, 0, len(texts))
	for _, e := range embedResp.Embeddings {
		vectors = append(vectors, e.Values)
	}
	return vectors, nil
}

func (c *geminiClient) post(ctx context.Context, endpoint string, reqBody, out interface{}) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s?key=%s", endpoint, c.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return json.Unmarshal(body, out)
}

// truncate keeps at most n runes of s
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
