package config

// AIConfig holds the Gemini settings for the embedding and suggestion services
type AIConfig struct {
	APIKey  string `mapstructure:"api_key" json:"-"` // Never serialize
	BaseURL string `mapstructure:"base_url" json:"baseUrl"`

	// EmbeddingModel backs the similarity service (redundancy detection)
	EmbeddingModel string `mapstructure:"embedding_model" json:"embeddingModel"`

	// GenerationModel backs question suggestions and intent classification
	GenerationModel string `mapstructure:"generation_model" json:"generationModel"`

	// TimeoutMS applies to generation calls only
	TimeoutMS int `mapstructure:"timeout_ms" json:"timeoutMs"`
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a model method, e.g. "generateContent"
func (c *AIConfig) ModelEndpoint(model, method string) string {
	return c.BaseURL + "/" + model + ":" + method
}
