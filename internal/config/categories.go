package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var defaultCategories []byte

// Category maps a form category to its fallback questions
type Category struct {
	Name      string   `yaml:"name" json:"name"`
	Questions []string `yaml:"questions" json:"questions"`
}

// CategoryTable is the enumerated category -> fallback template table
type CategoryTable struct {
	Default    []string   `yaml:"default" json:"default"`
	Categories []Category `yaml:"categories" json:"categories"`
}

// LoadCategories reads the table from path, or the embedded default when path is empty
func LoadCategories(path string) (*CategoryTable, error) {
	data := defaultCategories
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading categories file: %w", err)
		}
		data = b
	}
	return ParseCategories(data)
}

// ParseCategories decodes a YAML category table. A table without a default entry is rejected.
func ParseCategories(data []byte) (*CategoryTable, error) {
	var table CategoryTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing categories: %w", err)
	}
	if len(table.Default) == 0 {
		return nil, fmt.Errorf("categories: default entry is required")
	}
	return &table, nil
}

// DefaultCategories returns the embedded table
func DefaultCategories() *CategoryTable {
	table, err := ParseCategories(defaultCategories)
	if err != nil {
		panic(err) // embedded file is part of the build
	}
	return table
}

// Fallback returns the questions for category, or the default entry
func (t *CategoryTable) Fallback(category string) []string {
	key := strings.TrimSpace(category)
	for _, c := range t.Categories {
		if strings.EqualFold(c.Name, key) {
			return append([]string(nil), c.Questions...)
		}
	}
	return append([]string(nil), t.Default...)
}

// Names lists the configured category names in file order
func (t *CategoryTable) Names() []string {
	names := make([]string, 0, len(t.Categories))
	for _, c := range t.Categories {
		names = append(names, c.Name)
	}
	return names
}
