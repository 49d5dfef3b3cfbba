// Package discovery implements the catalog-driven product discovery pipeline
// executed by the gateway for each run.
package discovery

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// CatalogPage is one known competitor page in the catalog.
type CatalogPage struct {
	URL        string   `json:"url"`
	Title      string   `json:"title,omitempty"`
	Snippet    string   `json:"snippet,omitempty"`
	Categories []string `json:"categories,omitempty"`
	PDF        bool     `json:"pdf,omitempty"`
}

// Competitor is one brand entry in the competitor catalog.
type Competitor struct {
	BrandKey    string        `json:"brand_key"`
	DisplayName string        `json:"display_name,omitempty"`
	Aliases     []string      `json:"aliases,omitempty"`
	Pages       []CatalogPage `json:"pages,omitempty"`
}

// LoadCompetitors reads the competitor catalog from path. The file may be
// either a bare array of competitors or an object with a "competitors" key.
func LoadCompetitors(path string) ([]Competitor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read competitor catalog: %w", err)
	}

	var wrapper struct {
		Competitors []Competitor `json:"competitors"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Competitors != nil {
		return wrapper.Competitors, nil
	}

	var list []Competitor
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse competitor catalog: %w", err)
	}
	return list, nil
}

// PreferredBrands returns the default preferred brand names: display name
// when present, brand key otherwise, deduplicated in catalog order.
func PreferredBrands(competitors []Competitor) []string {
	var names []string
	seen := make(map[string]bool)
	for _, comp := range competitors {
		name := strings.TrimSpace(comp.DisplayName)
		if name == "" {
			name = strings.TrimSpace(comp.BrandKey)
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// NormalizeBrandKey lowercases text and strips everything but letters and
// digits, matching how brand keys are stored in the catalog.
func NormalizeBrandKey(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// InferBrandKey scans title, snippet and URL for a known brand alias and
// returns the matching brand key, or "" when no alias matches.
func InferBrandKey(title, snippet, url string, competitors []Competitor) string {
	haystack := strings.ToLower(title + " " + snippet + " " + url)
	for _, comp := range competitors {
		key := strings.TrimSpace(comp.BrandKey)
		if key == "" {
			continue
		}
		for _, alias := range comp.Aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias != "" && strings.Contains(haystack, alias) {
				return key
			}
		}
	}
	return ""
}
