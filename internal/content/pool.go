package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadPool reads a pool from a .json, .yaml or .yml file.
func LoadPool(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pool: %w", err)
	}

	var pool Pool
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &pool); err != nil {
			return nil, fmt.Errorf("parsing pool %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &pool); err != nil {
			return nil, fmt.Errorf("parsing pool %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported pool format %q", ext)
	}

	pool.addImplicitCategories()
	return &pool, nil
}

// WritePool writes a pool as indented JSON.
func WritePool(path string, pool *Pool) error {
	data, err := json.MarshalIndent(pool, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding pool: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing pool: %w", err)
	}
	return nil
}

// addImplicitCategories registers categories that items reference but the
// pool does not declare, keeping first-seen order.
func (p *Pool) addImplicitCategories() {
	known := make(map[string]bool, len(p.Categories))
	for _, c := range p.Categories {
		known[c.ID] = true
	}
	for _, it := range p.Items {
		if it.Category == "" || known[it.Category] {
			continue
		}
		known[it.Category] = true
		p.Categories = append(p.Categories, Category{
			ID:   it.Category,
			Name: it.Category,
			Quiz: QuizConfig{RequireAudio: true},
		})
	}
}
