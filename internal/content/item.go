// Package content describes the study items supplied by the surrounding
// platform and loads them from pool files or spreadsheets.
package content

// Audio holds the two clip references recorded for an item.
type Audio struct {
	// Isolation is the bare word.
	Isolation string `json:"isolation,omitempty" yaml:"isolation,omitempty"`
	// Context is the word inside a carrier phrase that reveals the attribute.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}

// Item is one immutable study item.
type Item struct {
	ID           int      `json:"id" yaml:"id"`
	Text         string   `json:"text" yaml:"text"`
	Image        string   `json:"image,omitempty" yaml:"image,omitempty"`
	Audio        Audio    `json:"audio" yaml:"audio"`
	Attribute    string   `json:"attribute" yaml:"attribute"`
	Category     string   `json:"category" yaml:"category"`
	PartOfSpeech []string `json:"part_of_speech" yaml:"part_of_speech"`
	HasImage     bool     `json:"has_image" yaml:"has_image"`
	HasAudio     bool     `json:"has_audio" yaml:"has_audio"`
}

// QuizConfig lists the assets a category's quiz needs.
type QuizConfig struct {
	RequireImage bool `json:"require_image" yaml:"require_image"`
	RequireAudio bool `json:"require_audio" yaml:"require_audio"`
}

// Category groups items and carries the quiz configuration for them.
type Category struct {
	ID   string     `json:"id" yaml:"id"`
	Name string     `json:"name" yaml:"name"`
	Quiz QuizConfig `json:"quiz" yaml:"quiz"`
}

// Pool is the full item list handed to a session.
type Pool struct {
	Categories []Category `json:"categories" yaml:"categories"`
	Items      []Item     `json:"items" yaml:"items"`
}

// Category returns the category with the given id.
func (p *Pool) Category(id string) (Category, bool) {
	for _, c := range p.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// QuizConfigs indexes category quiz configs by category id.
func (p *Pool) QuizConfigs() map[string]QuizConfig {
	m := make(map[string]QuizConfig, len(p.Categories))
	for _, c := range p.Categories {
		m[c.ID] = c.Quiz
	}
	return m
}

// CategoryName returns the display name for a category id, falling back
// to the id itself.
func (p *Pool) CategoryName(id string) string {
	if c, ok := p.Category(id); ok && c.Name != "" {
		return c.Name
	}
	return id
}
