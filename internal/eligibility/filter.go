// Package eligibility selects the study items usable in the gender drill.
package eligibility

import (
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/lexdrill/internal/content"
)

// DefaultPartOfSpeech is the tag items must carry when none is configured.
const DefaultPartOfSpeech = "noun"

// Filter decides which pool items qualify for the drill.
type Filter struct {
	PartOfSpeech string
	Normalizer   *Normalizer
	// Quiz holds per-category quiz configs; categories missing here use
	// DefaultQuiz.
	Quiz        map[string]content.QuizConfig
	DefaultQuiz content.QuizConfig
	Logger      *zap.Logger
}

// NewFilter builds a filter for pool using its category quiz configs.
func NewFilter(pool *content.Pool, partOfSpeech string, n *Normalizer, logger *zap.Logger) *Filter {
	if partOfSpeech == "" {
		partOfSpeech = DefaultPartOfSpeech
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filter{
		PartOfSpeech: partOfSpeech,
		Normalizer:   n,
		Quiz:         pool.QuizConfigs(),
		DefaultQuiz:  content.QuizConfig{RequireAudio: true},
		Logger:       logger,
	}
}

// Apply returns the qualifying items, deduplicated by id with the first
// occurrence kept. Each returned item's Attribute is rewritten to its
// canonical option.
func (f *Filter) Apply(items []content.Item) []content.Item {
	seen := make(map[int]bool, len(items))
	var out []content.Item
	for _, it := range items {
		if seen[it.ID] {
			continue
		}
		reason := f.reject(&it)
		if reason != "" {
			f.Logger.Debug("item not eligible",
				zap.Int("item_id", it.ID),
				zap.String("reason", reason))
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}

// reject returns why it does not qualify, or "" if it does. On success the
// item's attribute is replaced with the canonical option.
func (f *Filter) reject(it *content.Item) string {
	if !hasTag(it.PartOfSpeech, f.PartOfSpeech) {
		return "part of speech"
	}

	quiz, ok := f.Quiz[it.Category]
	if !ok {
		quiz = f.DefaultQuiz
	}
	if quiz.RequireImage && (!it.HasImage || it.Image == "") {
		return "missing image"
	}
	if quiz.RequireAudio && (!it.HasAudio || it.Audio.Isolation == "") {
		return "missing audio"
	}

	opt, ok := f.Normalizer.Normalize(it.Attribute)
	if !ok {
		return "attribute"
	}
	it.Attribute = opt
	return ""
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(strings.TrimSpace(t), want) {
			return true
		}
	}
	return false
}
