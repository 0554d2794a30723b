package eligibility

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/lexdrill/internal/content"
)

func noun(id int, attr, category string) content.Item {
	return content.Item{
		ID:           id,
		Text:         "word",
		Attribute:    attr,
		Category:     category,
		PartOfSpeech: []string{"Noun"},
		Audio:        content.Audio{Isolation: "iso.mp3", Context: "ctx.mp3"},
		HasAudio:     true,
	}
}

func TestNormalize(t *testing.T) {
	n, err := NewNormalizer([]string{"masculine", "feminine", "neuter"}, map[string]string{"n": "neuter", "das": "Neuter"})
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"masculine", "masculine", true},
		{"  MASC. ", "masculine", true},
		{"Masculino", "masculine", true},
		{"Féminin", "feminine", true},
		{"F", "feminine", true},
		{"die", "feminine", true},
		{"Neuter", "neuter", true},
		{"das", "neuter", true},
		{"n", "neuter", true},
		{"common", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := n.Normalize(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Normalize(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewNormalizer_Errors(t *testing.T) {
	if _, err := NewNormalizer([]string{"a", "A"}, nil); err == nil {
		t.Error("expected duplicate option error")
	}
	if _, err := NewNormalizer(nil, map[string]string{"x": "neuter"}); err == nil {
		t.Error("expected unknown alias target error")
	}
	n, err := NewNormalizer(nil, nil)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if got := n.Options(); len(got) != 2 || got[0] != "masculine" {
		t.Errorf("Options = %v, want defaults", got)
	}
}

func TestFilter_Apply(t *testing.T) {
	n, _ := NewNormalizer(nil, nil)
	pool := &content.Pool{
		Categories: []content.Category{
			{ID: "pics", Quiz: content.QuizConfig{RequireImage: true}},
			{ID: "sounds", Quiz: content.QuizConfig{RequireAudio: true}},
		},
	}

	core, logs := observer.New(zapcore.DebugLevel)
	f := NewFilter(pool, "", n, zap.New(core))

	verb := noun(3, "m", "sounds")
	verb.PartOfSpeech = []string{"verb"}

	noImage := noun(4, "m", "pics")

	withImage := noun(5, "Fem", "pics")
	withImage.Image = "img.png"
	withImage.HasImage = true
	withImage.HasAudio = false

	noAudio := noun(6, "m", "sounds")
	noAudio.Audio.Isolation = ""

	badAttr := noun(7, "plural", "sounds")

	uncategorized := noun(8, "masculine", "elsewhere")
	uncategorized.HasAudio = false

	items := []content.Item{
		noun(1, "masc", "sounds"),
		noun(2, "f", "sounds"),
		noun(1, "feminine", "sounds"), // duplicate id
		verb, noImage, withImage, noAudio, badAttr, uncategorized,
	}

	got := f.Apply(items)

	wantIDs := []int{1, 2, 5}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d items, want %d: %+v", len(got), len(wantIDs), got)
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("item %d id = %d, want %d", i, got[i].ID, id)
		}
	}
	if got[0].Attribute != "masculine" {
		t.Errorf("first item attribute = %q, want canonical masculine", got[0].Attribute)
	}
	if got[2].Attribute != "feminine" {
		t.Errorf("image item attribute = %q, want feminine", got[2].Attribute)
	}

	if n := logs.FilterMessage("item not eligible").Len(); n != 5 {
		t.Errorf("logged %d rejections, want 5", n)
	}
}
