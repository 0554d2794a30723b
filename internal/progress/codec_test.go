package progress

import (
	"context"
	"testing"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	in := ItemProgress{
		Tier:               TierTimed,
		Confidence:         -3,
		Introduced:         true,
		QuickCorrectStreak: 2,
		Tiers:              [3]TierCounts{{Pass: 4, Fail: 1}, {Pass: 2, Fail: 3}, {}},
		DontKnowCount:      1,
		SeenTotal:          11,
		LastCategory:       "kitchen",
		UpdatedAt:          1760000000123,
	}

	data, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, problems := Decode(data)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestDecode_MalformedFieldsFallBackToDefaults(t *testing.T) {
	data := []byte(`{
		"tier": 7,
		"confidence": "high",
		"introduced": true,
		"quick_correct_streak": -1,
		"tiers": [{"pass": 1, "fail": 0}, {"pass": -2, "fail": 0}, {"pass": 0, "fail": 5}],
		"seen_total": 3.5,
		"last_category": "animals",
		"updated_at": 42
	}`)

	p, problems := Decode(data)

	if p.Tier != TierRecognition {
		t.Errorf("Tier = %d, want %d", p.Tier, TierRecognition)
	}
	if p.Confidence != 0 {
		t.Errorf("Confidence = %d, want 0", p.Confidence)
	}
	if !p.Introduced {
		t.Error("Introduced should survive")
	}
	if p.QuickCorrectStreak != 0 {
		t.Errorf("QuickCorrectStreak = %d, want 0", p.QuickCorrectStreak)
	}
	if p.Tiers[0].Pass != 1 || p.Tiers[1].Pass != 0 || p.Tiers[2].Fail != 5 {
		t.Errorf("Tiers = %+v", p.Tiers)
	}
	if p.SeenTotal != 0 {
		t.Errorf("SeenTotal = %d, want 0", p.SeenTotal)
	}
	if p.LastCategory != "animals" {
		t.Errorf("LastCategory = %q, want animals", p.LastCategory)
	}
	if p.UpdatedAt != 42 {
		t.Errorf("UpdatedAt = %d, want 42", p.UpdatedAt)
	}

	fields := make(map[string]bool)
	for _, fe := range problems {
		fields[fe.Field] = true
	}
	for _, want := range []string{"tier", "confidence", "quick_correct_streak", "tiers[1]", "seen_total"} {
		if !fields[want] {
			t.Errorf("expected problem for %q, got %v", want, problems)
		}
	}
}

func TestDecode_NotAnObject(t *testing.T) {
	for _, in := range []string{``, `null`, `[1,2]`, `"x"`} {
		p, problems := Decode([]byte(in))
		if p != Default() {
			t.Errorf("Decode(%q) = %+v, want default", in, p)
		}
		if len(problems) != 1 || problems[0].Field != "*" {
			t.Errorf("Decode(%q) problems = %v, want one for *", in, problems)
		}
	}
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-20, MinConfidence},
		{-8, -8},
		{0, 0},
		{12, 12},
		{13, MaxConfidence},
	}
	for _, tt := range tests {
		p := ItemProgress{Confidence: tt.in}
		p.ClampConfidence()
		if p.Confidence != tt.want {
			t.Errorf("clamp(%d) = %d, want %d", tt.in, p.Confidence, tt.want)
		}
	}
}

func TestMemoryStore_DefaultsAndCorruptRecords(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p, err := s.Get(ctx, "set-a", 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p != Default() {
		t.Errorf("missing record = %+v, want default", p)
	}

	want := Default()
	want.SeenTotal = 2
	if err := s.Set(ctx, "set-a", 1, want); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := s.Get(ctx, "set-b", 1); got != Default() {
		t.Errorf("scopes must not leak: %+v", got)
	}
	if got, _ := s.Get(ctx, "set-a", 1); got != want {
		t.Errorf("get = %+v, want %+v", got, want)
	}

	s.PutRaw("set-a", 2, []byte(`{"tier": 3, "confidence": 99}`))
	got, err := s.Get(ctx, "set-a", 2)
	if err != nil {
		t.Fatalf("get corrupt: %v", err)
	}
	if got.Tier != TierIsolation || got.Confidence != 0 {
		t.Errorf("corrupt record = %+v, want tier 3 confidence 0", got)
	}
}
