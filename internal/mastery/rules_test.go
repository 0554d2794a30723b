package mastery

import (
	"math/rand"
	"testing"

	"github.com/abhisek/lexdrill/internal/progress"
)

func timedItem(confidence int) progress.ItemProgress {
	p := progress.Default()
	p.Tier = progress.TierTimed
	p.Confidence = confidence
	return p
}

func TestTimed_ThreeQuickCorrectPromotes(t *testing.T) {
	p := timedItem(0)

	var last *Transition
	for i := 0; i < 3; i++ {
		last = ApplyTimed(1, &p, true, TimingBeforeCue)
	}

	if p.Confidence != 6 {
		t.Errorf("Confidence = %d, want 6", p.Confidence)
	}
	if p.QuickCorrectStreak != 3 {
		t.Errorf("QuickCorrectStreak = %d, want 3", p.QuickCorrectStreak)
	}
	if p.Tier != progress.TierIsolation {
		t.Errorf("Tier = %d, want 3", p.Tier)
	}
	if !last.Promoted() || last.Trigger != TriggerConfidenceRise {
		t.Errorf("last transition = %+v, want confidence-rise promotion", last)
	}
}

func TestTimed_TwoWrongDemotes(t *testing.T) {
	p := timedItem(0)

	if tr := ApplyTimed(1, &p, false, TimingNA); tr != nil {
		t.Fatalf("first miss should not transition, got %+v", tr)
	}
	tr := ApplyTimed(1, &p, false, TimingNA)

	if p.Tier != progress.TierRecognition {
		t.Errorf("Tier = %d, want 1", p.Tier)
	}
	if p.Confidence != -2 {
		t.Errorf("Confidence = %d, want -2", p.Confidence)
	}
	if !tr.Demoted() {
		t.Errorf("expected demotion, got %+v", tr)
	}
}

func TestTimed_AfterCueResetsQuickStreak(t *testing.T) {
	p := timedItem(4)
	ApplyTimed(1, &p, true, TimingBeforeCue)
	if p.QuickCorrectStreak != 1 {
		t.Fatalf("QuickCorrectStreak = %d, want 1", p.QuickCorrectStreak)
	}

	ApplyTimed(1, &p, true, TimingAfterCue)
	if p.Confidence != 7 {
		t.Errorf("Confidence = %d, want 7", p.Confidence)
	}
	if p.QuickCorrectStreak != 0 {
		t.Errorf("QuickCorrectStreak = %d, want 0", p.QuickCorrectStreak)
	}
	if p.Tier != progress.TierTimed {
		t.Errorf("Tier = %d, want 2 without a quick streak", p.Tier)
	}
}

func TestTimed_NoCueScoresAsAfterCue(t *testing.T) {
	p := timedItem(0)
	ApplyTimed(1, &p, true, TimingNA)
	if p.Confidence != 1 || p.QuickCorrectStreak != 0 {
		t.Errorf("got confidence %d streak %d, want 1 and 0", p.Confidence, p.QuickCorrectStreak)
	}
}

func TestIsolation_WrongBelowThresholdDemotes(t *testing.T) {
	p := progress.Default()
	p.Tier = progress.TierIsolation
	p.Confidence = 4

	if tr := ApplyIsolation(1, &p, false); tr == nil {
		t.Fatalf("expected demotion, tier=%d", p.Tier)
	} else if tr.To != progress.TierTimed {
		t.Errorf("To = %d, want 2", tr.To)
	}
	if p.Confidence != 2 {
		t.Errorf("Confidence = %d, want 2", p.Confidence)
	}
}

func TestIsolation_WrongAboveThresholdStays(t *testing.T) {
	p := progress.Default()
	p.Tier = progress.TierIsolation
	p.Confidence = 6

	if tr := ApplyIsolation(1, &p, false); tr != nil {
		t.Errorf("unexpected transition %+v", tr)
	}
	if p.Confidence != 3 || p.Tier != progress.TierIsolation {
		t.Errorf("got tier %d confidence %d, want 3 and 3", p.Tier, p.Confidence)
	}

	ApplyIsolation(1, &p, true)
	if p.Confidence != 4 {
		t.Errorf("Confidence = %d, want 4", p.Confidence)
	}
}

func TestRecognitionPass(t *testing.T) {
	p := progress.Default()
	p.Confidence = -2
	tr := RecordRecognitionPass(1, &p)
	if tr == nil || tr.From != progress.TierRecognition || tr.To != progress.TierTimed {
		t.Fatalf("transition = %+v, want 1->2", tr)
	}
	if p.Confidence != 0 {
		t.Errorf("Confidence = %d, want 0", p.Confidence)
	}

	if tr := RecordRecognitionPass(1, &p); tr != nil {
		t.Errorf("second pass should be a no-op, got %+v", tr)
	}
}

func TestDemote(t *testing.T) {
	tests := []struct {
		from     progress.Tier
		wantTier progress.Tier
		wantConf int
		wantNil  bool
	}{
		{progress.TierIsolation, progress.TierTimed, 2, false},
		{progress.TierTimed, progress.TierRecognition, -2, false},
		{progress.TierRecognition, progress.TierRecognition, 5, true},
	}
	for _, tt := range tests {
		p := progress.Default()
		p.Tier = tt.from
		p.Confidence = 5
		p.QuickCorrectStreak = 2
		tr := Demote(7, &p, TriggerCategoryPressure)
		if (tr == nil) != tt.wantNil {
			t.Errorf("Demote(tier %d) transition = %+v, wantNil %v", tt.from, tr, tt.wantNil)
		}
		if p.Tier != tt.wantTier || p.Confidence != tt.wantConf {
			t.Errorf("Demote(tier %d) = tier %d conf %d, want tier %d conf %d",
				tt.from, p.Tier, p.Confidence, tt.wantTier, tt.wantConf)
		}
		if tr != nil && tr.Trigger != TriggerCategoryPressure {
			t.Errorf("Trigger = %s, want %s", tr.Trigger, TriggerCategoryPressure)
		}
	}
}

func TestApply_ConfidenceStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	timings := []Timing{TimingBeforeCue, TimingAfterCue, TimingNA}

	for run := 0; run < 50; run++ {
		p := progress.Default()
		p.Tier = progress.Tier(rng.Intn(3) + 1)
		for i := 0; i < 200; i++ {
			drilled := progress.Tier(rng.Intn(3) + 1)
			Apply(1, drilled, &p, rng.Intn(2) == 0, timings[rng.Intn(len(timings))])
			if rng.Intn(10) == 0 {
				Demote(1, &p, TriggerRepeatedMiss)
			}
			if p.Confidence < progress.MinConfidence || p.Confidence > progress.MaxConfidence {
				t.Fatalf("run %d step %d: confidence %d out of bounds", run, i, p.Confidence)
			}
			if !p.Tier.Valid() {
				t.Fatalf("run %d step %d: invalid tier %d", run, i, p.Tier)
			}
		}
	}
}
