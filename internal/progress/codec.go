package progress

import (
	"encoding/json"
	"fmt"
	"math"
)

// FieldError reports one malformed field that was replaced by its default
// while decoding a stored record.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("progress field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Encode serializes a record for durable storage.
func Encode(p ItemProgress) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode progress: %w", err)
	}
	return b, nil
}

// Decode parses a stored record field by field. Fields that are missing,
// of the wrong type, or out of range fall back to their defaults and are
// reported in the returned slice; Decode itself never fails. A payload that
// is not a JSON object yields Default() and a single FieldError for "*".
func Decode(data []byte) (ItemProgress, []*FieldError) {
	p := Default()

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		if err == nil {
			err = fmt.Errorf("not an object")
		}
		return p, []*FieldError{{Field: "*", Err: err}}
	}

	var problems []*FieldError
	report := func(field string, err error) {
		problems = append(problems, &FieldError{Field: field, Err: err})
	}

	if v, ok := raw["tier"]; ok {
		n, err := decodeInt(v)
		switch {
		case err != nil:
			report("tier", err)
		case !Tier(n).Valid():
			report("tier", fmt.Errorf("out of range: %d", n))
		default:
			p.Tier = Tier(n)
		}
	}

	if v, ok := raw["confidence"]; ok {
		n, err := decodeInt(v)
		switch {
		case err != nil:
			report("confidence", err)
		case n < MinConfidence || n > MaxConfidence:
			report("confidence", fmt.Errorf("out of range: %d", n))
		default:
			p.Confidence = n
		}
	}

	if v, ok := raw["introduced"]; ok {
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			report("introduced", err)
		} else {
			p.Introduced = b
		}
	}

	decodeCount(raw, "quick_correct_streak", &p.QuickCorrectStreak, report)
	decodeCount(raw, "dont_know_count", &p.DontKnowCount, report)
	decodeCount(raw, "seen_total", &p.SeenTotal, report)

	if v, ok := raw["tiers"]; ok {
		var tiers []TierCounts
		switch err := json.Unmarshal(v, &tiers); {
		case err != nil:
			report("tiers", err)
		case len(tiers) != len(p.Tiers):
			report("tiers", fmt.Errorf("want %d entries, got %d", len(p.Tiers), len(tiers)))
		default:
			for i, c := range tiers {
				if c.Pass < 0 || c.Fail < 0 {
					report(fmt.Sprintf("tiers[%d]", i), fmt.Errorf("negative counter"))
					continue
				}
				p.Tiers[i] = c
			}
		}
	}

	if v, ok := raw["last_category"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			report("last_category", err)
		} else {
			p.LastCategory = s
		}
	}

	if v, ok := raw["updated_at"]; ok {
		var ts float64
		switch err := json.Unmarshal(v, &ts); {
		case err != nil:
			report("updated_at", err)
		case ts < 0 || ts != math.Trunc(ts):
			report("updated_at", fmt.Errorf("invalid timestamp: %v", ts))
		default:
			p.UpdatedAt = int64(ts)
		}
	}

	return p, problems
}

func decodeCount(raw map[string]json.RawMessage, field string, dst *int, report func(string, error)) {
	v, ok := raw[field]
	if !ok {
		return
	}
	n, err := decodeInt(v)
	switch {
	case err != nil:
		report(field, err)
	case n < 0:
		report(field, fmt.Errorf("negative: %d", n))
	default:
		*dst = n
	}
}

// decodeInt accepts JSON numbers with no fractional part.
func decodeInt(v json.RawMessage) (int, error) {
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %v", f)
	}
	return int(f), nil
}
