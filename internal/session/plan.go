package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/lexdrill/internal/progress"
)

// LaunchSource records where a session was started from.
type LaunchSource string

const (
	LaunchDirect    LaunchSource = "direct"
	LaunchDashboard LaunchSource = "dashboard"
)

// Plan is the optional resume plan supplied by the launching page.
type Plan struct {
	Tier         *progress.Tier `json:"tier,omitempty"`
	ItemIDs      []int          `json:"itemIds,omitempty"`
	LaunchSource LaunchSource   `json:"launchSource"`
	ForceIntro   *bool          `json:"forceIntro,omitempty"`
}

// TierPlan returns a plan pinned to tier t over ids.
func TierPlan(source LaunchSource, t progress.Tier, ids []int) Plan {
	return Plan{Tier: &t, ItemIDs: append([]int(nil), ids...), LaunchSource: source}
}

// Validate checks a programmatically built plan.
func (p *Plan) Validate() error {
	switch p.LaunchSource {
	case LaunchDirect, LaunchDashboard:
	default:
		return fmt.Errorf("%w: launch source %q", ErrInvalidPlan, p.LaunchSource)
	}
	if p.Tier != nil && !p.Tier.Valid() {
		return fmt.Errorf("%w: tier %d", ErrInvalidPlan, *p.Tier)
	}
	return nil
}

const planSchema = `{
	"type": "object",
	"properties": {
		"tier": {"type": "integer", "enum": [1, 2, 3]},
		"itemIds": {"type": "array", "items": {"type": "integer"}},
		"launchSource": {"enum": ["direct", "dashboard"]},
		"forceIntro": {"type": "boolean"}
	},
	"required": ["launchSource"],
	"additionalProperties": false
}`

var (
	planSchemaOnce     sync.Once
	planSchemaCompiled *jsonschema.Schema
	planSchemaErr      error
)

func compiledPlanSchema() (*jsonschema.Schema, error) {
	planSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(planSchema))
		if err != nil {
			planSchemaErr = fmt.Errorf("parse plan schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://plan.json", doc); err != nil {
			planSchemaErr = fmt.Errorf("add plan schema: %w", err)
			return
		}
		planSchemaCompiled, planSchemaErr = c.Compile("schema://plan.json")
	})
	return planSchemaCompiled, planSchemaErr
}

// ParsePlan validates raw plan JSON against the plan schema and decodes it.
func ParsePlan(data []byte) (*Plan, error) {
	schema, err := compiledPlanSchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}

	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	return &plan, nil
}
