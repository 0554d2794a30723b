package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexdrill/internal/progress"
	"github.com/abhisek/lexdrill/internal/session"
)

func flagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	addDrillFlags(c)
	if err := c.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return c
}

func TestBuildPlan_Flags(t *testing.T) {
	plan, err := buildPlan(flagCmd(t, "--tier", "2", "--items", "4, 7,9", "--dashboard", "--intro=false"))
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}
	if plan.Tier == nil || *plan.Tier != progress.TierTimed {
		t.Errorf("Tier = %v, want 2", plan.Tier)
	}
	if !reflect.DeepEqual(plan.ItemIDs, []int{4, 7, 9}) {
		t.Errorf("ItemIDs = %v, want [4 7 9]", plan.ItemIDs)
	}
	if plan.LaunchSource != session.LaunchDashboard {
		t.Errorf("LaunchSource = %q, want dashboard", plan.LaunchSource)
	}
	if plan.ForceIntro == nil || *plan.ForceIntro {
		t.Errorf("ForceIntro = %v, want false", plan.ForceIntro)
	}
}

func TestBuildPlan_Defaults(t *testing.T) {
	plan, err := buildPlan(flagCmd(t))
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}
	if plan.LaunchSource != session.LaunchDirect || plan.Tier != nil || plan.ItemIDs != nil || plan.ForceIntro != nil {
		t.Errorf("plan = %+v, want plain direct launch", plan)
	}
}

func TestBuildPlan_Errors(t *testing.T) {
	if _, err := buildPlan(flagCmd(t, "--tier", "4")); !errors.Is(err, session.ErrInvalidPlan) {
		t.Errorf("tier 4: err = %v, want ErrInvalidPlan", err)
	}
	if _, err := buildPlan(flagCmd(t, "--items", "1,x")); err == nil {
		t.Error("bad item id: want error")
	}
}

func TestBuildPlan_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := os.WriteFile(path, []byte(`{"tier": 3, "itemIds": [1, 2], "launchSource": "direct"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	plan, err := buildPlan(flagCmd(t, "--plan", path))
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}
	if plan.Tier == nil || *plan.Tier != progress.TierIsolation || len(plan.ItemIDs) != 2 {
		t.Errorf("plan = %+v", plan)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"tier": 2}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := buildPlan(flagCmd(t, "--plan", bad)); !errors.Is(err, session.ErrInvalidPlan) {
		t.Errorf("missing launchSource: err = %v, want ErrInvalidPlan", err)
	}
}

func TestPlanCommand(t *testing.T) {
	tests := []struct {
		plan session.Plan
		want string
	}{
		{session.TierPlan(session.LaunchDirect, progress.TierTimed, []int{3, 1}), "lexdrill drill --tier 2 --items 3,1"},
		{session.Plan{LaunchSource: session.LaunchDashboard}, "lexdrill drill --dashboard"},
	}
	for _, tt := range tests {
		if got := planCommand(tt.plan); got != tt.want {
			t.Errorf("planCommand() = %q, want %q", got, tt.want)
		}
	}
}

func TestPrintNext(t *testing.T) {
	next := &session.Action{
		Label: "Next batch",
		Plan:  session.Plan{ItemIDs: []int{5, 6}, LaunchSource: session.LaunchDashboard},
	}
	rec := &session.Recommendation{
		Primary:   session.Action{Plan: session.TierPlan(session.LaunchDashboard, progress.TierIsolation, []int{1, 2})},
		Secondary: next,
	}
	var buf bytes.Buffer
	printNext(&buf, rec)

	want := "\nNext: lexdrill drill --tier 3 --items 1,2 --dashboard\n" +
		"Or:   lexdrill drill --items 5,6 --dashboard\n"
	if got := buf.String(); got != want {
		t.Errorf("printNext() = %q, want %q", got, want)
	}

	buf.Reset()
	rec.Secondary = nil
	printNext(&buf, rec)
	if got := buf.String(); strings.Contains(got, "Or:") {
		t.Errorf("printNext() without secondary = %q", got)
	}

	buf.Reset()
	printNext(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("printNext(nil) wrote %q", buf.String())
	}
}
