package cmd

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexdrill/internal/progress"
	"github.com/abhisek/lexdrill/internal/session"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview the batch a drill would start with (no answers recorded)",
	Long: `Plan a session exactly as drill would and print the tier and batch.

Nothing is written to the database. Accepts the same flags as drill; --json
prints the plan that relaunches this batch.`,
	RunE: runPlan,
}

func init() {
	addDrillFlags(planCmd)
	planCmd.Flags().Bool("json", false, "Print the resume plan as JSON")
	planCmd.Flags().Int64("seed", 0, "Shuffle seed (0 = random)")
}

func runPlan(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	plan, err := buildPlan(cmd)
	if err != nil {
		return err
	}
	norm, err := e.normalizer()
	if err != nil {
		return err
	}
	pool, eligible, err := e.loadEligible(norm)
	if err != nil {
		return err
	}

	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var rng session.Rand
	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}
	planner := session.NewPlanner(st.ProgressRepo(), e.cfg.Scope, rng, e.logger)
	planner.BatchSize = e.cfg.Drill.BatchSize

	state, err := planner.Start(cmd.Context(), eligible, plan)
	if err != nil {
		return fmt.Errorf("cannot start: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		resume := session.TierPlan(state.Source, state.Tier, state.Active)
		data, err := json.MarshalIndent(resume, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Scope: %s  Tier: %d  Eligible: %d of %d  Batch: %d\n",
		e.cfg.Scope, state.Tier, len(eligible), len(pool.Items), len(state.Active))
	if len(state.PendingIntro) > 0 {
		fmt.Printf("Starts with an introduction of %d items.\n", len(state.PendingIntro))
	}
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("%-6s  %-24s  %-12s  %-16s  %s\n", "ID", "Text", "Attribute", "Category", "Conf")

	for _, it := range state.ActiveItems() {
		p, err := st.ProgressRepo().Get(cmd.Context(), e.cfg.Scope, it.ID)
		if err != nil {
			return err
		}
		conf := "-"
		if p.Tier != progress.TierRecognition {
			conf = fmt.Sprintf("%d", p.Confidence)
		}
		fmt.Printf("%-6d  %-24s  %-12s  %-16s  %s\n",
			it.ID, it.Text, it.Attribute, pool.CategoryName(it.Category), conf)
	}
	return nil
}
