package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/lexdrill/internal/metrics"
	"github.com/abhisek/lexdrill/internal/progress"
	"github.com/abhisek/lexdrill/internal/runner"
	"github.com/abhisek/lexdrill/internal/session"
)

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Start a drill session",
	Long: `Start an interactive drill session in the terminal.

Without flags the lowest tier with any items is drilled. --tier and --items
resume a specific batch; --plan reads a launch plan JSON file.`,
	RunE: runDrill,
}

func init() {
	addDrillFlags(drillCmd)
}

func addDrillFlags(cmd *cobra.Command) {
	cmd.Flags().Int("tier", 0, "Tier to drill (1-3)")
	cmd.Flags().String("items", "", "Comma-separated item ids to drill")
	cmd.Flags().String("plan", "", "Launch plan JSON file")
	cmd.Flags().Bool("dashboard", false, "Launch as from the dashboard (interleave categories)")
	cmd.Flags().Bool("intro", false, "Force the introduction sequence in tier 1")
}

// buildPlan turns the drill flags into a launch plan.
func buildPlan(cmd *cobra.Command) (*session.Plan, error) {
	if path, _ := cmd.Flags().GetString("plan"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read plan: %w", err)
		}
		return session.ParsePlan(data)
	}

	plan := &session.Plan{LaunchSource: session.LaunchDirect}
	if dash, _ := cmd.Flags().GetBool("dashboard"); dash {
		plan.LaunchSource = session.LaunchDashboard
	}
	if t, _ := cmd.Flags().GetInt("tier"); t != 0 {
		tier := progress.Tier(t)
		plan.Tier = &tier
	}
	if cmd.Flags().Changed("intro") {
		intro, _ := cmd.Flags().GetBool("intro")
		plan.ForceIntro = &intro
	}
	if raw, _ := cmd.Flags().GetString("items"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("invalid item id %q: %w", f, err)
			}
			plan.ItemIDs = append(plan.ItemIDs, id)
		}
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// runDrill opens the store, plans a session and drills it in the terminal.
func runDrill(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	plan, err := buildPlan(cmd)
	if err != nil {
		return err
	}
	norm, err := e.normalizer()
	if err != nil {
		return err
	}
	_, eligible, err := e.loadEligible(norm)
	if err != nil {
		return err
	}

	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	collector := metrics.New()
	planner := session.NewPlanner(st.ProgressRepo(), e.cfg.Scope, nil, e.logger)
	planner.BatchSize = e.cfg.Drill.BatchSize

	r := runner.New(runner.Options{
		In:         os.Stdin,
		Out:        os.Stdout,
		Store:      st.ProgressRepo(),
		Events:     st.EventRepo(),
		Metrics:    collector,
		Normalizer: norm,
		Planner:    planner,
		Timing:     runner.SequencerTiming(e.cfg.Timing),
		Logger:     e.logger,
	})

	out, err := r.Run(ctx, eligible, plan)
	if errors.Is(err, session.ErrNotReady) {
		return fmt.Errorf("cannot start: %w", err)
	}
	if errors.Is(err, context.Canceled) {
		fmt.Println("\nInterrupted.")
		return nil
	}
	if err != nil {
		return err
	}

	if err := collector.WriteTextfile(e.cfg.Metrics.Textfile); err != nil {
		e.logger.Warn("metrics export failed", zap.Error(err))
	}
	printNext(os.Stdout, out.Recommendation)
	return nil
}

// printNext writes the commands that launch the recommended sessions.
func printNext(w io.Writer, rec *session.Recommendation) {
	if rec == nil {
		return
	}
	fmt.Fprintf(w, "\nNext: %s\n", planCommand(rec.Primary.Plan))
	if rec.Secondary != nil {
		fmt.Fprintf(w, "Or:   %s\n", planCommand(rec.Secondary.Plan))
	}
}

// planCommand renders a plan as the drill invocation that launches it.
func planCommand(p session.Plan) string {
	parts := []string{"lexdrill drill"}
	if p.Tier != nil {
		parts = append(parts, fmt.Sprintf("--tier %d", *p.Tier))
	}
	if len(p.ItemIDs) > 0 {
		ids := make([]string, len(p.ItemIDs))
		for i, id := range p.ItemIDs {
			ids[i] = strconv.Itoa(id)
		}
		parts = append(parts, "--items "+strings.Join(ids, ","))
	}
	if p.LaunchSource == session.LaunchDashboard {
		parts = append(parts, "--dashboard")
	}
	return strings.Join(parts, " ")
}
