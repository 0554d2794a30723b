package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexdrill/internal/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show tier distribution and accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		st, err := e.openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		scopes := []string{e.cfg.Scope}
		if all, _ := cmd.Flags().GetBool("all"); all {
			scopes, err = st.ProgressRepo().Scopes(ctx)
			if err != nil {
				return err
			}
		}
		if len(scopes) == 0 {
			fmt.Println("No progress recorded yet.")
			return nil
		}

		fmt.Printf("%-20s  %8s  %8s  %8s  %8s  %8s\n",
			"Scope", "Tier 1", "Tier 2", "Tier 3", "Answers", "Accuracy")
		fmt.Println(strings.Repeat("─", 72))

		for _, scope := range scopes {
			counts, err := st.ProgressRepo().TierCounts(ctx, scope)
			if err != nil {
				return err
			}
			total, correct, err := st.EventRepo().Accuracy(ctx, scope)
			if err != nil {
				return err
			}
			acc := "-"
			if total > 0 {
				acc = fmt.Sprintf("%.0f%%", 100*float64(correct)/float64(total))
			}
			fmt.Printf("%-20s  %8d  %8d  %8d  %8d  %8s\n", scope,
				counts[progress.TierRecognition], counts[progress.TierTimed], counts[progress.TierIsolation],
				total, acc)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("all", false, "Show every scope in the database")
}
