package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexdrill/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		item, _ := cmd.Flags().GetInt("item")
		sessionID, _ := cmd.Flags().GetString("session")

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		s, err := e.openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().Answers(cmd.Context(), store.EventQuery{
			Scope:     e.cfg.Scope,
			SessionID: sessionID,
			ItemID:    item,
			Limit:     limit,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No answers recorded.")
			return nil
		}

		// Header.
		fmt.Printf("%-6s  %-19s  %-8s  %-6s  %-6s  %-10s  %-5s  %s\n",
			"Seq", "Timestamp", "Session", "Item", "Tier", "Timing", "Conf", "OK")
		fmt.Println(strings.Repeat("─", 80))

		for _, ev := range events {
			ok := "✓"
			switch {
			case ev.DontKnow:
				ok = "?"
			case !ev.Correct:
				ok = "✗"
			}
			sid := ev.SessionID
			if len(sid) > 8 {
				sid = sid[:8]
			}
			tier := fmt.Sprintf("%d", ev.DrilledTier)
			if ev.TierSnapshot != ev.DrilledTier {
				tier = fmt.Sprintf("%d→%d", ev.DrilledTier, ev.TierSnapshot)
			}
			fmt.Printf("%-6d  %-19s  %-8s  %-6d  %-6s  %-10s  %-5d  %s\n",
				ev.Sequence,
				ev.At.Local().Format("2006-01-02 15:04:05"),
				sid,
				ev.ItemID,
				tier,
				ev.Timing,
				ev.Confidence,
				ok,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of answers to show")
	historyCmd.Flags().Int("item", 0, "Only show answers for this item id")
	historyCmd.Flags().String("session", "", "Only show answers from this session id")
}
