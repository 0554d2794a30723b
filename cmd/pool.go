package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Inspect the item pool",
}

var poolListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories with their item and eligible counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
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

		total := make(map[string]int)
		for _, it := range pool.Items {
			total[it.Category]++
		}
		ok := make(map[string]int)
		for _, it := range eligible {
			ok[it.Category]++
		}

		fmt.Printf("%-16s  %-24s  %6s  %8s  %s\n", "ID", "Name", "Items", "Eligible", "Needs")
		fmt.Println(strings.Repeat("─", 72))
		for _, c := range pool.Categories {
			var needs []string
			if c.Quiz.RequireAudio {
				needs = append(needs, "audio")
			}
			if c.Quiz.RequireImage {
				needs = append(needs, "image")
			}
			fmt.Printf("%-16s  %-24s  %6d  %8d  %s\n",
				c.ID, pool.CategoryName(c.ID), total[c.ID], ok[c.ID], strings.Join(needs, ","))
		}
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%d of %d items eligible (options: %s)\n",
			len(eligible), len(pool.Items), strings.Join(norm.Options(), ", "))
		return nil
	},
}

func init() {
	poolCmd.AddCommand(poolListCmd)
}
