package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lexdrill",
	Short: "Adaptive grammatical-gender drill",
	Long: "lexdrill drills the grammatical gender of vocabulary in three tiers: " +
		"recognition with full audio, timed answers against a contextual cue, and isolation.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDrill(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/lexdrill/config.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides LEXDRILL_DB env var)")
	pf.String("scope", "", "Study set progress is stored under")
	pf.String("pool", "", "Item pool file (.json, .yaml)")

	addDrillFlags(rootCmd)

	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(poolCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
