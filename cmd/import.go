package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexdrill/internal/content"
)

var importCmd = &cobra.Command{
	Use:   "import <spreadsheet> <pool.json>",
	Short: "Convert a .xlsx or .csv word list into a pool file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, _ := cmd.Flags().GetString("sheet")

		res, err := content.ImportSpreadsheet(content.ImportConfig{
			FilePath:  args[0],
			SheetName: sheet,
		})
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		for _, msg := range res.Errors {
			fmt.Fprintln(os.Stderr, "warning:", msg)
		}
		if err := content.WritePool(args[1], res.Pool); err != nil {
			return err
		}
		fmt.Printf("Imported %d items (%d skipped) into %s\n", res.Imported, res.Skipped, args[1])
		return nil
	},
}

func init() {
	importCmd.Flags().String("sheet", "", "Worksheet name (xlsx only, default first sheet)")
}
