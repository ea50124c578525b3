package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/photondrift/adrscan/internal/adrindex"
	"github.com/photondrift/adrscan/internal/direrr"
)

// newInventoryCommand lists every ADR found under cfg.AdrDir with its id,
// status and title, failing fatally on a duplicate id (spec §4.5).
func newInventoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "List the ADRs found under the configured ADR directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				exitWithCode(exitCodeFor(err), err)
				return nil
			}

			var diags direrr.Diagnostics
			idx, err := buildIndex(cfg, adrindex.CollisionFatal, &diags)
			if err != nil {
				exitWithCode(exitCodeFor(err), err)
				return nil
			}

			for _, rec := range idx.All() {
				fmt.Printf("%-6s %-10s %s\n", rec.ID, rec.Status, rec.Title)
			}
			for _, w := range idx.Warnings {
				fmt.Fprintln(os.Stderr, "warning:", w)
			}
			for _, d := range diags.Items() {
				fmt.Fprintln(os.Stderr, "warning:", d)
			}

			fmt.Printf("\n%d ADR(s) found in %s\n", len(idx.All()), cfg.AdrDir)
			return nil
		},
	}
}
