package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/photondrift/adrscan/internal/adrindex"
	"github.com/photondrift/adrscan/internal/direrr"
)

// newIndexCommand builds the ADR index and reports its shape: per-status
// counts and declared mandates, failing fatally on a duplicate id just like
// `inventory` (spec §4.5).
func newIndexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Build the ADR index and report mandate/status coverage",
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

			counts := map[string]int{}
			for _, rec := range idx.All() {
				counts[string(rec.Status)]++
			}
			for status, n := range counts {
				fmt.Printf("%-10s %d\n", status, n)
			}

			mandates := idx.Mandates()
			if len(mandates) > 0 {
				fmt.Println("\nmandates:")
				for _, m := range mandates {
					fmt.Printf("  %s -> %s\n", m.Technology, m.ADR.ID)
				}
			}

			for _, w := range idx.Warnings {
				fmt.Fprintln(os.Stderr, "warning:", w)
			}
			for _, d := range diags.Items() {
				fmt.Fprintln(os.Stderr, "warning:", d)
			}

			return nil
		},
	}
}
