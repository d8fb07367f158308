package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hospiviz-cli/internal/utils"
)

var prepareJSON bool

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Load and normalize a dataset, reporting what was changed",
	Example: `  hospiviz prepare
  hospiviz prepare -i hospitals.csv --seed 7
  hospiviz prepare -i clinics.xlsx --sheet Sites --name-column facility --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, _, err := runPipeline(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		rep := res.Report
		if prepareJSON {
			b, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			_, err = out.Write(append(b, '\n'))
			return err
		}
		fmt.Fprintf(out, "Source: %s\n", rep.Source)
		fmt.Fprintf(out, "Run: %s\n", rep.RunID)
		fmt.Fprintf(out, "Facilities: %d\n", len(res.Facilities))
		fmt.Fprintf(out, "Columns: %s\n", strings.Join(rep.Columns, ", "))
		if rep.NameFallback {
			fmt.Fprintf(out, "Name column: %s (first-column fallback)\n", rep.NameColumn)
		} else {
			fmt.Fprintf(out, "Name column: %s\n", rep.NameColumn)
		}
		for _, r := range rep.Renamed {
			fmt.Fprintf(out, "Renamed: %q -> %q\n", r.From, r.To)
		}
		if len(rep.Synthesized) > 0 {
			fmt.Fprintf(out, "Synthesized: %s (seed %d)\n", strings.Join(rep.Synthesized, ", "), rep.Seed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prepareCmd)
	addDataFlags(prepareCmd)
	prepareCmd.Flags().BoolVar(&prepareJSON, "json", false, "print the report as JSON")
}
