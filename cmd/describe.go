package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hospiviz-cli/internal/analysis"
)

const (
	summaryMarkdownFile = "summary.md"
	summaryHTMLFile     = "summary.html"
)

var (
	describeSampleRows int
	describeTop        int
	describeOutlierThr float64
	describePrint      bool
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Summarize the prepared dataset (summary.md, summary.html)",
	Example: `  hospiviz describe --print
  hospiviz describe -i hospitals.csv --sample-rows 10 -o out/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, c, err := runPipeline(cmd)
		if err != nil {
			return err
		}
		opt := analysis.DefaultOptions()
		f := cmd.Flags()
		if f.Changed("sample-rows") {
			opt.SampleRows = describeSampleRows
		}
		if f.Changed("top") {
			opt.TopFacilities = describeTop
		}
		if f.Changed("outlier-threshold") {
			opt.OutlierThreshold = describeOutlierThr
		}
		rep := analysis.Summarize(res, opt)
		md := rep.Markdown()
		if describePrint {
			_, err := fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		}
		_, err = writeArtifacts(c,
			artifact{name: summaryMarkdownFile, render: func(w io.Writer) error {
				_, err := io.WriteString(w, md)
				return err
			}},
			artifact{name: summaryHTMLFile, render: func(w io.Writer) error {
				_, err := w.Write(rep.HTML())
				return err
			}},
		)
		return err
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	addDataFlags(describeCmd)
	addOutDirFlag(describeCmd)
	describeCmd.Flags().IntVar(&describeSampleRows, "sample-rows", 5, "number of sample rows to include")
	describeCmd.Flags().IntVar(&describeTop, "top", 10, "number of busiest facilities to list (0 disables)")
	describeCmd.Flags().Float64Var(&describeOutlierThr, "outlier-threshold", 3.5, "robust z-score threshold for outliers")
	describeCmd.Flags().BoolVar(&describePrint, "print", false, "print the markdown summary instead of writing files")
}
