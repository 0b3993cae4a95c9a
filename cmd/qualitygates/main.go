// Command qualitygates runs the repository quality gates and emits a
// JSON summary report.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/researchcache/gates"
)

var (
	projectDir     string
	coverageTarget float64
	securityScan   bool
	outputPath     string
)

var rootCmd = &cobra.Command{
	Use:   "qualitygates",
	Short: "Run build, vet, test, and audit gates against a project",
	Long: `qualitygates sequences the project's quality gates (build, vet,
format, tests with coverage, optional vulnerability scan), prints a
per-gate summary, and can write a JSON report for CI artifacts.

The command exits non-zero when any gate fails.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner := gates.NewRunner(gates.Options{
			Dir:            projectDir,
			CoverageTarget: coverageTarget,
			SecurityScan:   securityScan,
		})

		report, runErr := runner.Run(cmd.Context())

		printSummary(report)

		if outputPath != "" {
			if err := report.Save(outputPath); err != nil {
				return err
			}
			fmt.Printf("report written to %s\n", outputPath)
		}

		return runErr
	},
}

func printSummary(report gates.Report) {
	fmt.Printf("project %s (branch %s, commit %s)\n",
		report.Project, report.Branch, shortCommit(report.Commit))

	for _, gate := range report.QualityGates.Gates {
		fmt.Printf("  [%s] %s: %s\n", gate.Status, gate.Name, gate.Description)
		if gate.Error != "" && gate.Status == gates.StatusFailed {
			fmt.Printf("      %s\n", gate.Error)
		}
	}

	passed, failed, skipped := report.QualityGates.Counts()
	fmt.Printf("gates: %d passed, %d failed, %d skipped\n", passed, failed, skipped)
	fmt.Printf("coverage: %.1f%% (target %.1f%%)\n",
		report.QualityGates.CoveragePercentage, report.QualityGates.CoverageTarget)
	fmt.Printf("todo comments: %d\n", report.QualityGates.TodoComments)

	for _, rec := range report.Recommendations {
		fmt.Printf("note: %s\n", rec)
	}
}

func shortCommit(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}

func init() {
	rootCmd.Flags().StringVarP(&projectDir, "project", "p", ".", "project directory to validate")
	rootCmd.Flags().Float64Var(&coverageTarget, "coverage-target", 80, "statement coverage target percentage")
	rootCmd.Flags().BoolVar(&securityScan, "security-scan", true, "run govulncheck")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write JSON report to this path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
