package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	appServices "github.com/yigit/degreeaudit/internal/app/services"
)

type benchmarkOptions struct {
	*rootOptions
	runs  int
	graph bool
}

func benchmarkCmd(root *rootOptions) *cobra.Command {
	opts := &benchmarkOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Time repeated evaluations of every example student",
		Long: `Evaluate every student in the students directory against each of
their declared areas, repeating each evaluation and reporting timings.

Examples:
  audit benchmark --runs 50
  audit benchmark --students example-students --runs 200 --graph`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmark(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.runs, "runs", 50, "Evaluations per student and area")
	cmd.Flags().BoolVar(&opts.graph, "graph", false, "Show a sparkline of the run times")

	return cmd
}

func runBenchmark(cmd *cobra.Command, opts *benchmarkOptions) error {
	lgr := opts.newLogger()
	svc, repos, err := opts.newAuditService(lgr)
	if err != nil {
		return err
	}

	students, err := repos.StudentFiles.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(students) == 0 {
		return fmt.Errorf("no student records found in %s", opts.studentsDir)
	}

	results, err := svc.Benchmark(cmd.Context(), students, opts.runs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STUDENT\tAREA\tRESULT\tRUNS\tAVERAGE")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", r.Student, r.Area.Name, mark(r.Result), len(r.Times), r.Average())
		if opts.graph {
			fmt.Fprintf(w, "\t%s\t\t\t\n", appServices.Sparkline(r.Times))
		}
	}
	return w.Flush()
}
