package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yigit/degreeaudit/internal/app/models/dto"
	appRepos "github.com/yigit/degreeaudit/internal/app/repositories"
	"github.com/yigit/degreeaudit/internal/engine/requirement"
)

type checkOptions struct {
	*rootOptions
	student string
	json    bool
}

func checkCmd(root *rootOptions) *cobra.Command {
	opts := &checkOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a student record against its declared areas",
		Long: `Evaluate a student record file against every area it declares.

Examples:
  # Print a requirement tree
  audit check --student example-students/1001.json

  # Print the full result as JSON
  audit check --student example-students/1002.json --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.student, "student", "", "Student record file (required)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("student")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	lgr := opts.newLogger()
	svc, _, err := opts.newAuditService(lgr)
	if err != nil {
		return err
	}

	student, err := appRepos.ReadStudentFile(opts.student)
	if err != nil {
		return err
	}

	resp, err := svc.CheckRecord(cmd.Context(), student.Data)
	if err != nil {
		return err
	}
	resp.Student = student.Identifier

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printAudit(out, resp)
	return nil
}

func printAudit(w io.Writer, resp *dto.AuditResponse) {
	fmt.Fprintf(w, "%s %s\n", mark(resp.Result), resp.Student)
	for _, report := range resp.Areas {
		ref := report.Area
		label := fmt.Sprintf("%s (%s)", ref.Name, ref.Type)
		if ref.Revision != "" {
			label += " " + ref.Revision
		}
		fmt.Fprintf(w, "  %s %s\n", mark(report.Result), label)
		for _, r := range report.Details {
			printResult(w, r, 2)
		}
	}
}

func printResult(w io.Writer, r *requirement.Result, depth int) {
	indent := strings.Repeat("  ", depth)
	title := r.Title
	if title == "" {
		title = string(r.Type)
	}
	if r.Type == requirement.TypeSome || r.Type == requirement.TypeCounted {
		title = fmt.Sprintf("%s [%d/%s]", title, r.Has, r.Needs)
	}
	fmt.Fprintf(w, "%s%s %s\n", indent, mark(r.Result), title)
	for _, child := range r.Items {
		printResult(w, child, depth+1)
	}
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
