// audit is a command line front end for the degree requirement engine.
//
// Usage:
//
//	audit check --student example-students/1001.json
//	audit benchmark --students example-students --runs 50 --graph
//	audit normalize areas/majors/physics.yaml
//	audit token --subject 1001 --role STUDENT
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	appRepos "github.com/yigit/degreeaudit/internal/app/repositories"
	appServices "github.com/yigit/degreeaudit/internal/app/services"
	"github.com/yigit/degreeaudit/internal/areas"
	"github.com/yigit/degreeaudit/internal/config"
	"github.com/yigit/degreeaudit/internal/engine/evaluator"
	"github.com/yigit/degreeaudit/internal/pkg/logger"
)

var version = "dev"

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	areasDir    string
	studentsDir string
	logLevel    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "audit",
		Short: "Check student records against degree requirements",
		Long: `audit evaluates student records against area of study definitions.

Areas are read from Hanson YAML files and merged with the built-in
Statistics concentration and Physics major.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.areasDir, "areas", config.GetEnv("AREAS_DIR", "areas"), "Directory of area definitions")
	rootCmd.PersistentFlags().StringVar(&opts.studentsDir, "students", config.GetEnv("STUDENTS_DIR", "example-students"), "Directory of student records")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(checkCmd(opts))
	rootCmd.AddCommand(benchmarkCmd(opts))
	rootCmd.AddCommand(normalizeCmd())
	rootCmd.AddCommand(tokenCmd())

	return rootCmd
}

func (o *rootOptions) newLogger() zerolog.Logger {
	return logger.Configure(logger.Config{
		Level:  logger.ParseLevel(o.logLevel),
		Pretty: true,
		Output: os.Stderr,
	})
}

// newAuditService wires the engine against the file-backed areas and students, without a database.
func (o *rootOptions) newAuditService(lgr zerolog.Logger) (*appServices.AuditService, *appRepos.Repositories, error) {
	ev := evaluator.New(nil, lgr)
	builtins, err := areas.Builtin(ev)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build built-in areas: %w", err)
	}

	repos := appRepos.NewRepositories(nil, o.areasDir, o.studentsDir, lgr)
	areaService := appServices.NewAreaService(repos.AreaRepository, builtins, ev, lgr)
	auditService := appServices.NewAuditService(areaService, repos.StudentFiles, nil, appServices.AuditConfig{}, lgr)
	return auditService, repos, nil
}
