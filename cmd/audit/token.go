package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/config"
	pkgAuth "github.com/yigit/degreeaudit/internal/pkg/auth"
)

type tokenOptions struct {
	subject string
	role    string
	secret  string
	ttl     time.Duration
}

func tokenCmd() *cobra.Command {
	opts := &tokenOptions{}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for the audit API",
		Long: `Sign a bearer token for a student or an advisor.

Examples:
  JWT_SECRET=dev audit token --subject 1001
  audit token --subject prof --role ADVISOR --secret dev`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runToken(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.subject, "subject", "", "Student identifier or advisor name (required)")
	cmd.Flags().StringVar(&opts.role, "role", string(models.RoleStudent), "STUDENT or ADVISOR")
	cmd.Flags().StringVar(&opts.secret, "secret", config.GetEnv("JWT_SECRET", ""), "Signing secret")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func runToken(cmd *cobra.Command, opts *tokenOptions) error {
	if opts.secret == "" {
		return fmt.Errorf("a signing secret is required (--secret or JWT_SECRET)")
	}

	svc := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      opts.secret,
		AccessTokenExp: opts.ttl,
		TokenIssuer:    config.GetEnv("JWT_ISSUER", "degreeaudit"),
	})
	token, expiresIn, err := svc.GenerateToken(opts.subject, models.Role(strings.ToUpper(opts.role)))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires in %ds\n", expiresIn)
	return nil
}
