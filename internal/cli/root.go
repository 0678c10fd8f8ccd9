package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/course-advisor-api/pkg/config"
	"github.com/noah-isme/course-advisor-api/pkg/logger"
)

var version = "dev"

// SetVersion overrides the version reported by --version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	version = v
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// newRootCmd builds the command tree. Running the root without a subcommand
// starts the HTTP server.
func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	root := &cobra.Command{
		Use:     "advisor-api",
		Version: version,
		Short:   "Course advising API",
		Long: `advisor-api serves course catalog lookups, program requirements and
course plan mutations for the advising agent.

Running it without a subcommand starts the HTTP server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Args: cobra.NoArgs,
		RunE: serve.RunE,
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(serve)
	root.AddCommand(newMigrateCmd())
	return root
}

// bootstrap loads configuration and builds the process logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logr, nil
}
