// Command lexis manages college, program and student records from the
// command line against the configured store.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stemsi/lexis/internal/config"
	"github.com/stemsi/lexis/internal/database"
	"github.com/stemsi/lexis/internal/logger"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/repository"
	"github.com/stemsi/lexis/internal/service"
	"github.com/stemsi/lexis/internal/validator"
)

// app is what every subcommand runs against. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	out      io.Writer
	store    repository.Store
	colleges *service.CollegeService
	programs *service.ProgramService
	students *service.StudentService
}

func main() {
	if err := newRootCmd(os.Stdout, config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer, cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg, out: out}
	var (
		backend string
		verbose bool
	)

	root := &cobra.Command{
		Use:          "lexis",
		Short:        "Manage college, program and student records",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if backend != "" {
				a.cfg.Backend = config.Backend(backend)
			}
			level := a.cfg.LogLevel
			if verbose {
				level = "debug"
			}
			a.log = logger.New(cmd.ErrOrStderr(), level, a.cfg.LogFormat)
			return a.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.store != nil {
				a.store.Close()
			}
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&backend, "backend", "", "storage backend: csv or postgres (default from STORAGE_BACKEND)")
	root.PersistentFlags().StringVar(&a.cfg.DataDir, "data-dir", a.cfg.DataDir, "CSV data directory")
	root.PersistentFlags().StringVar(&a.cfg.DatabaseURL, "database-url", a.cfg.DatabaseURL, "PostgreSQL connection URL")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newListCmd(a),
		newGetCmd(a),
		newDeleteCmd(a),
		newImportCmd(a),
		newSeedCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := database.OpenStore(ctx, a.cfg, a.log)
	if err != nil {
		return fmt.Errorf("open %s store: %w", a.cfg.Backend, err)
	}
	v := validator.New()
	a.store = store
	a.colleges = service.NewCollegeService(store, v, model.DefaultPageSize, a.log)
	a.programs = service.NewProgramService(store, v, model.DefaultPageSize, a.log)
	a.students = service.NewStudentService(store, v, model.DefaultPageSize, a.log)
	return nil
}
