package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/repository/sqlite"
	"taskboard/internal/server"
	"taskboard/internal/services"
)

// NewRootCommand creates the root cobra command with all subcommands
func NewRootCommand(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskboard",
		Short: "A team task tracking service",
		Long: `Taskboard is a small team task tracking service: create tasks,
assign them, track status, priority and due dates, and view aggregate
progress across the team.

CONFIGURATION:
  TASKBOARD_HTTP_ADDR          HTTP listen address (default: :8080)
  TASKBOARD_DB_PATH            SQLite database path (default: taskboard.db)
  TASKBOARD_AUTH_SECRET        HMAC secret for actor tokens
  TASKBOARD_AUTH_ISSUER        Expected token issuer (default: taskboard)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfg.Database.Path, "db", cfg.Database.Path, "SQLite database path")

	root.AddCommand(newServeCommand(cfg))
	root.AddCommand(newMigrateCommand(cfg))
	root.AddCommand(newSeedCommand(cfg))

	return root
}

// newServeCommand runs the HTTP server until interrupted
func newServeCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			repo, err := sqlite.New(cfg.Database)
			if err != nil {
				return err
			}
			defer repo.Close()

			taskService := services.NewTaskService(repo)
			reportingService := services.NewReportingService(repo)

			srv := server.New(taskService, reportingService, logger)

			httpServer := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      srv.Router(cfg),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", cfg.Server.Addr)
				errCh <- httpServer.ListenAndServe()
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-stop:
			}

			logger.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(ctx)
		},
	}
}

// newMigrateCommand applies pending database migrations and exits
func newMigrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := sqlite.New(cfg.Database)
			if err != nil {
				return err
			}
			defer repo.Close()

			fmt.Println("migrations applied")
			return nil
		},
	}
}

// newSeedCommand loads demo users and tasks for local development
func newSeedCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo users and tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := sqlite.New(cfg.Database)
			if err != nil {
				return err
			}
			defer repo.Close()

			// The repository bounds each write by the configured timeout
			ctx := context.Background()

			users := []*sqlite.User{
				{Name: "Ada Lovelace", Email: "ada@example.com"},
				{Name: "Grace Hopper", Email: "grace@example.com"},
			}
			for _, user := range users {
				if err := repo.CreateUser(ctx, user); err != nil {
					return err
				}
			}

			if err := repo.CreateProject(ctx, &sqlite.Project{Name: "Launch"}); err != nil {
				return err
			}

			taskService := services.NewTaskService(repo)
			due := time.Now().AddDate(0, 0, 7)
			seedTasks := []services.CreateTaskInput{
				{Title: "Write spec", Priority: "HIGH", CreatedByID: users[0].ID, Tags: []string{"docs"}},
				{Title: "Set up CI", Status: "IN_PROGRESS", CreatedByID: users[1].ID, DueDate: &due},
				{Title: "Buy milk", Priority: "LOW", CreatedByID: users[0].ID},
			}
			for _, input := range seedTasks {
				if _, err := taskService.CreateTask(ctx, input); err != nil {
					return err
				}
			}

			// Print a dev token so the protected endpoints are usable
			resolver := auth.NewTokenResolver(cfg.Auth)
			token, err := resolver.IssueToken(auth.Actor{ID: users[0].ID, Name: users[0].Name}, 24*time.Hour)
			if err != nil {
				return err
			}
			fmt.Printf("seeded %d users, %d tasks\n", len(users), len(seedTasks))
			fmt.Printf("dev token: %s\n", token)
			return nil
		},
	}
}
