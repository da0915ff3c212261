package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyaid/internal/account"
	"github.com/abhisek/studyaid/internal/config"
	"github.com/abhisek/studyaid/internal/llm"
	"github.com/abhisek/studyaid/internal/store"
	"github.com/abhisek/studyaid/internal/workspace"
)

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "studyaid",
	Short: "AI study aid for the terminal",
	Long: "studyaid turns your study material into quizzes, notes and flashcards,\n" +
		"grades your answers and tracks your progress.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STUDYAID_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/studyaid/config.yaml)")
	rootCmd.PersistentFlags().StringP("user", "u", "", "Account to act for (overrides STUDYAID_USER env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(flashcardsCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(gradeTextCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies the
// global flags on top.
func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		c.DB = v
	}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		c.User = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		c.LogLevel = v
	}
	if err := config.SetupLogging(c.LogLevel, os.Stderr); err != nil {
		return err
	}
	if c.File != "" {
		log.Debug().Str("file", c.File).Msg("config loaded")
	}
	cfg = c
	return nil
}

// resolveDBPath returns the database path using --db or the config file
// (highest priority), then STUDYAID_DB, then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// currentUser returns the normalized account name commands act for.
func currentUser() (string, error) {
	var name string
	if cfg != nil {
		name = account.NormalizeUsername(cfg.User)
	}
	if name == "" {
		return "", errors.New("no user selected: pass --user or set STUDYAID_USER")
	}
	return name, nil
}

// openWorkspace loads the current user's data. The account must exist.
func openWorkspace(ctx context.Context, st *store.Store) (*workspace.Workspace, error) {
	name, err := currentUser()
	if err != nil {
		return nil, err
	}
	if _, err := st.UserRepo().GetUser(ctx, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("user %q does not exist: run 'studyaid user register' first", name)
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	return workspace.Load(ctx, st.LibraryRepo(), st.ActivityRepo(), name)
}

func newProvider(ctx context.Context, st *store.Store) (llm.Provider, error) {
	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo())
	if err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	return provider, nil
}

func newAccountService(st *store.Store) *account.Service {
	return account.NewService(st.UserRepo(), st.LibraryRepo(), st.ActivityRepo(), account.NewBcryptHasher(), cfg.AdminKey)
}
