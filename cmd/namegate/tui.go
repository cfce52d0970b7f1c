package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/creamcroissant/namegate/internal/bootstrap"
	"github.com/creamcroissant/namegate/internal/config"
	"github.com/creamcroissant/namegate/internal/migrations"
	"github.com/creamcroissant/namegate/internal/repository/sqlite"
	"github.com/creamcroissant/namegate/internal/service"
	"github.com/creamcroissant/namegate/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive username checker",
	Long:  "Launch an interactive terminal UI that checks usernames as you type and shows recent verdicts.",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := bootstrap.OpenSQLite(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	store := sqlite.NewStore(db)

	// No rate limiting or audit logging in the interactive path; the pane
	// itself is the feedback loop.
	checkService := service.NewCheckService(service.CheckOptions{
		Policy: cfg.Policy.Rules(),
		Logs:   store.CheckLogs(),
	})

	model := tui.NewModel(checkService, store.CheckLogs())

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
