package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"navsync/internal/console"
	"navsync/internal/location"
	"navsync/internal/logging"
)

var (
	consoleOrigin string
	consoleStart  string
	consoleNoPush bool
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Drive the router interactively against an in-memory browser",
	RunE:  runConsole,
}

func init() {
	consoleCmd.Flags().StringVar(&consoleOrigin, "origin", "https://chat.example.com", "Origin of the simulated page")
	consoleCmd.Flags().StringVar(&consoleStart, "start", "", "Initial fragment")
	consoleCmd.Flags().BoolVar(&consoleNoPush, "no-push-state", false, "Simulate a browser without history.pushState")
}

func runConsole(cmd *cobra.Command, args []string) error {
	var opts []location.MemoryOption
	if consoleNoPush {
		opts = append(opts, location.WithoutPushState())
	}
	mem := location.NewMemory(consoleOrigin, consoleStart, opts...)

	ropts, err := routerOptions()
	if err != nil {
		return err
	}
	model, err := console.New(mem, ropts)
	if err != nil {
		return err
	}
	logs.Get(logging.CategoryConsole).Info("console started")

	if _, err := tea.NewProgram(model, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout())).Run(); err != nil {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}
