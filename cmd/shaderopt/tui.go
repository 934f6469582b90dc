package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"shaderopt/internal/ui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [flags] <pack-directory>",
	Short: "Toggle boolean options interactively",
	Args:  cobra.ExactArgs(1),
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	dir := args[0]

	if !isTerminal(os.Stdout) {
		return fmt.Errorf("tui requires a terminal; use scan/apply/toggle instead")
	}

	result, err := scanPack(cmd, dir)
	if err != nil {
		return err
	}

	model := ui.NewToggleModel(filepath.Base(dir), result.Set)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}

	chosen, ok := final.(*ui.ToggleModel)
	if !ok || !chosen.Accepted() {
		return nil
	}

	flips := chosen.Flips()
	if len(flips) == 0 {
		fmt.Println("nothing to change")
		return nil
	}

	changed, err := result.Rewrite(flips)
	if err != nil {
		return err
	}
	for _, path := range changed {
		fmt.Printf("rewrote %s\n", path)
	}
	return nil
}
