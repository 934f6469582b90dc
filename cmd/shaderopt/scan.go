package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shaderopt/internal/diagfmt"
	"shaderopt/internal/profile"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <pack-directory>",
	Short: "Discover configurable options in a shader pack",
	Long:  `Scan walks a shader pack, classifies every source line, and lists the discovered options along with diagnostics for lines that look like options but were rejected`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	scanCmd.Flags().String("init-profile", "", "write a profile capturing the pack's current option values")
}

func runScan(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	initProfile, err := cmd.Flags().GetString("init-profile")
	if err != nil {
		return fmt.Errorf("failed to get init-profile flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := scanPack(cmd, args[0])
	if err != nil {
		return err
	}

	if initProfile != "" {
		p := profile.Profile{Options: map[string]string{}}
		for name, merged := range result.Set.Booleans() {
			p.SetBool(name, merged.Option.Enabled)
		}
		for name, merged := range result.Set.Strings() {
			p.Set(name, merged.Option.Value)
		}
		if err := p.Save(initProfile); err != nil {
			return fmt.Errorf("failed to write profile: %w", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", initProfile)
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, result, diagfmt.PrettyOpts{
			Color:          useColor(cmd, os.Stdout),
			MaxDiagnostics: maxDiagnostics,
		})
		return nil
	case "json":
		return diagfmt.JSON(os.Stdout, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
