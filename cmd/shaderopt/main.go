package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"shaderopt/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "shaderopt",
	Short: "Shader pack option scanner and patcher",
	Long:  `shaderopt discovers configurable #define options embedded in shader pack sources and rewrites them in place`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("jobs", 0, "max parallel workers for pack scanning (0=auto)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the per-file scan cache")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}
