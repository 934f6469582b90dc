package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"shaderopt/internal/profile"
)

var applyCmd = &cobra.Command{
	Use:   "apply [flags] <pack-directory>",
	Short: "Rewrite a shader pack to match a profile",
	Long:  `Apply loads the chosen option values from a profile file, compares them with the options discovered in the pack, and rewrites exactly the directive lines that must change`,
	Args:  cobra.ExactArgs(1),
	RunE:  runApply,
}

func init() {
	applyCmd.Flags().String("profile", "", "profile file (default <pack>/shaderopt.toml)")
	applyCmd.Flags().Bool("dry-run", false, "report what would change without writing")
}

func runApply(cmd *cobra.Command, args []string) error {
	dir := args[0]

	profilePath, err := cmd.Flags().GetString("profile")
	if err != nil {
		return fmt.Errorf("failed to get profile flag: %w", err)
	}
	if profilePath == "" {
		profilePath = filepath.Join(dir, profile.DefaultFileName)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}

	p, err := profile.Load(profilePath)
	if err != nil {
		return err
	}

	result, err := scanPack(cmd, dir)
	if err != nil {
		return err
	}

	for _, name := range p.Unknown(result.Set) {
		fmt.Fprintf(os.Stderr, "warning: profile option %s matches nothing in the pack\n", name)
	}

	flips := p.Flips(result.Set)
	if len(flips) == 0 {
		fmt.Println("nothing to change")
		return nil
	}

	if dryRun {
		changed, err := result.Apply(flips)
		if err != nil {
			return err
		}
		paths := make([]string, 0, len(changed))
		for path := range changed {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			fmt.Printf("would rewrite %s\n", path)
		}
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
