package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shaderopt/internal/option"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle [flags] <pack-directory> <OPTION>...",
	Short: "Flip boolean options in place",
	Long:  `Toggle inverts the current state of one or more boolean options by commenting or uncommenting their #define lines`,
	Args:  cobra.MinimumNArgs(2),
	RunE:  runToggle,
}

func runToggle(cmd *cobra.Command, args []string) error {
	dir := args[0]
	names := args[1:]

	result, err := scanPack(cmd, dir)
	if err != nil {
		return err
	}

	flips := make(option.NameSet, len(names))
	for _, name := range names {
		if _, ok := result.Set.Booleans()[name]; !ok {
			if reason, ambiguous := result.Set.Ambiguous()[name]; ambiguous {
				return fmt.Errorf("option %s is ambiguous: %s", name, reason)
			}
			if _, isValue := result.Set.Strings()[name]; isValue {
				return fmt.Errorf("option %s holds a value; only boolean options can be toggled", name)
			}
			return fmt.Errorf("no boolean option named %s in the pack", name)
		}
		flips[name] = struct{}{}
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
