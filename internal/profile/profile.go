// Package profile persists user-chosen option values and turns them into the
// relative flip decisions the patcher consumes. The patcher itself never sees
// absolute target values; this package owns that translation.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"

	"shaderopt/internal/option"
)

// DefaultFileName is where a pack's chosen option values live by default.
const DefaultFileName = "shaderopt.toml"

// Profile holds desired option values by name. Boolean options use "true" and
// "false"; everything else is kept as literal text, the same way the
// directives themselves store values.
type Profile struct {
	Options map[string]string `toml:"options"`
}

type profileFile struct {
	Options map[string]string `toml:"options"`
}

// Load reads a profile from path. A missing file is not an error: it loads as
// an empty profile, meaning every option keeps its on-disk default.
func Load(path string) (Profile, error) {
	var cfg profileFile
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Profile{Options: map[string]string{}}, nil
		}
		return Profile{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if cfg.Options == nil {
		cfg.Options = map[string]string{}
	}
	return Profile{Options: cfg.Options}, nil
}

// Save writes the profile to path atomically.
func (p Profile) Save(path string) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "tmp-profile-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(profileFile{Options: p.Options}); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Set records a desired value for name.
func (p Profile) Set(name, value string) {
	p.Options[name] = value
}

// SetBool records a desired boolean state for name.
func (p Profile) SetBool(name string, enabled bool) {
	p.Options[name] = strconv.FormatBool(enabled)
}

// Flips compares the profile against the options discovered in a pack and
// returns the names whose on-disk state must be inverted. Names the pack does
// not define are ignored here; see Unknown.
//
// A differing value option is included as well. The patcher reports those as
// unsupported edits rather than silently leaving the file untouched, which is
// exactly the surfacing we want.
func (p Profile) Flips(set *option.Set) option.NameSet {
	flips := make(option.NameSet)

	for name, desired := range p.Options {
		if merged, ok := set.Booleans()[name]; ok {
			want, err := strconv.ParseBool(desired)
			if err != nil {
				continue
			}
			if want != merged.Option.Enabled {
				flips[name] = struct{}{}
			}
			continue
		}
		if merged, ok := set.Strings()[name]; ok {
			if desired != merged.Option.Value {
				flips[name] = struct{}{}
			}
		}
	}

	return flips
}

// Unknown returns the profile names that the pack defines no option for,
// sorted for stable output.
func (p Profile) Unknown(set *option.Set) []string {
	var unknown []string
	for name := range p.Options {
		if _, ok := set.Booleans()[name]; ok {
			continue
		}
		if _, ok := set.Strings()[name]; ok {
			continue
		}
		unknown = append(unknown, name)
	}
	sort.Strings(unknown)
	return unknown
}
