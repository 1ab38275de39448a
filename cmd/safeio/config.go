package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jim-schilling/splurge-safe-io/pkg/safetext"
)

// Profile is a named bundle of read settings, loaded from the profiles file.
//
// A profiles file maps names to settings:
//
//	csv-import:
//	  strip: true
//	  skip_empty_lines: true
//	  skip_header_lines: 1
//	logs:
//	  encoding: utf-8
//	  chunk_size: 1000
type Profile struct {
	Encoding        string `yaml:"encoding"`
	Strip           bool   `yaml:"strip"`
	SkipEmptyLines  bool   `yaml:"skip_empty_lines"`
	SkipHeaderLines int    `yaml:"skip_header_lines"`
	SkipFooterLines int    `yaml:"skip_footer_lines"`
	ChunkSize       int    `yaml:"chunk_size"`
	BufferSize      int    `yaml:"buffer_size"`
}

func (p Profile) options() []safetext.Option {
	var opts []safetext.Option
	if p.Encoding != "" {
		opts = append(opts, safetext.Encoding(p.Encoding))
	}
	if p.Strip {
		opts = append(opts, safetext.Strip())
	}
	if p.SkipEmptyLines {
		opts = append(opts, safetext.SkipEmptyLines())
	}
	if p.SkipHeaderLines > 0 {
		opts = append(opts, safetext.SkipHeaderLines(p.SkipHeaderLines))
	}
	if p.SkipFooterLines > 0 {
		opts = append(opts, safetext.SkipFooterLines(p.SkipFooterLines))
	}
	if p.ChunkSize > 0 {
		opts = append(opts, safetext.ChunkSize(p.ChunkSize))
	}
	if p.BufferSize > 0 {
		opts = append(opts, safetext.BufferSize(p.BufferSize))
	}
	return opts
}

func parseProfiles(body []byte) (map[string]Profile, error) {
	profiles := map[string]Profile{}
	if err := yaml.Unmarshal(body, &profiles); err != nil {
		return nil, fmt.Errorf("unable to parse profiles file: %w", err)
	}
	return profiles, nil
}

func loadProfilesFile(path string) (map[string]Profile, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load profiles file: %w", err)
	}
	return parseProfiles(body)
}

// findAndLoadProfiles looks for ~/.safeio/profiles.yaml (or .yml). A missing
// file is not an error; it only means no profiles are available.
func findAndLoadProfiles(logger *slog.Logger) (map[string]Profile, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error looking for user home (maybe specify a config file): %w", err)
	}
	for _, name := range []string{"profiles.yaml", "profiles.yml"} {
		maybe := filepath.Join(home, ".safeio", name)
		if _, err := os.Stat(maybe); err != nil {
			continue
		}
		logger.Info("using profiles file", "path", maybe)
		return loadProfilesFile(maybe)
	}
	return nil, nil
}

// runEnv carries the logger and the resolved profile into command Run methods.
type runEnv struct {
	logger  *slog.Logger
	profile Profile
}

func newRunEnv(logger *slog.Logger, configPath, profileName string) (*runEnv, error) {
	env := &runEnv{logger: logger}

	var (
		profiles map[string]Profile
		err      error
	)
	if configPath != "" {
		profiles, err = loadProfilesFile(configPath)
	} else {
		profiles, err = findAndLoadProfiles(logger)
	}
	if err != nil {
		return nil, err
	}

	if profileName != "" {
		if profiles == nil {
			return nil, errors.New("a profile was requested but no profiles file was found")
		}
		p, ok := profiles[profileName]
		if !ok {
			return nil, fmt.Errorf("profile %q not found in profiles file", profileName)
		}
		env.profile = p
	}
	return env, nil
}

// readerOptions merges the active profile with command-line flags; flags win
// because they are applied after the profile.
func (env *runEnv) readerOptions(flags readFlags) []safetext.Option {
	return append(env.profile.options(), flags.options()...)
}
