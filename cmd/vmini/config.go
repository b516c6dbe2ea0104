package main

import (
	"os"

	"github.com/vango-dev/vmini/internal/config"
)

type globalOptions struct {
	configPath  string
	logLevel    string
	errorFormat string
	noColor     bool
}

// loadConfig reads the config named by --config, or the one in the
// project root. A missing project config yields the defaults.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = loadProjectConfig()
	}
	if err != nil {
		return nil, err
	}

	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadProjectConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := config.FindProjectRoot(wd)
	if err != nil {
		return config.New(), nil
	}
	return config.Load(root)
}
