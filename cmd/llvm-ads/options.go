package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"llvmads/internal/backend/ada"
	"llvmads/internal/config"
	"llvmads/internal/diag"
	"llvmads/internal/driver"
)

// resolveOptions merges ads.toml with the command-line overrides.
func resolveOptions(cmd *cobra.Command, r diag.Reporter) (ada.Options, error) {
	flags := cmd.Flags()
	path, err := flags.GetString("config")
	if err != nil {
		return ada.Options{}, err
	}
	cfg, err := config.Resolve(path, "")
	if err != nil {
		diag.Errorf(r, diag.OutConfig, path, "%v", err)
		return ada.Options{}, err
	}
	opts := cfg.Options

	if flags.Changed("globals") {
		if opts.Globals, err = flags.GetBool("globals"); err != nil {
			return ada.Options{}, err
		}
	}
	if noProv, _ := flags.GetBool("no-provenance"); noProv {
		opts.Provenance = false
	}
	if flags.Changed("exclude") {
		extra, err := flags.GetStringSlice("exclude")
		if err != nil {
			return ada.Options{}, err
		}
		opts.Exclude = append(append([]string(nil), opts.Exclude...), extra...)
	}
	return opts, nil
}

// openCache honours --cache, --cache-dir and --cache-clear; nil means
// caching is off. --cache-clear alone clears the store and leaves caching off.
func openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	flags := cmd.Flags()
	dir, _ := flags.GetString("cache-dir")
	enabled, _ := flags.GetBool("cache")
	drop, _ := flags.GetBool("cache-clear")
	if !enabled && dir == "" && !drop {
		return nil, nil
	}
	var (
		cache *driver.DiskCache
		err   error
	)
	if dir != "" {
		cache, err = driver.OpenDiskCacheAt(dir)
	} else {
		cache, err = driver.OpenDiskCache(progName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if drop {
		if err := cache.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
		if !enabled && dir == "" {
			return nil, nil
		}
	}
	return cache, nil
}
