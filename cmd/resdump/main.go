// Command resdump loads resource directories from archives or disk and
// prints what each phase found.
//
// Usage:
//
//	resdump [flags] [location...]
//
// Locations take the forms archive:<path>!/<entry>,
// archive:https://host/app.apk!/<entry> and file:<dir>. A YAML manifest
// given with --manifest may list further packages.
package main

import (
	"errors"
	"log/slog"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/spf13/cobra"
)

type config struct {
	manifest       string
	pkg            string
	strict         bool
	verbose        bool
	synthesizeDirs bool
	maxFileSize    uint64
	cpuProfile     string
}

func newRootCmd() *cobra.Command {
	var cfg config
	cmd := &cobra.Command{
		Use:           "resdump [flags] [location...]",
		Short:         "Load resource directories and print a summary",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, cfg, args)
		},
	}

	// Run failures are logged by execute; flag errors are printed here.
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.PrintErrln("Error:", err)
		return err
	})

	flags := cmd.Flags()
	flags.StringVarP(&cfg.manifest, "manifest", "m", "", `YAML manifest listing packages ("-" reads stdin)`)
	flags.StringVarP(&cfg.pkg, "package", "p", "app", "package name for locations given as arguments")
	flags.BoolVar(&cfg.strict, "strict", false, "reject unlocalized text and ambiguous format strings")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "verbose logging")
	flags.BoolVar(&cfg.synthesizeDirs, "synthesize-dirs", false, "infer archive directories that lack explicit entries")
	flags.Uint64Var(&cfg.maxFileSize, "max-file-size", 0, "per-file read limit in bytes (default from manifest, 256MB)")
	flags.StringVar(&cfg.cpuProfile, "cpuprofile", "", "write a CPU profile to file")
	return cmd
}

func execute(cmd *cobra.Command, cfg config, args []string) error {
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if err := dump(cmd, cfg, args, logger); err != nil {
		logger.Error("resdump failed", "err", err)
		return err
	}
	return nil
}

func dump(cmd *cobra.Command, cfg config, args []string, logger *slog.Logger) error {
	m, err := buildManifest(cmd, cfg, args)
	if err != nil {
		return err
	}
	if len(m.Packages) == 0 {
		return errors.New("no locations given")
	}

	if cfg.cpuProfile != "" {
		f, err := os.Create(cfg.cpuProfile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	return run(cmd.Context(), m, cmd.OutOrStdout(), logger)
}

// buildManifest merges the manifest file with flags and arguments. Flags
// that were set explicitly take precedence over the file.
func buildManifest(cmd *cobra.Command, cfg config, args []string) (Manifest, error) {
	var m Manifest
	var err error
	if cfg.manifest != "" {
		m, err = LoadManifestFromPath(cfg.manifest)
	} else {
		m, err = LoadManifest(strings.NewReader(""))
	}
	if err != nil {
		return m, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-file-size") {
		m.MaxFileSize = cfg.maxFileSize
	}
	if flags.Changed("synthesize-dirs") {
		m.SynthesizeDirs = cfg.synthesizeDirs
	}
	for _, loc := range args {
		m.Packages = append(m.Packages, Package{Name: cfg.pkg, Location: loc, Strict: cfg.strict})
	}
	if flags.Changed("strict") {
		for i := range m.Packages {
			m.Packages[i].Strict = cfg.strict
		}
	}
	return m, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
