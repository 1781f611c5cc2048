package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/meigma/resfs"
	"github.com/meigma/resfs/res"
	"github.com/meigma/resfs/vfs/archive"
)

// summary is the YAML record printed per package.
type summary struct {
	Package  string         `yaml:"package"`
	Location string         `yaml:"location"`
	Root     string         `yaml:"root,omitempty"`
	State    string         `yaml:"state"`
	Counts   map[string]int `yaml:"counts,omitempty"`
	Error    string         `yaml:"error,omitempty"`
}

// run loads every package of m and writes one summary per package to w.
// Every package is attempted; the returned error joins the failures.
func run(ctx context.Context, m Manifest, w io.Writer, logger *slog.Logger) error {
	opts := []resfs.Option{
		resfs.WithLogger(logger),
		resfs.WithMaxFileSize(m.MaxFileSize),
		resfs.WithArchiveOptions(archive.WithSynthesizedDirs(m.SynthesizeDirs)),
	}
	if m.BearerToken != "" {
		opts = append(opts, resfs.WithBearerToken(m.BearerToken))
	}
	resolver, err := resfs.NewResolver(opts...)
	if err != nil {
		return err
	}
	defer resolver.Close()

	var (
		summaries []summary
		errs      []error
	)
	for _, p := range m.Packages {
		s, err := loadPackage(ctx, resolver, p, logger)
		summaries = append(summaries, s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(summaries); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return errors.Join(errs...)
}

func loadPackage(ctx context.Context, resolver *resfs.Resolver, p Package, logger *slog.Logger) (summary, error) {
	s := summary{Package: p.Name, Location: p.Location, State: res.StateNotStarted.String()}

	root, err := resolver.Resolve(ctx, p.Location)
	if err != nil {
		s.Error = err.Error()
		return s, err
	}
	s.Root = root.String()

	index := res.NewIndex()
	loader := res.NewPackageLoader(res.NewResourcePath(p.Name, root), index,
		res.WithLogger(logger),
		res.WithStrictI18n(p.Strict),
	)
	err = loader.Load()
	s.State = loader.State().String()
	if err != nil {
		s.Error = err.Error()
		return s, err
	}
	s.Counts = index.Counts()
	return s, nil
}
