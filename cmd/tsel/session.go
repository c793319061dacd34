package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/vanderheijden86/treeselect/pkg/config"
	"github.com/vanderheijden86/treeselect/pkg/export"
	"github.com/vanderheijden86/treeselect/pkg/loader"
	"github.com/vanderheijden86/treeselect/pkg/tree"
)

// errNoInput is returned when neither --input nor --paths is given and
// stdin is a terminal.
var errNoInput = errors.New("no input: pass --input <file>, --input - or --paths <file>")

// options holds the flags shared by every command.
type options struct {
	input      string
	pathFiles  []string
	clicks     []string
	configPath string
	jsonOut    bool
	markdown   bool
	verify     bool
	watch      bool
	title      string
}

// session is a loaded forest with the clicks already applied.
type session struct {
	cfg     *config.Config
	cfgPath string
	forest  *tree.Forest
	clicks  []string
}

// loadConfig resolves the config from --config, TSEL_CONFIG or discovery.
func loadConfig(opts *options) (*config.Config, string, error) {
	explicit := opts.configPath
	if explicit == "" {
		explicit = os.Getenv("TSEL_CONFIG")
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("getting working directory: %w", err)
	}
	return config.Load(explicit, dir)
}

// loadSession reads paths and clicks, builds the forest and applies clicks
// in order: clicks from the counted input first, then --click flags.
func loadSession(ctx context.Context, opts *options, stdin io.Reader, stdinTTY bool) (*session, error) {
	cfg, cfgPath, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	inputPath := opts.input
	if inputPath == "" && len(opts.pathFiles) == 0 {
		if stdinTTY {
			return nil, errNoInput
		}
		inputPath = "-"
	}

	var paths, clicks []string
	if inputPath != "" {
		var in *loader.Input
		if inputPath == "-" {
			in, err = loader.ParseCounted(stdin)
			if err != nil {
				err = fmt.Errorf("parsing stdin: %w", err)
			}
		} else {
			in, err = loader.LoadInput(inputPath)
		}
		if err != nil {
			return nil, err
		}
		paths = append(paths, in.Paths...)
		clicks = append(clicks, in.Clicks...)
	}

	if len(opts.pathFiles) > 0 {
		extra, err := loader.LoadPathFiles(ctx, opts.pathFiles)
		if err != nil {
			return nil, err
		}
		paths = append(paths, extra...)
	}
	clicks = append(clicks, opts.clicks...)

	forest, err := tree.Build(paths, cfg.BuildOptions()...)
	if err != nil {
		return nil, err
	}
	if applied := forest.ClickAll(clicks); applied < len(clicks) {
		log.Printf("warning: %d of %d clicks did not match any node", len(clicks)-applied, len(clicks))
	}

	if opts.verify {
		if err := forest.Verify(); err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
	}

	return &session{cfg: cfg, cfgPath: cfgPath, forest: forest, clicks: clicks}, nil
}

// watchTarget returns the file to watch for live reload and whether it is a
// plain path list. Stdin and multiple path files cannot be watched.
func watchTarget(opts *options) (string, bool, error) {
	switch {
	case opts.input != "" && opts.input != "-" && len(opts.pathFiles) == 0:
		return opts.input, false, nil
	case opts.input == "" && len(opts.pathFiles) == 1:
		return opts.pathFiles[0], true, nil
	}
	return "", false, errors.New("--watch needs exactly one input file (--input <file> or a single --paths)")
}

// writeResult prints the forest as plain lines, JSON or markdown.
func writeResult(w io.Writer, s *session, opts *options, stdoutTTY bool, width int) error {
	style := s.cfg.TreeStyle()

	switch {
	case opts.jsonOut:
		report := export.BuildReport(s.forest, style, s.cfg.Separator, s.clicks, time.Now())
		return export.WriteJSON(w, report)

	case opts.markdown:
		md := export.GenerateMarkdown(s.forest, opts.title, time.Now())
		if stdoutTTY {
			rendered, err := export.RenderMarkdown(md, "", width)
			if err != nil {
				return err
			}
			md = rendered
		}
		_, err := io.WriteString(w, md)
		return err
	}

	for _, line := range tree.Render(s.forest, style) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
