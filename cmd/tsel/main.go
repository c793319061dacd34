// Command tsel renders and edits tree-select checkbox forests.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/treeselect/pkg/export"
	"github.com/vanderheijden86/treeselect/pkg/ui"
)

var version = "dev"

var errAborted = errors.New("aborted")

// terminal describes the process's standard streams.
type terminal struct {
	stdin  bool
	stdout bool
	width  int
}

func detectTerminal() terminal {
	t := terminal{
		stdin:  term.IsTerminal(int(os.Stdin.Fd())),
		stdout: term.IsTerminal(int(os.Stdout.Fd())),
		width:  80,
	}
	if t.stdout {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			t.width = w
		}
	}
	return t
}

func main() {
	if err := newRootCmd(detectTerminal()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends log output to $TSEL_DEBUG when set. Interactive
// commands otherwise discard it so warnings never draw over the screen.
func setupLogging(interactive bool) (func(), error) {
	if path := os.Getenv("TSEL_DEBUG"); path != "" {
		f, err := tea.LogToFile(path, "tsel")
		if err != nil {
			return nil, fmt.Errorf("opening debug log: %w", err)
		}
		return func() { f.Close() }, nil
	}
	if interactive {
		log.SetOutput(io.Discard)
	}
	return func() {}, nil
}

func newRootCmd(tty terminal) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "tsel",
		Short: "Render and edit tri-state checkbox trees",
		Long: `tsel builds a forest from slash-separated paths, applies clicks and
prints one line per node:

  [v] checked   [] unchecked   [o] partially checked

Input is the counted format (path count, paths, click count, clicks) via
--input, or plain path files via --paths. With no input flags, stdin is read.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts, tty)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.input, "input", "i", "", "Counted input file (- for stdin)")
	pf.StringArrayVar(&opts.pathFiles, "paths", nil, "Plain path file, one path per line (repeatable)")
	pf.StringArrayVarP(&opts.clicks, "click", "c", nil, "Click a node by name after loading (repeatable)")
	pf.StringVar(&opts.configPath, "config", "", "Config file (default: nearest .tsel/config.yaml)")
	pf.BoolVar(&opts.jsonOut, "json", false, "Print a JSON selection report")
	pf.BoolVar(&opts.markdown, "markdown", false, "Print a markdown task list")
	pf.BoolVar(&opts.verify, "verify", false, "Check tree invariants before printing")
	pf.StringVar(&opts.title, "title", "Tree Selection", "Title for markdown output")

	root.AddCommand(
		newRenderCmd(opts, tty),
		newTUICmd(opts, tty),
		newPickCmd(opts, tty),
		newExportMDCmd(opts, tty),
		newConfigCmd(opts),
	)
	return root
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(opts)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if path == "" {
				fmt.Fprintln(out, "# no config file found; defaults")
			} else {
				fmt.Fprintf(out, "# %s\n", path)
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func newRenderCmd(opts *options, tty terminal) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Print the forest after applying clicks (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts, tty)
		},
	}
}

func runRender(cmd *cobra.Command, opts *options, tty terminal) error {
	cleanup, err := setupLogging(false)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := loadSession(cmd.Context(), opts, cmd.InOrStdin(), tty.stdin)
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), s, opts, tty.stdout, tty.width)
}

func newTUICmd(opts *options, tty terminal) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Select interactively in a tree view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tty.stdout {
				return errors.New("tui needs an interactive terminal")
			}
			cleanup, err := setupLogging(true)
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := loadSession(cmd.Context(), opts, cmd.InOrStdin(), tty.stdin)
			if err != nil {
				return err
			}

			m := ui.NewModel(s.forest, ui.Options{
				Title: "tsel",
				Style: s.cfg.TreeStyle(),
			})
			progOpts := []tea.ProgramOption{tea.WithAltScreen()}
			if !tty.stdin {
				// Stdin carried the input; read keys from the terminal
				progOpts = append(progOpts, tea.WithInputTTY())
			}
			p := tea.NewProgram(m, progOpts...)

			if opts.watch {
				path, plain, err := watchTarget(opts)
				if err != nil {
					return err
				}
				worker, err := ui.NewReloadWorker(ui.WorkerConfig{
					InputPath:     path,
					Plain:         plain,
					BuildOptions:  s.cfg.BuildOptions(),
					DebounceDelay: s.cfg.DebounceDuration(),
					Program:       p,
				})
				if err != nil {
					return err
				}
				if err := worker.Start(); err != nil {
					return err
				}
				defer worker.Stop()
			}

			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("running tui: %w", err)
			}
			fm, ok := final.(ui.Model)
			if !ok || fm.Aborted() {
				return errAborted
			}

			s.forest = fm.Forest()
			s.clicks = append(s.clicks, fm.Clicks()...)
			return writeResult(cmd.OutOrStdout(), s, opts, tty.stdout, tty.width)
		},
	}
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Reload when the input file changes, keeping the selection")
	return cmd
}

func newPickCmd(opts *options, tty terminal) *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Choose leaves from a searchable list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tty.stdin || !tty.stdout {
				return errors.New("pick needs an interactive terminal; pass input with --input <file>")
			}
			cleanup, err := setupLogging(true)
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := loadSession(cmd.Context(), opts, cmd.InOrStdin(), tty.stdin)
			if err != nil {
				return err
			}

			var picked []string
			form := ui.NewLeafPicker(s.forest, s.cfg.Separator, &picked)
			if err := form.Run(); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return errAborted
				}
				return fmt.Errorf("running picker: %w", err)
			}

			ui.ApplyPicks(s.forest, picked, s.cfg.TreeStyle())
			return writeResult(cmd.OutOrStdout(), s, opts, tty.stdout, tty.width)
		},
	}
}

func newExportMDCmd(opts *options, tty terminal) *cobra.Command {
	return &cobra.Command{
		Use:   "export-md <file>",
		Short: "Write the selection as a markdown task list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cleanup, err := setupLogging(false)
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := loadSession(cmd.Context(), opts, cmd.InOrStdin(), tty.stdin)
			if err != nil {
				return err
			}
			if err := export.SaveMarkdown(s.forest, opts.title, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d nodes to %s\n", s.forest.Len(), args[0])
			return nil
		},
	}
}
