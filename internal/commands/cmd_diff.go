package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/internal/core/git"
	"github.com/wk-j/lumen/internal/core/logging"
	"github.com/wk-j/lumen/internal/core/review"
	"github.com/wk-j/lumen/internal/core/styles"
	"github.com/wk-j/lumen/internal/tui"
	"github.com/wk-j/lumen/pkg/executil"
	"github.com/wk-j/lumen/pkg/iojson"
	"github.com/wk-j/lumen/pkg/utils"
)

// ErrNoTerminal is returned when the review program is started without an
// interactive terminal.
var ErrNoTerminal = errors.New("lumen needs an interactive terminal (use --export for plain output)")

// Opener opens the repository containing dir.
type Opener func(ctx context.Context, gitPath, dir string) (Repository, error)

// Repository is a backend that also knows its work tree root.
type Repository interface {
	git.Backend
	Root() string
}

type DiffCmd struct {
	flags *Flags

	focus    string
	watch    bool
	stacked  bool
	tabWidth int
	export   string
	format   string

	// tabWidthSet records an explicit --tab-width, including 0.
	tabWidthSet bool

	// open and rawArgs are replaced in tests.
	open    Opener
	rawArgs []string
	isTTY   func() bool
}

// OpenRepository opens dir with the git command line.
func OpenRepository(ctx context.Context, gitPath, dir string) (Repository, error) {
	repo, err := git.Open(ctx, gitPath, dir, &executil.RealExecutor{})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// NewDiffCmd creates the diff command
func NewDiffCmd(flags *Flags, open Opener) *DiffCmd {
	return &DiffCmd{
		flags:   flags,
		open:    open,
		rawArgs: os.Args,
		isTTY: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
}

// Register adds the diff command to the application.
func (cmd *DiffCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "diff",
		Usage:     "Review changes side by side",
		UsageText: "lumen diff [options] [REF] [-- PATH...]",
		Description: `Opens the side-by-side review for REF.

REF may be empty (working tree against HEAD), a commit (compared to its
parent), A..B (A against B) or A...B (merge base of A and B against B).
Paths after -- restrict the review to those files.`,
		Flags:  cmd.Flags(),
		Action: cmd.run,
	})
	return app
}

// Flags returns the diff flags. Each call builds new flag values bound to the
// same destinations so the root command can carry them too.
func (cmd *DiffCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "focus",
			Usage:       "file selected at startup",
			Destination: &cmd.focus,
		},
		&cli.BoolFlag{
			Name:        "watch",
			Aliases:     []string{"w"},
			Usage:       "reload when the working tree changes",
			Destination: &cmd.watch,
		},
		&cli.BoolFlag{
			Name:        "stacked",
			Usage:       "review a range one commit at a time",
			Destination: &cmd.stacked,
		},
		&cli.IntFlag{
			Name:        "tab-width",
			Usage:       "columns per tab stop, 0 strips tabs (overrides config)",
			Destination: &cmd.tabWidth,
		},
		&cli.StringFlag{
			Name:        "export",
			Usage:       "write the changed files with line counts to `FILE` (- for stdout) instead of opening the review",
			Destination: &cmd.export,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "export format (text, json)",
			Value:       "text",
			Destination: &cmd.format,
		},
	}
}

// Run executes the diff command. Exported for use as default command.
func (cmd *DiffCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *DiffCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	refArg, paths, err := splitArgs(c.Args().Slice(), cmd.rawArgs)
	if err != nil {
		return err
	}
	ref := git.ParseRef(refArg)

	if cmd.stacked && ref.IsWorkingTree() {
		return fmt.Errorf("--stacked needs a commit or range")
	}
	if cmd.watch && !ref.IsWorkingTree() {
		log.Warn().Str("ref", ref.String()).Msg("--watch only applies to the working tree, ignoring")
		cmd.watch = false
	}
	if cmd.tabWidth < 0 || cmd.tabWidth > 16 {
		return fmt.Errorf("--tab-width must be between 0 and 16")
	}
	cmd.tabWidthSet = c.IsSet("tab-width")

	repo, err := cmd.open(ctx, cfg.GitPath, ".")
	if err != nil {
		return err
	}

	ctx = logging.WithDiffRef(ctx, ref.String())

	var commits []git.Commit
	loadRef := ref
	if cmd.stacked {
		commits, err = repo.Commits(ctx, ref)
		if err != nil {
			return fmt.Errorf("list commits: %w", err)
		}
		if len(commits) == 0 {
			return fmt.Errorf("no commits in %s", ref.String())
		}
		loadRef = git.Ref{Kind: git.RefSingle, To: commits[0].ID}
	}

	files, err := repo.ChangedFiles(ctx, loadRef, paths)
	if err != nil {
		return fmt.Errorf("load changes: %w", err)
	}
	log.Debug().Ctx(ctx).Int("files", len(files)).Int("commits", len(commits)).Msg("loaded changes")

	opts := cmd.reviewOptions(ref)

	if cmd.export != "" {
		return cmd.writeExport(c.Root().Writer, ref, review.New(files, opts).Files(), opts.Diff)
	}

	if !cmd.isTTY() {
		return ErrNoTerminal
	}

	branch, err := repo.Branch(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("branch name unavailable")
	}

	theme, _ := styles.Get(cfg.Theme)
	m, err := tui.New(tui.Options{
		Backend: repo,
		Ref:     ref,
		Paths:   paths,
		Root:    repo.Root(),
		Files:   files,
		Review:  opts,
		Config:  cfg,
		Theme:   theme,
		Watch:   cmd.watch,
		Commits: commits,
		Branch:  branch,
	})
	if err != nil {
		return fmt.Errorf("start review: %w", err)
	}
	defer func() { _ = m.Close() }()

	// Logs headed for stderr would tear the alternate screen.
	if cmd.flags.LogFile == "-" {
		deferred := &utils.DeferredWriter{Limit: 1 << 20}
		prev := log.Logger
		log.Logger = log.Logger.Output(deferred)
		defer func() {
			log.Logger = prev
			_ = deferred.Flush(os.Stderr)
		}()
	}

	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run review: %w", err)
	}

	if fm, ok := final.(tui.Model); ok {
		if n := fm.State().AnnotationCount(); n > 0 {
			log.Info().Int("annotations", n).Msg("review closed with unexported annotations")
		}
	}
	return nil
}

func (cmd *DiffCmd) reviewOptions(ref git.Ref) review.Options {
	cfg := cmd.flags.Config

	diffOpts := cfg.DiffOptions()
	if cmd.tabWidthSet {
		diffOpts.TabWidth = cmd.tabWidth
	}

	return review.Options{
		FocusFile: cmd.focus,
		Reference: ref.String(),
		Diff:      diffOpts,
		Scroll: review.ScrollOptions{
			TopMargin:    cfg.View.HunkTopMargin,
			BottomMargin: cfg.View.HunkBottomMargin,
			LineMargin:   cfg.View.ScrollMargin,
		},
		Context: review.ContextOptions{
			Enabled:  cfg.View.Context.Enabled,
			MaxLines: cfg.View.Context.MaxLines,
		},
		Exclude: cfg.Diff.Exclude,
	}
}

// splitArgs separates the reference from the paths given after "--". The
// parsed args no longer carry the separator, so its position is recovered
// from the raw command line.
func splitArgs(args, raw []string) (ref string, paths []string, err error) {
	nPaths := 0
	if i := slices.Index(raw, "--"); i >= 0 {
		nPaths = min(len(raw)-i-1, len(args))
	}

	head := args[:len(args)-nPaths]
	if nPaths > 0 {
		paths = args[len(args)-nPaths:]
	}

	switch len(head) {
	case 0:
		return "", paths, nil
	case 1:
		return head[0], paths, nil
	default:
		return "", nil, fmt.Errorf("expected at most one reference, got %d (put paths after --)", len(head))
	}
}

type exportFile struct {
	Path    string `json:"path"`
	Status  string `json:"status"`
	Added   int    `json:"added"`
	Removed int    `json:"removed"`
	Binary  bool   `json:"binary,omitempty"`
}

type exportReport struct {
	Reference string       `json:"reference"`
	Files     []exportFile `json:"files"`
	Added     int          `json:"added"`
	Removed   int          `json:"removed"`
}

func buildReport(ref git.Ref, files []diff.FileDiff, opts diff.Options) exportReport {
	report := exportReport{Reference: ref.String(), Files: make([]exportFile, 0, len(files))}
	for _, f := range files {
		ef := exportFile{Path: f.Filename, Status: f.Status.String(), Binary: f.IsBinary}
		if !f.IsBinary {
			stats := diff.Stats(diff.ComputeSideBySide(f.OldContent, f.NewContent, opts))
			ef.Added, ef.Removed = stats.Added, stats.Removed
		}
		report.Added += ef.Added
		report.Removed += ef.Removed
		report.Files = append(report.Files, ef)
	}
	return report
}

func (cmd *DiffCmd) writeExport(stdout io.Writer, ref git.Ref, files []diff.FileDiff, opts diff.Options) error {
	report := buildReport(ref, files, opts)

	var buf bytes.Buffer
	switch cmd.format {
	case "json":
		if err := iojson.WriteWith(&buf, os.Stderr, report); err != nil {
			return err
		}
	case "", "text":
		for i, f := range report.Files {
			if f.Binary {
				_, _ = fmt.Fprintf(&buf, "%s %s binary\n", files[i].Status.Symbol(), f.Path)
				continue
			}
			_, _ = fmt.Fprintf(&buf, "%s %s +%d -%d\n", files[i].Status.Symbol(), f.Path, f.Added, f.Removed)
		}
		_, _ = fmt.Fprintf(&buf, "%d files changed, %d insertions(+), %d deletions(-)\n",
			len(report.Files), report.Added, report.Removed)
	default:
		return fmt.Errorf("unknown format %q (expected text or json)", cmd.format)
	}

	if cmd.export == "-" {
		_, err := buf.WriteTo(stdout)
		return err
	}
	if err := os.WriteFile(cmd.export, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	log.Info().Str("path", cmd.export).Int("files", len(report.Files)).Msg("wrote export")
	return nil
}
