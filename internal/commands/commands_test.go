package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/wk-j/lumen/internal/core/config"
	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/internal/core/git"
	"github.com/wk-j/lumen/pkg/tuitest"
)

type fakeRepo struct {
	files   map[string][]diff.FileDiff
	commits []git.Commit
	refs    []string
}

func (r *fakeRepo) ChangedFiles(_ context.Context, ref git.Ref, paths []string) ([]diff.FileDiff, error) {
	r.refs = append(r.refs, ref.String())
	files := r.files[ref.String()]
	if len(paths) == 0 {
		return files, nil
	}
	var out []diff.FileDiff
	for _, f := range files {
		for _, p := range paths {
			if f.Filename == p {
				out = append(out, f)
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) Commits(context.Context, git.Ref) ([]git.Commit, error) { return r.commits, nil }
func (r *fakeRepo) Branch(context.Context) (string, error)                   { return "main", nil }
func (r *fakeRepo) Name() string                                             { return "fake" }
func (r *fakeRepo) Root() string                                             { return "/repo" }

func testFlags(t *testing.T) *Flags {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &Flags{Config: &cfg, ConfigPath: filepath.Join(t.TempDir(), "config.yaml")}
}

func openerFor(repo *fakeRepo) Opener {
	return func(context.Context, string, string) (Repository, error) { return repo, nil }
}

// runApp runs the registered commands and returns the output. cli.Exit
// errors are returned instead of exiting the process.
func runApp(t *testing.T, register func(*cli.Command) *cli.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := &cli.Command{
		Name:           "lumen",
		Writer:         &buf,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	app = register(app)
	err := app.Run(context.Background(), append([]string{"lumen"}, args...))
	return tuitest.StripANSI(buf.String()), err
}

func sampleRepo() *fakeRepo {
	return &fakeRepo{files: map[string][]diff.FileDiff{
		"": {
			{Filename: "main.go", OldContent: "a\nb\nc\n", NewContent: "a\nB\nc\nd\n", Status: diff.StatusModified},
			{Filename: "new.go", NewContent: "x\ny\n", Status: diff.StatusAdded},
			{Filename: "logo.png", OldContent: "\x00", NewContent: "\x00\x01", IsBinary: true},
		},
		"abc123": {
			{Filename: "first.go", NewContent: "one\n", Status: diff.StatusAdded},
		},
	}}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		raw       []string
		wantRef   string
		wantPaths []string
		wantErr   bool
	}{
		{"none", nil, []string{"lumen"}, "", nil, false},
		{"ref", []string{"HEAD~2"}, []string{"lumen", "HEAD~2"}, "HEAD~2", nil, false},
		{"paths only", []string{"a.go", "b.go"}, []string{"lumen", "--", "a.go", "b.go"}, "", []string{"a.go", "b.go"}, false},
		{"ref and paths", []string{"main..dev", "a.go"}, []string{"lumen", "diff", "main..dev", "--", "a.go"}, "main..dev", []string{"a.go"}, false},
		{"two refs", []string{"a", "b"}, []string{"lumen", "a", "b"}, "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, paths, err := splitArgs(tt.args, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRef, ref)
			assert.Equal(t, tt.wantPaths, paths)
		})
	}
}

func newTestDiffCmd(flags *Flags, repo *fakeRepo, args ...string) *DiffCmd {
	cmd := NewDiffCmd(flags, openerFor(repo))
	cmd.rawArgs = append([]string{"lumen"}, args...)
	cmd.isTTY = func() bool { return false }
	return cmd
}

func TestDiffCmd_ExportText(t *testing.T) {
	flags := testFlags(t)
	args := []string{"diff", "--export", "-"}

	out, err := runApp(t, newTestDiffCmd(flags, sampleRepo(), args...).Register, args...)
	require.NoError(t, err)

	assert.Equal(t, "M main.go +2 -1\nA new.go +2 -0\nM logo.png binary\n3 files changed, 4 insertions(+), 1 deletions(-)\n", out)
}

func TestDiffCmd_ExportJSONToFile(t *testing.T) {
	flags := testFlags(t)
	flags.Config.Diff.Exclude = []string{"*.png"}
	path := filepath.Join(t.TempDir(), "changes.json")
	args := []string{"diff", "--export", path, "--format", "json", "--", "main.go"}

	_, err := runApp(t, newTestDiffCmd(flags, sampleRepo(), args...).Register, args...)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report exportReport
	require.NoError(t, json.Unmarshal(data, &report))
	require.Len(t, report.Files, 1)
	assert.Equal(t, exportFile{Path: "main.go", Status: "modified", Added: 2, Removed: 1}, report.Files[0])
	assert.Equal(t, 2, report.Added)
}

func TestDiffCmd_Stacked(t *testing.T) {
	flags := testFlags(t)
	repo := sampleRepo()
	repo.commits = []git.Commit{{ID: "abc123", ShortID: "abc123", Summary: "first"}}
	args := []string{"diff", "--stacked", "--export", "-", "main..dev"}

	out, err := runApp(t, newTestDiffCmd(flags, repo, args...).Register, args...)
	require.NoError(t, err)

	assert.Equal(t, []string{"abc123"}, repo.refs)
	assert.Contains(t, out, "A first.go +1 -0")
}

func TestDiffCmd_TabWidthOverride(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"config value", []string{"diff", "--export", "-"}, 4},
		{"explicit width", []string{"diff", "--tab-width", "8", "--export", "-"}, 8},
		{"explicit zero", []string{"diff", "--tab-width", "0", "--export", "-"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newTestDiffCmd(testFlags(t), sampleRepo(), tt.args...)
			_, err := runApp(t, cmd.Register, tt.args...)
			require.NoError(t, err)

			assert.Equal(t, tt.want, cmd.reviewOptions(git.ParseRef("")).Diff.TabWidth)
		})
	}
}

func TestDiffCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"stacked working tree", []string{"diff", "--stacked"}, "--stacked needs a commit or range"},
		{"tab width", []string{"diff", "--tab-width", "40"}, "--tab-width"},
		{"no terminal", []string{"diff"}, ErrNoTerminal.Error()},
		{"bad format", []string{"diff", "--export", "-", "--format", "xml"}, "unknown format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, newTestDiffCmd(testFlags(t), sampleRepo(), tt.args...).Register, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDiffCmd_OpenError(t *testing.T) {
	cmd := NewDiffCmd(testFlags(t), func(context.Context, string, string) (Repository, error) {
		return nil, git.ErrNotRepository
	})
	cmd.rawArgs = []string{"lumen", "diff"}

	_, err := runApp(t, cmd.Register, "diff")
	require.ErrorIs(t, err, git.ErrNotRepository)
}

func TestThemesCmd(t *testing.T) {
	flags := testFlags(t)

	out, err := runApp(t, NewThemesCmd(flags).Register, "themes")
	require.NoError(t, err)

	assert.Contains(t, out, "* dark")
	assert.Contains(t, out, "  light")
}

func TestConfigCmd_Show(t *testing.T) {
	out, err := runApp(t, NewConfigCmd(testFlags(t)).Register, "config")
	require.NoError(t, err)

	assert.Contains(t, out, "theme: dark")
	assert.Contains(t, out, "tab_width: 4")
	assert.NotContains(t, out, "data_dir")
}

func TestConfigCmd_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out, err := runApp(t, NewConfigCmd(testFlags(t)).Register, "config", "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration is valid")
	})

	t.Run("invalid json", func(t *testing.T) {
		flags := testFlags(t)
		flags.Config.View.ScrollMargin = -1

		out, err := runApp(t, NewConfigCmd(flags).Register, "config", "validate", "--format", "json")
		var exitErr cli.ExitCoder
		require.True(t, errors.As(err, &exitErr))

		var res struct {
			Valid  bool              `json:"valid"`
			Errors []validationError `json:"errors"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.False(t, res.Valid)
		require.NotEmpty(t, res.Errors)
		assert.Equal(t, "view.scroll_margin", res.Errors[0].Field)
	})
}

func TestDoctorCmd_JSON(t *testing.T) {
	flags := testFlags(t)
	flags.Config.GitPath = "sh"
	flags.Config.CopyCommand = "cat"

	cmd := NewDoctorCmd(flags, openerFor(sampleRepo()))
	cmd.isTTY = func() bool { return true }
	cmd.getenv = func(k string) string {
		return map[string]string{"TERM": "xterm", "COLORTERM": "truecolor", "EDITOR": "sh"}[k]
	}

	out, err := runApp(t, cmd.Register, "doctor", "--format", "json")
	require.NoError(t, err)

	var res struct {
		Healthy bool `json:"healthy"`
		Checks  []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Healthy)

	names := make([]string, 0, len(res.Checks))
	for _, c := range res.Checks {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Configuration", "Tools", "Repository", "Terminal"}, names)
}
