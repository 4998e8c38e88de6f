// Package tui is the interactive side-by-side review program.
package tui

import (
	"context"
	"os"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/wk-j/lumen/internal/core/compositor"
	"github.com/wk-j/lumen/internal/core/config"
	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/internal/core/git"
	"github.com/wk-j/lumen/internal/core/highlight"
	"github.com/wk-j/lumen/internal/core/layout"
	"github.com/wk-j/lumen/internal/core/logging"
	"github.com/wk-j/lumen/internal/core/review"
	"github.com/wk-j/lumen/internal/core/styles"
)

const (
	wheelInterval   = 16 * time.Millisecond
	wheelStep       = 3
	horizontalStep  = 4
	reloadTimeout   = 30 * time.Second
	minSidebarWidth = 20
	maxSidebarWidth = 35
)

// Options configure the review program.
type Options struct {
	Backend git.Backend
	Ref     git.Ref
	// Paths restricts reloads to these paths.
	Paths []string
	// Root is the repository root watched for changes.
	Root   string
	Files  []diff.FileDiff
	Review review.Options
	Config *config.Config
	Theme  *styles.Theme
	// Highlighter defaults to chroma.
	Highlighter compositor.Highlighter
	// Watch reloads when the working tree changes.
	Watch bool
	// Commits turns on stacked review when not empty.
	Commits   []git.Commit
	Branch    string
	Clipboard Clipboard
	Getenv    func(string) string
}

type modalKind int

const (
	modalNone modalKind = iota
	modalSearch
	modalAnnotate
	modalAnnotations
	modalExport
	modalPreview
	modalPicker
	modalHelp
)

// wheelState accumulates wheel events until the next flush tick.
type wheelState struct {
	dy, dx  int
	sidebar bool
	pending bool
}

type wheelFlushMsg struct{}

type reloadedMsg struct {
	files   []diff.FileDiff
	changed map[string]bool
	err     error
}

type commitLoadedMsg struct {
	files []diff.FileDiff
	err   error
}

// Model is the bubbletea model of the review program.
type Model struct {
	opts  Options
	state *review.State
	comp  *compositor.Compositor
	theme *styles.Theme
	keys  keyMap
	help  help.Model
	log   zerolog.Logger

	width  int
	height int
	layout layout.Layout

	modal  modalKind
	search textinput.Model
	editor annotationEditor
	// editorReturn is the modal shown after the editor closes.
	editorReturn modalKind
	list         annotationList
	export       exportPrompt
	preview      previewModal
	picker       filePicker

	status    string
	statusErr bool

	wheel   wheelState
	watcher *Watcher
}

// New builds the model. With Watch set it starts watching Root.
func New(opts Options) (Model, error) {
	if opts.Theme == nil {
		opts.Theme, _ = styles.Get(styles.DefaultTheme)
	}
	if opts.Config == nil {
		cfg := config.DefaultConfig()
		opts.Config = &cfg
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard{Fallback: opts.Config.CopyCommand}
	}
	if opts.Highlighter == nil {
		opts.Highlighter = highlight.NewChroma(opts.Theme)
	}
	styles.SetTheme(opts.Theme)

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search"

	m := Model{
		opts:   opts,
		state:  review.New(opts.Files, opts.Review),
		comp:   compositor.New(opts.Theme, opts.Highlighter),
		theme:  opts.Theme,
		keys:   defaultKeyMap(),
		help:   help.New(),
		log:    logging.Component("tui"),
		search: search,
	}
	if len(opts.Commits) > 0 {
		m.state.InitStacked(opts.Commits)
	}
	if !opts.Config.View.ShowSidebar {
		m.state.ToggleSidebar()
	}

	if opts.Watch && opts.Ref.IsWorkingTree() && opts.Root != "" {
		w, err := NewWatcher(opts.Root, opts.Config.Watch.Ignore, opts.Config.Watch.Debounce)
		if err != nil {
			return Model{}, err
		}
		m.watcher = w
	}

	return m, nil
}

// State exposes the review session.
func (m Model) State() *review.State { return m.state }

// Close releases the watcher.
func (m Model) Close() error {
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.Start()
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.relayout()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg, tea.MouseWheelMsg:
		if m.modal != modalNone && m.modal != modalSearch {
			return m, nil
		}
		return m.handleMouse(msg.(tea.MouseMsg))

	case wheelFlushMsg:
		m.flushWheel()
		return m, nil

	case filesChangedMsg:
		m.log.Debug().Strs("paths", msg.paths).Msg("working tree changed")
		cmds := []tea.Cmd{m.reloadCmd(msg.paths)}
		if m.watcher != nil {
			cmds = append(cmds, m.watcher.Start())
		}
		return m, tea.Batch(cmds...)

	case reloadedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("reload failed")
			m.setError("reload failed: " + msg.err.Error())
		}
		m.state.Reload(msg.files, msg.changed)
		m.afterFileChange()
		return m, nil

	case commitLoadedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("load commit failed")
			m.setError("load commit failed: " + msg.err.Error())
		}
		m.state.ApplyCommitFiles(msg.files)
		m.afterFileChange()
		return m, nil

	case editorFinishedMsg:
		if msg.err != nil {
			m.setError("editor: " + msg.err.Error())
			return m, nil
		}
		if m.opts.Ref.IsWorkingTree() {
			return m, m.reloadCmd(nil)
		}
		return m, nil
	}

	return m.updateModal(msg)
}

// relayout recomputes the panel geometry and the diff area height.
func (m *Model) relayout() {
	sidebar := min(max(m.width/4, m.sidebarMin()), m.sidebarMax())
	m.layout = layout.Calculate(m.width, sidebar, m.state.ShowSidebar(), m.state.Fullscreen())
	m.state.SetViewHeight(m.diffHeight())
	m.state.EnsureSidebarVisible(m.diffHeight())
}

func (m Model) sidebarMin() int {
	if v := m.opts.Config.View.SidebarMinWidth; v > 0 {
		return v
	}
	return minSidebarWidth
}

func (m Model) sidebarMax() int {
	if v := m.opts.Config.View.SidebarMaxWidth; v > 0 {
		return v
	}
	return maxSidebarWidth
}

// headerRows is the number of rows above the panel titles.
func (m Model) headerRows() int {
	if m.state.Stacked() {
		return 1
	}
	return 0
}

// contentStartY is the first screen row of diff content.
func (m Model) contentStartY() int {
	return m.headerRows() + 1
}

// diffHeight is the number of rows below the panel titles and above the
// footer.
func (m Model) diffHeight() int {
	return max(m.height-m.contentStartY()-1, 1)
}

// afterFileChange re-runs the search on the new rows and refreshes layout.
func (m *Model) afterFileChange() {
	if q := m.state.Search().Query(); q != "" {
		m.state.SetSearchQuery(q)
	}
	m.relayout()
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(s string) {
	m.status, m.statusErr = s, true
}

// currentRef is the reference reloads use: the displayed commit in stacked
// mode, the session reference otherwise.
func (m Model) currentRef() git.Ref {
	if c, ok := m.state.CurrentCommit(); ok {
		return git.Ref{Kind: git.RefSingle, To: c.ID}
	}
	return m.opts.Ref
}

func (m Model) reloadCmd(changed []string) tea.Cmd {
	if m.opts.Backend == nil {
		return nil
	}
	backend, ref, paths := m.opts.Backend, m.currentRef(), m.opts.Paths
	set := make(map[string]bool, len(changed))
	for _, p := range changed {
		set[p] = true
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(logging.WithDiffRef(context.Background(), ref.String()), reloadTimeout)
		defer cancel()
		files, err := backend.ChangedFiles(ctx, ref, paths)
		return reloadedMsg{files: files, changed: set, err: err}
	}
}

func (m Model) loadCommitCmd() tea.Cmd {
	if m.opts.Backend == nil {
		return nil
	}
	backend, ref, paths := m.opts.Backend, m.currentRef(), m.opts.Paths

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(logging.WithCommit(context.Background(), ref.To), reloadTimeout)
		defer cancel()
		files, err := backend.ChangedFiles(ctx, ref, paths)
		return commitLoadedMsg{files: files, err: err}
	}
}
