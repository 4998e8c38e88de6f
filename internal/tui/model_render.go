package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/wk-j/lumen/internal/core/compositor"
	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/internal/core/layout"
	"github.com/wk-j/lumen/internal/core/review"
	"github.com/wk-j/lumen/internal/core/selection"
	"github.com/wk-j/lumen/internal/core/styles"
	"github.com/wk-j/lumen/pkg/utils"
)

const (
	emptyMessage    = "No changes detected."
	watchingMessage = " (watching for changes...)"
	binaryMessage   = "Binary file - not displayed"
)

// View renders the TUI.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (m Model) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	main := m.renderMain()

	switch m.modal {
	case modalAnnotate:
		return overlay(main, m.editor.View(), m.width, m.height)
	case modalAnnotations:
		return overlay(main, m.list.View(), m.width, m.height)
	case modalExport:
		return overlay(main, m.export.View(), m.width, m.height)
	case modalPreview:
		return overlay(main, m.preview.View(), m.width, m.height)
	case modalPicker:
		return overlay(main, m.picker.View(), m.width, m.height)
	case modalHelp:
		content := lipgloss.JoinVertical(lipgloss.Left,
			styles.ModalTitleStyle.Render("Keys"),
			"",
			m.help.View(m.keys),
			styles.ModalHelpStyle.Render("esc/?: close"),
		)
		return overlay(main, styles.ModalStyle.Render(content), m.width, m.height)
	}
	return main
}

// overlay centers fg over bg.
func overlay(bg, fg string, w, h int) string {
	bgLayer := lipgloss.NewLayer(bg)
	fgLayer := lipgloss.NewLayer(fg)
	fgLayer.X(max((w-lipgloss.Width(fg))/2, 0)).Y(max((h-lipgloss.Height(fg))/2, 0)).Z(1)
	return lipgloss.NewCompositor(bgLayer, fgLayer).Render()
}

func (m Model) renderMain() string {
	lines := make([]string, 0, m.height)
	if m.state.Stacked() {
		lines = append(lines, m.renderStackedHeader())
	}
	lines = append(lines, m.renderTitles())

	body := m.renderBody()
	for i := range m.diffHeight() {
		line := ""
		if m.state.ShowSidebar() {
			line = m.renderSidebarLine(i)
		}
		lines = append(lines, line+body[i])
	}

	lines = append(lines, m.renderFooter())
	return strings.Join(lines, "\n")
}

// pad cuts s to w cells and fills the rest with st.
func pad(s string, w int, st lipgloss.Style) string {
	if w <= 0 {
		return ""
	}
	s = ansi.Truncate(s, w, "")
	if n := w - ansi.StringWidth(s); n > 0 {
		s += st.Render(strings.Repeat(" ", n))
	}
	return s
}

// --- Header ---

func (m Model) renderStackedHeader() string {
	idx, total := m.state.StackedIndex()
	c, _ := m.state.CurrentCommit()

	key := styles.FooterBranchStyle
	bar := styles.FooterStyle

	var b strings.Builder
	if idx > 0 {
		b.WriteString(bar.Render(" ‹ ") + key.Render(" ctrl+h "))
	}
	b.WriteString(bar.Render(fmt.Sprintf(" [%s] [%d/%d] %s %s ", m.backendName(), idx+1, total, c.ShortID, c.Summary)))
	if idx < total-1 {
		b.WriteString(key.Render(" ctrl+l ") + bar.Render(" › "))
	}
	return pad(b.String(), m.width, bar)
}

func (m Model) backendName() string {
	if m.opts.Backend == nil {
		return "git"
	}
	return m.opts.Backend.Name()
}

func (m Model) renderTitles() string {
	var b strings.Builder

	if m.state.ShowSidebar() {
		title := fmt.Sprintf(" Files %d/%d ", m.state.ViewedCount(), len(m.state.Files()))
		st := styles.TextSecondaryStyle.Bold(m.state.Focus() == review.FocusSidebar)
		b.WriteString(pad(st.Render(title), m.layout.SidebarWidth, lipgloss.NewStyle()))
	}

	f, _ := m.state.Current()
	oldTitle, newTitle := " [1] Old ", " [2] New "
	switch f.Status {
	case diff.StatusAdded:
		newTitle = " [2] New File "
	case diff.StatusDeleted:
		oldTitle = " [1] Deleted File "
	}

	st := styles.TextMutedStyle
	if m.state.Focus() == review.FocusDiff {
		st = styles.TextPrimaryStyle.Bold(true)
	}
	b.WriteString(" ")
	if m.layout.OldWidth > 0 {
		b.WriteString(pad(st.Render(oldTitle), m.layout.OldWidth, lipgloss.NewStyle()))
	}
	if m.layout.NewWidth > 0 {
		b.WriteString(pad(st.Render(newTitle), m.layout.NewWidth, lipgloss.NewStyle()))
	}
	return pad(b.String(), m.width, lipgloss.NewStyle())
}

// --- Sidebar ---

func (m Model) renderSidebarLine(i int) string {
	w := m.layout.SidebarWidth
	v := m.state.SidebarScroll() + i
	item, ok := m.state.SidebarItemAt(v)
	if !ok {
		return strings.Repeat(" ", w)
	}

	var label string
	if item.Kind == review.ItemDir {
		label = styles.DirIcon(!m.state.IsCollapsed(item.Path)) + item.Name + "/"
	} else {
		label = styles.FileIcon(item.Path) + item.Name
	}
	label = strings.Repeat("  ", item.Depth) + label
	label = ansi.Cut(label, m.state.SidebarHScroll(), m.state.SidebarHScroll()+w)

	st := styles.TextPrimaryStyle
	marker := "  "
	if item.Kind == review.ItemFile {
		if m.state.IsViewed(item.FileIndex) {
			st = styles.TextMutedStyle
			marker = "✓ "
		} else {
			marker = item.Status.Symbol() + " "
		}
		if item.FileIndex == m.state.CurrentIndex() {
			st = st.Bold(true)
		}
	}
	if v == m.state.SidebarSelected() && m.state.Focus() == review.FocusSidebar {
		st = styles.ModalActiveStyle
	}

	markerStyle := m.statusStyle(item)
	text := markerStyle.Render(marker) + st.Render(ansi.Truncate(label, max(w-3, 0), "…"))
	return pad(text, w, lipgloss.NewStyle())
}

func (m Model) statusStyle(item review.Item) lipgloss.Style {
	ui := m.theme.UI
	switch {
	case item.Kind == review.ItemDir:
		return styles.TextMutedStyle
	case m.state.IsViewed(item.FileIndex):
		return lipgloss.NewStyle().Foreground(ui.Viewed)
	case item.Status == diff.StatusAdded:
		return lipgloss.NewStyle().Foreground(ui.StatusAdded)
	case item.Status == diff.StatusDeleted:
		return lipgloss.NewStyle().Foreground(ui.StatusDeleted)
	}
	return lipgloss.NewStyle().Foreground(ui.StatusModified)
}

// --- Diff panels ---

// screenRows lays out the diff area: the number of sticky context rows at the
// top, then diff rows interleaved with annotation callouts.
func (m Model) screenRows() (int, []compositor.ScreenRow, []compositor.Callout) {
	oldCtx, newCtx := m.stickyContext()
	ctxRows := max(len(oldCtx), len(newCtx))
	height := max(m.diffHeight()-ctxRows, 0)

	rows := m.state.SideBySide()
	callouts := m.comp.Callouts(rows, m.state.Hunks(), m.state.Annotations(),
		m.state.CurrentIndex(), m.layout.ContentWidth(m.calloutPanel())-1)
	return ctxRows, compositor.Layout(len(rows), m.state.Scroll(), height, callouts), callouts
}

func (m Model) stickyContext() (oldCtx, newCtx []diff.ContextLine) {
	if m.layout.OldWidth > 0 {
		oldCtx = m.state.StickyContextFor(true)
	}
	if m.layout.NewWidth > 0 {
		newCtx = m.state.StickyContextFor(false)
	}
	return oldCtx, newCtx
}

// calloutPanel is the panel annotation boxes are drawn in.
func (m Model) calloutPanel() selection.Panel {
	if m.layout.NewWidth == 0 {
		return selection.PanelOld
	}
	return selection.PanelNew
}

func (m Model) visiblePanels() []selection.Panel {
	var out []selection.Panel
	if m.layout.OldWidth > 0 {
		out = append(out, selection.PanelOld)
	}
	if m.layout.NewWidth > 0 {
		out = append(out, selection.PanelNew)
	}
	return out
}

func (m Model) panelWidth(p selection.Panel) int {
	if p == selection.PanelOld {
		return m.layout.OldWidth
	}
	return m.layout.NewWidth
}

func reservesFocusColumn(l layout.Layout, p selection.Panel) bool {
	return l.ContentOffset(p) > layout.GutterWidth
}

// renderBody returns one string per diff area row, covering the diff area
// from its left border to its right border.
func (m Model) renderBody() []string {
	height := m.diffHeight()
	areaWidth := max(m.width-m.layout.DiffAreaX(), 0)
	out := make([]string, height)

	borderStyle := lipgloss.NewStyle().Foreground(m.theme.UI.BorderUnfocused)
	if m.state.Focus() == review.FocusDiff {
		borderStyle = borderStyle.Foreground(m.theme.UI.BorderFocused)
	}
	border := borderStyle.Render("│")

	if m.state.Empty() {
		msg := emptyMessage
		if m.watcher != nil {
			msg += watchingMessage
		}
		for i := range out {
			out[i] = strings.Repeat(" ", areaWidth)
		}
		out[height/2] = lipgloss.PlaceHorizontal(areaWidth, lipgloss.Center, styles.TextMutedStyle.Render(msg))
		return out
	}

	f, _ := m.state.Current()
	m.comp.SetFile(f)
	inner := max(areaWidth-2*layout.BorderWidth, 0)

	if f.IsBinary {
		for i := range out {
			out[i] = border + strings.Repeat(" ", inner) + border
		}
		out[0] = border + pad(styles.TextMutedStyle.Render(" "+binaryMessage), inner, lipgloss.NewStyle()) + border
		return out
	}

	ctxRows, screen, callouts := m.screenRows()
	oldCtx, newCtx := m.stickyContext()
	rows := m.state.SideBySide()
	focusStart, focusEnd, focusOK := m.state.FocusedHunkRows()

	for i := range out {
		var b strings.Builder
		b.WriteString(border)

		switch {
		case i < ctxRows:
			for _, p := range m.visiblePanels() {
				ctx := newCtx
				if p == selection.PanelOld {
					ctx = oldCtx
				}
				var cl *diff.ContextLine
				if i < len(ctx) {
					cl = &ctx[i]
				}
				b.WriteString(m.renderContextCell(p, cl))
			}

		case i-ctxRows < len(screen):
			sr := screen[i-ctxRows]
			for _, p := range m.visiblePanels() {
				if sr.Kind == compositor.RowCallout {
					b.WriteString(m.renderCalloutCell(p, callouts[sr.Callout].Lines[sr.Line]))
					continue
				}
				focused := focusOK && sr.Row >= focusStart && sr.Row <= focusEnd
				b.WriteString(m.renderPanelCell(p, rows, sr.Row, focused))
			}

		default:
			b.WriteString(strings.Repeat(" ", inner))
		}

		out[i] = pad(b.String(), areaWidth-layout.BorderWidth, lipgloss.NewStyle()) + border
	}
	return out
}

func (m Model) renderPanelCell(p selection.Panel, rows []diff.DiffLine, idx int, focused bool) string {
	w := m.panelWidth(p)
	cw := m.layout.ContentWidth(p)

	var spans []compositor.Span
	if reservesFocusColumn(m.layout, p) {
		spans = append(spans, m.comp.FocusIndicator(focused))
	}

	line := rows[idx]
	side := line.SideFor(p == selection.PanelOld)
	if side == nil {
		spans = append(spans, m.comp.Placeholder(cw)...)
		return pad(compositor.Render(spans), w, lipgloss.NewStyle())
	}
	spans = append(spans, m.comp.Gutter(side.Number, line.Kind, p))

	r := compositor.Row{
		Line:      line,
		Panel:     p,
		Index:     idx,
		Matches:   m.state.Search().MatchesFor(idx, p),
		Selection: m.state.Selection(),
		TabWidth:  m.state.TabWidth(),
	}
	hs := m.state.HScroll()
	text := ansi.Cut(compositor.Render(m.comp.Line(r)), hs, hs+cw)

	return compositor.Render(spans) + pad(text, cw, m.comp.Fill(r).Lip())
}

func (m Model) renderContextCell(p selection.Panel, cl *diff.ContextLine) string {
	w := m.panelWidth(p)
	prefix := ""
	if reservesFocusColumn(m.layout, p) {
		prefix = " "
	}
	text := prefix + compositor.Render(m.comp.ContextLine(cl, p == selection.PanelOld, m.state.TabWidth()))
	return pad(text, w, lipgloss.NewStyle().Background(m.theme.Diff.ContextBg))
}

func (m Model) renderCalloutCell(p selection.Panel, line string) string {
	w := m.panelWidth(p)
	if p != m.calloutPanel() {
		return strings.Repeat(" ", w)
	}
	return pad(strings.Repeat(" ", m.layout.ContentOffset(p))+line, w, lipgloss.NewStyle())
}

// --- Footer ---

func (m Model) renderFooter() string {
	bar := styles.FooterStyle

	if m.modal == modalSearch {
		return pad(m.search.View(), m.width, bar)
	}

	var parts []string
	if m.opts.Branch != "" {
		parts = append(parts, styles.FooterBranchStyle.Render(" "+m.opts.Branch+" "))
	}

	if f, ok := m.state.Current(); ok {
		stats := m.state.Stats()
		parts = append(parts,
			bar.Render(" "+utils.TruncatePath(f.Filename, max(m.width/3, 12))+" "),
			styles.StatsAddedStyle.Inherit(bar).Render(fmt.Sprintf("+%d", stats.Added)),
			bar.Render(" "),
			styles.StatsRemovedStyle.Inherit(bar).Render(fmt.Sprintf("-%d", stats.Removed)),
			bar.Render(fmt.Sprintf(" %d/%d ", m.state.CurrentIndex()+1, len(m.state.Files()))),
		)
	}

	if n := m.state.AnnotationCount(); n > 0 {
		parts = append(parts, bar.Render(fmt.Sprintf(" %d notes ", n)))
	}

	if s := m.state.Search(); s.HasQuery() {
		info := fmt.Sprintf(" /%s [0/0] ", s.Query())
		if n := len(s.Matches()); n > 0 {
			info = fmt.Sprintf(" /%s [%d/%d] ", s.Query(), s.Index()+1, n)
		}
		parts = append(parts, bar.Render(info))
	}

	if m.status != "" {
		st := bar
		if m.statusErr {
			st = styles.ModalErrorStyle.Inherit(bar)
		}
		parts = append(parts, st.Render(" "+m.status+" "))
	}

	left := strings.Join(parts, "")
	right := bar.Render(" ? help ")
	gap := m.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 0 {
		return pad(left, m.width, bar)
	}
	return left + bar.Render(strings.Repeat(" ", gap)) + right
}
