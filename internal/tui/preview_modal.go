package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/wk-j/lumen/internal/core/styles"
)

const (
	modalWidthPct  = 65
	modalMinWidth  = 60
	modalMaxHeight = 30
	modalMargin    = 4
	previewChrome  = 6 // title + divider + help + spacing
)

// previewModal shows the annotation export rendered as markdown.
type previewModal struct {
	viewport viewport.Model
	width    int
}

func newPreviewModal(theme *styles.Theme, markdown string, width, height int) previewModal {
	modalWidth := calcModalWidth(width)
	contentHeight := max(min(height-modalMargin, modalMaxHeight)-previewChrome, 1)

	vp := viewport.New(
		viewport.WithWidth(modalWidth-4),
		viewport.WithHeight(contentHeight),
	)
	vp.SetContent(renderMarkdown(theme, markdown, modalWidth-6))

	return previewModal{viewport: vp, width: modalWidth}
}

// renderMarkdown renders md with the theme's glamour style. It falls back to
// the raw text when glamour fails.
func renderMarkdown(theme *styles.Theme, md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle(theme)),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func (p *previewModal) ScrollUp() { p.viewport.ScrollUp(1) }

func (p *previewModal) ScrollDown() { p.viewport.ScrollDown(1) }

func (p previewModal) View() string {
	scrollInfo := ""
	if p.viewport.TotalLineCount() > p.viewport.VisibleLineCount() {
		scrollInfo = styles.TextMutedStyle.Render(
			fmt.Sprintf(" (%.0f%%)", p.viewport.ScrollPercent()*100),
		)
	}

	divider := styles.DividerStyle.Render(strings.Repeat("─", max(p.width-6, 1)))
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render("Export Preview"+scrollInfo),
		divider,
		p.viewport.View(),
		styles.ModalHelpStyle.Render("[j/k] scroll  [esc] close"),
	)
	return styles.ModalStyle.Width(p.width).Render(content)
}

func calcModalWidth(termWidth int) int {
	available := max(termWidth-modalMargin, 1)
	target := termWidth * modalWidthPct / 100
	return min(max(target, modalMinWidth), available)
}
