// Package styles provides the color themes and shared lipgloss v2 styles for
// CLI and TUI components.
package styles

import (
	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
)

// Current is the active theme.
var Current *Theme

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	TextSuccessStyle   lipgloss.Style
	TextWarningStyle   lipgloss.Style
	TextErrorStyle     lipgloss.Style

	// TUI shared styles.
	ModalStyle       lipgloss.Style
	ModalTitleStyle  lipgloss.Style
	ModalHelpStyle   lipgloss.Style
	ModalErrorStyle  lipgloss.Style
	ModalActiveStyle lipgloss.Style

	TextPrimaryStyle   lipgloss.Style
	TextSecondaryStyle lipgloss.Style
	TextMutedStyle     lipgloss.Style

	FooterStyle       lipgloss.Style
	FooterBranchStyle lipgloss.Style

	StatsAddedStyle   lipgloss.Style
	StatsRemovedStyle lipgloss.Style
)

// SetTheme sets the active theme and rebuilds all global styles.
func SetTheme(t *Theme) {
	Current = t
	ui := t.UI

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ui.BorderFocused).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ui.TextMuted)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(ui.StatusAdded)
	TextWarningStyle = lipgloss.NewStyle().Foreground(ui.StatusModified)
	TextErrorStyle = lipgloss.NewStyle().Foreground(ui.StatusDeleted)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.BorderFocused).
		Background(ui.FooterBg).
		Foreground(ui.TextPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.TextPrimary)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ui.TextMuted).
		MarginTop(1)
	ModalErrorStyle = lipgloss.NewStyle().
		Foreground(ui.StatusDeleted)
	ModalActiveStyle = lipgloss.NewStyle().
		Background(ui.SelectionBg).
		Foreground(ui.SelectionFg)

	TextPrimaryStyle = lipgloss.NewStyle().Foreground(ui.TextPrimary)
	TextSecondaryStyle = lipgloss.NewStyle().Foreground(ui.TextSecondary)
	TextMutedStyle = lipgloss.NewStyle().Foreground(ui.TextMuted)

	FooterStyle = lipgloss.NewStyle().
		Background(ui.FooterBg).
		Foreground(ui.TextSecondary)
	FooterBranchStyle = lipgloss.NewStyle().
		Background(ui.FooterBranchBg).
		Foreground(ui.FooterBranchFg)

	StatsAddedStyle = lipgloss.NewStyle().Foreground(ui.StatsAdded)
	StatsRemovedStyle = lipgloss.NewStyle().Foreground(ui.StatsRemoved)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(darkTheme())
}

// GlamourStyle returns a Glamour style config derived from t.
func GlamourStyle(t *Theme) glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig
	if !t.Dark {
		cfg = glamourstyles.LightStyleConfig
	}

	fg := colorHexPtr(t.UI.TextPrimary)
	primary := colorHexPtr(t.UI.BorderFocused)
	secondary := colorHexPtr(t.Syntax.String)
	muted := colorHexPtr(t.UI.TextMuted)
	surface := colorHexPtr(t.UI.FooterBranchBg)

	cfg.Document.Color = fg

	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface
	cfg.H2.Color = primary
	cfg.H3.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary

	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	cfg.Item.Color = fg

	return cfg
}
