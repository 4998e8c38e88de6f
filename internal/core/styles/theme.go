package styles

import (
	"image/color"
	"sort"
)

// DefaultTheme is the name of the default theme.
const DefaultTheme = "dark"

// SyntaxColors are the foregrounds used for highlighted tokens.
type SyntaxColors struct {
	Comment         color.Color
	Keyword         color.Color
	String          color.Color
	Number          color.Color
	Function        color.Color
	FunctionMacro   color.Color
	Type            color.Color
	VariableBuiltin color.Color
	VariableMember  color.Color
	Module          color.Color
	Operator        color.Color
	Tag             color.Color
	Attribute       color.Color
	Label           color.Color
	Punctuation     color.Color
	Default         color.Color
}

// DiffColors are the row, gutter and word emphasis colors of the diff panels.
type DiffColors struct {
	AddedBg         color.Color
	AddedGutterBg   color.Color
	AddedGutterFg   color.Color
	DeletedBg       color.Color
	DeletedGutterBg color.Color
	DeletedGutterFg color.Color
	ContextBg       color.Color
	PlaceholderFg   color.Color
	AddedWordBg     color.Color
	DeletedWordBg   color.Color
}

// UIColors cover everything outside the diff rows.
type UIColors struct {
	Background      color.Color
	BorderFocused   color.Color
	BorderUnfocused color.Color
	TextPrimary     color.Color
	TextSecondary   color.Color
	TextMuted       color.Color
	LineNumber      color.Color
	FooterBg        color.Color
	FooterBranchBg  color.Color
	FooterBranchFg  color.Color
	StatusAdded     color.Color
	StatusModified  color.Color
	StatusDeleted   color.Color
	StatsAdded      color.Color
	StatsRemoved    color.Color
	SelectionBg     color.Color
	SelectionFg     color.Color
	Highlight       color.Color
	Viewed          color.Color
	Watching        color.Color
	SearchMatchBg   color.Color
	SearchMatchFg   color.Color
	SearchCurrentBg color.Color
	SearchCurrentFg color.Color
	CalloutBorder   color.Color
	CalloutFg       color.Color
}

// Theme is a complete set of colors. It is not modified after construction.
type Theme struct {
	Name   string
	Dark   bool
	Syntax SyntaxColors
	Diff   DiffColors
	UI     UIColors
}

func darkTheme() *Theme {
	return &Theme{
		Name: "dark",
		Dark: true,
		Syntax: SyntaxColors{
			Comment:         rgb(106, 115, 125),
			Keyword:         rgb(255, 123, 114),
			String:          rgb(165, 214, 255),
			Number:          rgb(121, 192, 255),
			Function:        rgb(210, 168, 255),
			FunctionMacro:   rgb(86, 182, 194),
			Type:            rgb(255, 203, 107),
			VariableBuiltin: rgb(255, 123, 114),
			VariableMember:  rgb(121, 192, 255),
			Module:          rgb(230, 192, 123),
			Operator:        rgb(255, 123, 114),
			Tag:             rgb(126, 231, 135),
			Attribute:       rgb(121, 192, 255),
			Label:           rgb(255, 160, 122),
			Punctuation:     rgb(200, 200, 200),
			Default:         rgb(230, 230, 230),
		},
		Diff: DiffColors{
			AddedBg:         rgb(35, 50, 40),
			AddedGutterBg:   rgb(40, 80, 50),
			AddedGutterFg:   rgb(140, 200, 160),
			DeletedBg:       rgb(50, 35, 35),
			DeletedGutterBg: rgb(80, 40, 40),
			DeletedGutterFg: rgb(200, 140, 140),
			ContextBg:       rgb(40, 40, 50),
			PlaceholderFg:   rgb(55, 60, 70),
			AddedWordBg:     rgb(40, 85, 55),
			DeletedWordBg:   rgb(100, 50, 50),
		},
		UI: UIColors{
			Background:      rgb(22, 22, 28),
			BorderFocused:   rgb(0, 205, 205),
			BorderUnfocused: rgb(88, 88, 88),
			TextPrimary:     rgb(230, 230, 230),
			TextSecondary:   rgb(200, 200, 200),
			TextMuted:       rgb(140, 140, 160),
			LineNumber:      rgb(88, 88, 88),
			FooterBg:        rgb(30, 30, 40),
			FooterBranchBg:  rgb(50, 50, 70),
			FooterBranchFg:  rgb(180, 180, 220),
			StatusAdded:     rgb(80, 200, 120),
			StatusModified:  rgb(230, 200, 80),
			StatusDeleted:   rgb(240, 80, 80),
			StatsAdded:      rgb(80, 200, 120),
			StatsRemoved:    rgb(240, 80, 80),
			SelectionBg:     rgb(0, 205, 205),
			SelectionFg:     rgb(0, 0, 0),
			Highlight:       rgb(230, 200, 80),
			Viewed:          rgb(80, 200, 120),
			Watching:        rgb(230, 200, 80),
			SearchMatchBg:   rgb(100, 80, 20),
			SearchMatchFg:   rgb(255, 220, 120),
			SearchCurrentBg: rgb(255, 165, 0),
			SearchCurrentFg: rgb(0, 0, 0),
			CalloutBorder:   rgb(121, 192, 255),
			CalloutFg:       rgb(200, 200, 200),
		},
	}
}

func lightTheme() *Theme {
	return &Theme{
		Name: "light",
		Syntax: SyntaxColors{
			Comment:         rgb(106, 115, 125),
			Keyword:         rgb(207, 34, 46),
			String:          rgb(10, 48, 105),
			Number:          rgb(5, 80, 174),
			Function:        rgb(130, 80, 223),
			FunctionMacro:   rgb(17, 99, 41),
			Type:            rgb(149, 56, 0),
			VariableBuiltin: rgb(207, 34, 46),
			VariableMember:  rgb(5, 80, 174),
			Module:          rgb(149, 56, 0),
			Operator:        rgb(207, 34, 46),
			Tag:             rgb(17, 99, 41),
			Attribute:       rgb(5, 80, 174),
			Label:           rgb(191, 87, 0),
			Punctuation:     rgb(87, 96, 106),
			Default:         rgb(36, 41, 47),
		},
		Diff: DiffColors{
			AddedBg:         rgb(230, 255, 237),
			AddedGutterBg:   rgb(180, 240, 200),
			AddedGutterFg:   rgb(36, 100, 60),
			DeletedBg:       rgb(255, 245, 243),
			DeletedGutterBg: rgb(255, 210, 205),
			DeletedGutterFg: rgb(140, 60, 60),
			ContextBg:       rgb(246, 248, 250),
			PlaceholderFg:   rgb(200, 205, 212),
			AddedWordBg:     rgb(171, 242, 188),
			DeletedWordBg:   rgb(255, 184, 174),
		},
		UI: UIColors{
			Background:      rgb(255, 255, 255),
			BorderFocused:   rgb(9, 105, 218),
			BorderUnfocused: rgb(208, 215, 222),
			TextPrimary:     rgb(36, 41, 47),
			TextSecondary:   rgb(87, 96, 106),
			TextMuted:       rgb(140, 149, 159),
			LineNumber:      rgb(140, 149, 159),
			FooterBg:        rgb(246, 248, 250),
			FooterBranchBg:  rgb(221, 244, 255),
			FooterBranchFg:  rgb(9, 105, 218),
			StatusAdded:     rgb(26, 127, 55),
			StatusModified:  rgb(154, 103, 0),
			StatusDeleted:   rgb(207, 34, 46),
			StatsAdded:      rgb(26, 127, 55),
			StatsRemoved:    rgb(207, 34, 46),
			SelectionBg:     rgb(9, 105, 218),
			SelectionFg:     rgb(255, 255, 255),
			Highlight:       rgb(154, 103, 0),
			Viewed:          rgb(26, 127, 55),
			Watching:        rgb(154, 103, 0),
			SearchMatchBg:   rgb(255, 235, 150),
			SearchMatchFg:   rgb(0, 0, 0),
			SearchCurrentBg: rgb(255, 140, 0),
			SearchCurrentFg: rgb(0, 0, 0),
			CalloutBorder:   rgb(9, 105, 218),
			CalloutFg:       rgb(87, 96, 106),
		},
	}
}

// FromPalette derives a dark theme from a semantic palette. Diff backgrounds
// are the status colors blended over the palette background.
func FromPalette(name string, p Palette) *Theme {
	bg := p.Background
	return &Theme{
		Name: name,
		Dark: true,
		Syntax: SyntaxColors{
			Comment:         p.Muted,
			Keyword:         p.Primary,
			String:          p.Success,
			Number:          p.Warning,
			Function:        p.Secondary,
			FunctionMacro:   p.Secondary,
			Type:            p.Warning,
			VariableBuiltin: p.Error,
			VariableMember:  p.Foreground,
			Module:          p.Warning,
			Operator:        Blend(p.Primary, p.Foreground, 0.5),
			Tag:             p.Error,
			Attribute:       p.Secondary,
			Label:           p.Warning,
			Punctuation:     Blend(p.Foreground, p.Muted, 0.4),
			Default:         p.Foreground,
		},
		Diff: DiffColors{
			AddedBg:         Blend(bg, p.Success, 0.15),
			AddedGutterBg:   Blend(bg, p.Success, 0.30),
			AddedGutterFg:   p.Success,
			DeletedBg:       Blend(bg, p.Error, 0.15),
			DeletedGutterBg: Blend(bg, p.Error, 0.30),
			DeletedGutterFg: p.Error,
			ContextBg:       Blend(bg, p.Surface, 0.6),
			PlaceholderFg:   p.Surface,
			AddedWordBg:     Blend(bg, p.Success, 0.35),
			DeletedWordBg:   Blend(bg, p.Error, 0.35),
		},
		UI: UIColors{
			Background:      bg,
			BorderFocused:   p.Primary,
			BorderUnfocused: p.Surface,
			TextPrimary:     p.Foreground,
			TextSecondary:   Blend(p.Foreground, p.Muted, 0.3),
			TextMuted:       p.Muted,
			LineNumber:      p.Muted,
			FooterBg:        Blend(bg, p.Surface, 0.5),
			FooterBranchBg:  p.Surface,
			FooterBranchFg:  p.Primary,
			StatusAdded:     p.Success,
			StatusModified:  p.Warning,
			StatusDeleted:   p.Error,
			StatsAdded:      p.Success,
			StatsRemoved:    p.Error,
			SelectionBg:     p.Primary,
			SelectionFg:     bg,
			Highlight:       p.Warning,
			Viewed:          p.Success,
			Watching:        p.Warning,
			SearchMatchBg:   Blend(bg, p.Warning, 0.35),
			SearchMatchFg:   p.Warning,
			SearchCurrentBg: p.Warning,
			SearchCurrentFg: bg,
			CalloutBorder:   p.Secondary,
			CalloutFg:       p.Foreground,
		},
	}
}

// Get returns the named theme. Each call builds a fresh value.
func Get(name string) (*Theme, bool) {
	switch name {
	case "dark":
		return darkTheme(), true
	case "light":
		return lightTheme(), true
	}
	p, ok := palettes[name]
	if !ok {
		return nil, false
	}
	return FromPalette(name, p), true
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := append([]string{"dark", "light"}, PaletteNames()...)
	sort.Strings(names)
	return names
}
