package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()

	assert.Equal(t, []string{"catppuccin", "dark", "gruvbox", "kanagawa", "light", "onedark", "tokyo-night"}, names)
	assert.Contains(t, names, DefaultTheme)
}

func TestGet_AllThemesComplete(t *testing.T) {
	for _, name := range ThemeNames() {
		t.Run(name, func(t *testing.T) {
			th, ok := Get(name)
			require.True(t, ok)
			assert.Equal(t, name, th.Name)

			for _, c := range []any{
				th.Syntax.Default, th.Syntax.Keyword, th.Syntax.Comment,
				th.Diff.AddedBg, th.Diff.DeletedBg, th.Diff.AddedWordBg, th.Diff.DeletedWordBg,
				th.UI.SelectionBg, th.UI.SearchCurrentBg, th.UI.SearchMatchBg, th.UI.CalloutBorder,
			} {
				assert.NotNil(t, c)
			}
		})
	}
}

func TestGet_Unknown(t *testing.T) {
	_, ok := Get("solarized")
	assert.False(t, ok)
}

func TestGet_ReturnsIndependentValues(t *testing.T) {
	a, _ := Get("dark")
	b, _ := Get("dark")
	a.UI.SelectionBg = nil

	assert.NotNil(t, b.UI.SelectionBg)
}

func TestBlend(t *testing.T) {
	black := rgb(0, 0, 0)
	white := rgb(255, 255, 255)

	tests := []struct {
		name    string
		weight  float64
		r, g, b uint8
	}{
		{name: "zero keeps base", weight: 0, r: 0, g: 0, b: 0},
		{name: "one takes overlay", weight: 1, r: 255, g: 255, b: 255},
		{name: "forty percent", weight: 0.4, r: 102, g: 102, b: 102},
		{name: "clamped", weight: 3, r: 255, g: 255, b: 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := RGB(Blend(black, white, tt.weight))
			assert.Equal(t, []uint8{tt.r, tt.g, tt.b}, []uint8{r, g, b})
		})
	}
}

func TestBlend_Nil(t *testing.T) {
	red := rgb(255, 0, 0)

	assert.Equal(t, red, Blend(nil, red, 0.5))
	assert.Equal(t, red, Blend(red, nil, 0.5))
}

func TestFromPalette_DerivesDiffBackgrounds(t *testing.T) {
	p, ok := GetPalette("gruvbox")
	require.True(t, ok)

	th := FromPalette("gruvbox", p)

	assert.Equal(t, Hex(Blend(p.Background, p.Success, 0.15)), Hex(th.Diff.AddedBg))
	assert.Equal(t, Hex(Blend(p.Background, p.Error, 0.15)), Hex(th.Diff.DeletedBg))
	assert.True(t, th.Dark)
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#ff8000", Hex(rgb(255, 128, 0)))
	assert.Empty(t, Hex(nil))
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(darkTheme()) })

	light, _ := Get("light")
	SetTheme(light)

	assert.Equal(t, "light", Current.Name)
	assert.Equal(t, light.UI.TextMuted, TextMutedStyle.GetForeground())
}

func TestGlamourStyle(t *testing.T) {
	dark, _ := Get("dark")
	cfg := GlamourStyle(dark)

	require.NotNil(t, cfg.Document.Color)
	assert.Equal(t, Hex(dark.UI.TextPrimary), *cfg.Document.Color)
}

func TestFileIcon(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.go", IconFileGo},
		{"docs/README.md", IconFileReadme},
		{"Dockerfile", IconFileDocker},
		{"config.YML", IconFileYAML},
		{"noext", IconFileDefault},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FileIcon(tt.path))
		})
	}
}
