package promptress

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	stemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	vcsStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	swatchStyle = lipgloss.NewStyle().Width(5).Align(lipgloss.Center)
)

const paletteColumns = 16

// VisibleWidth is the number of terminal cells prompt occupies once the
// escape sequences are gone.
func VisibleWidth(prompt string) int {
	prompt = strings.NewReplacer(nonPrintBegin, "", nonPrintEnd, "").Replace(prompt)
	return ansi.StringWidth(prompt)
}

// Preview is what `promptress preview` reports about one rendering.
type Preview struct {
	Dir     string
	Display string
	Prompt  string
	Parts   []Part
}

func FormatPreview(p Preview) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Prompt") + "\n")
	b.WriteString(p.Prompt + "\n\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(label), value))
	}
	field("dir:", p.Dir)
	field("display:", p.Display)
	field("width:", strconv.Itoa(VisibleWidth(p.Prompt)))

	b.WriteString(labelStyle.Render("parts:") + "\n")
	for _, part := range p.Parts {
		b.WriteString(fmt.Sprintf("  %s\n", formatPart(part)))
	}
	return b.String()
}

func formatPart(p Part) string {
	switch {
	case p.IsStem():
		return stemStyle.Render(p.String())
	case p.Kind == PartVcs:
		return vcsStyle.Render(p.String())
	case p.Kind == PartTruncate:
		return markerStyle.Render(p.String())
	}
	return p.String()
}

// FormatPalette lays out the 256 palette indices as swatches, the numbers
// used for every color in the config.
func FormatPalette() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Palette") + "\n")
	for row := 0; row < 256/paletteColumns; row++ {
		cells := make([]string, 0, paletteColumns)
		for col := 0; col < paletteColumns; col++ {
			c := row*paletteColumns + col
			cells = append(cells, swatchStyle.
				Background(lipgloss.Color(strconv.Itoa(c))).
				Foreground(lipgloss.Color(swatchForeground(c))).
				Render(strconv.Itoa(c)))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n")
	}
	return b.String()
}

// swatchForeground picks black or white text for readability on background c.
func swatchForeground(c int) string {
	const black, white = "0", "15"
	switch {
	case c < 16:
		switch c {
		case 2, 3, 6, 7, 10, 11, 14, 15:
			return black
		}
		return white
	case c < 232:
		c -= 16
		r, g, bl := c/36, (c/6)%6, c%6
		if 299*r+587*g+114*bl >= 2500 {
			return black
		}
		return white
	case c >= 244:
		return black
	}
	return white
}
