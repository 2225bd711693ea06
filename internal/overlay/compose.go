package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// Align positions a layer along one axis. The zero value centres it.
type Align int

const (
	AlignCenter Align = iota
	AlignStart
	AlignEnd
)

// Placement controls layer alignment and sizing on the mount surface.
type Placement struct {
	Horizontal Align
	Vertical   Align
	MarginX    int
	MarginY    int
	Width      int
	Height     int
}

// Compose draws foreground atop background while keeping the background
// visible outside the layer bounds. Both views may carry ANSI styling.
func Compose(background string, width, height int, foreground string, placement Placement) string {
	if width <= 0 || height <= 0 {
		return background
	}
	bgLines := normalizeBackground(background, width, height)
	if foreground == "" {
		return strings.Join(bgLines, "\n")
	}
	fgLines := strings.Split(foreground, "\n")

	layerWidth := placement.Width
	if layerWidth <= 0 {
		for _, line := range fgLines {
			if w := lipgloss.Width(line); w > layerWidth {
				layerWidth = w
			}
		}
	}
	if layerWidth <= 0 {
		return strings.Join(bgLines, "\n")
	}
	if layerWidth > width {
		layerWidth = width
	}
	layerHeight := placement.Height
	if layerHeight <= 0 {
		layerHeight = len(fgLines)
	}
	if layerHeight > height {
		layerHeight = height
	}

	offsetX, offsetY := computeOffsets(width, height, layerWidth, layerHeight, placement)
	for row := 0; row < layerHeight; row++ {
		destY := offsetY + row
		if destY < 0 || destY >= len(bgLines) {
			continue
		}
		fgLine := ""
		if row < len(fgLines) {
			fgLine = fgLines[row]
		}
		fgLine = padToWidth(fgLine, layerWidth)
		base := bgLines[destY]
		prefix := truncate.String(base, uint(offsetX))
		suffix := skipWidth(base, offsetX+layerWidth)
		bgLines[destY] = prefix + resetSeq + fgLine + resetSeq + suffix
	}
	return strings.Join(bgLines, "\n")
}

const resetSeq = "\x1b[0m"

// Dim strips styling from view and renders it with style, producing the
// backdrop under blocking layers.
func Dim(view string, style lipgloss.Style) string {
	lines := strings.Split(view, "\n")
	for i, line := range lines {
		plain := StripANSI(line)
		if plain == "" {
			continue
		}
		lines[i] = style.Render(plain)
	}
	return strings.Join(lines, "\n")
}

// StripANSI removes escape sequences, keeping printable text.
func StripANSI(s string) string {
	return xansi.Strip(s)
}

func normalizeBackground(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padToWidth(lines[i], width)
	}
	return lines
}

func padToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w > width {
		return truncate.String(s, uint(width))
	}
	return s + strings.Repeat(" ", width-w)
}

// skipWidth drops the first n printable cells of s. Escape sequences met on
// the way are kept so the remaining text retains its styling.
func skipWidth(s string, n int) string {
	if n <= 0 {
		return s
	}
	var seqs strings.Builder
	seen := 0
	inSeq := false
	for i, r := range s {
		if r == ansi.Marker {
			inSeq = true
			seqs.WriteRune(r)
			continue
		}
		if inSeq {
			seqs.WriteRune(r)
			if ansi.IsTerminator(r) {
				inSeq = false
			}
			continue
		}
		if seen >= n {
			return seqs.String() + s[i:]
		}
		seen += runewidth.RuneWidth(r)
	}
	return ""
}

func computeOffsets(width, height, layerWidth, layerHeight int, placement Placement) (int, int) {
	offsetX := placement.MarginX
	switch placement.Horizontal {
	case AlignEnd:
		offsetX = width - layerWidth - placement.MarginX
	case AlignCenter:
		offsetX = (width - layerWidth) / 2
	}
	offsetX = clamp(offsetX, 0, width-layerWidth)

	offsetY := placement.MarginY
	switch placement.Vertical {
	case AlignEnd:
		offsetY = height - layerHeight - placement.MarginY
	case AlignCenter:
		offsetY = (height - layerHeight) / 2
	}
	offsetY = clamp(offsetY, 0, height-layerHeight)
	return offsetX, offsetY
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
