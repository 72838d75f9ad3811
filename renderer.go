package promptress

import (
	"fmt"
	"io"
)

const (
	GlyphArrow    = "\ue0b0" // chip transition
	GlyphContinue = "\ue0b1" // same-background separator

	// Readline markers around zero-width sequences.
	nonPrintBegin = "\x01"
	nonPrintEnd   = "\x02"
)

// Renderer paints chips onto w. It remembers the last background so that it
// can pick the right transition glyph for the next chip. A Renderer serves
// exactly one prompt line.
type Renderer struct {
	w       io.Writer
	lastBG  uint8
	painted bool
	err     error
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Err returns the first write error, if any.
func (r *Renderer) Err() error { return r.err }

func (r *Renderer) write(s string) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.w, s)
}

func (r *Renderer) colorBegin() { r.write(nonPrintBegin + "\x1b[0") }
func (r *Renderer) colorEnd() { r.write("m" + nonPrintEnd) }

func (r *Renderer) colorFG(c uint8) {
	switch {
	case c < 8:
		r.write(fmt.Sprintf(";%d", 30+int(c)))
	case c < 16:
		r.write(fmt.Sprintf(";%d", 90-8+int(c)))
	default:
		r.write(fmt.Sprintf(";38;5;%d", c))
	}
}

func (r *Renderer) colorBG(c uint8) {
	switch {
	case c < 8:
		r.write(fmt.Sprintf(";%d", 40+int(c)))
	case c < 16:
		r.write(fmt.Sprintf(";%d", 100-8+int(c)))
	default:
		r.write(fmt.Sprintf(";48;5;%d", c))
	}
}

func (r *Renderer) paint(bg uint8) {
	r.colorBegin()
	r.colorBG(bg)
	r.colorEnd()
}

// ApplyStyle switches the foreground and attributes while keeping the
// current background.
func (r *Renderer) ApplyStyle(s Style) {
	r.colorBegin()
	if r.painted {
		r.colorBG(r.lastBG)
	}
	r.colorFG(s.Color)
	if s.Bold {
		r.write(";1")
	}
	if s.Italic {
		r.write(";3")
	}
	if s.Underline {
		r.write(";4")
	}
	if s.Blink {
		r.write(";5")
	}
	if s.Strike {
		r.write(";9")
	}
	r.colorEnd()
}

// BeginSegment opens a new chip with background bg.
func (r *Renderer) BeginSegment(bg uint8) {
	switch {
	case !r.painted:
		r.paint(bg)
		r.write(" ")
	case r.lastBG == bg:
		r.ApplyStyle(Color(0))
		r.write(" " + GlyphContinue + " ")
	default:
		r.write(" ")
		r.colorBegin()
		r.colorFG(r.lastBG)
		r.colorBG(bg)
		r.colorEnd()
		r.write(GlyphArrow)
		r.paint(bg)
		r.write(" ")
	}
	r.lastBG = bg
	r.painted = true
}

func (r *Renderer) Text(s string) { r.write(s) }

// Finish closes the line. It must run once, after every part.
func (r *Renderer) Finish() error {
	if r.painted {
		r.write(" ")
		r.colorBegin()
		r.colorEnd()
	}
	return r.err
}
