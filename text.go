package msgame

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Font is a TrueType face with a cached line height.
type Font struct {
	face *text.GoTextFace
	lh   float64
}

// LoadFont parses TTF or OTF data at the given size.
func LoadFont(ttfData []byte, size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("msgame: parse font: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &Font{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// LineHeight returns the distance between baselines.
func (f *Font) LineHeight() float64 { return f.lh }

// Face returns the text/v2 face.
func (f *Font) Face() *text.GoTextFace { return f.face }

// MeasureString returns the size of s rendered with f.
func (f *Font) MeasureString(s string) (w, h float64) {
	return text.Measure(s, f.face, f.lh)
}

var defaultFonts = map[float64]*Font{}

// DefaultFont returns Go Regular at the given size.
func DefaultFont(size float64) *Font {
	if f, ok := defaultFonts[size]; ok {
		return f
	}
	f, err := LoadFont(goregular.TTF, size)
	if err != nil {
		panic("msgame: " + err.Error())
	}
	defaultFonts[size] = f
	return f
}

// TextAlign positions lines inside a multi-line text.
type TextAlign uint8

const (
	// AlignAuto follows the sprite anchor: 0 is left, 1 right, else center.
	AlignAuto TextAlign = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a TextAlign) resolve(anchorX float64) TextAlign {
	if a != AlignAuto {
		return a
	}
	switch anchorX {
	case 0:
		return AlignLeft
	case 1:
		return AlignRight
	}
	return AlignCenter
}

// Text is an ImageSource that renders a string. The image is redrawn only
// when the value changes, and the sprite is resized to fit it.
type Text struct {
	// Value returns the string to show; it may change every frame.
	Value func() string
	Font  *Font
	Color Color
	Align TextAlign
	// LineHeight overrides the font line height when positive.
	LineHeight float64

	prev     string
	rendered bool
	align    TextAlign
	img      *ebiten.Image
}

// NewText returns a black 20px text showing s.
func NewText(s string) *Text {
	t := &Text{Color: ColorBlack}
	t.Set(s)
	return t
}

// NewTextFunc returns a black 20px text showing whatever fn returns.
func NewTextFunc(fn func() string) *Text {
	return &Text{Value: fn, Color: ColorBlack}
}

// Set replaces the value with a constant string.
func (t *Text) Set(s string) { t.Value = func() string { return s } }

// Invalidate forces a redraw on the next frame, after a color or font
// change.
func (t *Text) Invalidate() { t.rendered = false }

func (t *Text) lineHeight() float64 {
	if t.LineHeight > 0 {
		return t.LineHeight
	}
	return t.font().LineHeight()
}

func (t *Text) font() *Font {
	if t.Font == nil {
		t.Font = DefaultFont(20)
	}
	return t.Font
}

// SourceImage implements ImageSource.
func (t *Text) SourceImage(s *Sprite, _ float64) *ebiten.Image {
	v := ""
	if t.Value != nil {
		v = t.Value()
	}
	align := t.Align.resolve(s.AnchorX)
	if t.rendered && v == t.prev && align == t.align {
		return t.img
	}
	t.prev, t.align, t.rendered = v, align, true
	t.render(v, align)
	if t.img == nil {
		s.Width, s.Height = 0, 0
		return nil
	}
	b := t.img.Bounds()
	s.Width, s.Height = float64(b.Dx()), float64(b.Dy())
	return t.img
}

func (t *Text) render(v string, align TextAlign) {
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
	if v == "" {
		return
	}
	f := t.font()
	lh := t.lineHeight()
	lines := strings.Split(v, "\n")
	width := 0.0
	for _, line := range lines {
		width = max(width, text.Advance(line, f.face))
	}
	w := max(int(math.Ceil(width)), 1)
	h := max(int(math.Ceil(lh*float64(len(lines)))), 1)
	t.img = ebiten.NewImage(w, h)

	op := &text.DrawOptions{}
	op.ColorScale.ScaleWithColor(t.Color.RGBA())
	for i, line := range lines {
		x := 0.0
		switch align {
		case AlignCenter:
			x = math.Floor((width - text.Advance(line, f.face)) / 2)
		case AlignRight:
			x = width - text.Advance(line, f.face)
		}
		op.GeoM.Reset()
		op.GeoM.Translate(x, float64(i)*lh)
		text.Draw(t.img, line, f.face, op)
	}
}

// TextSprite returns a sprite kind that shows t.
func TextSprite(t *Text) SpriteKind {
	return SpriteKind{Name: "text", Setup: func(s *Sprite) {
		s.Source = t
	}}
}
