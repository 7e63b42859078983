package msgame

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

// ShapeKind is the outline of a synthesized placeholder image.
type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeCircle
)

// Shape is a parsed shape descriptor such as "red", "red_box" or
// "#ffcc00_circle".
type Shape struct {
	Color color.RGBA
	Kind  ShapeKind
}

// ParseShape parses a "<color>[_<box|circle>]" descriptor. Colors are SVG
// names, "transparent", "#rgb" or "#rrggbb".
func ParseShape(desc string) (Shape, error) {
	name, kind, found := strings.Cut(desc, "_")
	var s Shape
	c, err := parseColor(name)
	if err != nil {
		return s, err
	}
	s.Color = c
	if found {
		switch kind {
		case "box":
			s.Kind = ShapeBox
		case "circle":
			s.Kind = ShapeCircle
		default:
			return s, fmt.Errorf("msgame: unknown shape %q in %q", kind, desc)
		}
	}
	return s, nil
}

func parseColor(s string) (color.RGBA, error) {
	if s == "transparent" {
		return color.RGBA{}, nil
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) == 6 {
			v, err := strconv.ParseUint(hex, 16, 32)
			if err == nil {
				return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
			}
		}
	}
	return color.RGBA{}, fmt.Errorf("msgame: unknown color %q", s)
}

// Render draws the shape into a new w by h image.
func (s Shape) Render(w, h int) *ebiten.Image {
	img := ebiten.NewImage(max(w, 1), max(h, 1))
	s.drawInto(img)
	return img
}

func (s Shape) drawInto(img *ebiten.Image) {
	b := img.Bounds()
	switch s.Kind {
	case ShapeCircle:
		w, h := float32(b.Dx()), float32(b.Dy())
		vector.DrawFilledCircle(img, float32(b.Min.X)+w/2, float32(b.Min.Y)+h/2, min(w, h)/2, s.Color, true)
	default:
		img.Fill(s.Color)
	}
}

const shapeSize = 10

// shapeCache holds one placeholder animation per descriptor.
type shapeCache struct {
	anims map[string]*Animation
}

func (c *shapeCache) animation(desc string) (*Animation, error) {
	if a, ok := c.anims[desc]; ok {
		return a, nil
	}
	s, err := ParseShape(desc)
	if err != nil {
		return nil, err
	}
	if c.anims == nil {
		c.anims = make(map[string]*Animation)
	}
	a := NewAnimation([]Frame{StaticFrame(s.Render(shapeSize, shapeSize))})
	c.anims[desc] = a
	return a, nil
}
