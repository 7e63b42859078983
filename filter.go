package msgame

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrUnknownFilter is returned when a filter chain names an unregistered filter.
var ErrUnknownFilter = errors.New("msgame: unknown filter")

// Filter is a post-processing effect rendering src into dst.
type Filter interface {
	// Apply renders src into dst with the filter effect.
	Apply(src, dst *ebiten.Image)
	// Padding returns the extra pixels needed around the source to accommodate
	// the effect (e.g. blur radius, outline thickness). Zero means no padding.
	Padding() int
}

// FilterContext is handed to every step of a filter chain. Canvases holds
// the transformed frame at index 0 followed by the output of each previous
// step.
type FilterContext struct {
	Canvases []*ebiten.Image
}

// Last returns the most recent canvas.
func (fc *FilterContext) Last() *ebiten.Image { return fc.Canvases[len(fc.Canvases)-1] }

// Canvas resolves a chain argument: a canvas index, or a shape descriptor
// rendered at the size of the last canvas.
func (fc *FilterContext) Canvas(ref string) (*ebiten.Image, error) {
	if i, err := strconv.Atoi(ref); err == nil {
		if i < 0 || i >= len(fc.Canvases) {
			return nil, fmt.Errorf("msgame: canvas %d out of range", i)
		}
		return fc.Canvases[i], nil
	}
	s, err := ParseShape(ref)
	if err != nil {
		return nil, err
	}
	b := fc.Last().Bounds()
	return s.Render(b.Dx(), b.Dy()), nil
}

// FilterFunc is one named step of a filter chain. It must return a new image
// and leave the canvases it reads untouched.
type FilterFunc func(fc *FilterContext, args []string) (*ebiten.Image, error)

// FilterRegistry maps chain step names to their implementation.
type FilterRegistry struct {
	funcs map[string]FilterFunc
}

// NewFilterRegistry returns a registry holding the built-in filters:
// compose, tint, brightness, contrast, saturation, blur and outline.
func NewFilterRegistry() *FilterRegistry {
	r := &FilterRegistry{funcs: make(map[string]FilterFunc)}
	r.Register("compose", composeFilter)
	r.Register("tint", tintFilter)
	for name, m := range colorMatrixSetters {
		r.Register(name, matrixFilter(m.set, m.identity))
	}
	r.Register("blur", blurFilter)
	r.Register("outline", outlineFilter)
	return r
}

var builtinFilters = NewFilterRegistry()

// Register adds or replaces the filter called name.
func (r *FilterRegistry) Register(name string, fn FilterFunc) {
	r.funcs[name] = fn
}

// ParseFilterChain splits "name,arg;name,arg" into its steps.
func ParseFilterChain(chain string) [][]string {
	if chain == "" {
		return nil
	}
	var steps [][]string
	for _, step := range strings.Split(chain, ";") {
		if step = strings.TrimSpace(step); step == "" {
			continue
		}
		parts := strings.Split(step, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		steps = append(steps, parts)
	}
	return steps
}

// Run applies chain to img and returns the last canvas produced.
func (r *FilterRegistry) Run(img *ebiten.Image, chain string) (*ebiten.Image, error) {
	fc := &FilterContext{Canvases: []*ebiten.Image{img}}
	for _, step := range ParseFilterChain(chain) {
		fn, ok := r.funcs[step[0]]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownFilter, step[0])
		}
		out, err := fn(fc, step[1:])
		if err != nil {
			return nil, fmt.Errorf("msgame: filter %s: %w", step[0], err)
		}
		fc.Canvases = append(fc.Canvases, out)
	}
	return fc.Last(), nil
}

func floatArg(args []string, i int, def float64) (float64, error) {
	if i >= len(args) || args[i] == "" {
		return def, nil
	}
	return strconv.ParseFloat(args[i], 64)
}

func stringArg(args []string, i int, def string) string {
	if i >= len(args) || args[i] == "" {
		return def
	}
	return args[i]
}

func cloneImage(src *ebiten.Image, pad int) *ebiten.Image {
	b := src.Bounds()
	dst := ebiten.NewImage(b.Dx()+2*pad, b.Dy()+2*pad)
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(pad), float64(pad))
	dst.DrawImage(src, &op)
	return dst
}

// applyFilter runs f from src into a new image grown by the filter padding.
func applyFilter(f Filter, src *ebiten.Image) *ebiten.Image {
	pad := f.Padding()
	in := src
	if pad > 0 {
		in = cloneImage(src, pad)
	}
	b := in.Bounds()
	dst := ebiten.NewImage(b.Dx(), b.Dy())
	f.Apply(in, dst)
	return dst
}

// compose,<op>,<src>,<comp> draws canvas comp over a copy of canvas src
// with the given composite operation.
func composeFilter(fc *FilterContext, args []string) (*ebiten.Image, error) {
	mode, err := ParseBlendMode(stringArg(args, 0, "source-over"))
	if err != nil {
		return nil, err
	}
	src, err := fc.Canvas(stringArg(args, 1, "0"))
	if err != nil {
		return nil, err
	}
	comp, err := fc.Canvas(stringArg(args, 2, strconv.Itoa(len(fc.Canvases)-1)))
	if err != nil {
		return nil, err
	}
	out := cloneImage(src, 0)
	sb, cb := out.Bounds(), comp.Bounds()
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(sb.Dx())/float64(cb.Dx()), float64(sb.Dy())/float64(cb.Dy()))
	op.Blend = mode.EbitenBlend()
	out.DrawImage(comp, &op)
	return out, nil
}

// tint,<color> paints the last canvas with a flat color, keeping its alpha.
func tintFilter(fc *FilterContext, args []string) (*ebiten.Image, error) {
	color := stringArg(args, 0, "white")
	return composeFilter(fc, []string{"source-atop", strconv.Itoa(len(fc.Canvases) - 1), color})
}

// colorMatrixSetters maps filter names to their setter and the argument
// that leaves colors unchanged.
var colorMatrixSetters = map[string]struct {
	set      func(*ColorMatrixFilter, float64)
	identity float64
}{
	"brightness": {(*ColorMatrixFilter).SetBrightness, 0},
	"contrast":   {(*ColorMatrixFilter).SetContrast, 1},
	"saturation": {(*ColorMatrixFilter).SetSaturation, 1},
}

// matrixFilter adapts a color matrix setter; def is the setter's identity
// value, used when the argument is left out.
func matrixFilter(set func(*ColorMatrixFilter, float64), def float64) FilterFunc {
	return func(fc *FilterContext, args []string) (*ebiten.Image, error) {
		f, err := matrixFromArgs(set, def, args)
		if err != nil {
			return nil, err
		}
		return applyFilter(f, fc.Last()), nil
	}
}

func matrixFromArgs(set func(*ColorMatrixFilter, float64), def float64, args []string) (*ColorMatrixFilter, error) {
	v, err := floatArg(args, 0, def)
	if err != nil {
		return nil, err
	}
	f := NewColorMatrixFilter()
	set(f, v)
	return f, nil
}

func blurFilter(fc *FilterContext, args []string) (*ebiten.Image, error) {
	r, err := floatArg(args, 0, 2)
	if err != nil {
		return nil, err
	}
	return applyFilter(NewBlurFilter(int(r)), fc.Last()), nil
}

func outlineFilter(fc *FilterContext, args []string) (*ebiten.Image, error) {
	c, err := parseColor(stringArg(args, 0, "white"))
	if err != nil {
		return nil, err
	}
	t, err := floatArg(args, 1, 1)
	if err != nil {
		return nil, err
	}
	return applyFilter(NewOutlineFilter(int(t), ColorFrom(c)), fc.Last()), nil
}

// --- Kage shader sources ---
// Ebitengine uses premultiplied alpha; the shader un-premultiplies before
// processing and re-premultiplies its output.

const colorMatrixShaderSrc = `//kage:unit pixels
package main

var Matrix [20]float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		c.rgb /= c.a
	}
	r := Matrix[0]*c.r + Matrix[1]*c.g + Matrix[2]*c.b + Matrix[3]*c.a + Matrix[4]
	g := Matrix[5]*c.r + Matrix[6]*c.g + Matrix[7]*c.b + Matrix[8]*c.a + Matrix[9]
	b := Matrix[10]*c.r + Matrix[11]*c.g + Matrix[12]*c.b + Matrix[13]*c.a + Matrix[14]
	a := Matrix[15]*c.r + Matrix[16]*c.g + Matrix[17]*c.b + Matrix[18]*c.a + Matrix[19]
	r = clamp(r, 0, 1)
	g = clamp(g, 0, 1)
	b = clamp(b, 0, 1)
	a = clamp(a, 0, 1)
	return vec4(r*a, g*a, b*a, a)
}
`

// Compiled on first use; filters run on the loop goroutine only.
var colorMatrixShader *ebiten.Shader

func ensureColorMatrixShader() *ebiten.Shader {
	if colorMatrixShader == nil {
		s, err := ebiten.NewShader([]byte(colorMatrixShaderSrc))
		if err != nil {
			panic("msgame: failed to compile color matrix shader: " + err.Error())
		}
		colorMatrixShader = s
	}
	return colorMatrixShader
}

// --- ColorMatrixFilter ---

// ColorMatrixFilter applies a 4x5 color matrix transformation using a Kage shader.
// The matrix is stored in row-major order: [R_r, R_g, R_b, R_a, R_offset, G_r, ...].
type ColorMatrixFilter struct {
	Matrix   [20]float64
	shaderOp ebiten.DrawRectShaderOptions
}

// NewColorMatrixFilter creates a color matrix filter initialized to the identity.
func NewColorMatrixFilter() *ColorMatrixFilter {
	f := &ColorMatrixFilter{}
	f.Matrix[0] = 1
	f.Matrix[6] = 1
	f.Matrix[12] = 1
	f.Matrix[18] = 1
	return f
}

// SetBrightness sets the matrix to adjust brightness by the given offset [-1, 1].
func (f *ColorMatrixFilter) SetBrightness(b float64) {
	f.Matrix = [20]float64{
		1, 0, 0, 0, b,
		0, 1, 0, 0, b,
		0, 0, 1, 0, b,
		0, 0, 0, 1, 0,
	}
}

// SetContrast sets the matrix to adjust contrast. c=1 is normal, 0=gray, >1 is higher.
func (f *ColorMatrixFilter) SetContrast(c float64) {
	t := (1.0 - c) / 2.0
	f.Matrix = [20]float64{
		c, 0, 0, 0, t,
		0, c, 0, 0, t,
		0, 0, c, 0, t,
		0, 0, 0, 1, 0,
	}
}

// SetSaturation sets the matrix to adjust saturation. s=1 is normal, 0=grayscale.
func (f *ColorMatrixFilter) SetSaturation(s float64) {
	sr := (1 - s) * 0.299
	sg := (1 - s) * 0.587
	sb := (1 - s) * 0.114
	f.Matrix = [20]float64{
		sr + s, sg, sb, 0, 0,
		sr, sg + s, sb, 0, 0,
		sr, sg, sb + s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Apply renders the color matrix transformation from src into dst.
func (f *ColorMatrixFilter) Apply(src, dst *ebiten.Image) {
	m := make([]float32, len(f.Matrix))
	for i, v := range f.Matrix {
		m[i] = float32(v)
	}
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = map[string]any{"Matrix": m}
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), ensureColorMatrixShader(), &f.shaderOp)
}

// Padding returns 0; color matrix transforms don't expand the image bounds.
func (f *ColorMatrixFilter) Padding() int { return 0 }

// --- BlurFilter ---

// BlurFilter applies a Kawase iterative blur using downscale/upscale passes.
// Bilinear filtering during DrawImage does the work.
type BlurFilter struct {
	Radius int
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

// NewBlurFilter creates a blur filter with the given radius (in pixels).
func NewBlurFilter(radius int) *BlurFilter {
	if radius < 0 {
		radius = 0
	}
	return &BlurFilter{Radius: radius}
}

// Apply renders a Kawase blur from src into dst.
func (f *BlurFilter) Apply(src, dst *ebiten.Image) {
	op := &f.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	if f.Radius <= 0 {
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(src, op)
		return
	}

	passes := max(int(math.Ceil(math.Log2(float64(f.Radius)))), 1)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	f.temps = f.temps[:0]

	current := src
	for i := 0; i < passes; i++ {
		w = max(w/2, 1)
		h = max(h/2, 1)
		tmp := ebiten.NewImage(w, h)
		f.temps = append(f.temps, tmp)
		f.scaleInto(tmp, current)
		current = tmp
	}
	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		f.scaleInto(f.temps[i], current)
		current = f.temps[i]
	}
	f.scaleInto(dst, current)

	for _, tmp := range f.temps {
		tmp.Deallocate()
	}
	f.temps = f.temps[:0]
}

func (f *BlurFilter) scaleInto(dst, src *ebiten.Image) {
	op := &f.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	sw, sh := float64(src.Bounds().Dx()), float64(src.Bounds().Dy())
	tw, th := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	op.GeoM.Scale(tw/sw, th/sh)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

// Padding returns the blur radius; the output is grown to avoid clipping.
func (f *BlurFilter) Padding() int { return f.Radius }

// --- OutlineFilter ---

// OutlineFilter draws the source in 8 cardinal/diagonal offsets with the outline
// color, then draws the original on top. Works at any thickness.
type OutlineFilter struct {
	Thickness int
	Color     Color
	imgOp     ebiten.DrawImageOptions
}

// NewOutlineFilter creates an outline filter.
func NewOutlineFilter(thickness int, c Color) *OutlineFilter {
	return &OutlineFilter{Thickness: max(thickness, 0), Color: c}
}

// Apply draws an 8-direction offset outline behind the source image.
func (f *OutlineFilter) Apply(src, dst *ebiten.Image) {
	t := float64(f.Thickness)
	offsets := [8][2]float64{
		{-t, 0}, {t, 0}, {0, -t}, {0, t},
		{-t, -t}, {t, -t}, {-t, t}, {t, t},
	}
	op := &f.imgOp
	for _, off := range offsets {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.GeoM.Translate(off[0], off[1])
		op.ColorScale.Scale(
			float32(f.Color.R*f.Color.A),
			float32(f.Color.G*f.Color.A),
			float32(f.Color.B*f.Color.A),
			float32(f.Color.A),
		)
		dst.DrawImage(src, op)
	}
	op.GeoM.Reset()
	op.ColorScale.Reset()
	dst.DrawImage(src, op)
}

// Padding returns the outline thickness.
func (f *OutlineFilter) Padding() int { return f.Thickness }
