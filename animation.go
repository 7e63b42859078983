package msgame

import (
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/hajimehoshi/ebiten/v2"
)

// Frame is one image of an animation. Image returns nil until the backing
// asset has loaded.
type Frame interface {
	Image() *ebiten.Image
}

type staticFrame struct{ img *ebiten.Image }

func (f staticFrame) Image() *ebiten.Image { return f.img }

// StaticFrame wraps an already available image.
func StaticFrame(img *ebiten.Image) Frame { return staticFrame{img} }

// StaticFrames wraps each image with StaticFrame.
func StaticFrames(imgs ...*ebiten.Image) []Frame {
	frames := make([]Frame, len(imgs))
	for i, img := range imgs {
		frames[i] = StaticFrame(img)
	}
	return frames
}

// AnimationOption configures an Animation.
type AnimationOption func(*Animation)

// WithFPS sets the frame rate. Non-positive values are ignored.
func WithFPS(fps float64) AnimationOption {
	return func(a *Animation) {
		if fps > 0 {
			a.FPS = fps
		}
	}
}

// WithLoop sets whether the animation wraps around.
func WithLoop(loop bool) AnimationOption {
	return func(a *Animation) { a.Loop = loop }
}

// WithFilters sets the registry used to resolve filter chains.
func WithFilters(r *FilterRegistry) AnimationOption {
	return func(a *Animation) { a.Filters = r }
}

// Animation is an ordered image sequence played at FPS frames per second.
// It also memoizes every transformed rendition of its frames; the cache is
// never evicted, so its size is the number of distinct transforms a game
// asks for.
//
// An Animation may be shared by many sprites but must only be used from the
// loop goroutine.
type Animation struct {
	Frames  []Frame
	FPS     float64
	Loop    bool
	Filters *FilterRegistry

	cache    map[cacheKey][]cacheEntry
	cacheLen int
	keyBuf   []byte
}

type cacheKey struct {
	src  *ebiten.Image
	hash uint64
}

type cacheEntry struct {
	params string
	img    *ebiten.Image
}

// NewAnimation returns a looping animation at 1 frame per second unless
// options say otherwise.
func NewAnimation(frames []Frame, opts ...AnimationOption) *Animation {
	a := &Animation{Frames: frames, FPS: 1, Loop: true}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Duration returns the length of one pass through the frames, in seconds.
func (a *Animation) Duration() float64 {
	return float64(len(a.Frames)) / a.FPS
}

// FrameIndex returns the index of the frame shown t seconds into the
// animation. ok is false once a non-looping animation has finished.
func (a *Animation) FrameIndex(t float64) (idx int, ok bool) {
	n := len(a.Frames)
	if n == 0 || t < 0 {
		return 0, false
	}
	i := int(math.Floor(t * a.FPS))
	if a.Loop {
		return i % n, true
	}
	if i >= n {
		return 0, false
	}
	return i, true
}

// Frame returns the image shown t seconds into the animation, or nil when
// there is none: the animation finished or the frame is still loading.
func (a *Animation) Frame(t float64) *ebiten.Image {
	i, ok := a.FrameIndex(t)
	if !ok {
		return nil
	}
	return a.Frames[i].Image()
}

// Finished reports whether a non-looping animation is past its end at t.
func (a *Animation) Finished(t float64) bool {
	_, ok := a.FrameIndex(t)
	return !ok
}

// CacheLen returns how many transformed images are memoized.
func (a *Animation) CacheLen() int { return a.cacheLen }

// Transform returns img rendered with p, from the cache when this exact
// combination was requested before.
func (a *Animation) Transform(img *ebiten.Image, p TransformParams) (*ebiten.Image, error) {
	a.keyBuf = p.appendKey(a.keyBuf[:0])
	key := cacheKey{src: img, hash: xxhash.Sum64(a.keyBuf)}
	for _, e := range a.cache[key] {
		if e.params == string(a.keyBuf) {
			return e.img, nil
		}
	}

	filters := a.Filters
	if filters == nil {
		filters = builtinFilters
	}
	out, err := renderTransform(img, p, filters)
	if err != nil {
		return nil, err
	}
	if a.cache == nil {
		a.cache = make(map[cacheKey][]cacheEntry)
	}
	a.cache[key] = append(a.cache[key], cacheEntry{params: string(a.keyBuf), img: out})
	a.cacheLen++
	return out, nil
}

// TransformParams describes how a frame is rendered before it is drawn.
type TransformParams struct {
	// Width and Height are the drawn size; zero keeps the source size.
	Width, Height float64
	// Angle is a clockwise rotation in radians about the image center. The
	// result grows to the rotated bounding box.
	Angle        float64
	FlipX, FlipY bool
	// Alpha scales opacity. Zero is treated as unset and leaves it opaque.
	Alpha float64
	// Composite is the operation used when the result is drawn.
	Composite BlendMode
	// Filters is a chain like "brightness,0.2;outline,red,1".
	Filters string
}

func (p TransformParams) appendKey(b []byte) []byte {
	b = strconv.AppendFloat(b, p.Width, 'g', -1, 64)
	b = append(b, '|')
	b = strconv.AppendFloat(b, p.Height, 'g', -1, 64)
	b = append(b, '|')
	b = strconv.AppendFloat(b, p.Angle, 'g', -1, 64)
	b = append(b, '|')
	b = strconv.AppendBool(b, p.FlipX)
	b = append(b, '|')
	b = strconv.AppendBool(b, p.FlipY)
	b = append(b, '|')
	b = strconv.AppendFloat(b, p.Alpha, 'g', -1, 64)
	b = append(b, '|')
	b = strconv.AppendUint(b, uint64(p.Composite), 10)
	b = append(b, '|')
	return append(b, p.Filters...)
}

// Key returns the serialized form used to identify p in the cache.
func (p TransformParams) Key() string { return string(p.appendKey(nil)) }

func renderTransform(src *ebiten.Image, p TransformParams, filters *FilterRegistry) (*ebiten.Image, error) {
	sb := src.Bounds()
	iw, ih := float64(sb.Dx()), float64(sb.Dy())
	w, h := p.Width, p.Height
	if w <= 0 {
		w = iw
	}
	if h <= 0 {
		h = ih
	}

	aw, ah := w, h
	if p.Angle != 0 {
		c, s := math.Abs(math.Cos(p.Angle)), math.Abs(math.Sin(p.Angle))
		aw = c*w + s*h
		ah = c*h + s*w
	}
	// Trim float noise so a quarter turn does not grow the canvas by a pixel.
	cw, ch := max(int(math.Ceil(aw-1e-9)), 1), max(int(math.Ceil(ah-1e-9)), 1)
	dst := ebiten.NewImage(cw, ch)

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w/iw, h/ih)
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Rotate(p.Angle)
	sx, sy := 1.0, 1.0
	if p.FlipX {
		sx = -1
	}
	if p.FlipY {
		sy = -1
	}
	op.GeoM.Scale(sx, sy)
	op.GeoM.Translate(float64(cw)/2, float64(ch)/2)
	if p.Angle != 0 {
		op.Filter = ebiten.FilterLinear
	}
	if p.Alpha > 0 && p.Alpha < 1 {
		op.ColorScale.ScaleAlpha(float32(p.Alpha))
	}
	dst.DrawImage(src, &op)

	if p.Filters == "" {
		return dst, nil
	}
	return filters.Run(dst, p.Filters)
}
