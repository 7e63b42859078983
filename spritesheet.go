package msgame

import (
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// SpriteSheet slices an image into equally sized frames, row by row: frame
// i sits at column i%cols of row i/cols. Frames can be handed out before the
// image has loaded; they stay empty until it has.
type SpriteSheet struct {
	img          *ImageAsset
	frameW       int
	frameH       int
	log          *zap.Logger
	mu           sync.Mutex
	frames       []*ebiten.Image
	cols, rows   int
	sliced       bool
	placeholders map[int]bool
}

// NewSpriteSheet loads the image at path and slices it into frameW by frameH
// frames once it arrives. Zero sizes mean the full image width or height.
func NewSpriteSheet(assets *Assets, path string, frameW, frameH int) *SpriteSheet {
	s := &SpriteSheet{
		img:    assets.LoadImage(path),
		frameW: frameW,
		frameH: frameH,
		log:    assets.log,
	}
	assets.Track(s)
	return s
}

// NewSpriteSheetFromImage slices an image that is already available.
func NewSpriteSheetFromImage(img *ebiten.Image, frameW, frameH int) *SpriteSheet {
	s := &SpriteSheet{img: &ImageAsset{img: img}, frameW: frameW, frameH: frameH, log: zap.NewNop()}
	s.img.finish(nil)
	s.slice()
	return s
}

// LoadState reports the sheet loaded once its image is decoded and sliced.
func (s *SpriteSheet) LoadState() (bool, error) {
	ok, err := s.img.LoadState()
	if !ok || err != nil {
		return false, err
	}
	s.slice()
	return true, nil
}

func (s *SpriteSheet) slice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sliced {
		return
	}
	src := s.img.img
	b := src.Bounds()
	fw, fh := s.frameW, s.frameH
	if fw <= 0 {
		fw = b.Dx()
	}
	if fh <= 0 {
		fh = b.Dy()
	}
	s.frameW, s.frameH = fw, fh
	s.cols, s.rows = b.Dx()/fw, b.Dy()/fh
	s.frames = make([]*ebiten.Image, 0, s.cols*s.rows)
	for j := 0; j < s.rows; j++ {
		for i := 0; i < s.cols; i++ {
			r := image.Rect(i*fw, j*fh, (i+1)*fw, (j+1)*fh).Add(b.Min)
			s.frames = append(s.frames, src.SubImage(r).(*ebiten.Image))
		}
	}
	s.sliced = true
}

// Len returns the number of frames, or 0 before the image has loaded.
func (s *SpriteSheet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// Grid returns the number of columns and rows.
func (s *SpriteSheet) Grid() (cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols, s.rows
}

// Frame returns frame i. An index past the end of a loaded sheet renders a
// magenta placeholder and logs a warning once.
func (s *SpriteSheet) Frame(i int) Frame { return sheetFrame{s, i} }

// Frames returns frames [from, to).
func (s *SpriteSheet) Frames(from, to int) []Frame {
	frames := make([]Frame, 0, max(to-from, 0))
	for i := from; i < to; i++ {
		frames = append(frames, s.Frame(i))
	}
	return frames
}

// Animation builds an animation over the given frame indices, or over the
// whole sheet when none are given. The sheet must have loaded for the
// whole-sheet form.
func (s *SpriteSheet) Animation(indices []int, opts ...AnimationOption) *Animation {
	var frames []Frame
	if len(indices) == 0 {
		frames = s.Frames(0, s.Len())
	} else {
		for _, i := range indices {
			frames = append(frames, s.Frame(i))
		}
	}
	return NewAnimation(frames, opts...)
}

func (s *SpriteSheet) image(i int) *ebiten.Image {
	if ok, _ := s.LoadState(); !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= 0 && i < len(s.frames) {
		return s.frames[i]
	}
	if !s.placeholders[i] {
		if s.placeholders == nil {
			s.placeholders = make(map[int]bool)
		}
		s.placeholders[i] = true
		s.log.Warn("sprite sheet frame out of range, using magenta placeholder",
			zap.String("src", s.img.src), zap.Int("frame", i), zap.Int("frames", len(s.frames)))
	}
	return ensureMagentaImage()
}

type sheetFrame struct {
	sheet *SpriteSheet
	index int
}

func (f sheetFrame) Image() *ebiten.Image { return f.sheet.image(f.index) }

// Loop goroutine only, like the other lazily built images.
var magentaImage *ebiten.Image

func ensureMagentaImage() *ebiten.Image {
	if magentaImage == nil {
		magentaImage = ebiten.NewImage(1, 1)
		magentaImage.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	}
	return magentaImage
}
