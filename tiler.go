package msgame

import "math"

// Viewport is the visible area, in world coordinates, a Tiler keeps covered.
type Viewport interface {
	ViewRect() Rect
}

// TileRange is an inclusive rectangle of tile coordinates. A range whose
// minimum exceeds its maximum is empty.
type TileRange struct {
	MinX, MinY, MaxX, MaxY int
}

// Empty reports whether the range holds no tile.
func (r TileRange) Empty() bool { return r.MinX > r.MaxX || r.MinY > r.MaxY }

// Contains reports whether (nx, ny) lies inside the range.
func (r TileRange) Contains(nx, ny int) bool {
	return nx >= r.MinX && nx <= r.MaxX && ny >= r.MinY && ny <= r.MaxY
}

func (r TileRange) grow(nx, ny int) TileRange {
	if r.Empty() {
		return TileRange{nx, ny, nx, ny}
	}
	return TileRange{min(r.MinX, nx), min(r.MinY, ny), max(r.MaxX, nx), max(r.MaxY, ny)}
}

// Tiler streams background tiles as a viewport scrolls. It only remembers
// the bounding rectangle of what it already emitted, so it suits scrolling
// that keeps moving in one direction: backing up across passed ground can
// skip or repeat tiles.
type Tiler struct {
	View       Viewport
	TileWidth  float64
	TileHeight float64

	// MarginTiles extends the covered range on every side so tiles exist
	// before they scroll into view.
	MarginTiles int

	// Emit creates the tile at tile coordinates (nx, ny). Its world position
	// is (nx*TileWidth, ny*TileHeight).
	Emit func(nx, ny int)

	emitted    TileRange
	hasEmitted bool
}

// NewTiler returns a Tiler covering view with tiles of the given size.
func NewTiler(view Viewport, tileWidth, tileHeight float64, emit func(nx, ny int)) *Tiler {
	if tileWidth <= 0 || tileHeight <= 0 {
		panic("msgame: tile size must be positive")
	}
	return &Tiler{
		View:       view,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		Emit:       emit,
	}
}

var emptyTileRange = TileRange{MinX: 1, MinY: 1}

// Emitted returns the bounding rectangle of every tile emitted so far, an
// empty range before the first one.
func (t *Tiler) Emitted() TileRange {
	if !t.hasEmitted {
		return emptyTileRange
	}
	return t.emitted
}

// Visible returns the tile range currently covered by the viewport. It is
// empty without a viewport or with a non-positive tile size.
func (t *Tiler) Visible() TileRange {
	if t.View == nil || t.TileWidth <= 0 || t.TileHeight <= 0 {
		return emptyTileRange
	}
	v := t.View.ViewRect()
	m := t.MarginTiles
	return TileRange{
		MinX: int(math.Floor(v.X/t.TileWidth)) - m,
		MinY: int(math.Floor(v.Y/t.TileHeight)) - m,
		MaxX: int(math.Floor((v.X+v.Width)/t.TileWidth)) + m,
		MaxY: int(math.Floor((v.Y+v.Height)/t.TileHeight)) + m,
	}
}

// AddNewTiles emits every visible tile lying outside the emitted bounds and
// grows the bounds to include them. It returns how many tiles were emitted.
func (t *Tiler) AddNewTiles() int {
	vis := t.Visible()
	prev := t.Emitted()
	next := prev
	n := 0
	for nx := vis.MinX; nx <= vis.MaxX; nx++ {
		for ny := vis.MinY; ny <= vis.MaxY; ny++ {
			if prev.Contains(nx, ny) {
				continue
			}
			if t.Emit != nil {
				t.Emit(nx, ny)
			}
			next = next.grow(nx, ny)
			n++
		}
	}
	if n > 0 {
		t.emitted = next
		t.hasEmitted = true
	}
	return n
}
