package msgame

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// pointerInput is the polling state that folds the mouse and the first
// active touch into the single game pointer.
type pointerInput struct {
	mouseX, mouseY int
	mouseSeen      bool

	touchIDs []ebiten.TouchID
	touch    ebiten.TouchID
	touching bool
	touchX   int
	touchY   int
}

// pollInput reads mouse and touch state from ebiten and feeds it to the
// pointer handlers. Coordinates are already in game space because Layout
// returns the logical size.
func (g *Game) pollInput() {
	g.pollMouse()
	g.pollTouch()
}

func (g *Game) pollMouse() {
	in := &g.input
	mx, my := ebiten.CursorPosition()
	if !in.mouseSeen || mx != in.mouseX || my != in.mouseY {
		in.mouseSeen = true
		in.mouseX, in.mouseY = mx, my
		if !in.touching {
			g.PointerMove(float64(mx), float64(my))
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.PointerDown(float64(mx), float64(my))
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.PointerUp(float64(mx), float64(my))
	}
}

// pollTouch follows one touch at a time; other fingers are ignored until it
// is lifted.
func (g *Game) pollTouch() {
	in := &g.input
	if in.touching {
		if inpututil.IsTouchJustReleased(in.touch) {
			in.touching = false
			g.PointerUp(float64(in.touchX), float64(in.touchY))
			return
		}
		tx, ty := ebiten.TouchPosition(in.touch)
		if tx != in.touchX || ty != in.touchY {
			in.touchX, in.touchY = tx, ty
			g.PointerMove(float64(tx), float64(ty))
		}
		return
	}

	in.touchIDs = inpututil.AppendJustPressedTouchIDs(in.touchIDs[:0])
	if len(in.touchIDs) == 0 {
		return
	}
	in.touch = in.touchIDs[0]
	in.touching = true
	in.touchX, in.touchY = ebiten.TouchPosition(in.touch)
	g.PointerMove(float64(in.touchX), float64(in.touchY))
	g.PointerDown(float64(in.touchX), float64(in.touchY))
}
