package msgame

type injectKind uint8

const (
	injectDown injectKind = iota
	injectMove
	injectUp
)

// syntheticPointerEvent is a queued pointer event in game coordinates.
type syntheticPointerEvent struct {
	x, y float64
	kind injectKind
}

// InjectDown queues a pointer press at (x, y). Queued events are consumed
// one per tick, before the update, and real input is ignored while the
// queue is not empty.
func (g *Game) InjectDown(x, y float64) {
	g.inject = append(g.inject, syntheticPointerEvent{x: x, y: y, kind: injectDown})
}

// InjectMove queues a pointer move to (x, y).
func (g *Game) InjectMove(x, y float64) {
	g.inject = append(g.inject, syntheticPointerEvent{x: x, y: y, kind: injectMove})
}

// InjectUp queues a pointer release at (x, y).
func (g *Game) InjectUp(x, y float64) {
	g.inject = append(g.inject, syntheticPointerEvent{x: x, y: y, kind: injectUp})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two ticks.
func (g *Game) InjectClick(x, y float64) {
	g.InjectDown(x, y)
	g.InjectUp(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 evenly spaced moves
// and a release at (toX, toY). frames is at least 2.
func (g *Game) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	g.InjectDown(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		g.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	g.InjectUp(toX, toY)
}

// Injected returns how many synthetic events are still queued.
func (g *Game) Injected() int { return len(g.inject) }

// processInjected pops one queued event and feeds it to the pointer
// handlers. It reports whether an event was consumed.
func (g *Game) processInjected() bool {
	if len(g.inject) == 0 {
		return false
	}
	evt := g.inject[0]
	copy(g.inject, g.inject[1:])
	g.inject = g.inject[:len(g.inject)-1]

	switch evt.kind {
	case injectDown:
		if g.Pointer.X != evt.x || g.Pointer.Y != evt.y {
			g.PointerMove(evt.x, evt.y)
		}
		g.PointerDown(evt.x, evt.y)
	case injectMove:
		g.PointerMove(evt.x, evt.y)
	case injectUp:
		g.PointerUp(evt.x, evt.y)
	}
	return true
}
