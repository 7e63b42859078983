package msgame

// Pointer is the one pointer shared by mouse and touch input. It fires
// EventPointerDown, EventPointerUp and EventPointerMove, then EventClick or
// EventDblClick on each press.
type Pointer struct {
	Entity

	X, Y   float64
	IsDown bool
}

// Boundaries returns a zero-size rect at the pointer position, so the
// pointer can be tested with Overlaps.
func (p *Pointer) Boundaries() Rect { return Rect{X: p.X, Y: p.Y} }

// PointerDown records a press at (x, y) in game coordinates. A press within
// DblClickDuration of the previous click raises EventDblClick and clears the
// click timer, so a third quick press starts over with a plain click.
func (g *Game) PointerDown(x, y float64) {
	p := g.Pointer
	p.X, p.Y = x, y
	p.IsDown = true
	p.Trigger(Event{Name: EventPointerDown, Pointer: p})

	name := EventClick
	if g.hasLastClick && g.Time()-g.lastClick < g.DblClickDuration {
		name = EventDblClick
		g.hasLastClick = false
	} else {
		g.lastClick = g.Time()
		g.hasLastClick = true
	}
	ev := Event{Name: name, Pointer: p}
	g.Trigger(ev)
	p.Trigger(ev)
	g.routeClick(ev)
}

// PointerUp records the release of the pointer.
func (g *Game) PointerUp(x, y float64) {
	p := g.Pointer
	p.X, p.Y = x, y
	p.IsDown = false
	p.Trigger(Event{Name: EventPointerUp, Pointer: p})
}

// PointerMove records a pointer move.
func (g *Game) PointerMove(x, y float64) {
	p := g.Pointer
	p.X, p.Y = x, y
	p.Trigger(Event{Name: EventPointerMove, Pointer: p})
}

// routeClick hands a click to the active scene and to every HUD sprite
// under the pointer, topmost first.
func (g *Game) routeClick(ev Event) {
	if sc := g.activeScene(); sc != nil && !sc.Removed() {
		sc.Trigger(ev)
	}
	x, y := g.Pointer.X, g.Pointer.Y
	order := g.hudOrder()
	for i := len(order) - 1; i >= 0; i-- {
		if s := order[i]; !s.Removed() && s.HitTest(x, y) {
			s.Trigger(ev)
		}
	}
}
