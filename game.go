package msgame

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Director decides what a game does each tick. The default policy updates
// the current scene, or the pause scene while paused, and draws the scene,
// the pause overlay and the HUD sprites.
type Director interface {
	Start(g *Game)
	Update(g *Game, dt float64)
	Draw(g *Game, dst *ebiten.Image, dt float64)
}

// DirectorFuncs builds a Director from functions. Nil fields fall back to
// the default policy.
type DirectorFuncs struct {
	StartFunc  func(g *Game)
	UpdateFunc func(g *Game, dt float64)
	DrawFunc   func(g *Game, dst *ebiten.Image, dt float64)
}

// Start calls StartFunc, if set.
func (d DirectorFuncs) Start(g *Game) {
	if d.StartFunc != nil {
		d.StartFunc(g)
	}
}

// Update calls UpdateFunc, or Game.DefaultUpdate when it is nil.
func (d DirectorFuncs) Update(g *Game, dt float64) {
	if d.UpdateFunc != nil {
		d.UpdateFunc(g, dt)
		return
	}
	g.DefaultUpdate(dt)
}

// Draw calls DrawFunc, or Game.DefaultDraw when it is nil.
func (d DirectorFuncs) Draw(g *Game, dst *ebiten.Image, dt float64) {
	if d.DrawFunc != nil {
		d.DrawFunc(g, dst, dt)
		return
	}
	g.DefaultDraw(dst, dt)
}

// Game is the root entity. It owns the pointer, the current scene, an
// optional pause scene and the HUD sprites drawn above everything, and runs
// either under ebiten or under a Loop.
type Game struct {
	Entity

	Width, Height    int
	FPS              float64
	DblClickDuration float64
	PauseOnBlur      bool
	Background       Color

	Pointer *Pointer

	engine     *Engine
	director   Director
	scene      *Scene
	pauseScene *Scene
	sprites    []*Sprite
	order      []*Sprite
	paused     bool
	directed   bool
	focused    bool

	lastClick    float64
	hasLastClick bool
	inject       []syntheticPointerEvent
	input        pointerInput
	script       *Script
	shots        []string

	stats     debugStats
	canvas    *ebiten.Image
	lastFrame time.Time
	frameDT   float64
	clock     func() time.Time
	ctx       context.Context
}

// NewGame returns a game configured from the engine settings. A nil director
// uses the default policy.
func NewGame(e *Engine, d Director) *Game {
	if e == nil {
		panic("msgame: NewGame needs an engine")
	}
	if d == nil {
		d = DirectorFuncs{}
	}
	bg, err := parseColor(e.Config.Background)
	if err != nil {
		bg = ColorWhite.RGBA()
	}
	g := &Game{
		Width:            e.Config.Width,
		Height:           e.Config.Height,
		FPS:              float64(e.Config.FPS),
		DblClickDuration: e.Config.DblClickDuration,
		PauseOnBlur:      e.Config.PauseOnBlur,
		Background:       ColorFrom(bg),
		Pointer:          &Pointer{},
		engine:           e,
		director:         d,
		focused:          true,
		clock:            time.Now,
		ctx:              context.Background(),
	}
	if g.debugEnabled() {
		g.Every("debug-stats", debugStatsPeriod, g.debugLog)
	}
	return g
}

// Engine returns the engine context.
func (g *Game) Engine() *Engine { return g.engine }

// Log returns the engine logger.
func (g *Game) Log() *zap.Logger { return g.engine.Log }

// NewScene returns a scene the size of the game. It is not made current.
func (g *Game) NewScene() *Scene {
	sc := NewScene(g.engine, g.Width, g.Height)
	sc.game = g
	return sc
}

// Scene returns the current scene.
func (g *Game) Scene() *Scene { return g.scene }

// SetScene makes sc current and removes the previous scene.
func (g *Game) SetScene(sc *Scene) {
	if old := g.scene; old != nil && old != sc {
		old.Remove()
	}
	if sc != nil {
		sc.game = g
	}
	g.scene = sc
}

// PauseScene returns the overlay scene shown while paused.
func (g *Game) PauseScene() *Scene { return g.pauseScene }

// SetPauseScene sets the overlay scene shown while paused.
func (g *Game) SetPauseScene(sc *Scene) {
	if sc != nil {
		sc.game = g
	}
	g.pauseScene = sc
}

func (g *Game) activeScene() *Scene {
	if g.paused && g.pauseScene != nil {
		return g.pauseScene
	}
	return g.scene
}

// AddSprite creates a HUD sprite owned by the game. HUD sprites are drawn in
// screen coordinates above every scene and receive clicks under the pointer.
func (g *Game) AddSprite(kind SpriteKind, init func(*Sprite)) *Sprite {
	s := newSprite(g.engine, kind)
	s.game = g
	if init != nil {
		init(s)
	}
	s.validate()
	g.sprites = append(g.sprites, s)
	return s
}

// Sprites returns the HUD sprites in insertion order.
func (g *Game) Sprites() []*Sprite { return g.sprites }

func (g *Game) hudOrder() []*Sprite {
	g.order = append(g.order[:0], g.sprites...)
	slices.SortStableFunc(g.order, func(a, b *Sprite) int { return cmp.Compare(a.Z, b.Z) })
	return g.order
}

// Paused reports whether gameplay is paused.
func (g *Game) Paused() bool { return g.paused }

// Pause switches between running and paused. Setting the current state does
// nothing; otherwise audio follows and EventPause fires.
func (g *Game) Pause(v bool) {
	if v == g.paused {
		return
	}
	g.paused = v
	if g.engine.Audio != nil {
		g.engine.Audio.PauseAll(v)
	}
	g.engine.Log.Debug("pause", zap.Bool("paused", v))
	g.Trigger(Event{Name: EventPause, Paused: v})
}

// Focused reports whether the window has focus.
func (g *Game) Focused() bool { return g.focused }

// SetFocused records a focus change, fires EventFocus or EventBlur and, with
// PauseOnBlur, pauses on blur and resumes on focus.
func (g *Game) SetFocused(v bool) {
	if v == g.focused {
		return
	}
	g.focused = v
	if v {
		g.Trigger(Event{Name: EventFocus})
	} else {
		g.Trigger(Event{Name: EventBlur})
	}
	if g.PauseOnBlur {
		g.Pause(!v)
	}
}

// Canvas returns the surface the game draws into, creating it on first use.
func (g *Game) Canvas() *ebiten.Image {
	if g.canvas == nil {
		g.canvas = ebiten.NewImage(g.Width, g.Height)
	}
	return g.canvas
}

// Tick runs one whole frame: update then draw.
func (g *Game) Tick(dt float64) {
	if !g.debugEnabled() {
		g.update(dt)
		g.render(dt)
		return
	}
	start := time.Now()
	g.update(dt)
	mid := time.Now()
	g.render(dt)
	g.debugTick(mid.Sub(start), time.Since(mid))
}

func (g *Game) update(dt float64) {
	if g.Removed() {
		return
	}
	if !g.directed {
		g.directed = true
		g.director.Start(g)
	}
	if g.script != nil {
		g.script.step(g)
	}
	g.processInjected()
	g.Entity.Update(dt)
	g.Pointer.Update(dt)
	g.director.Update(g, dt)
	n := len(g.sprites)
	for i := 0; i < n; i++ {
		g.sprites[i].Update(dt)
	}
	g.sprites = slices.DeleteFunc(g.sprites, (*Sprite).Removed)
	if g.engine.Audio != nil {
		g.engine.Audio.Update()
	}
}

func (g *Game) render(dt float64) {
	canvas := g.Canvas()
	canvas.Fill(g.Background.RGBA())
	g.director.Draw(g, canvas, dt)
}

// DefaultUpdate updates the pause scene while paused, the current scene
// otherwise.
func (g *Game) DefaultUpdate(dt float64) {
	if g.paused {
		if g.pauseScene != nil {
			g.pauseScene.Update(dt)
		}
		return
	}
	if g.scene != nil {
		g.scene.Update(dt)
	}
}

// DefaultDraw draws the current scene, frozen while paused, then the pause
// overlay and the HUD sprites.
func (g *Game) DefaultDraw(dst *ebiten.Image, dt float64) {
	if g.scene != nil {
		sceneDT := dt
		if g.paused {
			sceneDT = 0
		}
		g.scene.DrawTo(dst, sceneDT, 0, 0)
	}
	if g.paused && g.pauseScene != nil {
		g.pauseScene.DrawTo(dst, dt, 0, 0)
	}
	g.DrawSprites(dst, dt)
}

// DrawSprites draws the HUD sprites by Z.
func (g *Game) DrawSprites(dst *ebiten.Image, dt float64) {
	for _, s := range g.hudOrder() {
		s.DrawTo(dst, dt, 0, 0)
	}
}

// Remove removes the game with its scenes and HUD sprites. Under ebiten the
// run ends on the next update.
func (g *Game) Remove() {
	if g.Removed() {
		return
	}
	g.Entity.Remove()
	if g.scene != nil {
		g.scene.Remove()
	}
	if g.pauseScene != nil {
		g.pauseScene.Remove()
	}
	for _, s := range g.sprites {
		s.Remove()
	}
}

// Update implements ebiten.Game. dt is the wall time since the previous
// update; the first one gets a single frame interval.
func (g *Game) Update() error {
	if g.Removed() || g.ctx.Err() != nil {
		return ebiten.Termination
	}
	now := g.clock()
	dt := 1 / g.fps()
	if !g.lastFrame.IsZero() {
		dt = now.Sub(g.lastFrame).Seconds()
	}
	g.lastFrame = now
	g.frameDT = dt

	g.SetFocused(ebiten.IsFocused())
	if len(g.inject) == 0 && (g.script == nil || g.script.Done()) {
		g.pollInput()
	}
	start := time.Now()
	g.update(dt)
	g.stats.lastUpdate = time.Since(start)
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	g.render(g.frameDT)
	if g.debugEnabled() {
		g.debugTick(g.stats.lastUpdate, time.Since(start))
	}
	screen.DrawImage(g.canvas, nil)
	g.flushScreenshots()
}

// Layout implements ebiten.Game with a fixed logical size; ebiten scales it
// to the window.
func (g *Game) Layout(_, _ int) (int, int) { return g.Width, g.Height }

func (g *Game) fps() float64 {
	if g.FPS <= 0 {
		return 60
	}
	return g.FPS
}

// Run waits for every tracked asset, then opens the window and runs the game
// under ebiten until the window closes, the game is removed or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	if err := g.engine.Assets.WaitAll(ctx); err != nil {
		return err
	}
	g.ctx = ctx
	cfg := g.engine.Config
	ebiten.SetWindowSize(g.Width, g.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(g.fps()))
	g.engine.Log.Info("game starting",
		zap.Int("width", g.Width), zap.Int("height", g.Height), zap.Float64("fps", g.fps()))
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// RunLoop waits for every tracked asset, then ticks the game with a Loop on
// the calling goroutine until ctx is done. Nothing is shown on screen; use it
// for servers, replays and tests.
func (g *Game) RunLoop(ctx context.Context, loop Loop) error {
	if err := g.engine.Assets.WaitAll(ctx); err != nil {
		return err
	}
	if loop.FPS <= 0 {
		loop.FPS = g.fps()
	}
	if loop.Log == nil {
		loop.Log = g.engine.Log.Named("loop")
	}
	return loop.Run(ctx, g)
}
