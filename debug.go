package msgame

import (
	"time"

	"go.uber.org/zap"
)

// debugStats accumulates per-tick timings between two reports. Only
// populated when Config.Debug is set.
type debugStats struct {
	ticks      int
	updateTime time.Duration
	drawTime   time.Duration
	slowest    time.Duration
	lastUpdate time.Duration
}

// debugStatsPeriod is how often, in game seconds, stats are logged.
const debugStatsPeriod = 1.0

func (g *Game) debugEnabled() bool { return g.engine.Config.Debug }

// debugTick records the cost of one update and draw.
func (g *Game) debugTick(update, draw time.Duration) {
	st := &g.stats
	st.ticks++
	st.updateTime += update
	st.drawTime += draw
	st.slowest = max(st.slowest, update+draw)
}

// debugLog reports and resets the accumulated stats.
func (g *Game) debugLog() {
	st := g.stats
	g.stats = debugStats{}
	if st.ticks == 0 {
		return
	}
	sprites := 0
	if g.scene != nil {
		sprites = len(g.scene.Sprites())
	}
	sounds := 0
	if g.engine.Audio != nil {
		sounds = len(g.engine.Audio.Sounds())
	}
	g.engine.Log.Debug("frame stats",
		zap.Int("ticks", st.ticks),
		zap.Duration("avg_update", st.updateTime/time.Duration(st.ticks)),
		zap.Duration("avg_draw", st.drawTime/time.Duration(st.ticks)),
		zap.Duration("slowest", st.slowest),
		zap.Int("sprites", sprites),
		zap.Int("hud", len(g.sprites)),
		zap.Int("sounds", sounds),
		zap.Int("pending_assets", g.engine.Assets.Pending()),
		zap.Bool("paused", g.paused),
	)
}
