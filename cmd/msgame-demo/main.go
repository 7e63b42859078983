// Msgame-demo is a small coin collecting game: click to move the ball, pick
// up the coins spawning around it. The world scrolls with the ball and the
// ground is streamed by a Tiler. No external assets are required.
//
// With -headless it runs without a window for the given duration, which
// together with -script replays recorded input.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/phanxgames/msgame"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

const (
	ballSpeed = 220.0
	coinEvery = 0.8
	maxCoins  = 12
	tileSize  = 64.0
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	scriptPath := flag.String("script", "", "YAML input script to replay")
	headless := flag.Duration("headless", 0, "run without a window for this long")
	flag.Parse()

	if err := run(*configPath, *scriptPath, *headless); err != nil {
		fmt.Fprintln(os.Stderr, "msgame-demo:", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(configPath, scriptPath string, headless time.Duration) error {
	cfg := msgame.DefaultConfig()
	cfg.Title = "msgame demo"
	if configPath != "" {
		var err error
		if cfg, err = msgame.LoadConfigFile(os.DirFS("."), configPath); err != nil {
			return err
		}
	}
	log, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer log.Sync()
	if headless > 0 {
		cfg.SampleRate = 0
	}
	e, err := msgame.NewEngine(cfg, msgame.WithLogger(log))
	if err != nil {
		return err
	}

	g := msgame.NewGame(e, nil)
	build(g)

	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return err
		}
		script, err := msgame.LoadScript(data)
		if err != nil {
			return err
		}
		g.SetScript(script)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if headless > 0 {
		ctx, cancel := context.WithTimeout(ctx, headless)
		defer cancel()
		err := g.RunLoop(ctx, msgame.Loop{})
		if ctx.Err() != nil {
			log.Info("headless run over", zap.Float64("game_time", g.Time()))
			return nil
		}
		return err
	}
	return g.Run(ctx)
}

func build(g *msgame.Game) {
	sc := g.NewScene()
	sc.Background = msgame.ColorFrom(colornames.Darkolivegreen)
	g.SetScene(sc)

	tiles := msgame.NewTiler(sc, tileSize, tileSize, func(nx, ny int) {
		shape := "darkseagreen"
		if (nx+ny)%2 == 0 {
			shape = "seagreen"
		}
		sc.AddSprite(msgame.BasicSprite, func(s *msgame.Sprite) {
			s.X, s.Y = float64(nx)*tileSize, float64(ny)*tileSize
			s.Width, s.Height = tileSize, tileSize
			s.Shape = shape
			s.Z = -1
		})
	})
	tiles.MarginTiles = 1

	ball := sc.AddSprite(msgame.BasicSprite, func(s *msgame.Sprite) {
		s.Shape = "royalblue_circle"
		s.Width, s.Height = 32, 32
		s.AnchorX, s.AnchorY = 0.5, 0.5
	})
	target := msgame.Vec2{}
	ball.AddUpdater(msgame.UpdaterFunc(func(s *msgame.Sprite, dt float64) {
		pos := msgame.Vec2{X: s.X, Y: s.Y}
		msgame.MoveToward2D(&pos, target, ballSpeed, dt)
		s.X, s.Y = pos.X, pos.Y
		tiles.AddNewTiles()
	}))
	sc.Follow(ball, float64(g.Width)/2, float64(g.Height)/2, 0.1)
	sc.On(msgame.EventClick, func(ev msgame.Event) {
		target = msgame.Vec2{X: ev.Pointer.X + sc.ViewX, Y: ev.Pointer.Y + sc.ViewY}
	})

	score := 0
	coins := 0
	sc.Every("coins", coinEvery, func() {
		if coins >= maxCoins {
			return
		}
		coins++
		v := sc.ViewRect()
		sc.AddSprite(msgame.BasicSprite, func(s *msgame.Sprite) {
			s.Shape = "gold_circle"
			s.Width, s.Height = 16, 16
			s.AnchorX, s.AnchorY = 0.5, 0.5
			s.X = v.X + rand.Float64()*v.Width
			s.Y = v.Y + rand.Float64()*v.Height
			s.AddUpdater(msgame.UpdaterFunc(func(s *msgame.Sprite, _ float64) {
				if !msgame.Overlaps(s, ball) {
					return
				}
				score++
				coins--
				s.Remove()
				g.AddSprite(msgame.FlashSprite(msgame.ColorWhite, 0), func(f *msgame.Sprite) {
					f.Width, f.Height = float64(g.Width), float64(g.Height)
				})
			}))
		})
	})

	label := msgame.NewTextFunc(func() string { return fmt.Sprintf("Score: %d", score) })
	label.Color = msgame.ColorWhite
	label.Font = msgame.DefaultFont(20)
	g.AddSprite(msgame.TextSprite(label), func(s *msgame.Sprite) {
		s.X, s.Y = 10, 10
	})
	g.AddSprite(msgame.VolumeButton(msgame.DefaultToggleArt), func(s *msgame.Sprite) {
		s.X, s.Y = float64(g.Width)-60, 10
	})
	g.AddSprite(msgame.PauseButton(msgame.DefaultToggleArt), func(s *msgame.Sprite) {
		s.X, s.Y = float64(g.Width)-120, 10
	})
	if g.Engine().Config.Debug {
		g.AddSprite(msgame.FPSSprite(), func(s *msgame.Sprite) {
			s.X, s.Y = 10, float64(g.Height)-42
		})
	}
	g.SetPauseScene(msgame.NewPauseOverlay(g, "PAUSED"))
}
