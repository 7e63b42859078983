// Package msgame is a small 2D game engine for [Ebitengine] built around
// timed entities, sprites and scenes.
//
// Everything that lives in a game is an [Entity]: it keeps its own clock,
// runs one-shot timers ([Entity.After]) and periodic callbacks
// ([Entity.Every]), and dispatches named events to keyed subscribers. A
// [Sprite] is a sized, anchored entity drawn from an [Animation]; a [Scene]
// owns sprites, sorts them by Z then Y and scrolls them with a view offset;
// a [Game] owns the pointer, the current scene, an optional pause scene and
// HUD sprites, and runs either in a window or headless.
//
// # Quick start
//
//	e, err := msgame.NewEngine(msgame.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	g := msgame.NewGame(e, nil)
//	sc := g.NewScene()
//	g.SetScene(sc)
//	sc.AddSprite(msgame.BasicSprite, func(s *msgame.Sprite) {
//		s.X, s.Y = 100, 100
//		s.Shape = "red_circle"
//	})
//	if err := g.Run(context.Background()); err != nil {
//		log.Fatal(err)
//	}
//
// # Assets
//
// Images, sprite sheets and sounds load in the background and are tracked
// by [Assets]. [Game.Run] and [Game.RunLoop] wait for every tracked asset
// first; [Assets.Wait] waits for a chosen subset. A failed load surfaces as
// a [*LoadError] naming the file.
//
// Until an image is ready, or when a sprite has no animation at all, a
// sprite draws its Shape descriptor: a CSS color name optionally followed by
// "_circle", such as "black" or "gold_circle".
//
// # Animations
//
// An [Animation] maps elapsed time to a frame and caches every transformed
// rendition of a frame (size, angle, flips, alpha, blend mode, filters), so
// a sprite redrawn with the same parameters costs one lookup.
//
// # Audio
//
// The [AudioManager] registers every [Sound], applies a global volume level
// and pauses sounds together with the game. [SoundPool] cycles copies of one
// clip so effects can overlap.
//
// # Headless runs
//
// [Game.RunLoop] ticks the game with an adaptive [Loop] instead of a window.
// Pointer input can be injected with [Game.InjectClick] and friends, or
// replayed from a YAML [Script].
//
// [Ebitengine]: https://ebitengine.org
package msgame
