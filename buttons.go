package msgame

import "github.com/hajimehoshi/ebiten/v2"

// ToggleArt holds the two looks of a toggle button. A nil animation falls
// back to the matching shape descriptor.
type ToggleArt struct {
	On, Off           *Animation
	OnShape, OffShape string
}

// DefaultToggleArt draws plain boxes until real art is given.
var DefaultToggleArt = ToggleArt{OnShape: "seagreen", OffShape: "firebrick"}

// ToggleArtFromSheet uses frames 0 and 1 of a two-frame sheet.
func ToggleArtFromSheet(sheet *SpriteSheet) ToggleArt {
	return ToggleArt{On: sheet.Animation([]int{0}), Off: sheet.Animation([]int{1})}
}

func (a ToggleArt) apply(s *Sprite, on bool) {
	anim, shape := a.Off, a.OffShape
	if on {
		anim, shape = a.On, a.OnShape
	}
	if anim != nil {
		s.SetAnim(anim)
		return
	}
	s.Anim = nil
	if shape != "" {
		s.Shape = shape
	}
}

// toggleButton builds a 50x50 button that flips a state on click and keeps
// its look in sync with state every update.
func toggleButton(name string, art ToggleArt, state func(s *Sprite) bool, flip func(s *Sprite)) SpriteKind {
	return SpriteKind{Name: name, Setup: func(s *Sprite) {
		s.Width, s.Height = 50, 50
		s.ViewFactor = 0
		art.apply(s, state(s))
		s.On(EventClick, func(Event) {
			flip(s)
			art.apply(s, state(s))
		})
		s.AddUpdater(UpdaterFunc(func(s *Sprite, _ float64) { art.apply(s, state(s)) }))
	}}
}

// VolumeButton mutes and unmutes the engine audio. Unmuting restores the
// level in use before muting, or 1.
func VolumeButton(art ToggleArt) SpriteKind {
	restore := 1.0
	return toggleButton("volume", art,
		func(s *Sprite) bool {
			e := s.Engine()
			return e == nil || e.Audio == nil || e.Audio.VolumeLevel() > 0
		},
		func(s *Sprite) {
			e := s.Engine()
			if e == nil || e.Audio == nil {
				return
			}
			if lvl := e.Audio.VolumeLevel(); lvl > 0 {
				restore = lvl
				e.Audio.SetVolumeLevel(0)
			} else {
				e.Audio.SetVolumeLevel(restore)
			}
		})
}

// PauseButton pauses and resumes the game. Its look shows "on" while the
// game runs.
func PauseButton(art ToggleArt) SpriteKind {
	return toggleButton("pause", art,
		func(s *Sprite) bool { return s.Game() == nil || !s.Game().Paused() },
		func(s *Sprite) {
			if g := s.Game(); g != nil {
				g.Pause(!g.Paused())
			}
		})
}

// FullscreenButton toggles fullscreen mode. Its look shows "on" while
// windowed.
func FullscreenButton(art ToggleArt) SpriteKind {
	return toggleButton("fullscreen", art,
		func(*Sprite) bool { return !ebiten.IsFullscreen() },
		func(*Sprite) { ebiten.SetFullscreen(!ebiten.IsFullscreen()) })
}
