package msgame

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"go.uber.org/zap"
)

// ErrUnsupportedAudio is returned for a sound file whose extension has no
// decoder.
var ErrUnsupportedAudio = errors.New("msgame: unsupported audio format")

// Player is the playback surface a Sound drives. *audio.Player satisfies it.
type Player interface {
	Play()
	Pause()
	IsPlaying() bool
	Rewind() error
	SetVolume(volume float64)
	Volume() float64
}

var _ Player = (*audio.Player)(nil)

// AudioManager is the registry of every live sound. It owns the global
// volume level and pauses and resumes sounds together with the game.
type AudioManager struct {
	ctx    *audio.Context
	assets *Assets
	log    *zap.Logger

	level  float64
	sounds []*Sound
}

// NewAudioManager returns an empty registry. ctx may be nil, in which case
// file sounds load without a player and stay silent.
func NewAudioManager(ctx *audio.Context, assets *Assets, log *zap.Logger) *AudioManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &AudioManager{ctx: ctx, assets: assets, log: log, level: 1}
}

// Sounds returns the registered sounds. The slice must not be modified.
func (m *AudioManager) Sounds() []*Sound { return m.sounds }

// VolumeLevel returns the global volume scalar.
func (m *AudioManager) VolumeLevel() float64 { return m.level }

// SetVolumeLevel sets the global volume scalar, clamped to [0, 1], and
// resyncs every sound.
func (m *AudioManager) SetVolumeLevel(v float64) {
	m.level = clamp01(v)
	for _, s := range m.sounds {
		s.syncVolume()
	}
}

// PauseAll pauses every sound currently playing and remembers it. Resuming
// restarts only those sounds; sounds stopped on their own stay stopped.
func (m *AudioManager) PauseAll(paused bool) {
	for _, s := range m.sounds {
		if s.activePlayer() == nil {
			continue
		}
		if paused {
			if s.pausedByEngine || !s.player.IsPlaying() {
				continue
			}
			s.player.Pause()
			s.pausedByEngine = true
		} else if s.pausedByEngine {
			s.pausedByEngine = false
			s.player.Play()
		}
	}
}

// Update detects sounds that reached their end, fires EventEnded on them and
// restarts the looping ones. Call it once per tick.
func (m *AudioManager) Update() {
	n := len(m.sounds)
	for i := 0; i < n && i < len(m.sounds); i++ {
		m.sounds[i].checkEnded()
	}
}

// SoundOption customizes a sound or a single replay.
type SoundOption func(*soundOptions)

type soundOptions struct {
	force      bool
	loop       bool
	baseVolume *float64
}

// WithForce restarts a sound even when it is mid-playback.
func WithForce() SoundOption {
	return func(o *soundOptions) { o.force = true }
}

// WithSoundLoop makes the sound start over each time it ends.
func WithSoundLoop() SoundOption {
	return func(o *soundOptions) { o.loop = true }
}

// WithBaseVolume sets the volume of the sound before the global level is
// applied.
func WithBaseVolume(v float64) SoundOption {
	return func(o *soundOptions) { o.baseVolume = &v }
}

func collectSoundOptions(opts []SoundOption) soundOptions {
	var o soundOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Sound is a registered, replayable clip. Its effective volume is always
// BaseVolume times the manager level.
type Sound struct {
	Entity
	loadState

	// BaseVolume is the clip volume before the global level is applied.
	BaseVolume float64
	// Loop restarts the clip when it ends. Replay resets it from its options.
	Loop bool

	src            string
	manager        *AudioManager
	player         Player
	decoded        Player
	started        bool
	ended          bool
	paused         bool
	pausedByEngine bool
}

// Src returns the path the sound was created from, empty for AddSound.
func (s *Sound) Src() string { return s.src }

// Player returns the underlying player, nil until loaded.
func (s *Sound) Player() Player { return s.activePlayer() }

// activePlayer adopts the player decoded in the background once the load
// state says it is ready. Only the loop goroutine touches s.player.
func (s *Sound) activePlayer() Player {
	if s.player == nil {
		if ok, _ := s.LoadState(); ok && s.decoded != nil {
			s.player = s.decoded
			s.player.SetVolume(s.Volume())
		}
	}
	return s.player
}

func (m *AudioManager) register(s *Sound, o soundOptions) {
	s.manager = m
	s.BaseVolume = 1
	if o.baseVolume != nil {
		s.BaseVolume = *o.baseVolume
	}
	s.Loop = o.loop
	m.sounds = append(m.sounds, s)
}

// AddSound registers an existing player as a loaded sound.
func (m *AudioManager) AddSound(p Player, opts ...SoundOption) *Sound {
	s := &Sound{player: p}
	m.register(s, collectSoundOptions(opts))
	s.syncVolume()
	s.finish(nil)
	return s
}

// NewSound registers the sound file at p and decodes it in the background.
// mp3, ogg and wav files are supported; the sound is tracked by the asset
// barrier.
func (m *AudioManager) NewSound(p string, opts ...SoundOption) (*Sound, error) {
	ext := strings.ToLower(path.Ext(p))
	switch ext {
	case ".mp3", ".ogg", ".wav":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAudio, p)
	}

	s := &Sound{src: p}
	m.register(s, collectSoundOptions(opts))
	if m.assets == nil {
		s.finish(fmt.Errorf("msgame: no assets to load %s", p))
		return s, nil
	}
	m.assets.Track(s)
	m.assets.load(p, &s.loadState, func() error {
		data, err := m.assets.ReadFile(p)
		if err != nil {
			return err
		}
		stream, err := decodeAudio(ext, data)
		if err != nil {
			return err
		}
		if m.ctx == nil {
			return nil
		}
		ap, err := m.ctx.NewPlayer(stream)
		if err != nil {
			return fmt.Errorf("create player: %w", err)
		}
		s.decoded = ap
		return nil
	})
	return s, nil
}

func decodeAudio(ext string, data []byte) (io.Reader, error) {
	r := bytes.NewReader(data)
	switch ext {
	case ".mp3":
		stream, err := mp3.DecodeWithoutResampling(r)
		if err != nil {
			return nil, fmt.Errorf("decode mp3: %w", err)
		}
		return stream, nil
	case ".ogg":
		stream, err := vorbis.DecodeWithoutResampling(r)
		if err != nil {
			return nil, fmt.Errorf("decode ogg: %w", err)
		}
		return stream, nil
	case ".wav":
		stream, err := wav.DecodeWithoutResampling(r)
		if err != nil {
			return nil, fmt.Errorf("decode wav: %w", err)
		}
		return stream, nil
	}
	return nil, ErrUnsupportedAudio
}

// Volume returns the effective volume.
func (s *Sound) Volume() float64 {
	level := 1.0
	if s.manager != nil {
		level = s.manager.level
	}
	return s.BaseVolume * level
}

func (s *Sound) syncVolume() {
	if p := s.activePlayer(); p != nil {
		p.SetVolume(s.Volume())
	}
}

// Playing reports whether the sound was started and has not ended or been
// paused.
func (s *Sound) Playing() bool {
	return s.started && !s.ended && !s.paused
}

// Replay plays the sound from the start. It does nothing while the sound is
// mid-playback unless WithForce is given. Options apply from this play on;
// Loop is off unless WithSoundLoop is passed again.
func (s *Sound) Replay(opts ...SoundOption) {
	if s.Removed() {
		return
	}
	if s.activePlayer() == nil {
		if s.manager != nil {
			s.manager.log.Debug("replay before load", zap.String("src", s.src))
		}
		return
	}
	s.checkEnded()
	o := collectSoundOptions(opts)
	if !o.force && s.started && !s.ended {
		return
	}
	s.Loop = o.loop
	if o.baseVolume != nil {
		s.BaseVolume = *o.baseVolume
	}
	if err := s.player.Rewind(); err != nil && s.manager != nil {
		s.manager.log.Warn("rewind failed", zap.String("src", s.src), zap.Error(err))
	}
	s.syncVolume()
	s.started, s.ended, s.paused, s.pausedByEngine = true, false, false, false
	s.player.Play()
}

// Pause stops the sound where it is. The engine will not resume it.
func (s *Sound) Pause() {
	if s.activePlayer() == nil || !s.Playing() {
		return
	}
	s.paused = true
	s.pausedByEngine = false
	s.player.Pause()
}

// Resume continues a sound stopped with Pause.
func (s *Sound) Resume() {
	if s.activePlayer() == nil || !s.paused || s.Removed() {
		return
	}
	s.paused = false
	s.player.Play()
}

func (s *Sound) checkEnded() {
	if s.activePlayer() == nil || !s.started || s.ended || s.paused || s.pausedByEngine {
		return
	}
	if s.player.IsPlaying() {
		return
	}
	s.ended = true
	s.Trigger(Event{Name: EventEnded})
	if s.Loop && !s.Removed() {
		if err := s.player.Rewind(); err != nil {
			s.manager.log.Warn("rewind failed", zap.String("src", s.src), zap.Error(err))
		}
		s.ended = false
		s.player.Play()
	}
}

// Remove stops the sound, drops it from the registry and fires EventRemove.
func (s *Sound) Remove() {
	if s.Removed() {
		return
	}
	if p := s.activePlayer(); p != nil && p.IsPlaying() {
		s.player.Pause()
	}
	if m := s.manager; m != nil {
		if i := slices.Index(m.sounds, s); i >= 0 {
			m.sounds = slices.Delete(m.sounds, i, i+1)
		}
	}
	s.Entity.Remove()
}

// SoundPool cycles through several copies of one clip so rapid retriggers can
// overlap.
type SoundPool struct {
	sounds []*Sound
	next   int
}

// NewSoundPool registers n sounds loaded from p.
func (m *AudioManager) NewSoundPool(n int, p string, opts ...SoundOption) (*SoundPool, error) {
	if n <= 0 {
		panic("msgame: sound pool size must be positive")
	}
	pool := &SoundPool{sounds: make([]*Sound, 0, n)}
	for i := 0; i < n; i++ {
		s, err := m.NewSound(p, opts...)
		if err != nil {
			return nil, err
		}
		pool.sounds = append(pool.sounds, s)
	}
	return pool, nil
}

// NewSoundPoolOf groups already registered sounds.
func NewSoundPoolOf(sounds ...*Sound) *SoundPool {
	if len(sounds) == 0 {
		panic("msgame: sound pool size must be positive")
	}
	return &SoundPool{sounds: sounds}
}

// Next returns the next sound in round-robin order.
func (p *SoundPool) Next() *Sound {
	s := p.sounds[p.next]
	p.next = (p.next + 1) % len(p.sounds)
	return s
}

// Sounds returns the pooled sounds.
func (p *SoundPool) Sounds() []*Sound { return p.sounds }

// Loadables returns the pooled sounds as barrier inputs.
func (p *SoundPool) Loadables() []Loadable {
	out := make([]Loadable, len(p.sounds))
	for i, s := range p.sounds {
		out[i] = s
	}
	return out
}
