package msgame

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	playing bool
	volume  float64
	plays   int
	rewinds int
}

func (p *fakePlayer) Play()               { p.playing = true; p.plays++ }
func (p *fakePlayer) Pause()              { p.playing = false }
func (p *fakePlayer) IsPlaying() bool     { return p.playing }
func (p *fakePlayer) Rewind() error       { p.rewinds++; return nil }
func (p *fakePlayer) SetVolume(v float64) { p.volume = v }
func (p *fakePlayer) Volume() float64     { return p.volume }

// finish simulates the clip reaching its end.
func (p *fakePlayer) finish() { p.playing = false }

func TestAudioVolumeLevel(t *testing.T) {
	m := NewAudioManager(nil, nil, nil)
	pa, pb := &fakePlayer{}, &fakePlayer{}
	a := m.AddSound(pa)
	b := m.AddSound(pb)

	m.SetVolumeLevel(0)
	assert.Equal(t, 0.0, a.Volume())
	assert.Equal(t, 0.0, b.Volume())
	assert.Equal(t, 0.0, pa.volume)

	m.SetVolumeLevel(0.3)
	assert.InDelta(t, 0.3, a.Volume(), 1e-9)
	assert.InDelta(t, 0.3, b.Volume(), 1e-9)
	assert.InDelta(t, 0.3, pb.volume, 1e-9)
}

func TestAudioBaseVolume(t *testing.T) {
	m := NewAudioManager(nil, nil, nil)
	m.SetVolumeLevel(0.5)
	p := &fakePlayer{}
	s := m.AddSound(p, WithBaseVolume(0.4))
	assert.InDelta(t, 0.2, p.volume, 1e-9)

	s.Replay(WithBaseVolume(1))
	assert.InDelta(t, 0.5, p.volume, 1e-9)

	m.SetVolumeLevel(7)
	assert.Equal(t, 1.0, m.VolumeLevel())
}

func TestSoundReplayIgnoredMidPlayback(t *testing.T) {
	m := NewAudioManager(nil, nil, nil)
	p := &fakePlayer{}
	s := m.AddSound(p)

	s.Replay()
	s.Replay()
	assert.Equal(t, 1, p.plays)
	assert.True(t, s.Playing())

	s.Replay(WithForce())
	assert.Equal(t, 2, p.plays)
	assert.Equal(t, 2, p.rewinds)

	p.finish()
	m.Update()
	assert.False(t, s.Playing())
	s.Replay()
	assert.Equal(t, 3, p.plays)
}

func TestSoundEndedAndLoop(t *testing.T) {
	m := NewAudioManager(nil, nil, nil)
	p := &fakePlayer{}
	s := m.AddSound(p)
	ended := 0
	s.On(EventEnded, func(Event) { ended++ })

	s.Replay(WithSoundLoop())
	p.finish()
	m.Update()
	assert.Equal(t, 1, ended)
	assert.True(t, p.playing, "looping sounds restart")
	assert.True(t, s.Playing())

	s.Replay(WithForce())
	assert.False(t, s.Loop, "loop is reset on each replay")
	p.finish()
	m.Update()
	m.Update()
	assert.Equal(t, 2, ended)
	assert.False(t, p.playing)
}

func TestAudioPauseAll(t *testing.T) {
	m := NewAudioManager(nil, nil, nil)
	pa, pb, pc := &fakePlayer{}, &fakePlayer{}, &fakePlayer{}
	a := m.AddSound(pa)
	b := m.AddSound(pb)
	m.AddSound(pc)

	a.Replay()
	b.Replay()
	b.Pause()

	m.PauseAll(true)
	assert.False(t, pa.playing)
	m.Update()
	assert.True(t, a.Playing(), "engine pause is not an end")

	m.PauseAll(false)
	assert.True(t, pa.playing)
	assert.False(t, pb.playing, "sounds paused on their own stay paused")
	assert.False(t, pc.playing, "never started sounds stay silent")

	b.Resume()
	assert.True(t, pb.playing)
}

func TestSoundRemove(t *testing.T) {
	m := NewAudioManager(nil, nil, nil)
	p := &fakePlayer{}
	s := m.AddSound(p)
	other := m.AddSound(&fakePlayer{})
	removed := 0
	s.On(EventRemove, func(Event) { removed++ })
	s.Replay()

	s.Remove()
	s.Remove()
	assert.Equal(t, 1, removed)
	assert.False(t, p.playing)
	assert.Equal(t, []*Sound{other}, m.Sounds())

	s.Replay(WithForce())
	assert.Equal(t, 1, p.plays)
}

func TestNewSoundUnsupported(t *testing.T) {
	m := NewAudioManager(nil, nil, nil)
	_, err := m.NewSound("theme.midi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedAudio))
	assert.Empty(t, m.Sounds())
}

func TestNewSoundLoadFailureReachesBarrier(t *testing.T) {
	assets := NewAssets(fstest.MapFS{}, "snd", 0, nil)
	m := NewAudioManager(nil, assets, nil)
	s, err := m.NewSound("jump.ogg")
	require.NoError(t, err)

	err = assets.WaitAll(context.Background())
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "jump.ogg", le.Src)

	s.Replay()
	assert.False(t, s.Playing(), "unloaded sounds do not play")
}

func TestSoundPoolRoundRobin(t *testing.T) {
	m := NewAudioManager(nil, nil, nil)
	a, b := m.AddSound(&fakePlayer{}), m.AddSound(&fakePlayer{})
	pool := NewSoundPoolOf(a, b)

	assert.Same(t, a, pool.Next())
	assert.Same(t, b, pool.Next())
	assert.Same(t, a, pool.Next())
	assert.Len(t, pool.Loadables(), 2)
}

func TestNewSoundPool(t *testing.T) {
	assets := NewAssets(fstest.MapFS{}, "", 0, nil)
	m := NewAudioManager(nil, assets, nil)
	pool, err := m.NewSoundPool(3, "hit.wav", WithBaseVolume(0.5))
	require.NoError(t, err)
	require.Len(t, pool.Sounds(), 3)
	assert.Equal(t, 0.5, pool.Sounds()[0].BaseVolume)
	assert.Equal(t, 3, assets.Len())

	_, err = m.NewSoundPool(2, "hit.xm")
	assert.ErrorIs(t, err, ErrUnsupportedAudio)
}

func TestSoundReplayAfterClipEndsBeforeUpdate(t *testing.T) {
	m := NewAudioManager(nil, nil, nil)
	p := &fakePlayer{}
	s := m.AddSound(p)
	ended := 0
	s.On(EventEnded, func(Event) { ended++ })

	s.Replay()
	p.finish()
	s.Replay()
	assert.Equal(t, 2, p.plays)
	assert.Equal(t, 1, ended)
	assert.True(t, s.Playing())

	s.Replay()
	assert.Equal(t, 2, p.plays, "still mid-playback")
}
