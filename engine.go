package msgame

import (
	"io/fs"
	"os"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"
)

// Engine is the shared context every game object is built from: settings,
// logger, asset registry, audio registry and per-engine caches. Create one
// at startup and pass it to NewGame.
type Engine struct {
	Config  Config
	Log     *zap.Logger
	Assets  *Assets
	Audio   *AudioManager
	Filters *FilterRegistry

	shapes shapeCache
}

// EngineOption customizes NewEngine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	log      *zap.Logger
	fsys     fs.FS
	audioCtx *audio.Context
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) EngineOption {
	return func(o *engineOptions) { o.log = l }
}

// WithFS sets the file system assets are read from. The default is the
// working directory.
func WithFS(fsys fs.FS) EngineOption {
	return func(o *engineOptions) { o.fsys = fsys }
}

// WithAudioContext uses an existing audio context instead of creating one.
func WithAudioContext(c *audio.Context) EngineOption {
	return func(o *engineOptions) { o.audioCtx = c }
}

// NewEngine validates cfg and builds the engine context. An audio context is
// created when cfg.SampleRate is positive and none was given; ebiten allows
// one per process, so an existing one is reused.
func NewEngine(cfg Config, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := engineOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.fsys == nil {
		o.fsys = os.DirFS(".")
	}
	if o.audioCtx == nil && cfg.SampleRate > 0 {
		o.audioCtx = audio.CurrentContext()
		if o.audioCtx == nil {
			o.audioCtx = audio.NewContext(cfg.SampleRate)
		}
	}

	e := &Engine{
		Config:  cfg,
		Log:     o.log,
		Filters: NewFilterRegistry(),
	}
	e.Assets = NewAssets(o.fsys, cfg.AssetBase, cfg.LoadPollInterval, o.log.Named("assets"))
	e.Audio = NewAudioManager(o.audioCtx, e.Assets, o.log.Named("audio"))
	e.Audio.SetVolumeLevel(cfg.VolumeLevel)
	return e, nil
}

// MustNewEngine is like NewEngine but panics on error.
func MustNewEngine(cfg Config, opts ...EngineOption) *Engine {
	e, err := NewEngine(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// ShapeAnimation returns the cached placeholder animation for a shape
// descriptor such as "red_circle".
func (e *Engine) ShapeAnimation(desc string) (*Animation, error) {
	a, err := e.shapes.animation(desc)
	if err != nil {
		return nil, err
	}
	a.Filters = e.Filters
	return a, nil
}

// NewAnimation is NewAnimation using the engine filter registry.
func (e *Engine) NewAnimation(frames []Frame, opts ...AnimationOption) *Animation {
	return NewAnimation(frames, append([]AnimationOption{WithFilters(e.Filters)}, opts...)...)
}
