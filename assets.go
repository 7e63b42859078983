package msgame

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNotLoaded is returned when an asset is used before it finished loading.
var ErrNotLoaded = errors.New("msgame: asset not loaded")

// Loadable is a resource that finishes loading asynchronously. LoadState
// reports loaded once it is ready, or the error that stopped it. Both are
// set exactly once.
type Loadable interface {
	LoadState() (loaded bool, err error)
}

// LoadError records which source failed to load.
type LoadError struct {
	Src string
	Err error
}

func (e *LoadError) Error() string { return "msgame: load " + e.Src + ": " + e.Err.Error() }

func (e *LoadError) Unwrap() error { return e.Err }

// loadState is embedded by loadables; it is safe for concurrent use.
type loadState struct {
	mu     sync.Mutex
	loaded bool
	err    error
	done   bool
}

// finish settles the state. Only the first call has an effect.
func (s *loadState) finish(err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return false
	}
	s.done = true
	s.loaded = err == nil
	s.err = err
	return true
}

func (s *loadState) LoadState() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded, s.err
}

// Assets resolves asset paths against a base directory of a file system,
// loads images in the background and tracks everything still loading so the
// game can wait for it before it starts.
type Assets struct {
	fsys fs.FS
	base string
	poll time.Duration
	log  *zap.Logger

	mu     sync.Mutex
	loads  []Loadable
	images map[string]*ImageAsset
}

// NewAssets returns an asset registry reading from fsys under base.
func NewAssets(fsys fs.FS, base string, poll time.Duration, log *zap.Logger) *Assets {
	if poll <= 0 {
		poll = 10 * time.Millisecond
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Assets{fsys: fsys, base: base, poll: poll, log: log, images: make(map[string]*ImageAsset)}
}

// Resolve returns the file system path of an asset. Relative paths are
// joined to the base; paths starting with "/" are taken from the root.
func (a *Assets) Resolve(p string) string {
	if strings.HasPrefix(p, "/") {
		return strings.TrimLeft(path.Clean(p), "/")
	}
	return path.Join(a.base, p)
}

// ReadFile reads a whole asset.
func (a *Assets) ReadFile(p string) ([]byte, error) {
	if a.fsys == nil {
		return nil, fmt.Errorf("msgame: no asset file system for %s", p)
	}
	return fs.ReadFile(a.fsys, a.Resolve(p))
}

// Track adds l to the set the barrier waits for. Tracking never ends.
func (a *Assets) Track(l Loadable) {
	a.mu.Lock()
	a.loads = append(a.loads, l)
	a.mu.Unlock()
}

// Len returns the number of tracked loadables.
func (a *Assets) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.loads)
}

// Pending returns how many tracked loadables are neither loaded nor failed.
func (a *Assets) Pending() int {
	n := 0
	for _, l := range a.snapshot() {
		if ok, err := l.LoadState(); !ok && err == nil {
			n++
		}
	}
	return n
}

func (a *Assets) snapshot() []Loadable {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Loadable(nil), a.loads...)
}

// load runs fn in its own goroutine and settles state with its result.
func (a *Assets) load(src string, state *loadState, fn func() error) {
	go func() {
		err := fn()
		if err != nil {
			err = &LoadError{Src: src, Err: err}
			a.log.Warn("asset failed to load", zap.String("src", src), zap.Error(err))
		}
		state.finish(err)
	}()
}

// WaitAll blocks until every loadable tracked when it is called has loaded,
// and returns the first load error seen. Loadables tracked after the call
// started are not waited for.
func (a *Assets) WaitAll(ctx context.Context) error {
	return a.Wait(ctx, a.snapshot()...)
}

// Wait blocks until every given loadable has loaded or one failed. Each is
// polled on its own at the registry poll interval.
func (a *Assets) Wait(ctx context.Context, items ...Loadable) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, l := range items {
		g.Go(func() error { return a.poll1(gctx, l) })
	}
	return g.Wait()
}

func (a *Assets) poll1(ctx context.Context, l Loadable) error {
	t := time.NewTicker(a.poll)
	defer t.Stop()
	for {
		ok, err := l.LoadState()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Pending is the result of an asynchronous wait.
type Pending struct {
	done chan struct{}
	err  error
}

// Done is closed once the wait finished.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Err returns the outcome of the wait. It is only meaningful after Done is
// closed.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Ready reports whether the wait finished without error.
func (p *Pending) Ready() bool {
	select {
	case <-p.done:
		return p.err == nil
	default:
		return false
	}
}

// WaitAllAsync runs WaitAll in the background so a loop can keep ticking
// while assets load.
func (a *Assets) WaitAllAsync(ctx context.Context) *Pending {
	items := a.snapshot()
	p := &Pending{done: make(chan struct{})}
	go func() {
		p.err = a.Wait(ctx, items...)
		close(p.done)
	}()
	return p
}

// ImageAsset is an image file decoded in the background. It can be used as an
// animation Frame right away; it draws nothing until loaded.
type ImageAsset struct {
	loadState
	src string
	img *ebiten.Image
}

// Src returns the path the image was requested with.
func (i *ImageAsset) Src() string { return i.src }

// Image returns the decoded image, or nil while loading or after a failure.
func (i *ImageAsset) Image() *ebiten.Image {
	if ok, _ := i.LoadState(); !ok {
		return nil
	}
	return i.img
}

// Get returns the decoded image, the load error, or ErrNotLoaded while the
// decode is still running.
func (i *ImageAsset) Get() (*ebiten.Image, error) {
	ok, err := i.LoadState()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotLoaded
	}
	return i.img, nil
}

// LoadImage starts loading the image at p. Requests for the same path share
// one asset.
func (a *Assets) LoadImage(p string) *ImageAsset {
	a.mu.Lock()
	if img, ok := a.images[p]; ok {
		a.mu.Unlock()
		return img
	}
	img := &ImageAsset{src: p}
	a.images[p] = img
	a.loads = append(a.loads, img)
	a.mu.Unlock()

	a.load(p, &img.loadState, func() error {
		data, err := a.ReadFile(p)
		if err != nil {
			return err
		}
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		img.img = ebiten.NewImageFromImage(decoded)
		return nil
	})
	return img
}
