package msgame

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the engine settings a game usually ships in a YAML file.
// Zero-valued fields left out of the file keep their defaults.
type Config struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`

	// DblClickDuration is the window, in seconds, in which a second press
	// counts as a double click.
	DblClickDuration float64 `yaml:"dbl_click_duration"`

	// PauseOnBlur pauses the game when its window loses focus and resumes
	// it on focus.
	PauseOnBlur bool `yaml:"pause_on_blur"`

	// AssetBase is prepended to relative asset paths.
	AssetBase string `yaml:"asset_base"`

	// LoadPollInterval is how often the load barrier checks pending assets.
	LoadPollInterval time.Duration `yaml:"load_poll_interval"`

	// SampleRate of the audio context. Zero disables audio output.
	SampleRate  int     `yaml:"sample_rate"`
	VolumeLevel float64 `yaml:"volume_level"`

	Background string `yaml:"background"`
	Debug      bool   `yaml:"debug"`

	// ScreenshotDir receives the PNG files written by Game.Screenshot.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Title:            "msgame",
		Width:            600,
		Height:           400,
		FPS:              60,
		DblClickDuration: 0.3,
		PauseOnBlur:      true,
		LoadPollInterval: 10 * time.Millisecond,
		SampleRate:       44100,
		VolumeLevel:      1,
		Background:       "white",
		ScreenshotDir:    "screenshots",
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("msgame: invalid size %dx%d", c.Width, c.Height)
	case c.FPS <= 0:
		return fmt.Errorf("msgame: invalid fps %d", c.FPS)
	case c.DblClickDuration < 0:
		return errors.New("msgame: dbl_click_duration must not be negative")
	case c.LoadPollInterval <= 0:
		return errors.New("msgame: load_poll_interval must be positive")
	case c.SampleRate < 0:
		return fmt.Errorf("msgame: invalid sample rate %d", c.SampleRate)
	case c.VolumeLevel < 0 || c.VolumeLevel > 1:
		return fmt.Errorf("msgame: volume_level %v out of [0, 1]", c.VolumeLevel)
	}
	if _, err := parseColor(c.Background); err != nil {
		return err
	}
	return nil
}

// LoadConfig reads YAML from r over the defaults and validates the result.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("msgame: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads the YAML config at path inside fsys.
func LoadConfigFile(fsys fs.FS, path string) (Config, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("msgame: open config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}
