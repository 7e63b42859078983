package msgame

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ScriptStep is one action of an input script.
type ScriptStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	ToX    float64 `yaml:"to_x,omitempty"`
	ToY    float64 `yaml:"to_y,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

type scriptFile struct {
	Steps []ScriptStep `yaml:"steps"`
}

// Script replays pointer input, pauses and screenshots over successive
// ticks, for demos and automated visual checks. Attach it with
// Game.SetScript.
//
// Actions: click and move at (x, y); drag from (x, y) to (to_x, to_y) over
// frames ticks; wait for frames ticks; pause and resume; screenshot with a
// label.
type Script struct {
	steps  []ScriptStep
	cursor int
	wait   int
	done   bool
}

// LoadScript parses a YAML (or JSON) script.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("msgame: parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, errors.New("msgame: parse script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "click", "move", "drag", "wait", "pause", "resume", "screenshot":
		default:
			return nil, fmt.Errorf("msgame: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Steps returns the parsed steps.
func (r *Script) Steps() []ScriptStep { return r.steps }

// Done reports whether every step ran and its input was delivered.
func (r *Script) Done() bool { return r.done }

// SetScript attaches r; it advances once per tick before input is handled.
func (g *Game) SetScript(r *Script) { g.script = r }

func (r *Script) step(g *Game) {
	if r.done || len(g.inject) > 0 {
		return
	}
	if r.wait > 0 {
		r.wait--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	switch st.Action {
	case "click":
		g.InjectClick(st.X, st.Y)
	case "move":
		g.InjectMove(st.X, st.Y)
	case "drag":
		g.InjectDrag(st.X, st.Y, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			// this tick counts as one
			r.wait = st.Frames - 1
		}
	case "pause":
		g.Pause(true)
	case "resume":
		g.Pause(false)
	case "screenshot":
		g.Screenshot(st.Label)
	}

	if r.cursor >= len(r.steps) && r.wait == 0 && len(g.inject) == 0 {
		r.done = true
	}
}
