package msgame

import (
	"math"
	"strconv"
)

// EventName identifies a kind of event dispatched by an Entity.
type EventName string

const (
	EventStart       EventName = "start"    // first update of an entity
	EventUpdate      EventName = "update"   // every sprite update, DT set
	EventRemove      EventName = "remove"   // entity removed, fired once
	EventClick       EventName = "click"    // pointer pressed, Pointer set
	EventDblClick    EventName = "dblclick" // second press inside the double-click window
	EventPointerDown EventName = "down"
	EventPointerUp   EventName = "up"
	EventPointerMove EventName = "move"
	EventPause       EventName = "pause" // game paused or resumed, Paused set
	EventFocus       EventName = "focus"
	EventBlur        EventName = "blur"
	EventEnded       EventName = "ended" // sound playback reached its end
)

// Event is the payload handed to subscribers. Only the fields relevant to
// Name are set.
type Event struct {
	Name    EventName
	Pointer *Pointer
	Paused  bool
	DT      float64
	Value   any
}

// Handler receives an event and reports whether it wants to stay subscribed.
// Returning false removes the subscription right after the call.
type Handler func(ev Event) (keep bool)

type subscription struct {
	key  string
	fn   Handler
	dead bool
}

type timer struct {
	at float64
	fn func()
}

// Entity is the base of everything that lives on the game clock: it keeps a
// local time, dispatches named events and fires clock-relative callbacks.
// Embed it by value and call Update once per tick.
//
// Entities are not safe for concurrent use; they belong to the loop goroutine.
type Entity struct {
	time    float64
	started bool
	removed bool
	events  map[EventName][]*subscription
	timers  []timer
	nextKey int
	every   []*periodic
}

type periodic struct {
	key    string
	period float64
	tick   int64
	fn     func()
}

// Time returns the seconds elapsed since the first update.
func (e *Entity) Time() float64 { return e.time }

// Removed reports whether Remove has been called.
func (e *Entity) Removed() bool { return e.removed }

// Update advances the clock by dt. The first call fires EventStart before the
// clock moves; deferred callbacks whose time has come fire afterwards.
func (e *Entity) Update(dt float64) {
	if e.removed {
		return
	}
	if !e.started {
		e.started = true
		e.Trigger(Event{Name: EventStart})
		if e.removed {
			return
		}
	}
	if dt > 0 {
		e.time += dt
	}
	e.applyTimers()
	e.applyPeriodic()
}

func (e *Entity) applyTimers() {
	if len(e.timers) == 0 {
		return
	}
	var due []timer
	kept := e.timers[:0]
	for _, t := range e.timers {
		if e.time >= t.at {
			due = append(due, t)
		} else {
			kept = append(kept, t)
		}
	}
	// Callbacks may schedule new timers, so the pending list is settled first.
	clear(e.timers[len(kept):])
	e.timers = kept
	for _, t := range due {
		if e.removed {
			return
		}
		t.fn()
	}
}

// After schedules fn to run once the entity clock has advanced by delay
// seconds from now.
func (e *Entity) After(delay float64, fn func()) {
	if fn == nil {
		return
	}
	e.timers = append(e.timers, timer{at: e.time + delay, fn: fn})
}

// Every runs fn each time the clock crosses a multiple of period. Calling it
// again with the same key replaces the previous schedule.
func (e *Entity) Every(key string, period float64, fn func()) {
	if period <= 0 || fn == nil {
		return
	}
	p := &periodic{key: key, period: period, tick: int64(math.Floor(e.time / period)), fn: fn}
	for i, q := range e.every {
		if q.key == key {
			e.every[i] = p
			return
		}
	}
	e.every = append(e.every, p)
}

// StopEvery cancels the schedule registered under key.
func (e *Entity) StopEvery(key string) {
	for i, q := range e.every {
		if q.key == key {
			e.every = append(e.every[:i:i], e.every[i+1:]...)
			return
		}
	}
}

func (e *Entity) applyPeriodic() {
	for _, p := range e.every {
		if e.removed {
			return
		}
		n := int64(math.Floor(e.time / p.period))
		if n != p.tick {
			p.tick = n
			p.fn()
		}
	}
}

// On subscribes fn to name and returns the subscription key.
func (e *Entity) On(name EventName, fn func(Event)) string {
	return e.Subscribe(name, func(ev Event) bool {
		fn(ev)
		return true
	})
}

// Once subscribes fn to the next occurrence of name only.
func (e *Entity) Once(name EventName, fn func(Event)) string {
	return e.Subscribe(name, func(ev Event) bool {
		fn(ev)
		return false
	})
}

// Subscribe registers h under a fresh key and returns it.
func (e *Entity) Subscribe(name EventName, h Handler) string {
	key := "_" + strconv.Itoa(e.nextKey)
	e.nextKey++
	e.SubscribeKey(name, key, h)
	return key
}

// SubscribeKey registers h under key, replacing any subscription of name
// that already uses it.
func (e *Entity) SubscribeKey(name EventName, key string, h Handler) {
	if h == nil {
		return
	}
	e.OffKey(name, key)
	if e.events == nil {
		e.events = make(map[EventName][]*subscription)
	}
	e.events[name] = append(e.events[name], &subscription{key: key, fn: h})
}

// Off removes every subscription of every event.
func (e *Entity) Off() {
	for name := range e.events {
		e.OffEvent(name)
	}
}

// OffEvent removes every subscription of name.
func (e *Entity) OffEvent(name EventName) {
	for _, s := range e.events[name] {
		s.dead = true
	}
	delete(e.events, name)
}

// OffKey removes one subscription of name.
func (e *Entity) OffKey(name EventName, key string) {
	subs := e.events[name]
	for i, s := range subs {
		if s.key == key {
			s.dead = true
			e.events[name] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

func (e *Entity) drop(name EventName, target *subscription) {
	target.dead = true
	subs := e.events[name]
	for i, s := range subs {
		if s == target {
			e.events[name] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// HasSubscribers reports whether name has at least one live subscription.
func (e *Entity) HasSubscribers(name EventName) bool {
	return len(e.events[name]) > 0
}

// Trigger calls every subscriber of ev.Name in registration order.
// Subscribers added during the call wait for the next trigger.
func (e *Entity) Trigger(ev Event) {
	subs := e.events[ev.Name]
	if len(subs) == 0 {
		return
	}
	snapshot := make([]*subscription, len(subs))
	copy(snapshot, subs)
	for _, s := range snapshot {
		if s.dead {
			continue
		}
		if !s.fn(ev) {
			e.drop(ev.Name, s)
		}
	}
}

// Remove marks the entity removed and fires EventRemove. Further calls do
// nothing.
func (e *Entity) Remove() {
	if e.removed {
		return
	}
	e.removed = true
	e.timers = nil
	e.Trigger(Event{Name: EventRemove})
}
