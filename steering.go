package msgame

import "math"

// Bounded is anything with a collision rectangle. Sprites report their
// anchor-adjusted box; a Rect reports itself.
type Bounded interface {
	Boundaries() Rect
}

// Overlaps reports whether the boundaries of a and b intersect. Touching
// edges count as overlapping.
func Overlaps(a, b Bounded) bool {
	return a.Boundaries().Intersects(b.Boundaries())
}

// Sign returns -1, 0 or 1 following the sign of v.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// AccelerateToSpeed moves speed toward target by accel*dt when speeding up in
// the target's direction (or from rest) and by decel*dt when braking. The
// result never passes target.
func AccelerateToSpeed(speed, target, accel, decel, dt float64) float64 {
	if speed == target {
		return speed
	}
	step := decel * dt
	if speed == 0 || speed*target > 0 {
		step = accel * dt
	}
	if speed < target {
		return math.Min(speed+step, target)
	}
	return math.Max(speed-step, target)
}

// AccelerateToPosition returns the next speed of a mover at pos heading for
// target. The wanted speed follows the braking distance, sign(d)*sqrt(|d|*decel),
// capped at maxSpeed, so the mover slows into the target instead of
// overshooting it.
func AccelerateToPosition(pos, target, speed, maxSpeed, accel, decel, dt float64) float64 {
	d := target - pos
	want := Clamp(Sign(d)*math.Sqrt(math.Abs(d)*decel), -maxSpeed, maxSpeed)
	return AccelerateToSpeed(speed, want, accel, decel, dt)
}

// MoveToward2D moves pos toward target by at most speed*dt and reports
// whether the target was reached.
func MoveToward2D(pos *Vec2, target Vec2, speed, dt float64) bool {
	step := speed * dt
	dx, dy := target.X-pos.X, target.Y-pos.Y
	dist := math.Hypot(dx, dy)
	if dist <= step {
		*pos = target
		return true
	}
	pos.X += dx / dist * step
	pos.Y += dy / dist * step
	return false
}
