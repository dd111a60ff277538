package scroll

import "time"

// Position returns the viewport offset at elapsed time into an animation
// from one offset to another, following an ease-in-out quadratic curve:
// the first half accelerates, the second half decelerates symmetrically.
//
// The function is pure. Elapsed times outside [0, duration] clamp to the
// endpoints, so callers never overshoot.
func Position(elapsed, duration time.Duration, from, to float64) float64 {
	if duration <= 0 || elapsed >= duration {
		return to
	}
	if elapsed <= 0 {
		return from
	}
	t := float64(elapsed) / float64(duration)
	return from + (to-from)*easeInOutQuad(t)
}

// easeInOutQuad maps normalized time t in [0,1] to eased progress in [0,1].
func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - 2*(1-t)*(1-t)
}
