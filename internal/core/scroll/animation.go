package scroll

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// DefaultFrames is the number of steps of a smooth scroll.
const DefaultFrames = 8

// The scroll runs on a one-second timeline cut into the animation's frames.
// A critically damped spring at this frequency is within 1% of its target
// at the end of that second, so the snap on the final frame is invisible.
const (
	springFrequency = 7.0
	springDamping   = 1.0
)

// Animation is a finite sequence of offsets from one position to another,
// eased by a spring. The last offset is always the destination.
type Animation struct {
	from, to int
	spring   harmonica.Spring
	pos, vel float64
	frames   int
	frame    int
}

// NewAnimation creates an animation of frames steps. frames below 1 jump
// straight to the destination.
func NewAnimation(from, to, frames int) *Animation {
	frames = max(frames, 1)
	return &Animation{
		from:   from,
		to:     to,
		spring: harmonica.NewSpring(harmonica.FPS(frames), springFrequency, springDamping),
		pos:    float64(from),
		frames: frames,
	}
}

// To returns the destination offset.
func (a *Animation) To() int {
	return a.to
}

// Done reports whether every frame has been produced.
func (a *Animation) Done() bool {
	return a.frame >= a.frames
}

// Next advances one frame and returns its offset. done is true on the final
// frame; calling Next after that keeps returning the destination.
func (a *Animation) Next() (offset int, done bool) {
	if a.Done() {
		return a.to, true
	}
	a.frame++
	if a.Done() {
		a.pos, a.vel = float64(a.to), 0
		return a.to, true
	}

	a.pos, a.vel = a.spring.Update(a.pos, a.vel, float64(a.to))

	// Offsets never leave the [from, to] span.
	lo, hi := min(a.from, a.to), max(a.from, a.to)
	return min(max(int(math.Round(a.pos)), lo), hi), false
}
