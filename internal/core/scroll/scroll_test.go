package scroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		target   Bounds
		window   Window
		want     int
		wantMove bool
	}{
		{
			name:   "fully visible is a no-op",
			target: Bounds{Top: 12, Height: 5},
			window: Window{Offset: 10, Height: 20, Content: 100},
			want:   10,
		},
		{
			name:   "exactly fits",
			target: Bounds{Top: 10, Height: 20},
			window: Window{Offset: 10, Height: 20, Content: 100},
			want:   10,
		},
		{
			name:     "below the window",
			target:   Bounds{Top: 40, Height: 5},
			window:   Window{Offset: 10, Height: 20, Content: 100},
			want:     40,
			wantMove: true,
		},
		{
			name:     "above the window",
			target:   Bounds{Top: 2, Height: 3},
			window:   Window{Offset: 10, Height: 20, Content: 100},
			want:     2,
			wantMove: true,
		},
		{
			name:     "partially visible at the bottom",
			target:   Bounds{Top: 25, Height: 10},
			window:   Window{Offset: 10, Height: 20, Content: 100},
			want:     25,
			wantMove: true,
		},
		{
			name:     "clamped to the end of content",
			target:   Bounds{Top: 95, Height: 5},
			window:   Window{Offset: 0, Height: 20, Content: 100},
			want:     80,
			wantMove: true,
		},
		{
			name:   "taller than the window and already at its top",
			target: Bounds{Top: 10, Height: 40},
			window: Window{Offset: 10, Height: 20, Content: 100},
			want:   10,
		},
		{
			name:   "content shorter than window",
			target: Bounds{Top: 3, Height: 30},
			window: Window{Offset: 0, Height: 20, Content: 15},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, move := Decide(tt.target, tt.window)
			assert.Equal(t, tt.wantMove, move)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnimation_EndsAtDestination(t *testing.T) {
	a := NewAnimation(0, 40, DefaultFrames)

	var offsets []int
	for {
		off, done := a.Next()
		offsets = append(offsets, off)
		if done {
			break
		}
	}

	assert.Len(t, offsets, DefaultFrames)
	assert.Equal(t, 40, offsets[len(offsets)-1])
	assert.IsNonDecreasing(t, offsets)
	assert.Less(t, offsets[0], 40)

	off, done := a.Next()
	assert.True(t, done)
	assert.Equal(t, 40, off)
}

func TestAnimation_Upwards(t *testing.T) {
	a := NewAnimation(50, 10, 4)

	var offsets []int
	for !a.Done() {
		off, _ := a.Next()
		offsets = append(offsets, off)
	}

	assert.Equal(t, 10, offsets[len(offsets)-1])
	assert.IsNonIncreasing(t, offsets)
}

func TestAnimation_SpringEasesInBothHalves(t *testing.T) {
	a := NewAnimation(0, 100, DefaultFrames)

	var offsets []int
	for !a.Done() {
		off, _ := a.Next()
		offsets = append(offsets, off)
	}

	require.Len(t, offsets, DefaultFrames)
	assert.Greater(t, offsets[0], 0, "the first frame already moves")
	assert.Greater(t, offsets[DefaultFrames-2], 90, "the spring has nearly settled before the snap")
	for _, off := range offsets {
		assert.GreaterOrEqual(t, off, 0)
		assert.LessOrEqual(t, off, 100, "a critically damped spring never overshoots")
	}
}

func TestAnimation_NoDistance(t *testing.T) {
	a := NewAnimation(12, 12, DefaultFrames)
	for !a.Done() {
		off, _ := a.Next()
		assert.Equal(t, 12, off)
	}
}

func TestAnimation_SingleFrame(t *testing.T) {
	a := NewAnimation(5, 30, 0)
	off, done := a.Next()
	assert.True(t, done)
	assert.Equal(t, 30, off)
}
