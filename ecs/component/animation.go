package component

import "time"

// AnimatedSprite steps through Frames at FPS and writes the current frame
// into AtlasSprite.Index.
type AnimatedSprite struct {
	Frames []int
	FPS    float64
	Repeat bool
	Index  int

	Elapsed  time.Duration
	Finished bool
}

// Frame returns the atlas index currently shown.
func (a *AnimatedSprite) Frame() (int, bool) {
	if a == nil || len(a.Frames) == 0 {
		return 0, false
	}
	i := a.Index
	if i >= len(a.Frames) {
		i = len(a.Frames) - 1
	}
	return a.Frames[i], true
}

// Play switches to a new frame sequence from its first frame.
func (a *AnimatedSprite) Play(frames []int, fps float64, repeat bool) {
	if a == nil {
		return
	}
	a.Frames = append([]int(nil), frames...)
	a.FPS = fps
	a.Repeat = repeat
	a.Index = 0
	a.Elapsed = 0
	a.Finished = false
}

// FrameRange returns the indices [start, end).
func FrameRange(start, end int) []int {
	if end <= start {
		return nil
	}
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

var AnimatedSpriteComponent = NewComponent[AnimatedSprite]()
