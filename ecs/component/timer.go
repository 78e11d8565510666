package component

import "time"

type TimerMode uint8

const (
	// TimerOnce stops at its duration and stays finished.
	TimerOnce TimerMode = iota
	// TimerRepeating wraps around and reports JustFinished on every lap.
	TimerRepeating
)

// Timer counts elapsed time up to a fixed duration. It only moves when
// ticked, so every owner advances it with the tick delta.
type Timer struct {
	duration     time.Duration
	elapsed      time.Duration
	mode         TimerMode
	finished     bool
	justFinished bool
	laps         int
}

func NewTimer(d time.Duration, mode TimerMode) Timer {
	if d < 0 {
		d = 0
	}
	return Timer{duration: d, mode: mode}
}

// Tick advances the timer by delta. Negative deltas are ignored.
func (t *Timer) Tick(delta time.Duration) *Timer {
	if t == nil {
		return nil
	}
	if delta < 0 {
		delta = 0
	}
	t.justFinished = false
	t.laps = 0

	switch t.mode {
	case TimerRepeating:
		t.elapsed += delta
		if t.duration <= 0 {
			t.finished = true
			t.justFinished = true
			t.laps = 1
			t.elapsed = 0
			return t
		}
		if t.elapsed >= t.duration {
			t.laps = int(t.elapsed / t.duration)
			t.elapsed %= t.duration
			t.finished = true
			t.justFinished = true
		} else {
			t.finished = false
		}
	default:
		if t.finished {
			return t
		}
		t.elapsed += delta
		if t.elapsed >= t.duration {
			t.elapsed = t.duration
			t.finished = true
			t.justFinished = true
		}
	}
	return t
}

// Finished reports whether the timer has reached its duration. A once timer
// stays finished until Reset.
func (t *Timer) Finished() bool {
	return t != nil && t.finished
}

// JustFinished reports whether the last Tick crossed the duration.
func (t *Timer) JustFinished() bool {
	return t != nil && t.justFinished
}

// Laps returns how many times a repeating timer wrapped during the last Tick.
func (t *Timer) Laps() int {
	if t == nil {
		return 0
	}
	return t.laps
}

func (t *Timer) Remaining() time.Duration {
	if t == nil {
		return 0
	}
	return t.duration - t.elapsed
}

func (t *Timer) Elapsed() time.Duration {
	if t == nil {
		return 0
	}
	return t.elapsed
}

func (t *Timer) Duration() time.Duration {
	if t == nil {
		return 0
	}
	return t.duration
}

func (t *Timer) Mode() TimerMode {
	if t == nil {
		return TimerOnce
	}
	return t.mode
}

// Reset rewinds the timer to zero elapsed, keeping its duration and mode.
func (t *Timer) Reset() {
	if t == nil {
		return
	}
	t.elapsed = 0
	t.finished = false
	t.justFinished = false
	t.laps = 0
}
