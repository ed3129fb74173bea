package reveal

import "time"

// The reveal is a fixed 2 second sequence of independently timed
// sub-animations. None of them gates settling; the orchestrator settles on a
// single timer at TotalDuration regardless of the curves below.
const (
	TotalDuration = 2000 * time.Millisecond

	containerFadeDuration = 500 * time.Millisecond
	cardSettleDuration    = 1000 * time.Millisecond
	textFadeOutDuration   = 800 * time.Millisecond
	textFadeInDuration    = 500 * time.Millisecond

	translateStart = 50.0
	scaleStart     = 0.9
	scaleOvershoot = 1.2
)

// Frame is the value of every animated property at one instant.
type Frame struct {
	ContainerOpacity float64
	TranslateY       float64
	Scale            float64
	TextOpacity      float64
}

// FrameAt evaluates the timeline at the given elapsed time since the
// animation started. Safe to call past TotalDuration.
func FrameAt(elapsed time.Duration) Frame {
	return Frame{
		ContainerOpacity: easeOut(progress(elapsed, 0, containerFadeDuration)),
		TranslateY:       translateStart * (1 - easeOutCubic(progress(elapsed, 0, cardSettleDuration))),
		Scale:            scaleStart + (1-scaleStart)*easeOutBack(progress(elapsed, 0, cardSettleDuration)),
		TextOpacity:      textOpacityAt(elapsed),
	}
}

// FinalFrame is the settled state: everything at its resting value. Repeat
// views initialize to this directly.
func FinalFrame() Frame {
	return Frame{
		ContainerOpacity: 1,
		TranslateY:       0,
		Scale:            1,
		TextOpacity:      1,
	}
}

// The message text holds at zero while the card settles, then fades in.
func textOpacityAt(elapsed time.Duration) float64 {
	if elapsed < textFadeOutDuration {
		return 0
	}
	return easeOut(progress(elapsed, textFadeOutDuration, textFadeInDuration))
}

// progress maps elapsed time onto [0,1] for a sub-animation starting at
// `start` and running for `duration`.
func progress(elapsed, start, duration time.Duration) float64 {
	if elapsed <= start {
		return 0
	}
	if elapsed >= start+duration {
		return 1
	}
	return float64(elapsed-start) / float64(duration)
}

func easeOut(t float64) float64 {
	return t * (2 - t)
}

func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// easeOutBack overshoots past 1 before settling, giving the card its pop.
func easeOutBack(t float64) float64 {
	s := scaleOvershoot
	u := 1 - t
	return 1 - u*u*((s+1)*u-s)
}
