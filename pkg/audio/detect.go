package audio

import (
	"math"
	"time"
)

// Energy returns the root-mean-square amplitude of a frame of 16-bit PCM.
// Silence on a typical microphone sits well below 100; conversational speech
// a metre away lands in the thousands. The default threshold of 300 follows
// the original calibration of this pipeline.
func Energy(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		f := float64(s)
		sum += f * f
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// Endpointer tracks speech onset and completion over successive equal-length
// PCM frames. It is pure state-machine logic with no device dependency.
type Endpointer struct {
	threshold float64
	frame     time.Duration
	pause     time.Duration
	maxPhrase time.Duration

	started bool
	voiced  time.Duration
	silence time.Duration
}

// NewEndpointer returns an Endpointer. threshold is the minimum frame energy
// considered speech; frame is the duration covered by one Feed call; pause is
// the trailing-silence run that ends a phrase; maxPhrase caps total phrase
// duration once speech has started.
func NewEndpointer(threshold float64, frame, pause, maxPhrase time.Duration) *Endpointer {
	return &Endpointer{
		threshold: threshold,
		frame:     frame,
		pause:     pause,
		maxPhrase: maxPhrase,
	}
}

// Feed consumes one frame. speech reports whether onset has occurred yet;
// done reports that the phrase is complete (trailing pause reached or the
// phrase limit hit). Frames fed after done are ignored.
func (e *Endpointer) Feed(frame []int16) (speech, done bool) {
	energy := Energy(frame)

	if !e.started {
		if energy >= e.threshold {
			e.started = true
			e.voiced = e.frame
		}
		return e.started, false
	}

	e.voiced += e.frame
	if energy < e.threshold {
		e.silence += e.frame
	} else {
		e.silence = 0
	}

	return true, e.silence >= e.pause || e.voiced >= e.maxPhrase
}

// Started reports whether speech onset has been observed.
func (e *Endpointer) Started() bool {
	return e.started
}
