// Package audio provides decoding and signal metrics for voice samples.
//
// A Buffer holds decoded mono samples; the metric functions over it are pure
// and carry no state between calls. Buffers are owned by the call that decoded
// them and are never persisted.
package audio

import (
	perrors "voiceforge/internal/platform/errors"
)

// Buffer is a decoded mono (or down-mixed) sample sequence with its rate.
type Buffer struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

func (b *Buffer) validate(op string) error {
	if b == nil || len(b.Samples) == 0 {
		return perrors.New(perrors.KindDecode, op, "empty audio buffer")
	}
	if b.SampleRate <= 0 {
		return perrors.New(perrors.KindDecode, op, "invalid sample rate")
	}
	return nil
}
