package audio

import (
	"math"
	"sort"
)

// Framing follows the usual speech front-end convention: 25 ms windows with a
// 10 ms hop.
const (
	frameWindowMS = 25
	frameHopMS    = 10

	// DefaultSilenceThresholdDB is the voice-activity floor relative to the
	// loudest frame.
	DefaultSilenceThresholdDB = -20.0

	// Spectral contrast sub-bands are octaves starting at this frequency.
	contrastLowFreq  = 200.0
	contrastNumBands = 6
)

// Segment is a voice-active span in sample-frame offsets, half-open [Start, End).
// Segments produced by VoiceSegments are ordered by Start and non-overlapping.
type Segment struct {
	Start int
	End   int
}

// Len returns the segment length in samples.
func (s Segment) Len() int {
	return s.End - s.Start
}

// Duration returns the segment length in seconds at the given rate.
func (s Segment) Duration(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(s.Len()) / float64(sampleRate)
}

func frameSizes(sampleRate int) (win, hop int) {
	win = sampleRate * frameWindowMS / 1000
	hop = sampleRate * frameHopMS / 1000
	if win < 1 {
		win = 1
	}
	if hop < 1 {
		hop = 1
	}
	return win, hop
}

// frameRMS computes per-frame root-mean-square amplitude.
func frameRMS(buf *Buffer) []float64 {
	win, hop := frameSizes(buf.SampleRate)
	n := len(buf.Samples)
	if n < win {
		win = n
	}

	numFrames := (n-win)/hop + 1
	rms := make([]float64, numFrames)
	for t := 0; t < numFrames; t++ {
		start := t * hop
		var sum float64
		for i := start; i < start+win; i++ {
			sum += buf.Samples[i] * buf.Samples[i]
		}
		rms[t] = math.Sqrt(sum / float64(win))
	}
	return rms
}

// activeMask flags frames whose RMS exceeds the relative decibel floor below
// the loudest frame.
func activeMask(rms []float64, thresholdDB float64) []bool {
	var peak float64
	for _, v := range rms {
		if v > peak {
			peak = v
		}
	}
	threshold := peak * math.Pow(10, thresholdDB/20)

	mask := make([]bool, len(rms))
	for i, v := range rms {
		mask[i] = peak > 0 && v > threshold
	}
	return mask
}

// VoiceSegments splits the buffer into voice-active spans by thresholding
// frame energy against a decibel floor relative to the peak frame. The result
// is empty when every frame sits below the floor.
func VoiceSegments(buf *Buffer, thresholdDB float64) ([]Segment, error) {
	const op = "voice segments"
	if err := buf.validate(op); err != nil {
		return nil, err
	}

	win, hop := frameSizes(buf.SampleRate)
	n := len(buf.Samples)
	if n < win {
		win = n
	}

	rms := frameRMS(buf)
	mask := activeMask(rms, thresholdDB)

	var segments []Segment
	runStart := -1
	for i := 0; i <= len(mask); i++ {
		active := i < len(mask) && mask[i]
		switch {
		case active && runStart < 0:
			runStart = i
		case !active && runStart >= 0:
			start := runStart * hop
			end := (i-1)*hop + win
			if end > n {
				end = n
			}
			// Window overlap can spill one run into the previous one.
			if len(segments) > 0 && start <= segments[len(segments)-1].End {
				segments[len(segments)-1].End = end
			} else {
				segments = append(segments, Segment{Start: start, End: end})
			}
			runStart = -1
		}
	}
	return segments, nil
}

// RMSEnergy is the mean windowed RMS amplitude over voice-active frames, a
// proxy for voice strength. Silent frames are excluded so long pauses do not
// dilute the measure.
func RMSEnergy(buf *Buffer) (float64, error) {
	const op = "rms energy"
	if err := buf.validate(op); err != nil {
		return 0, err
	}

	rms := frameRMS(buf)
	mask := activeMask(rms, DefaultSilenceThresholdDB)

	var sum float64
	var count int
	for i, v := range rms {
		if mask[i] {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

// SpectralContrast is the mean peak-to-valley contrast across octave sub-bands
// of the magnitude spectrum, a proxy for clarity. Harmonic voice yields strong
// in-band peaks over a quiet floor; broadband noise flattens the bands out.
// The value lands in [0, 1].
func SpectralContrast(buf *Buffer) (float64, error) {
	const op = "spectral contrast"
	if err := buf.validate(op); err != nil {
		return 0, err
	}

	win, hop := frameSizes(buf.SampleRate)
	n := len(buf.Samples)
	if n < win {
		win = n
	}

	rms := frameRMS(buf)
	mask := activeMask(rms, DefaultSilenceThresholdDB)

	fftSize := nextPow2(win)
	window := hammingWindow(win)
	nyquist := float64(buf.SampleRate) / 2
	binWidth := float64(buf.SampleRate) / float64(fftSize)

	re := make([]float64, fftSize)
	im := make([]float64, fftSize)
	mags := make([]float64, fftSize/2)
	scratch := make([]float64, 0, fftSize/2)

	var frameSum float64
	var frameCount int
	for t := range mask {
		if !mask[t] {
			continue
		}
		start := t * hop

		for i := 0; i < win; i++ {
			re[i] = buf.Samples[start+i] * window[i]
		}
		for i := win; i < fftSize; i++ {
			re[i] = 0
		}
		for i := range im {
			im[i] = 0
		}
		fft(re, im)
		for i := range mags {
			mags[i] = math.Hypot(re[i], im[i])
		}

		var bandSum float64
		var bandCount int
		lo := contrastLowFreq
		for b := 0; b < contrastNumBands; b++ {
			hi := lo * 2
			if hi > nyquist {
				break
			}
			loBin := int(lo / binWidth)
			hiBin := int(hi / binWidth)
			if hiBin > len(mags) {
				hiBin = len(mags)
			}
			if hiBin-loBin < 2 {
				lo = hi
				continue
			}

			var peak float64
			band := scratch[:0]
			for i := loBin; i < hiBin; i++ {
				if mags[i] > peak {
					peak = mags[i]
				}
				band = append(band, mags[i])
			}
			// Valley as the mean of the quietest half of the band; the
			// raw minimum is too noisy a statistic for short frames.
			sort.Float64s(band)
			half := len(band) / 2
			if half == 0 {
				half = 1
			}
			var floor float64
			for _, v := range band[:half] {
				floor += v
			}
			floor /= float64(half)
			bandSum += (peak - floor) / (peak + floor + 1e-10)
			bandCount++
			lo = hi
		}

		if bandCount > 0 {
			frameSum += bandSum / float64(bandCount)
			frameCount++
		}
	}

	if frameCount == 0 {
		return 0, nil
	}
	return frameSum / float64(frameCount), nil
}

// NoiseLevel is the mean absolute amplitude over the gaps between voice
// segments. Returns 0 when voice activity spans the whole buffer.
func NoiseLevel(buf *Buffer, thresholdDB float64) (float64, error) {
	const op = "noise level"
	if err := buf.validate(op); err != nil {
		return 0, err
	}

	segments, err := VoiceSegments(buf, thresholdDB)
	if err != nil {
		return 0, err
	}

	gaps := gapSegments(segments, len(buf.Samples))
	if len(gaps) == 0 {
		return 0, nil
	}

	var total float64
	for _, gap := range gaps {
		var sum float64
		for i := gap.Start; i < gap.End; i++ {
			sum += math.Abs(buf.Samples[i])
		}
		total += sum / float64(gap.Len())
	}
	return total / float64(len(gaps)), nil
}

// gapSegments returns the complement of the voice segments over [0, total).
func gapSegments(segments []Segment, total int) []Segment {
	var gaps []Segment
	lastEnd := 0
	for _, seg := range segments {
		if seg.Start > lastEnd {
			gaps = append(gaps, Segment{Start: lastEnd, End: seg.Start})
		}
		if seg.End > lastEnd {
			lastEnd = seg.End
		}
	}
	if lastEnd < total {
		gaps = append(gaps, Segment{Start: lastEnd, End: total})
	}
	return gaps
}
