package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	perrors "voiceforge/internal/platform/errors"
)

// DecodeWAV parses a RIFF/WAVE stream into a mono Buffer. Only 16-bit PCM is
// accepted; stereo input is down-mixed by channel averaging.
func DecodeWAV(r io.Reader) (*Buffer, error) {
	const op = "decode wav"

	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, perrors.Wrap(perrors.KindDecode, op, "read riff header", err)
	}
	if !bytes.Equal(riff[0:4], []byte("RIFF")) || !bytes.Equal(riff[8:12], []byte("WAVE")) {
		return nil, perrors.New(perrors.KindDecode, op, "not a riff/wave stream")
	}

	var (
		sampleRate    int
		numChannels   int
		bitsPerSample int
		audioFormat   int
		haveFmt       bool
	)

	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, perrors.New(perrors.KindDecode, op, "missing data chunk")
			}
			return nil, perrors.Wrap(perrors.KindDecode, op, "read chunk header", err)
		}
		chunkID := string(chunkHeader[0:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, perrors.New(perrors.KindDecode, op, "fmt chunk truncated")
			}
			fmtData := make([]byte, chunkSize)
			if _, err := io.ReadFull(r, fmtData); err != nil {
				return nil, perrors.Wrap(perrors.KindDecode, op, "read fmt chunk", err)
			}
			audioFormat = int(binary.LittleEndian.Uint16(fmtData[0:2]))
			numChannels = int(binary.LittleEndian.Uint16(fmtData[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(fmtData[4:8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(fmtData[14:16]))
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, perrors.New(perrors.KindDecode, op, "data chunk before fmt chunk")
			}
			if audioFormat != 1 || bitsPerSample != 16 {
				return nil, perrors.New(perrors.KindDecode, op,
					fmt.Sprintf("unsupported encoding: format=%d bits=%d", audioFormat, bitsPerSample))
			}
			if numChannels < 1 || numChannels > 2 {
				return nil, perrors.New(perrors.KindDecode, op,
					fmt.Sprintf("unsupported channel count: %d", numChannels))
			}
			if sampleRate <= 0 {
				return nil, perrors.New(perrors.KindDecode, op, "invalid sample rate")
			}

			raw := make([]byte, chunkSize)
			if _, err := io.ReadFull(r, raw); err != nil {
				return nil, perrors.Wrap(perrors.KindDecode, op, "read data chunk", err)
			}
			return pcm16ToBuffer(raw, sampleRate, numChannels), nil

		default:
			// Skip LIST, fact and other chunks. Chunk sizes are word-aligned.
			skip := int64(chunkSize)
			if chunkSize%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, perrors.Wrap(perrors.KindDecode, op, "skip chunk "+chunkID, err)
			}
		}
	}
}

// pcm16ToBuffer converts little-endian 16-bit PCM to normalized mono samples.
func pcm16ToBuffer(raw []byte, sampleRate, numChannels int) *Buffer {
	frameCount := len(raw) / (2 * numChannels)
	samples := make([]float64, frameCount)
	for i := 0; i < frameCount; i++ {
		var sum float64
		for c := 0; c < numChannels; c++ {
			offset := (i*numChannels + c) * 2
			s := int16(binary.LittleEndian.Uint16(raw[offset : offset+2]))
			sum += float64(s) / 32768.0
		}
		samples[i] = sum / float64(numChannels)
	}
	return &Buffer{Samples: samples, SampleRate: sampleRate}
}

// EncodeWAV renders the buffer as a mono 16-bit PCM WAV file.
func EncodeWAV(buf *Buffer) []byte {
	dataSize := len(buf.Samples) * 2

	out := &bytes.Buffer{}
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(36+dataSize))
	out.WriteString("WAVE")

	out.WriteString("fmt ")
	binary.Write(out, binary.LittleEndian, uint32(16))
	binary.Write(out, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(out, binary.LittleEndian, uint16(1)) // mono
	binary.Write(out, binary.LittleEndian, uint32(buf.SampleRate))
	binary.Write(out, binary.LittleEndian, uint32(buf.SampleRate*2)) // byte rate
	binary.Write(out, binary.LittleEndian, uint16(2))                // block align
	binary.Write(out, binary.LittleEndian, uint16(16))               // bits per sample

	out.WriteString("data")
	binary.Write(out, binary.LittleEndian, uint32(dataSize))
	for _, s := range buf.Samples {
		v := math.Max(-1, math.Min(1, s))
		binary.Write(out, binary.LittleEndian, int16(v*32767))
	}
	return out.Bytes()
}
