package audio

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	mp3 "github.com/hajimehoshi/go-mp3"

	perrors "voiceforge/internal/platform/errors"
)

// Decode reads the file at path into a mono Buffer, dispatching on extension.
// Supported formats: wav, mp3.
func Decode(path string) (*Buffer, error) {
	const op = "decode"

	f, err := os.Open(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.KindDecode, op, "open audio file", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeFrom(DecodeWAV(f))
	case ".mp3":
		return decodeFrom(DecodeMP3(f))
	default:
		return nil, perrors.New(perrors.KindDecode, op,
			"unsupported audio format: "+filepath.Ext(path))
	}
}

func decodeFrom(buf *Buffer, err error) (*Buffer, error) {
	if err != nil {
		return nil, err
	}
	if err := buf.validate("decode"); err != nil {
		return nil, err
	}
	return buf, nil
}

// DecodeMP3 decodes an MPEG stream. go-mp3 always emits 16-bit stereo frames,
// which are down-mixed to mono.
func DecodeMP3(r io.Reader) (*Buffer, error) {
	const op = "decode mp3"

	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, perrors.Wrap(perrors.KindDecode, op, "open mp3 stream", err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, perrors.Wrap(perrors.KindDecode, op, "decode mp3 frames", err)
	}

	frameCount := len(raw) / 4 // 2 channels x 2 bytes
	samples := make([]float64, frameCount)
	for i := 0; i < frameCount; i++ {
		left := int16(binary.LittleEndian.Uint16(raw[i*4 : i*4+2]))
		right := int16(binary.LittleEndian.Uint16(raw[i*4+2 : i*4+4]))
		samples[i] = (float64(left) + float64(right)) / 2 / 32768.0
	}

	return &Buffer{Samples: samples, SampleRate: decoder.SampleRate()}, nil
}
