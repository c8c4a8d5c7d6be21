// Package audio provides PCM helpers for speech capture: WAV encoding and
// decoding plus format conversion (downmix, resample) to the 16 kHz mono
// format that STT engines expect.
//
// All PCM data is 16-bit signed little-endian.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// bitsPerSample is fixed at 16 for all PCM handled by this package.
const bitsPerSample = 16

// Clip is a decoded audio recording: raw PCM plus its format.
type Clip struct {
	PCM        []byte
	SampleRate int
	Channels   int
}

// Duration returns the clip length in seconds. Returns 0 for invalid formats.
func (c Clip) Duration() float64 {
	if c.SampleRate <= 0 || c.Channels <= 0 {
		return 0
	}
	bytesPerSec := c.SampleRate * c.Channels * (bitsPerSample / 8)
	return float64(len(c.PCM)) / float64(bytesPerSec)
}

// EncodeWAV wraps raw 16-bit signed little-endian PCM data in a standard
// RIFF/WAV container. The returned byte slice is suitable for direct
// inclusion in a multipart form upload.
func EncodeWAV(pcm []byte, sampleRate, channels int) []byte {
	bps := bitsPerSample
	byteRate := sampleRate * channels * bps / 8
	blockAlign := channels * bps / 8
	dataSize := len(pcm)

	buf := make([]byte, 44+dataSize)

	// RIFF chunk descriptor
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize)) // file size − 8
	copy(buf[8:12], "WAVE")

	// fmt sub-chunk
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)                 // sub-chunk size (PCM)
	binary.LittleEndian.PutUint16(buf[20:22], 1)                  // audio format: PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))   // num channels
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate)) // sample rate
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))   // byte rate
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign)) // block align
	binary.LittleEndian.PutUint16(buf[34:36], uint16(bps))        // bits per sample

	// data sub-chunk
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))
	copy(buf[44:], pcm)

	return buf
}

// DecodeWAV parses a RIFF/WAV container and returns the contained PCM data
// and format. Only uncompressed 16-bit PCM is supported; sub-chunks other
// than "fmt " and "data" (e.g. "LIST" metadata written by browsers) are
// skipped.
func DecodeWAV(data []byte) (Clip, error) {
	if len(data) < 12 {
		return Clip{}, errors.New("audio: wav data too short")
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Clip{}, errors.New("audio: not a RIFF/WAVE file")
	}

	var (
		clip   Clip
		gotFmt bool
	)

	// Walk sub-chunks.
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if size < 0 || body+size > len(data) {
			return Clip{}, fmt.Errorf("audio: wav chunk %q overruns file", id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return Clip{}, errors.New("audio: wav fmt chunk too short")
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return Clip{}, fmt.Errorf("audio: unsupported wav format %d, want PCM", format)
			}
			clip.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			clip.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bps := binary.LittleEndian.Uint16(data[body+14 : body+16])
			if bps != bitsPerSample {
				return Clip{}, fmt.Errorf("audio: unsupported bit depth %d, want %d", bps, bitsPerSample)
			}
			gotFmt = true

		case "data":
			clip.PCM = data[body : body+size]
		}

		// Chunks are word-aligned.
		pos = body + size
		if size%2 == 1 {
			pos++
		}
	}

	if !gotFmt {
		return Clip{}, errors.New("audio: wav file has no fmt chunk")
	}
	if clip.PCM == nil {
		return Clip{}, errors.New("audio: wav file has no data chunk")
	}
	if clip.Channels <= 0 || clip.SampleRate <= 0 {
		return Clip{}, fmt.Errorf("audio: invalid wav format %dHz %dch", clip.SampleRate, clip.Channels)
	}
	return clip, nil
}
