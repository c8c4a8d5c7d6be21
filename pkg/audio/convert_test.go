package audio_test

import (
	"encoding/binary"
	"testing"

	"github.com/fonema/fonema/pkg/audio"
)

// bytesToSamples converts a little-endian byte slice to int16 samples.
func bytesToSamples(b []byte) []int16 {
	samples := make([]int16, len(b)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return samples
}

func TestMonoToStereo(t *testing.T) {
	mono := samplesToBytes([]int16{100, 200, 300})
	stereo := audio.MonoToStereo(mono)
	got := bytesToSamples(stereo)
	want := []int16{100, 100, 200, 200, 300, 300}
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestStereoToMono_Averages(t *testing.T) {
	stereo := samplesToBytes([]int16{100, 300, -100, -300})
	mono := bytesToSamples(audio.StereoToMono(stereo))
	want := []int16{200, -200}
	if len(mono) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(mono), len(want))
	}
	for i := range want {
		if mono[i] != want[i] {
			t.Errorf("sample[%d] = %d, want %d", i, mono[i], want[i])
		}
	}
}

func TestResampleMono16_SameRate_Passthrough(t *testing.T) {
	pcm := samplesToBytes([]int16{1, 2, 3})
	got := audio.ResampleMono16(pcm, 16000, 16000)
	if &got[0] != &pcm[0] {
		t.Error("same-rate resample should return input unchanged")
	}
}

func TestResampleMono16_Halves(t *testing.T) {
	pcm := samplesToBytes(make([]int16, 320)) // 10ms at 32kHz
	got := audio.ResampleMono16(pcm, 32000, 16000)
	if len(got) != 320 { // 160 samples * 2 bytes
		t.Errorf("resampled length = %d bytes, want 320", len(got))
	}
}

func TestResampleStereo16_Doubles(t *testing.T) {
	pcm := samplesToBytes(make([]int16, 160)) // 80 stereo frames
	got := audio.ResampleStereo16(pcm, 8000, 16000)
	if len(got) != 640 { // 160 frames * 4 bytes
		t.Errorf("resampled length = %d bytes, want 640", len(got))
	}
}

func TestConvert_BrowserCaptureToSTTFormat(t *testing.T) {
	// 48 kHz stereo, 10 ms.
	clip := audio.Clip{
		PCM:        samplesToBytes(make([]int16, 960)),
		SampleRate: 48000,
		Channels:   2,
	}
	out := audio.Convert(clip, 16000, 1)
	if out.SampleRate != 16000 || out.Channels != 1 {
		t.Fatalf("converted format = %dHz %dch, want 16000Hz 1ch", out.SampleRate, out.Channels)
	}
	// 480 stereo frames at 48 kHz become 160 mono samples at 16 kHz.
	if len(out.PCM) != 320 {
		t.Errorf("converted length = %d bytes, want 320", len(out.PCM))
	}
}

func TestConvert_MatchingFormat_Passthrough(t *testing.T) {
	clip := audio.Clip{
		PCM:        samplesToBytes([]int16{1, 2}),
		SampleRate: 16000,
		Channels:   1,
	}
	out := audio.Convert(clip, 16000, 1)
	if &out.PCM[0] != &clip.PCM[0] {
		t.Error("matching format should return input unchanged")
	}
}

func TestFloat32Mono_Mono(t *testing.T) {
	clip := audio.Clip{
		PCM:        samplesToBytes([]int16{16384, -32768, 0}),
		SampleRate: 16000,
		Channels:   1,
	}
	got := clip.Float32Mono()
	want := []float32{0.5, -1.0, 0}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFloat32Mono_StereoAverages(t *testing.T) {
	// L=16384 R=-16384 per frame should cancel to silence.
	clip := audio.Clip{
		PCM:        samplesToBytes([]int16{16384, -16384, 16384, -16384}),
		SampleRate: 48000,
		Channels:   2,
	}
	got := clip.Float32Mono()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for i, s := range got {
		if s != 0 {
			t.Errorf("sample %d = %v, want 0", i, s)
		}
	}
}

func TestFloat32Mono_DropsPartialFrame(t *testing.T) {
	pcm := append(samplesToBytes([]int16{16384}), 0x7f)
	clip := audio.Clip{PCM: pcm, SampleRate: 16000, Channels: 1}
	got := clip.Float32Mono()
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0] != 0.5 {
		t.Errorf("sample 0 = %v, want 0.5", got[0])
	}
}

func TestFloat32Mono_Empty(t *testing.T) {
	clip := audio.Clip{SampleRate: 16000, Channels: 1}
	if got := clip.Float32Mono(); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
