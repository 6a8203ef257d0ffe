package audio

import (
	"encoding/binary"
	"testing"
	"time"
)

// makeWAV builds a minimal valid WAV file with the given parameters.
func makeWAV(sampleRate, channels, bitsPerSample, dataLen int) []byte {
	buf := make([]byte, wavHeaderSize+dataLen)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	byteRate := sampleRate * channels * bitsPerSample / 8
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(channels*bitsPerSample/8))
	binary.LittleEndian.PutUint16(buf[34:36], uint16(bitsPerSample))
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))
	return buf
}

func TestProbe_WAV(t *testing.T) {
	// 22050 Hz 单声道 16-bit，1 秒数据
	data := makeWAV(22050, 1, 16, 22050*2)

	info, err := Probe(data)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if info.Format != "wav" {
		t.Errorf("Format: got %q, want wav", info.Format)
	}
	if info.SampleRate != 22050 {
		t.Errorf("SampleRate: got %d, want 22050", info.SampleRate)
	}
	if diff := info.Duration - time.Second; diff < -10*time.Millisecond || diff > 10*time.Millisecond {
		t.Errorf("Duration: got %v, want ~1s", info.Duration)
	}
}

func TestProbe_WAVStereo(t *testing.T) {
	// 44100 Hz 双声道 16-bit，半秒数据
	data := makeWAV(44100, 2, 16, 44100*2*2/2)

	info, err := Probe(data)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if diff := info.Duration - 500*time.Millisecond; diff < -10*time.Millisecond || diff > 10*time.Millisecond {
		t.Errorf("Duration: got %v, want ~500ms", info.Duration)
	}
}

func TestProbe_Empty(t *testing.T) {
	if _, err := Probe(nil); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestProbe_Garbage(t *testing.T) {
	if _, err := Probe([]byte("definitely not audio")); err == nil {
		t.Error("expected error for non-audio data")
	}
}
