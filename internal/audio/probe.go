package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// Info 音频片段的探测结果。
type Info struct {
	Format     string // mp3 或 wav
	SampleRate int    // 采样率（Hz）
	Duration   time.Duration
}

// wav 文件头固定 44 字节（RIFF + fmt + data 块头）。
const wavHeaderSize = 44

// Probe 识别音频字节流的格式并计算时长。
// 支持 MP3（解码统计 PCM 字节数）和标准 44 字节头的 WAV。
func Probe(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, fmt.Errorf("音频数据为空")
	}

	if isWAV(data) {
		return probeWAV(data)
	}
	return probeMP3(data)
}

func isWAV(data []byte) bool {
	return len(data) > wavHeaderSize &&
		bytes.HasPrefix(data, []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WAVE"))
}

// probeWAV 从 WAV 头读取采样参数并按数据长度计算时长。
func probeWAV(data []byte) (Info, error) {
	channels := int(binary.LittleEndian.Uint16(data[22:24]))
	sampleRate := int(binary.LittleEndian.Uint32(data[24:28]))
	bitsPerSample := int(binary.LittleEndian.Uint16(data[34:36]))

	if channels == 0 || sampleRate == 0 || bitsPerSample == 0 {
		return Info{}, fmt.Errorf("WAV 头参数无效")
	}

	bytesPerSecond := sampleRate * channels * bitsPerSample / 8
	dataLen := len(data) - wavHeaderSize
	duration := time.Duration(float64(dataLen) / float64(bytesPerSecond) * float64(time.Second))

	return Info{Format: "wav", SampleRate: sampleRate, Duration: duration}, nil
}

// probeMP3 解码 MP3 统计 PCM 长度。
// go-mp3 输出固定为立体声 signed 16-bit LE，每帧 4 字节。
func probeMP3(data []byte) (Info, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("MP3 解码失败: %w", err)
	}

	sampleRate := decoder.SampleRate()

	n, err := io.Copy(io.Discard, decoder)
	if err != nil {
		return Info{}, fmt.Errorf("读取 PCM 数据失败: %w", err)
	}

	const bytesPerFrame = 4
	frames := n / bytesPerFrame
	duration := time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))

	return Info{Format: "mp3", SampleRate: sampleRate, Duration: duration}, nil
}
