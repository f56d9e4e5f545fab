package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/renameio/v2"
	"go.uber.org/multierr"

	"github.com/liuscraft/tonegen/internal/tone"
)

const (
	// WAVE_FORMAT_IEEE_FLOAT
	FormatIEEEFloat = 3
	Float32BitDepth = 32
)

// ErrUnsupportedFormat 非 32 位浮点 WAV
var ErrUnsupportedFormat = errors.New("unsupported wav format")

// Format WAV 头部描述的格式
type Format struct {
	SampleRate  int
	Channels    int
	BitDepth    int
	AudioFormat int
}

// Clip 解码后的音频片段，Samples 按帧交错存储
type Clip struct {
	Format  Format
	Samples []float32
}

// NumFrames 帧数，单声道时等于样本数
func (c *Clip) NumFrames() int {
	if c == nil || c.Format.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Format.Channels
}

func (c *Clip) Duration() time.Duration {
	if c == nil || c.Format.SampleRate <= 0 {
		return 0
	}
	return time.Duration(c.NumFrames()) * time.Second / time.Duration(c.Format.SampleRate)
}

// WriteFloat32WAV 将样本写为单声道 32 位浮点 WAV
// 先写入目标目录下的临时文件，全部成功后再原子替换 path；
// 任何失败都会删除临时文件，目标路径保持原样
func WriteFloat32WAV(path string, samples []float64, sampleRate int) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithTempDir(dir), renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file for %s: %w", path, err)
	}
	defer func() {
		// 替换成功后 Cleanup 为空操作
		err = multierr.Append(err, pending.Cleanup())
	}()

	if err := EncodeFloat32WAV(pending, samples, sampleRate); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// EncodeFloat32WAV 编码单声道 32 位浮点 WAV
// 头部中的帧数、采样率、声道数、位深与数据段严格一致，零样本时输出 44 字节的空文件
func EncodeFloat32WAV(w io.WriteSeeker, samples []float64, sampleRate int) error {
	if err := checkEncodable(len(samples), sampleRate); err != nil {
		return err
	}

	enc := wav.NewEncoder(w, sampleRate, Float32BitDepth, 1, FormatIEEEFloat)

	// 编码器按 int32 写 32 位样本，这里放入 float32 的位模式
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: Float32BitDepth,
		Data:           make([]int, len(samples)),
	}
	for i, s := range samples {
		buf.Data[i] = int(int32(math.Float32bits(float32(s))))
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize header: %w", err)
	}
	return nil
}

// checkEncodable 采样率与数据长度必须能放进 uint32 头部字段
func checkEncodable(frames, sampleRate int) error {
	if sampleRate <= 0 || sampleRate > tone.MaxSampleRate {
		return fmt.Errorf("sample rate must be within (0, %d], got %d", tone.MaxSampleRate, sampleRate)
	}
	if frames > tone.MaxSamples {
		return fmt.Errorf("%d frames exceed the %d frame limit of a wav file", frames, tone.MaxSamples)
	}
	return nil
}

// ReadFloat32WAV 读取并解码 32 位浮点 WAV 文件
func ReadFloat32WAV(path string) (clip *Clip, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	clip, err = DecodeFloat32WAV(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return clip, nil
}

// DecodeFloat32WAV 解码 32 位浮点 WAV，其他编码返回 ErrUnsupportedFormat
func DecodeFloat32WAV(r io.ReadSeeker) (*Clip, error) {
	d := wav.NewDecoder(r)
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	format := Format{
		SampleRate:  int(d.SampleRate),
		Channels:    int(d.NumChans),
		BitDepth:    int(d.BitDepth),
		AudioFormat: int(d.WavAudioFormat),
	}
	if format.AudioFormat != FormatIEEEFloat || format.BitDepth != Float32BitDepth {
		return nil, fmt.Errorf("%w: format tag %d, %d bits", ErrUnsupportedFormat, format.AudioFormat, format.BitDepth)
	}
	if format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupportedFormat, format.Channels, format.SampleRate)
	}

	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("find data chunk: %w", err)
	}

	blockAlign := format.Channels * Float32BitDepth / 8
	if d.PCMSize%blockAlign != 0 {
		return nil, fmt.Errorf("data chunk size %d is not a multiple of block align %d", d.PCMSize, blockAlign)
	}

	payload := make([]byte, d.PCMSize)
	if _, err := io.ReadFull(d.PCMChunk, payload); err != nil {
		return nil, fmt.Errorf("read data chunk: %w", err)
	}

	samples := make([]float32, len(payload)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4:]))
	}

	return &Clip{Format: format, Samples: samples}, nil
}
