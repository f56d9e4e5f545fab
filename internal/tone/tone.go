package tone

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultSampleRate = 48000
	DefaultFrequency  = 220.0
	DefaultDuration   = 1.0
	DefaultAmplitude  = 0.5

	// MaxSampleRate WAV 头部以 uint32 记录采样率，编码器按纳秒计算样本时长，1GHz 为上限
	MaxSampleRate = 1_000_000_000
	// MaxSamples 单声道 32 位浮点数据满足 36+4N <= MaxUint32
	MaxSamples = (math.MaxUint32 - 36) / 4
)

// ErrInvalidParams 参数不满足生成前置条件
var ErrInvalidParams = errors.New("invalid tone params")

// Params 正弦波生成参数
type Params struct {
	SampleRate int     // 采样率 (Hz)
	Frequency  float64 // 频率 (Hz)
	Duration   float64 // 时长 (秒)
	Amplitude  float64 // 峰值幅度 [0, 1]
}

// DefaultParams 固件烧录演示用的默认音调：48kHz / 220Hz / 1s / 50%
func DefaultParams() Params {
	return Params{
		SampleRate: DefaultSampleRate,
		Frequency:  DefaultFrequency,
		Duration:   DefaultDuration,
		Amplitude:  DefaultAmplitude,
	}
}

// NumSamples 返回 round(SampleRate * Duration)，仅对通过 Validate 的参数有意义
func (p Params) NumSamples() int {
	return int(math.Round(float64(p.SampleRate) * p.Duration))
}

// Validate 检查前置条件，Duration 为 0 合法（生成空序列）
func (p Params) Validate() error {
	if p.SampleRate <= 0 || p.SampleRate > MaxSampleRate {
		return fmt.Errorf("%w: sample rate must be within (0, %d], got %d", ErrInvalidParams, MaxSampleRate, p.SampleRate)
	}
	if math.IsNaN(p.Frequency) || math.IsInf(p.Frequency, 0) || p.Frequency <= 0 {
		return fmt.Errorf("%w: frequency must be positive, got %v", ErrInvalidParams, p.Frequency)
	}
	if math.IsNaN(p.Duration) || math.IsInf(p.Duration, 0) || p.Duration < 0 {
		return fmt.Errorf("%w: duration must be non-negative, got %v", ErrInvalidParams, p.Duration)
	}
	if math.IsNaN(p.Amplitude) || p.Amplitude < 0 || p.Amplitude > 1 {
		return fmt.Errorf("%w: amplitude must be within [0, 1], got %v", ErrInvalidParams, p.Amplitude)
	}
	// 先在浮点域比较，避免转换 int 时溢出
	if n := math.Round(float64(p.SampleRate) * p.Duration); n > MaxSamples {
		return fmt.Errorf("%w: %.0f samples exceed the %d sample limit of a wav file", ErrInvalidParams, n, MaxSamples)
	}
	return nil
}

// Generate 生成正弦波样本
// sample[i] = Amplitude * sin(2π * Frequency * i / SampleRate), i = 0..N-1
// 时间点取 i/SampleRate，而不是在 [0, Duration] 上均分
func Generate(p Params) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.NumSamples()
	samples := make([]float64, n)
	rate := float64(p.SampleRate)
	for i := range samples {
		t := float64(i) / rate
		samples[i] = p.Amplitude * math.Sin(2*math.Pi*p.Frequency*t)
	}
	return samples, nil
}
