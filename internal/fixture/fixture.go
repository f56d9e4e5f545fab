// Package fixture 生成固件烧录演示用的正弦波测试音频
package fixture

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/liuscraft/tonegen/internal/audio"
	"github.com/liuscraft/tonegen/internal/config"
	"github.com/liuscraft/tonegen/internal/logging"
	"github.com/liuscraft/tonegen/internal/tone"
)

// Summary 一次生成的结果摘要，用于控制台输出
type Summary struct {
	Path     string
	Samples  int
	Duration float64
	Format   audio.Format
}

// Lines 生成完成后打印的两行摘要
func (s *Summary) Lines() []string {
	return []string{
		fmt.Sprintf("Generated %s: %d samples, %ss duration", s.Path, s.Samples, formatSeconds(s.Duration)),
		fmt.Sprintf("Format: %d-bit float, %dHz, %s", s.Format.BitDepth, s.Format.SampleRate, channelName(s.Format.Channels)),
	}
}

// Build 按 cfg 生成正弦波并写入 output
func Build(ctx context.Context, cfg config.ToneConfig, output string) (*Summary, error) {
	params := cfg.Params()
	defer logging.SetStep("")

	logging.SetStep("generate")
	samples, err := tone.Generate(params)
	if err != nil {
		return nil, fmt.Errorf("generate tone: %w", err)
	}
	logging.Debugf("generated %d samples (%.1f Hz, %d Hz, amplitude %.2f)",
		len(samples), params.Frequency, params.SampleRate, params.Amplitude)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logging.SetStep("write")
	if err := audio.WriteFloat32WAV(output, samples, params.SampleRate); err != nil {
		return nil, fmt.Errorf("write fixture: %w", err)
	}
	logging.Infof("wrote %s", output)

	return &Summary{
		Path:     output,
		Samples:  len(samples),
		Duration: params.Duration,
		Format: audio.Format{
			SampleRate:  params.SampleRate,
			Channels:    1,
			BitDepth:    audio.Float32BitDepth,
			AudioFormat: audio.FormatIEEEFloat,
		},
	}, nil
}

// formatSeconds 至少保留一位小数，1 输出为 "1.0"
func formatSeconds(d float64) string {
	s := strconv.FormatFloat(d, 'f', -1, 64)
	if strings.ContainsRune(s, '.') {
		return s
	}
	return s + ".0"
}

func channelName(n int) string {
	switch n {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%d channels", n)
	}
}
