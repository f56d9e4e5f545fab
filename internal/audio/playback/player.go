package playback

import (
	"context"
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/multierr"

	"github.com/liuscraft/tonegen/internal/audio"
	"github.com/liuscraft/tonegen/internal/logging"
)

const DefaultFramesPerBuffer = 1024

// PlayerConfig 播放配置
type PlayerConfig struct {
	SampleRate      int // 设备采样率，0 表示使用文件采样率
	FramesPerBuffer int
	Resampler       audio.Resampler
}

// outputStream 输出流抽象，便于测试时替换 portaudio
type outputStream interface {
	Start() error
	Write() error
	Stop() error
	Close() error
}

type openStreamFunc func(channels, sampleRate, framesPerBuffer int, buffer *[]float32) (outputStream, error)

// Player 通过默认输出设备播放 audio.Clip
// 调用方负责 portaudio.Initialize / portaudio.Terminate
type Player struct {
	cfg        PlayerConfig
	openStream openStreamFunc
}

func NewPlayer(cfg PlayerConfig) *Player {
	if cfg.FramesPerBuffer <= 0 {
		cfg.FramesPerBuffer = DefaultFramesPerBuffer
	}
	if cfg.Resampler == nil {
		cfg.Resampler = audio.NewLinearResampler()
	}
	return &Player{cfg: cfg, openStream: openDefaultOutputStream}
}

func openDefaultOutputStream(channels, sampleRate, framesPerBuffer int, buffer *[]float32) (outputStream, error) {
	return portaudio.OpenDefaultStream(0, channels, float64(sampleRate), framesPerBuffer, buffer)
}

// Play 阻塞播放整个片段，ctx 取消时在下一个缓冲区边界停止
// 流在所有返回路径上都会被关闭
func (p *Player) Play(ctx context.Context, clip *audio.Clip) (err error) {
	if clip == nil {
		return errors.New("nil clip")
	}
	channels := clip.Format.Channels
	if channels <= 0 {
		return fmt.Errorf("invalid channels: %d", channels)
	}

	samples := clip.Samples
	rate := clip.Format.SampleRate
	if p.cfg.SampleRate > 0 && p.cfg.SampleRate != rate {
		logging.Debugf("resampling clip %d Hz -> %d Hz", rate, p.cfg.SampleRate)
		samples, err = p.cfg.Resampler.Resample(samples, rate, p.cfg.SampleRate, channels)
		if err != nil {
			return fmt.Errorf("resample clip: %w", err)
		}
		rate = p.cfg.SampleRate
	}

	buffer := make([]float32, p.cfg.FramesPerBuffer*channels)
	stream, err := p.openStream(channels, rate, p.cfg.FramesPerBuffer, &buffer)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	defer func() {
		err = multierr.Append(err, stream.Close())
	}()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start output stream: %w", err)
	}
	defer func() {
		err = multierr.Append(err, stream.Stop())
	}()

	logging.Infof("playing %d frames at %d Hz", len(samples)/channels, rate)
	for offset := 0; offset < len(samples); offset += len(buffer) {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := copy(buffer, samples[offset:])
		// 最后一块不足时补静音
		clear(buffer[n:])
		if err := stream.Write(); err != nil {
			return fmt.Errorf("write output stream: %w", err)
		}
	}
	return nil
}
