package playback

import (
	"context"
	"errors"
	"testing"

	"github.com/liuscraft/tonegen/internal/audio"
)

// mockStream 记录每次 Write 时缓冲区的内容
type mockStream struct {
	buffer   *[]float32
	writes   [][]float32
	started  bool
	stopped  bool
	closed   bool
	startErr error
	writeErr error
	onWrite  func()
}

func (s *mockStream) Start() error {
	if s.startErr != nil {
		return s.startErr
	}
	s.started = true
	return nil
}

func (s *mockStream) Write() error {
	if s.writeErr != nil {
		return s.writeErr
	}
	chunk := make([]float32, len(*s.buffer))
	copy(chunk, *s.buffer)
	s.writes = append(s.writes, chunk)
	if s.onWrite != nil {
		s.onWrite()
	}
	return nil
}

func (s *mockStream) Stop() error {
	s.stopped = true
	return nil
}

func (s *mockStream) Close() error {
	s.closed = true
	return nil
}

type openCall struct {
	channels        int
	sampleRate      int
	framesPerBuffer int
}

func newTestPlayer(cfg PlayerConfig, stream *mockStream, calls *[]openCall) *Player {
	p := NewPlayer(cfg)
	p.openStream = func(channels, sampleRate, framesPerBuffer int, buffer *[]float32) (outputStream, error) {
		*calls = append(*calls, openCall{channels, sampleRate, framesPerBuffer})
		stream.buffer = buffer
		return stream, nil
	}
	return p
}

func monoClip(rate int, samples ...float32) *audio.Clip {
	return &audio.Clip{
		Format:  audio.Format{SampleRate: rate, Channels: 1, BitDepth: audio.Float32BitDepth, AudioFormat: audio.FormatIEEEFloat},
		Samples: samples,
	}
}

func TestPlayer_WritesAllFramesAndPadsSilence(t *testing.T) {
	stream := &mockStream{}
	var calls []openCall
	p := newTestPlayer(PlayerConfig{FramesPerBuffer: 4}, stream, &calls)

	clip := monoClip(48000, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6)
	if err := p.Play(context.Background(), clip); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	if len(calls) != 1 || calls[0] != (openCall{1, 48000, 4}) {
		t.Fatalf("Unexpected open calls: %+v", calls)
	}
	if len(stream.writes) != 2 {
		t.Fatalf("Expected 2 writes, got %d", len(stream.writes))
	}
	want := []float32{0.5, 0.6, 0, 0}
	for i, v := range want {
		if stream.writes[1][i] != v {
			t.Errorf("Last write sample %d: expected %v, got %v", i, v, stream.writes[1][i])
		}
	}
	if !stream.started || !stream.stopped || !stream.closed {
		t.Errorf("Expected stream to be started, stopped and closed: %+v", stream)
	}
}

func TestPlayer_ResamplesToDeviceRate(t *testing.T) {
	stream := &mockStream{}
	var calls []openCall
	p := newTestPlayer(PlayerConfig{SampleRate: 16000, FramesPerBuffer: 8}, stream, &calls)

	clip := monoClip(48000, make([]float32, 48)...)
	if err := p.Play(context.Background(), clip); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	if calls[0].sampleRate != 16000 {
		t.Errorf("Expected stream opened at 16000 Hz, got %d", calls[0].sampleRate)
	}
	if len(stream.writes) != 2 {
		t.Errorf("Expected 16 resampled frames in 2 writes, got %d writes", len(stream.writes))
	}
}

func TestPlayer_CancelStopsAndCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := &mockStream{onWrite: cancel}
	var calls []openCall
	p := newTestPlayer(PlayerConfig{FramesPerBuffer: 2}, stream, &calls)

	err := p.Play(ctx, monoClip(48000, 1, 2, 3, 4, 5, 6))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if len(stream.writes) != 1 {
		t.Errorf("Expected playback to stop after first write, got %d writes", len(stream.writes))
	}
	if !stream.stopped || !stream.closed {
		t.Errorf("Expected stream to be stopped and closed")
	}
}

func TestPlayer_StartFailureClosesStream(t *testing.T) {
	startErr := errors.New("device busy")
	stream := &mockStream{startErr: startErr}
	var calls []openCall
	p := newTestPlayer(PlayerConfig{}, stream, &calls)

	err := p.Play(context.Background(), monoClip(48000, 0.1))
	if !errors.Is(err, startErr) {
		t.Fatalf("Expected start error, got %v", err)
	}
	if stream.stopped {
		t.Errorf("Stream should not be stopped when start failed")
	}
	if !stream.closed {
		t.Errorf("Expected stream to be closed")
	}
}

func TestPlayer_WriteFailure(t *testing.T) {
	writeErr := errors.New("output underflowed")
	stream := &mockStream{writeErr: writeErr}
	var calls []openCall
	p := newTestPlayer(PlayerConfig{}, stream, &calls)

	err := p.Play(context.Background(), monoClip(48000, 0.1))
	if !errors.Is(err, writeErr) {
		t.Fatalf("Expected write error, got %v", err)
	}
	if !stream.stopped || !stream.closed {
		t.Errorf("Expected stream to be stopped and closed")
	}
}

func TestPlayer_InvalidClip(t *testing.T) {
	p := NewPlayer(PlayerConfig{})
	if err := p.Play(context.Background(), nil); err == nil {
		t.Errorf("Expected error for nil clip")
	}
	if err := p.Play(context.Background(), &audio.Clip{}); err == nil {
		t.Errorf("Expected error for zero channels")
	}
}
