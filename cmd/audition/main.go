package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/gordonklaus/portaudio"

	"github.com/liuscraft/tonegen/internal/audio"
	"github.com/liuscraft/tonegen/internal/audio/playback"
	"github.com/liuscraft/tonegen/internal/config"
	"github.com/liuscraft/tonegen/internal/logging"
)

func main() {
	input := flag.String("input", config.DefaultOutputPath, "WAV fixture to play")
	rate := flag.Int("rate", 0, "Output device sample rate in Hz (0 = use file rate)")
	frames := flag.Int("frames", playback.DefaultFramesPerBuffer, "Frames per output buffer")
	flag.Parse()

	if err := config.LoadDotEnv(config.DefaultDotEnvPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}

	if err := logging.InitFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()
	logging.SetRunID(logging.NewRunID())

	clip, err := audio.ReadFloat32WAV(*input)
	if err != nil {
		logging.Fatalf("Failed to load fixture: %v", err)
	}
	fmt.Printf("%s: %d frames, %v, %d Hz, %d channel(s)\n",
		*input, clip.NumFrames(), clip.Duration(), clip.Format.SampleRate, clip.Format.Channels)

	if err := portaudio.Initialize(); err != nil {
		logging.Fatalf("Failed to initialize PortAudio: %v", err)
	}
	defer portaudio.Terminate()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	player := playback.NewPlayer(playback.PlayerConfig{
		SampleRate:      *rate,
		FramesPerBuffer: *frames,
	})
	if err := player.Play(ctx, clip); err != nil {
		if errors.Is(err, context.Canceled) {
			logging.Warnf("Playback interrupted")
			return
		}
		// Fatalf 会跳过 defer，先释放 PortAudio
		portaudio.Terminate()
		logging.Fatalf("Playback failed: %v", err)
	}
	logging.Infof("Playback finished")
}
