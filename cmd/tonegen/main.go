package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/liuscraft/tonegen/internal/config"
	"github.com/liuscraft/tonegen/internal/fixture"
	"github.com/liuscraft/tonegen/internal/logging"
)

func main() {
	if err := config.LoadDotEnv(config.DefaultDotEnvPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "tonegen: %v\n", err)
		stop()
		logging.Sync()
		os.Exit(1)
	}
	logging.Sync()
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flagSet := flag.NewFlagSet("tonegen", flag.ContinueOnError)
	configPath := flagSet.String("config", config.DefaultPath, "config file path")
	output := flagSet.String("output", "", "output wav path (overrides config)")
	frequency := flagSet.Float64("frequency", 0, "tone frequency in Hz (overrides config)")
	duration := flagSet.Float64("duration", 0, "tone duration in seconds (overrides config)")
	amplitude := flagSet.Float64("amplitude", 0, "peak amplitude in [0, 1] (overrides config)")
	sampleRate := flagSet.Int("sample-rate", 0, "sample rate in Hz (overrides config)")
	if err := flagSet.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	appConfig, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 只有显式传入的参数才覆盖配置，-duration 0 也要生效
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			appConfig.Output.Path = strings.TrimSpace(*output)
		case "frequency":
			appConfig.Tone.Frequency = *frequency
		case "duration":
			appConfig.Tone.Duration = *duration
		case "amplitude":
			appConfig.Tone.Amplitude = *amplitude
		case "sample-rate":
			appConfig.Tone.SampleRate = *sampleRate
		}
	})
	if err := appConfig.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := logging.Init(logging.Config{
		Level:  appConfig.Logging.Level,
		Format: appConfig.Logging.Format,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logging.SetRunID(logging.NewRunID())
	logging.Debugf("config loaded from %s", *configPath)

	summary, err := fixture.Build(ctx, appConfig.Tone, appConfig.Output.Path)
	if err != nil {
		return err
	}

	for _, line := range summary.Lines() {
		fmt.Fprintln(stdout, line)
	}
	return nil
}
