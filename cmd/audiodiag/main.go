package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gordonklaus/portaudio"

	"github.com/liuscraft/tonegen/internal/tone"
)

func main() {
	fixtureRate := flag.Int("fixture-rate", tone.DefaultSampleRate, "Sample rate of the fixture to audition")
	flag.Parse()

	fmt.Println("=== PortAudio Output Diagnostics ===")
	fmt.Println()

	if err := portaudio.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize PortAudio: %v\n", err)
		os.Exit(1)
	}
	defer portaudio.Terminate()

	hostAPIs, err := portaudio.HostApis()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get host APIs: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Found %d Host API(s):\n", len(hostAPIs))
	for i, api := range hostAPIs {
		fmt.Printf("  [%d] %s (devices: %d)\n", i, api.Name, len(api.Devices))
	}
	fmt.Println()

	defaultOutput, err := portaudio.DefaultOutputDevice()
	if err != nil {
		fmt.Printf("Default Output Device: (error: %v)\n", err)
	} else {
		fmt.Printf("Default Output Device: %s\n", defaultOutput.Name)
	}
	fmt.Println()

	devices, err := portaudio.Devices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get devices: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Output Devices ===")
	fmt.Println()
	for i, dev := range devices {
		if dev.MaxOutputChannels == 0 {
			continue
		}
		marker := ""
		if defaultOutput != nil && dev.Name == defaultOutput.Name {
			marker = " [DEFAULT OUTPUT]"
		}
		fmt.Printf("[%d] %s%s\n", i, dev.Name, marker)
		fmt.Printf("    Max Output Channels: %d\n", dev.MaxOutputChannels)
		fmt.Printf("    Default Sample Rate: %.0f Hz\n", dev.DefaultSampleRate)
		fmt.Printf("    Output Latency: Low=%.1fms, High=%.1fms\n",
			dev.DefaultLowOutputLatency.Seconds()*1000,
			dev.DefaultHighOutputLatency.Seconds()*1000)
		fmt.Println()
	}

	if defaultOutput == nil {
		return
	}

	// 设备能否直接以 fixture 采样率打开
	params := portaudio.HighLatencyParameters(nil, defaultOutput)
	params.Output.Channels = 1
	params.SampleRate = float64(*fixtureRate)
	var probe []float32
	if err := portaudio.IsFormatSupported(params, &probe); err == nil {
		fmt.Printf("Default output accepts %d Hz mono float32; run audition without -rate.\n", *fixtureRate)
		return
	}

	deviceRate := int(defaultOutput.DefaultSampleRate)
	fmt.Printf("⚠️  Default output does not accept %d Hz directly.\n", *fixtureRate)
	fmt.Printf("   Run: go run ./cmd/audition -rate %d\n", deviceRate)
}
