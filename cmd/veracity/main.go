package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/veridia-labs/veracity/internal/config"
	"github.com/veridia-labs/veracity/internal/forensics"
	"github.com/veridia-labs/veracity/internal/monitoring"
	"github.com/veridia-labs/veracity/internal/pipeline"
	"github.com/veridia-labs/veracity/internal/version"
)

func main() {
	var filePath string
	var kindStr string
	var configPath string
	var timeout time.Duration
	var verbose bool
	var showVersion bool

	flag.StringVar(&filePath, "file", "", "path to the media file to analyze")
	flag.StringVar(&kindStr, "kind", "image", "media kind: image, video, or audio")
	flag.StringVar(&configPath, "config", "", "path to a tuning config JSON (optional)")
	flag.DurationVar(&timeout, "timeout", 60*time.Second, "analysis deadline")
	flag.BoolVar(&verbose, "v", false, "enable debug logging")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("veracity %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if filePath == "" {
		log.Fatalf("a -file path must be provided")
	}

	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	monitoring.Init(monitoring.Config{Level: logLevel, Console: true, Output: os.Stderr})

	cfg := config.EmptyTuningConfig()
	if configPath != "" {
		loaded, err := config.LoadTuningConfig(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	kind := forensics.MediaKind(kindStr)
	switch kind {
	case forensics.KindImage, forensics.KindVideo, forensics.KindAudio:
	default:
		log.Fatalf("unknown media kind %q", kindStr)
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("read media file: %v", err)
	}

	// Byte-level analysis only; decoded payloads come from the ingestion
	// service in server deployments.
	in := &forensics.Input{Kind: kind, Raw: raw}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res, err := pipeline.New(cfg, nil).Analyze(ctx, in)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}
