package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/go-sdkmirror/pkg/config"
	"github.com/go-sdkmirror/pkg/download"
	"github.com/go-sdkmirror/pkg/extract"
	"github.com/go-sdkmirror/pkg/manifest"
	"github.com/go-sdkmirror/pkg/msi"
	"github.com/go-sdkmirror/pkg/pipeline"
	"github.com/go-sdkmirror/pkg/utils"
)

func main() {
	// Normalize boolean flags so forms like "--debug false" are treated as "--debug=false"
	os.Args = utils.NormalizeBooleanFlags(os.Args, map[string]struct{}{
		"debug":   {},
		"verbose": {},
		"refresh": {},
	})

	cfg := config.NewConfig()

	channelURL := flag.String("channel", "", "URL to the release channel document (default: "+config.DefaultChannelURL+")")
	targetsPath := flag.String("targets", "", "Path to a YAML target-set file (default: built-in SDK target set)")
	refresh := flag.Bool("refresh", false, "Re-fetch cached manifest documents (default: false)")
	debug := flag.Bool("debug", false, "Enable debug logging (default: false)")
	verbose := flag.Bool("verbose", false, "Enable verbose logging (default: false)")
	logFilePath := flag.String("log-file", "", "Also write logs to this file")
	maxRetries := flag.Int("max-retries", 3, "Attempts per payload download")
	retryDelay := flag.Int("retry-delay", 3, "Delay between attempts in seconds")
	downloadMaxConcurrency := flag.Int("download-max-concurrency", 4, "Maximum concurrent downloads")
	profileDomain := flag.String("profile-domain", config.DefaultProfileDomain, "Preference domain to read overrides from")
	var headers utils.HeaderList
	flag.Var(&headers, "header", "Header added to every request in Name=Value form (repeatable)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] output-dir\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Profile overrides apply first; explicitly set flags win afterwards
	profileResult, err := cfg.ReadFromProfile(*profileDomain)
	if err != nil {
		fmt.Printf("Warning: preference profile reading failed (continuing with defaults): %v\n", err)
		profileResult = &config.ProfileResult{ConfigFound: false}
	}

	flagsSet := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		flagsSet[f.Name] = true
	})

	if flagsSet["channel"] {
		cfg.ChannelURL = *channelURL
	}
	if flagsSet["targets"] {
		cfg.TargetsPath = *targetsPath
	}
	if flagsSet["refresh"] {
		cfg.Refresh = *refresh
	}
	if flagsSet["debug"] {
		cfg.Debug = *debug
	}
	if flagsSet["verbose"] {
		cfg.Verbose = *verbose
	}
	if flagsSet["log-file"] {
		cfg.LogFilePath = *logFilePath
	}
	if flagsSet["max-retries"] {
		cfg.MaxRetries = *maxRetries
	}
	if flagsSet["retry-delay"] {
		cfg.RetryDelay = *retryDelay
	}
	if flagsSet["download-max-concurrency"] {
		cfg.DownloadMaxConcurrency = *downloadMaxConcurrency
	}
	if flagsSet["header"] {
		for name, value := range headers.Headers {
			cfg.HTTPHeaders[name] = value
		}
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	cfg.OutputDir = flag.Arg(0)

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	var logger *utils.Logger
	if cfg.LogFilePath != "" {
		logger, err = utils.NewLoggerWithFile(cfg.Debug, cfg.Verbose, cfg.LogFilePath)
		if err != nil {
			fmt.Printf("Warning: Failed to create file logger: %v\nUsing console-only logging\n", err)
			logger = utils.NewLogger(cfg.Debug, cfg.Verbose)
		}
	} else {
		logger = utils.NewLogger(cfg.Debug, cfg.Verbose)
	}

	if profileResult.ConfigFound {
		logger.Debug("Applied preference profile: %s", profileResult.Path)
	}
	if cfg.Debug {
		if b, err := json.MarshalIndent(cfg.RedactedForLogging(), "", "  "); err == nil {
			logger.Debug("Final configuration:\n%s", string(b))
		}
	}

	targets := config.DefaultTargets()
	if cfg.TargetsPath != "" {
		targets, err = config.LoadTargets(cfg.TargetsPath)
		if err != nil {
			logger.Error("Failed to load targets file: %v", err)
			os.Exit(2)
		}
		logger.Debug("Loaded target set from %s", cfg.TargetsPath)
	}

	client := download.NewClient(logger, cfg.DownloadDir())
	client.SetRetryDefaults(cfg.MaxRetries, cfg.RetryWait())
	client.SetHeaders(cfg.HTTPHeaders)
	client.SetRefresh(cfg.Refresh)

	resolver := manifest.NewResolver(client, logger)
	querier := msi.NewExecQuerier(logger)
	orchestrator := extract.NewOrchestrator(extract.NewMsiExtractor(logger), extract.NewZipFileExtractor(logger), logger)

	p := pipeline.New(cfg, targets, logger, resolver, client, querier, orchestrator)
	if err := p.Run(); err != nil {
		logger.Error("Mirror run failed: %v", err)
		os.Exit(1)
	}
}
