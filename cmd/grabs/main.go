package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grabsdl/grabs/internal/config"
	"github.com/grabsdl/grabs/internal/download"
)

func main() {
	// Command line flags
	var (
		srcFlag        = flag.String("src", "", "URL of the document or page image to retrieve (required)")
		outDirFlag     = flag.String("out-dir", "", "Directory where documents and images are stored (default: current directory)")
		zoomLevelFlag  = flag.Int("zoom-level", 0, "Zoom level to download images at (0 = maximum per image)")
		recursiveFlag  = flag.Bool("recursive", false, "Also retrieve the subviews of the document")
		maxDepthFlag   = flag.Int("max-depth", 0, "Limit recursion depth (0 = unlimited)")
		noDownloadFlag = flag.Bool("no-download", false, "Only write image metadata, skip downloads")
		bestEffortFlag = flag.Bool("best-effort", false, "Keep images with missing tiles, leaving blank regions")
		configFlag     = flag.String("config", "", "Path to config file")
		verboseFlag    = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	src := *srcFlag
	if src == "" && flag.NArg() > 0 {
		src = flag.Arg(0)
	}
	if src == "" {
		fmt.Println("grabs - Retrieve documents and page images from bibliotheques-specialisees.paris.fr")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  grabs -src <URL> [options]")
		fmt.Println("  grabs <URL> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: grabs-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outDirFlag != "" {
		settings.OutputDir = *outDirFlag
	}
	if *zoomLevelFlag != 0 {
		settings.ZoomLevel = *zoomLevelFlag
	}
	if *recursiveFlag {
		settings.Recursive = true
	}
	if *maxDepthFlag != 0 {
		settings.MaxDepth = *maxDepthFlag
	}
	if *noDownloadFlag {
		settings.MetadataOnly = true
	}
	if *bestEffortFlag {
		settings.BestEffort = true
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := "   "
		switch event.Level {
		case download.LevelError:
			prefix = "✗ "
		case download.LevelWarning:
			prefix = "! "
		case download.LevelSuccess:
			prefix = "✓ "
		case download.LevelInfo:
			prefix = "› "
		}

		fmt.Println(prefix + event.Message)
	})

	if err := manager.Initialize(ctx, src); err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving %s: %v\n", src, err)
		os.Exit(1)
	}

	if err := manager.SaveMetadata(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing metadata: %v\n", err)
		os.Exit(1)
	}

	if settings.MetadataOnly {
		fmt.Printf("Saved metadata for %d document(s) to %s\n", len(manager.DocumentNames()), settings.OutputDir)
		return
	}

	if err := manager.StartDownloads(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		os.Exit(1)
	}

	saved, failed, total := manager.GetProgress()
	fmt.Println()
	fmt.Printf("Complete! Saved %d/%d image(s) to %s\n", saved, total, settings.OutputDir)
	if failed > 0 {
		fmt.Printf("  (%d failed)\n", failed)
		os.Exit(1)
	}
}
