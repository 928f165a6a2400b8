// Package download provides the orchestration logic for one retrieval
// run: resolve, write metadata, download page images.
//
// # Manager
//
// The Manager coordinates the whole process:
//
//  1. Resolve the source URL (document tree or single page view)
//  2. Write per-document JSON metadata files
//  3. Reassemble page images from tiles and save them
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx, srcURL); err != nil {
//	    log.Fatal(err) // root resolution failure is fatal
//	}
//	if err := manager.SaveMetadata(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := manager.StartDownloads(ctx); err != nil {
//	    log.Fatal(err) // only cancellation surfaces here
//	}
//
// # Progress Tracking
//
// Progress is reported via a callback receiving ProgressEvent values with
// Info/Verbose/Warning/Error/Success levels; front ends filter Verbose
// unless the user asked for it. Branch failures and missing tiles arrive
// as warnings, per-image failures as errors, and the run keeps going.
package download
