// Command tonaldemo is thin CLI glue over the tonalcore state manager: it
// loads an image, applies a fixed demonstration edit list, waits for the
// pipeline to publish, and writes the result back out. It is not part of
// the CORE itself (spec §1 explicitly scopes CLI glue out), it exists only
// to make the CORE runnable end to end.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/tonalcore"
	"github.com/gogpu/tonalcore/backend"
	"github.com/gogpu/tonalcore/operations"
	"github.com/gogpu/tonalcore/source"
	"github.com/gogpu/tonalcore/state"
)

func main() {
	var (
		input      = flag.String("input", "", "source image path (PNG)")
		output     = flag.String("output", "tonaldemo_out.png", "output image path (PNG)")
		exposure   = flag.Float64("exposure", 0, "exposure adjustment in stops")
		brightness = flag.Float64("brightness", 0, "brightness adjustment [-1, 1]")
		contrast   = flag.Float64("contrast", 1, "contrast multiplier [0, 2]")
		verbose    = flag.Bool("verbose", false, "enable info-level logging")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("tonaldemo: -input is required")
	}
	if *verbose {
		tonalcore.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	decision := backend.Decide()
	log.Printf("tonaldemo: backend decision: useGPU=%v family=%v", decision.UseGPU, decision.Family)

	provider := source.NewFileProvider()
	mgr := state.NewManager(provider, decision, nil)
	mgr.SetSource(*input)

	if *exposure != 0 {
		mgr.Add(operations.NewDescriptor(operations.Exposure, *exposure))
	}
	if *brightness != 0 {
		mgr.Add(operations.NewDescriptor(operations.Brightness, *brightness))
	}
	if *contrast != 1 {
		mgr.Add(operations.NewDescriptor(operations.Contrast, *contrast))
	}

	// Every Add already triggered an update; request one final update to
	// get a Future to block on in case no adjustment was requested above
	// (an empty list still publishes the source unchanged, per spec §8).
	if err := mgr.RequestUpdate(nil).Wait(); err != nil {
		log.Fatalf("tonaldemo: update failed: %v", err)
	}

	buf, err := mgr.WorkingImage().ExportCPUCopy()
	if err != nil {
		log.Fatalf("tonaldemo: export failed: %v", err)
	}
	if err := provider.StoreAs(*output, buf); err != nil {
		log.Fatalf("tonaldemo: write failed: %v", err)
	}

	log.Printf("tonaldemo: wrote %s", *output)
}
