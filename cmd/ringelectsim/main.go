// Command ringelectsim drives the ring election model from outside:
// it owns the tick loop, the termination predicate, and result
// printing -- everything spec.md places out of the core's scope.
package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/jabolina/go-ringelect/pkg/ringelect"
	"github.com/jabolina/go-ringelect/pkg/ringelect/definition"
	"github.com/jabolina/go-ringelect/pkg/ringelect/types"
)

var (
	app = kingpin.New("ringelectsim", "Ring leader-election protocol simulator.")

	configPath = app.Flag("config", "Optional yaml config file; only its bolt_path is used, when --bolt is not given.").String()

	runCmd       = app.Command("run", "Run a single election and print the outcome.")
	runN         = runCmd.Flag("n", "Ring size.").Default("5").Int()
	runVariant   = runCmd.Flag("variant", "Transport variant: sync or async.").Default("sync").Enum("sync", "async")
	runDelay     = runCmd.Flag("max-delay", "Max per-message delay (async only).").Default("3").Int()
	runMalicious = runCmd.Flag("malicious", "Number of malicious agents (async only).").Default("0").Int()
	runSeed      = runCmd.Flag("seed", "Random seed.").Default("1").Int64()
	runMaxTicks  = runCmd.Flag("max-ticks", "Abandon the run after this many ticks.").Default("1000").Int()
	runDebug     = runCmd.Flag("debug", "Enable debug logging.").Bool()
	runBoltPath  = runCmd.Flag("bolt", "Optional path to persist per-tick snapshots with bbolt.").String()

	batchCmd       = app.Command("batch", "Run the same configuration across many seeds concurrently.")
	batchN         = batchCmd.Flag("n", "Ring size.").Default("5").Int()
	batchVariant   = batchCmd.Flag("variant", "Transport variant: sync or async.").Default("async").Enum("sync", "async")
	batchDelay     = batchCmd.Flag("max-delay", "Max per-message delay (async only).").Default("3").Int()
	batchMalicious = batchCmd.Flag("malicious", "Number of malicious agents (async only).").Default("0").Int()
	batchSeeds     = batchCmd.Flag("seeds", "Number of seeds to run, 0..seeds-1.").Default("20").Int()
	batchMaxTicks  = batchCmd.Flag("max-ticks", "Abandon a run after this many ticks.").Default("1000").Int()
	batchWorkers   = batchCmd.Flag("workers", "Maximum concurrent runs.").Default("4").Int()
	batchBoltPath  = batchCmd.Flag("bolt", "Optional path to persist every seed's snapshots with bbolt.").String()
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	fileCfg, err := loadConfigFile(*configPath)
	if err != nil {
		kingpin.Fatalf("%v", err)
	}

	var runErr error
	switch cmd {
	case runCmd.FullCommand():
		runErr = runOnce(fileCfg)
	case batchCmd.FullCommand():
		runErr = runBatch(fileCfg)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, color.RedString("ringelectsim: %v", runErr))
		os.Exit(1)
	}
}

func mergedVariant(flagValue string, fileValue string) ringelect.Variant {
	v := flagValue
	if v == "" {
		v = fileValue
	}
	if v == "async" {
		return ringelect.Async
	}
	return ringelect.Sync
}

func runOnce(fileCfg runConfig) error {
	boltPath := *runBoltPath
	if boltPath == "" {
		boltPath = fileCfg.BoltPath
	}

	cfg := ringelect.Config{
		N:               *runN,
		Variant:         mergedVariant(*runVariant, fileCfg.Variant),
		MaxMessageDelay: *runDelay,
		MaliciousNodes:  *runMalicious,
		Seed:            *runSeed,
	}
	if boltPath != "" {
		storage, err := definition.NewBoltStorage(boltPath)
		if err != nil {
			return err
		}
		defer storage.Close()
		cfg.Storage = storage
	}
	logger := definition.NewDefaultLogger()
	logger.ToggleDebug(*runDebug)
	cfg.Logger = logger

	model, err := ringelect.NewModel(cfg)
	if err != nil {
		return err
	}

	for tick := 0; tick < *runMaxTicks && !model.AllFinished(); tick++ {
		model.Step()
	}

	printOutcome(model)
	if !model.AllFinished() {
		return fmt.Errorf("run %s did not converge within %d ticks", model.RunID, *runMaxTicks)
	}
	return nil
}

func printOutcome(model *ringelect.Model) {
	if model.Aborted() {
		color.Red("run %s aborted after %d ticks: election cheated, no leader elected", model.RunID, model.Ticks())
		return
	}
	leader := -1
	for _, a := range model.Agents() {
		if a.Leader != nil {
			leader = *a.Leader
			break
		}
	}
	color.Green("run %s finished after %d ticks: leader=%d starter=%d", model.RunID, model.Ticks(), leader, model.StarterID())
}

// runBatch fans a batch of independent runs out across a bounded worker
// pool with golang.org/x/sync/errgroup, the same concurrency primitive
// the example pack's fastview client uses for its own fan-out.
func runBatch(fileCfg runConfig) error {
	boltPath := *batchBoltPath
	if boltPath == "" {
		boltPath = fileCfg.BoltPath
	}

	// storage stays a nil types.Storage (never a typed-nil *BoltStorage
	// wrapped in the interface) when no bolt path was given, so NewModel's
	// own nil check still picks the in-memory default.
	var storage types.Storage
	if boltPath != "" {
		bolt, err := definition.NewBoltStorage(boltPath)
		if err != nil {
			return err
		}
		defer bolt.Close()
		storage = bolt
	}

	variant := mergedVariant(*batchVariant, fileCfg.Variant)

	group := new(errgroup.Group)
	group.SetLimit(*batchWorkers)

	aborted := 0
	converged := 0
	var mu sync.Mutex

	for seed := 0; seed < *batchSeeds; seed++ {
		seed := seed
		group.Go(func() error {
			logger := definition.NewDefaultLogger()
			cfg := ringelect.Config{
				N:               *batchN,
				Variant:         variant,
				MaxMessageDelay: *batchDelay,
				MaliciousNodes:  *batchMalicious,
				Seed:            int64(seed),
				Logger:          logger,
				Storage:         storage,
			}
			model, err := ringelect.NewModel(cfg)
			if err != nil {
				return err
			}
			for tick := 0; tick < *batchMaxTicks && !model.AllFinished(); tick++ {
				model.Step()
			}
			mu.Lock()
			if model.Aborted() {
				aborted++
			} else if model.AllFinished() {
				converged++
			}
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	color.Cyan("batch of %d seeds: %d converged, %d aborted, %d unresolved",
		*batchSeeds, converged, aborted, *batchSeeds-converged-aborted)
	return nil
}
