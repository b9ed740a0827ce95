// flockbench runs the simulation headless and reports tick throughput per
// spatial index strategy. It shares the engine with the windowed app, so
// the numbers reflect exactly what the renderer pays per Update.
package main

import (
	"flag"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
)

func main() {
	numAgents := flag.Int("n", 1000, "population size")
	ticks := flag.Int("ticks", 500, "number of ticks to run per strategy")
	strategies := flag.String("strategies", "brute,grid,kdtree,rtree", "comma-separated strategies to benchmark")
	dt := flag.Float64("dt", 1, "time step passed to the integrator")
	flag.Parse()

	for _, strategy := range strings.Split(*strategies, ",") {
		strategy = strings.TrimSpace(strategy)
		if strategy == "" {
			continue
		}
		elapsed, err := run(strategy, *numAgents, *ticks, *dt)
		if err != nil {
			log.Fatalf("%s: %v", strategy, err)
		}
		perTick := elapsed / time.Duration(*ticks)
		log.Printf("%-8s %d agents, %d ticks in %v (%.0f ticks/s, %v/tick)",
			strategy, *numAgents, *ticks, elapsed.Round(time.Millisecond),
			float64(*ticks)/elapsed.Seconds(), perTick.Round(time.Microsecond))
	}
}

func run(strategy string, n, ticks int, dt float64) (time.Duration, error) {
	cfg := flock.DefaultConfig()
	cfg.IndexStrategy = strategy
	cfg.NumAgents = n

	engine, err := flock.NewEngine(cfg)
	if err != nil {
		return 0, err
	}
	// Identical seed across strategies keeps the workloads comparable.
	engine.SpawnRandom(n, rand.New(rand.NewPCG(42, 1)))

	start := time.Now()
	for i := 0; i < ticks; i++ {
		engine.Step(dt)
	}
	return time.Since(start), nil
}
