package main

import (
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/app"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
)

func main() {
	configFile := flag.String("config", "config.json", "path to the configuration file")
	schemaFile := flag.String("schema", "config.schema.json", "path to the configuration schema")
	numAgents := flag.Int("n", 0, "override the configured population size")
	strategy := flag.String("strategy", "", "override the spatial index strategy (brute, grid, kdtree, rtree)")
	flag.Parse()

	cfg := flock.DefaultConfig()
	if _, err := os.Stat(*configFile); err == nil {
		loaded, err := flock.LoadConfig(*configFile, *schemaFile)
		if err != nil {
			log.Fatalf("loading %s: %v", *configFile, err)
		}
		cfg = loaded
	} else {
		log.Printf("no %s found, using built-in defaults", *configFile)
	}

	if *numAgents > 0 {
		cfg.NumAgents = *numAgents
	}
	if *strategy != "" {
		cfg.IndexStrategy = *strategy
	}

	engine, err := flock.NewEngine(cfg)
	if err != nil {
		log.Fatal(err)
	}
	engine.SpawnRandom(cfg.NumAgents, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Flock Simulation")
	if err := ebiten.RunGame(app.NewGame(engine)); err != nil {
		log.Fatal(err)
	}
}
