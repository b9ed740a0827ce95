package flock

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/spatial"
)

// DefaultBatchSize is the number of agents a parallel stage hands to one
// worker at a time. Around a hundred agents per batch amortizes scheduling
// overhead without starving the worker pool.
const DefaultBatchSize = 100

// Config holds every process-wide tunable. The force weights and radii are
// read by all force-computation workers each tick and must only be mutated
// between ticks (the UI applies slider values before each Step).
type Config struct {
	// World Dimensions. The viewport is centered on the origin, so agents
	// live in [-worldWidth/2, worldWidth/2] x [-worldHeight/2, worldHeight/2].
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`

	// Population
	NumAgents int `json:"numAgents"`

	// Force multipliers
	SeparationWeight float64 `json:"separationWeight"`
	AlignmentWeight  float64 `json:"alignmentWeight"`
	CohesionWeight   float64 `json:"cohesionWeight"`

	// Neighbor radii. DesiredSeparation is the short-range repulsion radius,
	// NeighborDistance the flock-scale awareness radius for alignment and
	// cohesion.
	DesiredSeparation float64 `json:"desiredSeparation"`
	NeighborDistance  float64 `json:"neighborDistance"`

	// Per-agent kinematic limits applied at spawn
	MaxSpeed float64 `json:"maxSpeed"`
	MaxForce float64 `json:"maxForce"`

	// Engine knobs
	IndexStrategy string `json:"indexStrategy"`
	BatchSize     int    `json:"batchSize"`

	// Flow-field steering
	SeekWeight          float64 `json:"seekWeight"`
	FlowFieldResolution float64 `json:"flowFieldResolution"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:          1000,
		WorldHeight:         800,
		NumAgents:           250,
		SeparationWeight:    2.0,
		AlignmentWeight:     1.0,
		CohesionWeight:      1.0,
		DesiredSeparation:   20,
		NeighborDistance:    50,
		MaxSpeed:            4.0,
		MaxForce:            0.1,
		IndexStrategy:       spatial.StrategyKDTree,
		BatchSize:           DefaultBatchSize,
		SeekWeight:          0.5,
		FlowFieldResolution: 5,
	}
}

// LoadConfig loads configuration from a JSON file and validates it against the schema.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	// 3. Validate
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Unmarshal over the defaults, so optional fields the file omits
	// (strategy, batch size, flow-field knobs) keep their default values.
	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}
