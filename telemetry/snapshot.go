package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the pond state at a single tick for offline inspection.
// The soak checker writes one when an invariant fails; the reason string
// names the violated check. Spine chains are not serialized, they rebuild
// from heading within a few ticks.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	WorldWidth  float32 `json:"world_width"`
	WorldHeight float32 `json:"world_height"`

	Tick int64 `json:"tick"`

	Fish    []FishState   `json:"fish"`
	Ripples []RippleState `json:"ripples"`

	Reason string `json:"reason,omitempty"`
}

// FishState holds one fish's kinematic state.
type FishState struct {
	ID uint32 `json:"id"`

	// Position and movement
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	VelX    float32 `json:"vel_x"`
	VelY    float32 `json:"vel_y"`
	Heading float32 `json:"heading"`

	// Body parameters
	Size         float32 `json:"size"`
	BaseMaxSpeed float32 `json:"base_max_speed"`
	MaxSpeed     float32 `json:"max_speed"`
	MaxForce     float32 `json:"max_force"`

	// Oscillator state
	WanderPhase float32 `json:"wander_phase"`
	SwimPhase   float32 `json:"swim_phase"`
}

// RippleState holds one live ripple's expansion state.
type RippleState struct {
	X         float32 `json:"x"`
	Y         float32 `json:"y"`
	Radius    float32 `json:"radius"`
	InitAmp   float32 `json:"init_amp"`
	MaxRadius float32 `json:"max_radius"`
	Speed     float32 `json:"speed"`
	WaveWidth float32 `json:"wave_width"`
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	// Build filename
	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Reason != "" {
		// Sanitize reason for filename
		sanitized := strings.ReplaceAll(snapshot.Reason, " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
