package telemetry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:     SnapshotVersion,
		RNGSeed:     42,
		WorldWidth:  1280,
		WorldHeight: 800,
		Tick:        1000,
		Fish: []FishState{
			{
				ID:           1,
				X:            150,
				Y:            250,
				VelX:         0.5,
				VelY:         -0.3,
				Heading:      1.2,
				Size:         1.1,
				BaseMaxSpeed: 2.0,
				MaxSpeed:     2.6,
				MaxForce:     0.08,
				WanderPhase:  0.7,
				SwimPhase:    3.4,
			},
		},
		Ripples: []RippleState{
			{X: 400, Y: 300, Radius: 55, InitAmp: 14, MaxRadius: 260, Speed: 1.8, WaveWidth: 40},
		},
		Reason: "speed bound exceeded",
	}

	// Save the snapshot
	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	// Verify file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	// Load the snapshot
	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	// Verify loaded data matches original
	if loaded.Version != snapshot.Version {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, snapshot.Version)
	}
	if loaded.RNGSeed != snapshot.RNGSeed {
		t.Errorf("RNGSeed mismatch: got %d, want %d", loaded.RNGSeed, snapshot.RNGSeed)
	}
	if loaded.Tick != snapshot.Tick {
		t.Errorf("Tick mismatch: got %d, want %d", loaded.Tick, snapshot.Tick)
	}
	if len(loaded.Fish) != len(snapshot.Fish) {
		t.Fatalf("Fish count mismatch: got %d, want %d", len(loaded.Fish), len(snapshot.Fish))
	}
	if loaded.Fish[0].MaxSpeed != snapshot.Fish[0].MaxSpeed {
		t.Errorf("MaxSpeed mismatch: got %f, want %f", loaded.Fish[0].MaxSpeed, snapshot.Fish[0].MaxSpeed)
	}
	if len(loaded.Ripples) != 1 || loaded.Ripples[0].Radius != 55 {
		t.Errorf("Ripples not round-tripped: %+v", loaded.Ripples)
	}
	if loaded.Reason != snapshot.Reason {
		t.Errorf("Reason mismatch: got %q, want %q", loaded.Reason, snapshot.Reason)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	// Test with reason
	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Tick:    5000,
		Reason:  "chain break",
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "snapshot_5000_chain_break.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	// Test without reason
	snapshotNoReason := &Snapshot{
		Version: SnapshotVersion,
		Tick:    3000,
	}

	path, err = SaveSnapshot(snapshotNoReason, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected = filepath.Join(tmpDir, "snapshot_3000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}
