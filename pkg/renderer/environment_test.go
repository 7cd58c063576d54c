package renderer

import (
	"errors"
	"testing"

	"github.com/df07/go-voxel-raymarcher/pkg/core"
)

func TestNewEnvironmentMap_Invalid(t *testing.T) {
	if _, err := NewEnvironmentMap(0, 4, nil); !errors.Is(err, ErrEmptyEnvironment) {
		t.Errorf("Expected ErrEmptyEnvironment, got %v", err)
	}
	if _, err := NewEnvironmentMap(2, 2, make([]uint32, 3)); err == nil {
		t.Error("Expected error for mismatched pixel count")
	}
}

func TestEnvironmentMap_SolidColor(t *testing.T) {
	env := NewSolidEnvironment(0x336699)
	directions := []core.Vec3{
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, -1, 0),
		core.NewVec3(0.3, -0.4, -0.866).Normalize(),
	}
	for _, dir := range directions {
		if got := env.Sample(dir); got != 0x336699 {
			t.Errorf("Sample(%v) = %06x, expected 336699", dir, got)
		}
	}
}

func TestEnvironmentMap_Columns(t *testing.T) {
	// One row, one color per column
	env, err := NewEnvironmentMap(4, 1, []uint32{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("NewEnvironmentMap failed: %v", err)
	}

	// Directions are nudged off the axes so no sample sits on a column edge
	tests := []struct {
		name     string
		dir      core.Vec3
		expected uint32
	}{
		{"toward +X", core.NewVec3(1, 0, 0.2), 3},
		{"toward -X", core.NewVec3(-1, 0, 0.2), 0},
		{"toward -Z", core.NewVec3(0.2, 0, -1), 2},
		{"toward -Z other side", core.NewVec3(-0.2, 0, -1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := env.Sample(tt.dir.Normalize()); got != tt.expected {
				t.Errorf("Sample = column %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestEnvironmentMap_Rows(t *testing.T) {
	// Top row is the sky, bottom row the ground
	env, err := NewEnvironmentMap(2, 2, []uint32{0xaaaaaa, 0xaaaaaa, 0x111111, 0x111111})
	if err != nil {
		t.Fatalf("NewEnvironmentMap failed: %v", err)
	}

	if got := env.Sample(core.NewVec3(0.1, 0.9, 0.1).Normalize()); got != 0xaaaaaa {
		t.Errorf("Upward sample = %06x, expected sky", got)
	}
	if got := env.Sample(core.NewVec3(0.1, -0.9, 0.1).Normalize()); got != 0x111111 {
		t.Errorf("Downward sample = %06x, expected ground", got)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct{ v, n, expected int }{
		{0, 4, 0},
		{3, 4, 3},
		{4, 4, 0},
		{9, 4, 1},
		{-1, 4, 3},
		{-8, 4, 0},
	}
	for _, tt := range tests {
		if got := wrap(tt.v, tt.n); got != tt.expected {
			t.Errorf("wrap(%d, %d) = %d, expected %d", tt.v, tt.n, got, tt.expected)
		}
	}
}
