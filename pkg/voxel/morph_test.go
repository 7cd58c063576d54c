package voxel

import "testing"

func TestFillHollows_ClosedShell(t *testing.T) {
	// 5x5x5 with a closed 3x3x3 shell around the center voxel
	b := NewBitmap(5, 5, 5)
	for z := 1; z <= 3; z++ {
		for y := 1; y <= 3; y++ {
			for x := 1; x <= 3; x++ {
				if x == 2 && y == 2 && z == 2 {
					continue
				}
				b.Set(x, y, z, true)
			}
		}
	}

	filled := FillHollows(b)
	if filled != 1 {
		t.Errorf("Expected 1 voxel filled, got %d", filled)
	}
	if !b.Get(2, 2, 2) {
		t.Error("Center of the shell should be filled")
	}
	if b.Count() != 27 {
		t.Errorf("Expected 27 solid voxels, got %d", b.Count())
	}
}

func TestFillHollows_OpenShell(t *testing.T) {
	b := NewBitmap(5, 5, 5)
	for z := 1; z <= 3; z++ {
		for y := 1; y <= 3; y++ {
			for x := 1; x <= 3; x++ {
				if x == 2 && y == 2 {
					// A tunnel through the shell along Z
					continue
				}
				b.Set(x, y, z, true)
			}
		}
	}

	if filled := FillHollows(b); filled != 0 {
		t.Errorf("Expected nothing filled in an open shell, got %d", filled)
	}
	if b.Get(2, 2, 2) {
		t.Error("Tunnel voxel should remain empty")
	}
}

func TestPadToCube(t *testing.T) {
	b := NewBitmap(2, 4, 1)
	b.Set(0, 0, 0, true)
	b.Set(1, 3, 0, true)

	padded := PadToCube(b, 3)
	if padded.Width != 4 || padded.Height != 4 || padded.Depth != 4 {
		t.Fatalf("Expected a 4³ cube, got %dx%dx%d", padded.Width, padded.Height, padded.Depth)
	}
	// Offsets: x (4-2)/2=1, y 0, z (4-1)/2=1
	if !padded.Get(1, 0, 1) || !padded.Get(2, 3, 1) {
		t.Error("Voxels were not centered")
	}
	if padded.Count() != 2 {
		t.Errorf("Expected 2 voxels, got %d", padded.Count())
	}

	larger := PadToCube(b, 8)
	if larger.Width != 8 {
		t.Errorf("Expected requested side 8, got %d", larger.Width)
	}
}
