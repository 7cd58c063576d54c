package sdf

import (
	"os"
	"testing"

	"github.com/df07/go-voxel-raymarcher/pkg/voxel"
)

func TestFieldKey(t *testing.T) {
	a := randomGrid(6, 0.3, 1)
	b := randomGrid(6, 0.3, 1)

	if FieldKey(a, 3) != FieldKey(b, 3) {
		t.Error("Identical grids should share a key")
	}
	if FieldKey(a, 3) == FieldKey(a, 4) {
		t.Error("Normal offset should change the key")
	}

	b.Cells[17] = !b.Cells[17]
	if FieldKey(a, 3) == FieldKey(b, 3) {
		t.Error("A flipped cell should change the key")
	}
}

func TestCache_StoreAndLoad(t *testing.T) {
	grid := randomGrid(8, 0.4, 9)
	cache := NewCache(t.TempDir(), nil)
	key := FieldKey(grid, 2)

	if _, _, ok, err := cache.Load(key); ok || err != nil {
		t.Fatalf("Expected a clean miss, got ok=%v err=%v", ok, err)
	}

	field, normals, err := BuildFields(grid, 2, cache)
	if err != nil {
		t.Fatalf("BuildFields failed: %v", err)
	}

	cachedField, cachedNormals, ok, err := cache.Load(key)
	if err != nil || !ok {
		t.Fatalf("Expected a cache hit, got ok=%v err=%v", ok, err)
	}
	if cachedField.Size != field.Size || cachedNormals.Offset != 2 {
		t.Errorf("Cached header mismatch: size %d offset %d", cachedField.Size, cachedNormals.Offset)
	}
	for i := range field.Values {
		if cachedField.Values[i] != field.Values[i] {
			t.Fatalf("distance %d: cached %v, built %v", i, cachedField.Values[i], field.Values[i])
		}
		if cachedNormals.Normals[i] != normals.Normals[i] {
			t.Fatalf("normal %d: cached %v, built %v", i, cachedNormals.Normals[i], normals.Normals[i])
		}
	}
}

func TestCache_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(dir, nil)
	grid := randomGrid(6, 0.4, 3)
	key := FieldKey(grid, 1)

	if err := os.WriteFile(cache.path(key), []byte("not zstd"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt entry: %v", err)
	}
	if _, _, _, err := cache.Load(key); err == nil {
		t.Error("Expected an error for a corrupt entry")
	}

	// BuildFields falls back to building and overwrites the bad entry
	if _, _, err := BuildFields(grid, 1, cache); err != nil {
		t.Fatalf("BuildFields failed: %v", err)
	}
	if _, _, ok, err := cache.Load(key); !ok || err != nil {
		t.Errorf("Expected a repaired entry, got ok=%v err=%v", ok, err)
	}
}

func TestBuildFields_NoCache(t *testing.T) {
	grid := voxel.NewGrid(5)
	grid.Set(2, 2, 2, true)

	field, normals, err := BuildFields(grid, 1, nil)
	if err != nil {
		t.Fatalf("BuildFields failed: %v", err)
	}
	if field.At(2, 2, 2) >= 0 {
		t.Errorf("Solid center should be negative, got %v", field.At(2, 2, 2))
	}
	if normals.Size != 5 {
		t.Errorf("Expected normal field size 5, got %d", normals.Size)
	}
}
