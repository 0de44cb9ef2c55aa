package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAreaDefaults(t *testing.T) {
	useTestDatabase(t)

	area := makeArea(t)
	assert.Equal(t, 10, area.MaxUserStack)
	assert.Equal(t, 4, area.SpreadMin)
}

func TestNewAreaConflict(t *testing.T) {
	useTestDatabase(t)

	area := makeArea(t)
	_, err := NewArea(area.Name, "Duplicate")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetAreaNotFound(t *testing.T) {
	useTestDatabase(t)

	_, err := GetArea("nosucharea")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedAreasIdempotent(t *testing.T) {
	useTestDatabase(t)

	testAreaSeq++
	name := fmt.Sprintf("seeded%d", testAreaSeq)
	seeds := map[string]string{name: "Seeded"}

	require.NoError(t, SeedAreas(seeds))
	require.NoError(t, SeedAreas(seeds))

	areas, err := ListArea()
	require.NoError(t, err)
	assert.Len(t, areas, 1)
}

func TestEditAreaDisplayname(t *testing.T) {
	useTestDatabase(t)

	area := makeArea(t)
	area, err := EditArea(area, "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", area.Displayname)
}
