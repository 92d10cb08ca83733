package engine_test

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/placemarks/internal/engine"
	"github.com/nikbrunner/placemarks/internal/model"
)

func sortSync(e *engine.Engine, params model.SortParams) model.SortResult {
	results := make(chan model.SortResult, 1)
	e.Sort(params, func(r model.SortResult) { results <- r })
	return <-results
}

func TestEngine_Sort(t *testing.T) {
	e := engine.New(engine.Params{})
	e.LoadBookmarksFile(writeFile(t, t.TempDir(), "trip.kml", tripKML), false)
	e.Wait()
	id := e.Categories()[0].ID

	result := sortSync(e, model.SortParams{CategoryID: id, Type: model.SortByName, Timestamp: 42})
	assert.Equal(t, result.Status, model.SortCompleted)
	assert.Equal(t, result.Timestamp, int64(42))
	assert.Assert(t, is.Len(result.Blocks, 2))
	assert.Check(t, result.Blocks[0].IsTracks())
	assert.Equal(t, result.Blocks[1].Name, "Bookmarks")
}

func TestEngine_SortCancelled(t *testing.T) {
	e := engine.New(engine.Params{})
	id, err := e.CreateCategory("Empty")
	assert.NilError(t, err)

	tests := []struct {
		name   string
		params model.SortParams
	}{
		{"unknown category", model.SortParams{CategoryID: 999, Type: model.SortByName, Timestamp: 1}},
		{"distance without position", model.SortParams{CategoryID: id, Type: model.SortByDistance, Timestamp: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sortSync(e, tt.params)
			assert.Equal(t, result.Status, model.SortCancelled)
			assert.Equal(t, result.Timestamp, tt.params.Timestamp)
			assert.Check(t, is.Len(result.Blocks, 0))
		})
	}
}
