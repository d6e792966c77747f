package gazetteer_test

import (
	"errors"
	"math"
	"testing"

	"georecon/core/gazetteer"
	"georecon/core/gazetteer/gazetteertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuild_Fixture(t *testing.T) {
	index, report, err := gazetteer.Build(gazetteertest.Netherlands(), gazetteer.BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, len(gazetteertest.Netherlands()), report.Nodes)
	assert.Equal(t, index.Len(), report.Names)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, gazetteertest.EarthID, index.Tree().Root().ID)
}

func TestBuild_SkipsDefectiveRecords(t *testing.T) {
	records := []gazetteer.Record{
		{ID: 1, PrimaryName: "root", Category: gazetteer.CategoryArea},
		{ID: 2, PrimaryName: "orphan", Category: gazetteer.CategoryPopulatedPlace, ParentID: ptr(99)},
		{ID: 3, PrimaryName: "nowhere", Category: gazetteer.CategoryPopulatedPlace, Lat: math.NaN(), ParentID: ptr(1)},
		{ID: 4, PrimaryName: "too far north", Category: gazetteer.CategoryPopulatedPlace, Lat: 91, ParentID: ptr(1)},
		{ID: 5, PrimaryName: "untyped", ParentID: ptr(1)},
		{ID: 6, PrimaryName: "child of orphan", Category: gazetteer.CategoryBuilding, ParentID: ptr(2)},
		{ID: 7, PrimaryName: "fine", Category: gazetteer.CategoryPopulatedPlace, ParentID: ptr(1)},
	}

	var seen []int64
	index, report, err := gazetteer.Build(records, gazetteer.BuildOptions{
		OnSkip: func(e *gazetteer.SkipError) { seen = append(seen, e.ID) },
	})
	require.NoError(t, err)

	assert.Equal(t, 2, index.Tree().Len())
	assert.Equal(t, []int64{2, 3, 4, 5, 6}, seen)
	require.Len(t, report.Skipped, 5)

	assert.ErrorIs(t, report.Skipped[0], gazetteer.ErrUnresolvedParent)
	assert.ErrorIs(t, report.Skipped[1], gazetteer.ErrInvalidCoordinates)
	assert.ErrorIs(t, report.Skipped[2], gazetteer.ErrInvalidCoordinates)
	assert.ErrorIs(t, report.Skipped[3], gazetteer.ErrInvalidCategory)
	assert.ErrorIs(t, report.Skipped[4], gazetteer.ErrUnresolvedParent)

	var skipErr *gazetteer.SkipError
	require.True(t, errors.As(report.Skipped[0], &skipErr))
	assert.Equal(t, int64(2), skipErr.ID)

	assert.Nil(t, index.Lookup("orphan"))
	assert.NotNil(t, index.BestMatch("fine"))
}

func TestBuild_FatalViolations(t *testing.T) {
	t.Run("Duplicate id", func(t *testing.T) {
		_, _, err := gazetteer.Build([]gazetteer.Record{
			{ID: 1, PrimaryName: "root", Category: gazetteer.CategoryArea},
			{ID: 1, PrimaryName: "again", Category: gazetteer.CategoryArea, ParentID: ptr(1)},
		}, gazetteer.BuildOptions{})
		assert.ErrorIs(t, err, gazetteer.ErrDuplicateID)
	})

	t.Run("Second root", func(t *testing.T) {
		_, _, err := gazetteer.Build([]gazetteer.Record{
			{ID: 1, PrimaryName: "root", Category: gazetteer.CategoryArea},
			{ID: 2, PrimaryName: "other root", Category: gazetteer.CategoryArea},
		}, gazetteer.BuildOptions{})
		assert.ErrorIs(t, err, gazetteer.ErrMultipleRoots)
	})

	t.Run("Empty", func(t *testing.T) {
		_, _, err := gazetteer.Build(nil, gazetteer.BuildOptions{})
		assert.ErrorIs(t, err, gazetteer.ErrNoRoot)
	})

	t.Run("Root skipped", func(t *testing.T) {
		_, report, err := gazetteer.Build([]gazetteer.Record{
			{ID: 1, PrimaryName: "root"},
			{ID: 2, PrimaryName: "child", Category: gazetteer.CategoryArea, ParentID: ptr(1)},
		}, gazetteer.BuildOptions{})
		assert.ErrorIs(t, err, gazetteer.ErrNoRoot)
		assert.Len(t, report.Skipped, 2)
	})

	t.Run("Sticky error", func(t *testing.T) {
		b := gazetteer.NewBuilder(gazetteer.BuildOptions{})
		require.NoError(t, b.Add(gazetteer.Record{ID: 1, PrimaryName: "root", Category: gazetteer.CategoryArea}))
		require.ErrorIs(t, b.Add(gazetteer.Record{ID: 2, PrimaryName: "r2", Category: gazetteer.CategoryArea}), gazetteer.ErrMultipleRoots)
		assert.ErrorIs(t, b.Add(gazetteer.Record{ID: 3, PrimaryName: "c", Category: gazetteer.CategoryArea, ParentID: ptr(1)}), gazetteer.ErrMultipleRoots)

		_, _, err := b.Finish()
		assert.ErrorIs(t, err, gazetteer.ErrMultipleRoots)
		_, _, err = b.Finish()
		assert.ErrorIs(t, err, gazetteer.ErrFinished)
	})
}

func TestBuild_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, _, err := gazetteer.Build(append(gazetteertest.Netherlands(), gazetteer.Record{
		ID: 42, PrimaryName: "lost", Category: gazetteer.CategoryRuin, ParentID: ptr(404),
	}), gazetteer.BuildOptions{Logger: zap.New(core)})
	require.NoError(t, err)

	assert.Equal(t, 3, logs.FilterMessage("Entering new country").Len())
	skipped := logs.FilterMessage("Skipping record").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, int64(42), skipped[0].ContextMap()["id"])
}
