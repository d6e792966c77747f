package ingest

import (
	"context"
	"errors"
	"testing"

	"georecon/core/database"
	"georecon/core/gazetteer"
	"georecon/core/gazetteer/gazetteertest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const (
	hamletID  int64 = 100
	chapelID  int64 = 101
	factoryID int64 = 200
	villageID int64 = 300
)

func setupFeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE places (id INTEGER PRIMARY KEY, parent_id INTEGER NULL, name TEXT, feature_code TEXT,
			population INTEGER, latitude REAL, longitude REAL)`,
		`CREATE TABLE place_names (place_id INTEGER, name TEXT, kind TEXT)`,
	}
	for _, s := range stmts {
		require.NoError(t, db.Exec(s).Error)
	}

	places := [][]any{
		{gazetteertest.EarthID, nil, "Earth", "L.AREA", 6814400000, 0.0, 0.0},
		{gazetteertest.EuropeID, gazetteertest.EarthID, "Europe", "L.CONT", 741000000, 48.69096, 9.14062},
		{gazetteertest.NetherlandsID, gazetteertest.EuropeID, "Netherlands", "A.PCLI", 16645000, 52.25, 5.75},
		{gazetteertest.AmsterdamID, gazetteertest.NetherlandsID, "Amsterdam", "P.PPLC", 741636, 52.37403, 4.88969},
		{hamletID, gazetteertest.NetherlandsID, "Tiny", "P.PPL", 10, 52.1, 5.1},
		{chapelID, hamletID, "Tiny Chapel", "S.CH", 0, 52.1, 5.1},
		{factoryID, gazetteertest.NetherlandsID, "Works", "S.MFG", 0, 52.2, 5.2},
		{villageID, gazetteertest.NetherlandsID, "Dorp", gazetteer.FeaturePrefix + "P.PPL", 500, 52.3, 5.3},
	}
	for _, p := range places {
		require.NoError(t, db.Exec(
			"INSERT INTO places (id, parent_id, name, feature_code, population, latitude, longitude) VALUES (?, ?, ?, ?, ?, ?, ?)",
			p...).Error)
	}

	names := [][]any{
		{gazetteertest.NetherlandsID, "Nederland", "official"},
		{gazetteertest.NetherlandsID, "Holland", "alternate"},
		{gazetteertest.AmsterdamID, "Amsterdão", "alternate"},
		{hamletID, "Piepklein", "alternate"},
	}
	for _, n := range names {
		require.NoError(t, db.Exec("INSERT INTO place_names (place_id, name, kind) VALUES (?, ?, ?)", n...).Error)
	}
	return db
}

func collect(t *testing.T, feed Feed) []gazetteer.Record {
	t.Helper()
	var out []gazetteer.Record
	require.NoError(t, feed.Stream(context.Background(), func(r gazetteer.Record) error {
		out = append(out, r)
		return nil
	}))
	return out
}

func recordIDs(records []gazetteer.Record) []int64 {
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

func TestDBFeed_Stream(t *testing.T) {
	db := setupFeedDB(t)
	want := []int64{gazetteertest.EarthID, gazetteertest.EuropeID, gazetteertest.NetherlandsID, villageID, gazetteertest.AmsterdamID}

	for _, batch := range []int{500, 1} {
		feed := NewDBFeed(db, Config{MinPopulation: 100, BatchSize: batch}, zap.NewNop())
		records := collect(t, feed)

		assert.Equal(t, want, recordIDs(records), "batch size %d", batch)

		seen := map[int64]bool{}
		for _, r := range records {
			if r.ParentID != nil {
				assert.True(t, seen[*r.ParentID], "%d emitted before its parent", r.ID)
			}
			seen[r.ID] = true
		}
	}

	records := collect(t, NewDBFeed(db, Config{MinPopulation: 100}, nil))
	earth, nl, village := records[0], records[2], records[3]

	assert.Nil(t, earth.ParentID)
	assert.Equal(t, gazetteer.CategoryArea, earth.Category)
	assert.Equal(t, uint64(6814400000), earth.Population)

	assert.Equal(t, gazetteer.CategoryCountry, nl.Category)
	assert.Equal(t, []string{"Nederland"}, nl.OfficialNames)
	assert.Equal(t, []string{"Holland"}, nl.AlternateNames)
	assert.InDelta(t, 52.25, nl.Lat, 1e-9)

	assert.Equal(t, gazetteer.CategoryPopulatedPlace, village.Category)
	assert.Equal(t, "Dorp", village.PrimaryName)
}

func TestDBFeed_MinPopulation(t *testing.T) {
	db := setupFeedDB(t)

	records := collect(t, NewDBFeed(db, Config{MinPopulation: 0}, nil))
	ids := recordIDs(records)
	assert.Contains(t, ids, hamletID)
	assert.Contains(t, ids, chapelID)
	assert.NotContains(t, ids, factoryID)

	records = collect(t, NewDBFeed(db, Config{MinPopulation: 1000}, nil))
	assert.NotContains(t, recordIDs(records), villageID)
}

func TestDBFeed_Errors(t *testing.T) {
	t.Run("Empty table", func(t *testing.T) {
		db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
		require.NoError(t, err)
		require.NoError(t, db.Exec("CREATE TABLE places (id INTEGER, parent_id INTEGER, name TEXT, feature_code TEXT, population INTEGER, latitude REAL, longitude REAL)").Error)

		err = NewDBFeed(db, Config{}, nil).Stream(context.Background(), func(gazetteer.Record) error { return nil })
		assert.ErrorIs(t, err, gazetteer.ErrNoRoot)
	})

	t.Run("Emit error stops the walk", func(t *testing.T) {
		db := setupFeedDB(t)
		stop := errors.New("stop")
		calls := 0
		err := NewDBFeed(db, Config{}, nil).Stream(context.Background(), func(gazetteer.Record) error {
			calls++
			if calls == 2 {
				return stop
			}
			return nil
		})
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 2, calls)
	})
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestDBFeed_QueryErrors(t *testing.T) {
	t.Run("Root query", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SELECT .* FROM `places`").WillReturnError(errors.New("connection lost"))

		err := NewDBFeed(db, Config{}, nil).Stream(context.Background(), func(gazetteer.Record) error { return nil })
		assert.ErrorContains(t, err, "query root of places")
		assert.ErrorContains(t, err, "connection lost")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Names query", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SELECT .* FROM `places`").WillReturnRows(
			sqlmock.NewRows(PlaceColumns).AddRow(gazetteertest.EarthID, nil, "Earth", "L.AREA", 0, 0.0, 0.0))
		mock.ExpectQuery("SELECT .* FROM `place_names`").WillReturnError(errors.New("table missing"))

		err := NewDBFeed(db, Config{}, nil).Stream(context.Background(), func(gazetteer.Record) error { return nil })
		assert.ErrorContains(t, err, "query names from place_names")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLoad(t *testing.T) {
	t.Run("Database feed", func(t *testing.T) {
		db := setupFeedDB(t)
		index, report, err := Load(context.Background(), NewDBFeed(db, Config{MinPopulation: 100}, nil), gazetteer.BuildOptions{})
		require.NoError(t, err)

		assert.Equal(t, 5, report.Nodes)
		assert.Empty(t, report.Skipped)

		matches := index.Lookup("holland")
		require.Len(t, matches, 1)
		assert.Equal(t, gazetteertest.NetherlandsID, matches[0].ID)
		require.NotNil(t, index.BestMatch("amsterdao"))
		assert.Nil(t, index.Lookup("Piepklein"))
	})

	t.Run("Slice feed", func(t *testing.T) {
		index, _, err := Load(context.Background(), SliceFeed(gazetteertest.Netherlands()), gazetteer.BuildOptions{})
		require.NoError(t, err)
		assert.Equal(t, len(gazetteertest.Netherlands()), index.Tree().Len())
	})

	t.Run("Cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := Load(ctx, SliceFeed(gazetteertest.Netherlands()), gazetteer.BuildOptions{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMigrate(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	cfg := Config{PlacesTable: "geo_places", NamesTable: "geo_names"}
	require.NoError(t, Migrate(db, cfg))
	// Idempotent
	require.NoError(t, Migrate(db, cfg))

	missing, err := database.MissingColumns(db, "geo_places", PlaceColumns)
	require.NoError(t, err)
	assert.Empty(t, missing)
	missing, err = database.MissingColumns(db, "geo_names", NameColumns)
	require.NoError(t, err)
	assert.Empty(t, missing)

	earth := gazetteertest.EarthID
	rows := []Place{
		{ID: earth, Name: "Earth", FeatureCode: "L.AREA"},
		{ID: gazetteertest.EuropeID, ParentID: &earth, Name: "Europe", FeatureCode: "L.CONT", Population: 741000000},
	}
	require.NoError(t, db.Table(cfg.PlacesTable).Create(&rows).Error)
	require.NoError(t, db.Table(cfg.NamesTable).Create(&PlaceName{PlaceID: gazetteertest.EuropeID, Name: "Europa"}).Error)

	records := collect(t, NewDBFeed(db, cfg, nil))
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Europa"}, records[1].AlternateNames)
}
