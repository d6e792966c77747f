package checks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"georecon/core/database"
	"georecon/core/gazetteer/gazetteertest"
	"georecon/core/ingest"
	"georecon/core/snapshot"
	"georecon/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const latest = "snapshots/20240502T000000.000000000Z-new.gzix"

func listing(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func encodedFixture(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, snapshot.Encode(&buf, gazetteertest.NewIndex(t), snapshot.Meta{Generation: "new"}))
	return buf.Bytes()
}

func storeWithLatest(t *testing.T, data []byte) (*snapshot.Store, *mocks.Client) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "gazetteer").Return(true, nil)
	client.On("ListObjects", mock.Anything, "gazetteer", mock.Anything).Return(listing(
		"snapshots/20240501T000000.000000000Z-old.gzix", latest,
	))
	client.On("StatObject", mock.Anything, "gazetteer", latest, mock.Anything).Return(minio.ObjectInfo{
		Key: latest, Size: int64(len(data)), LastModified: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	}, nil)
	if data != nil {
		client.On("GetObject", mock.Anything, "gazetteer", latest, mock.Anything).
			Return(io.NopCloser(bytes.NewReader(data)), nil)
	}
	return snapshot.NewStore(client, "gazetteer", "snapshots"), client
}

func TestCheckSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing bucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "gazetteer").Return(false, nil)

		report, err := CheckSnapshot(ctx, snapshot.NewStore(client, "gazetteer", "snapshots"), false)
		require.NoError(t, err)
		assert.Equal(t, "missing_bucket", report.Status)
		assert.False(t, report.BucketExists)
	})

	t.Run("Empty store", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "gazetteer").Return(true, nil)
		client.On("ListObjects", mock.Anything, "gazetteer", mock.Anything).Return(listing())

		report, err := CheckSnapshot(ctx, snapshot.NewStore(client, "gazetteer", "snapshots"), false)
		require.NoError(t, err)
		assert.Equal(t, "empty", report.Status)
	})

	t.Run("Listing only", func(t *testing.T) {
		data := encodedFixture(t)
		store, client := storeWithLatest(t, data)

		report, err := CheckSnapshot(ctx, store, false)
		require.NoError(t, err)
		assert.Equal(t, "ok", report.Status)
		assert.Equal(t, 2, report.Snapshots)
		assert.Equal(t, latest, report.Latest)
		assert.Equal(t, int64(len(data)), report.LatestSize)
		assert.False(t, report.Verified)
		client.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Verified", func(t *testing.T) {
		store, _ := storeWithLatest(t, encodedFixture(t))

		report, err := CheckSnapshot(ctx, store, true)
		require.NoError(t, err)
		assert.Equal(t, "ok", report.Status)
		assert.True(t, report.Verified)
		assert.Equal(t, "new", report.Generation)
		assert.Equal(t, len(gazetteertest.Netherlands()), report.Nodes)
	})

	t.Run("Corrupt payload", func(t *testing.T) {
		store, _ := storeWithLatest(t, []byte("GZIX\x00\x01definitely not zstd"))

		report, err := CheckSnapshot(ctx, store, true)
		require.NoError(t, err)
		assert.Equal(t, "corrupt", report.Status)
		assert.NotEmpty(t, report.Error)
	})

	t.Run("Not a snapshot", func(t *testing.T) {
		store, _ := storeWithLatest(t, []byte("PK\x03\x04zip file"))

		report, err := CheckSnapshot(ctx, store, true)
		require.NoError(t, err)
		assert.Equal(t, "corrupt", report.Status)
	})

	t.Run("Storage error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "gazetteer").Return(false, errors.New("connection refused"))

		_, err := CheckSnapshot(ctx, snapshot.NewStore(client, "gazetteer", ""), false)
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestFixSnapshot(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "gazetteer").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "gazetteer", mock.Anything).Return(nil)

	require.NoError(t, FixSnapshot(context.Background(), snapshot.NewStore(client, "gazetteer", ""), zap.NewNop()))
	client.AssertExpectations(t)

	failing := new(mocks.Client)
	failing.On("BucketExists", mock.Anything, "gazetteer").Return(false, nil)
	failing.On("MakeBucket", mock.Anything, "gazetteer", mock.Anything).Return(errors.New("access denied"))
	assert.Error(t, FixSnapshot(context.Background(), snapshot.NewStore(failing, "gazetteer", ""), zap.NewNop()))
}

var defaultIngest = ingest.Config{PlacesTable: "places", NamesTable: "place_names"}

func sqliteDB(t *testing.T, stmts ...string) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	for _, s := range stmts {
		require.NoError(t, db.Exec(s).Error)
	}
	return db
}

const (
	placesDDL = `CREATE TABLE places (id INTEGER PRIMARY KEY, parent_id INTEGER, name TEXT, feature_code VARCHAR(16),
		population BIGINT, latitude REAL, longitude DOUBLE)`
	namesDDL = `CREATE TABLE place_names (place_id INTEGER, name TEXT, kind VARCHAR(16))`
)

func TestCheckFeed(t *testing.T) {
	t.Run("Matching schema", func(t *testing.T) {
		report, err := CheckFeed(sqliteDB(t, placesDDL, namesDDL), defaultIngest)
		require.NoError(t, err)
		assert.True(t, report.Matched, "%+v", report)
		assert.Equal(t, "sqlite", report.Driver)
		assert.Equal(t, "ok", report.Tables["places"].Status)
		assert.Equal(t, "ok", report.Tables["place_names"].Status)
	})

	t.Run("Missing table", func(t *testing.T) {
		report, err := CheckFeed(sqliteDB(t, placesDDL), defaultIngest)
		require.NoError(t, err)
		assert.False(t, report.Matched)
		assert.Equal(t, "missing", report.Tables["place_names"].Status)
		assert.Equal(t, ingest.NameColumns, report.Tables["place_names"].MissingColumns)
	})

	t.Run("Missing column and wrong type", func(t *testing.T) {
		db := sqliteDB(t,
			`CREATE TABLE places (id INTEGER, parent_id INTEGER, name TEXT, feature_code TEXT, population INTEGER, latitude TEXT)`,
			namesDDL)
		report, err := CheckFeed(db, defaultIngest)
		require.NoError(t, err)
		assert.False(t, report.Matched)

		places := report.Tables["places"]
		assert.Equal(t, "error", places.Status)
		assert.Equal(t, []string{"longitude"}, places.MissingColumns)
		require.Len(t, places.TypeMismatches, 1)
		assert.Contains(t, places.TypeMismatches[0], "latitude")
	})

	t.Run("Nil database", func(t *testing.T) {
		_, err := CheckFeed(nil, defaultIngest)
		assert.Error(t, err)
	})

	t.Run("Inspection error", func(t *testing.T) {
		sqlDB, sqlMock, err := sqlmock.New()
		require.NoError(t, err)
		db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
		require.NoError(t, err)

		rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
			AddRow("id", "bigint(20)", "NO", "PRI", nil, "").
			AddRow("parent_id", "bigint(20)", "YES", "", nil, "").
			AddRow("name", "varchar(200)", "NO", "", nil, "").
			AddRow("feature_code", "varchar(16)", "NO", "", nil, "").
			AddRow("population", "bigint(20)", "YES", "", "0", "").
			AddRow("latitude", "double", "NO", "", nil, "").
			AddRow("longitude", "double", "NO", "", nil, "")
		sqlMock.ExpectQuery("SHOW COLUMNS FROM `places`").WillReturnRows(rows)
		sqlMock.ExpectQuery("SHOW COLUMNS FROM `place_names`").WillReturnError(errors.New("access denied"))

		report, err := CheckFeed(db, defaultIngest)
		require.NoError(t, err)
		assert.False(t, report.Matched)
		assert.Equal(t, "ok", report.Tables["places"].Status)
		require.Len(t, report.Errors, 1)
		assert.Contains(t, report.Errors[0], "place_names")
	})
}

func TestFixFeed(t *testing.T) {
	db := sqliteDB(t)

	report, err := CheckFeed(db, defaultIngest)
	require.NoError(t, err)
	require.False(t, report.Matched)

	require.NoError(t, FixFeed(db, defaultIngest, zap.NewNop()))

	report, err = CheckFeed(db, defaultIngest)
	require.NoError(t, err)
	assert.True(t, report.Matched, "%+v", report)

	assert.Error(t, FixFeed(nil, defaultIngest, zap.NewNop()))
}
