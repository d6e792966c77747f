package ingest

import (
	"context"
	"fmt"
	"strings"

	"georecon/core/gazetteer"
	"georecon/core/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBFeed reads the gazetteer from a places table and its names table.
//
// The walk is breadth-first from the row without a parent, so every record is
// emitted after its parent. Places that do not classify, and plain populated
// places below the minimum population, are left out together with their subtree.
type DBFeed struct {
	db  *gorm.DB
	cfg Config
	log *zap.Logger
}

// NewDBFeed returns a feed over db.
func NewDBFeed(db *gorm.DB, cfg Config, log *zap.Logger) *DBFeed {
	if log == nil {
		log = zap.NewNop()
	}
	return &DBFeed{db: db, cfg: cfg.withDefaults(), log: log}
}

// Stream implements Feed.
func (f *DBFeed) Stream(ctx context.Context, emit func(gazetteer.Record) error) error {
	db := f.db.WithContext(ctx)

	var roots []map[string]any
	if err := db.Table(f.cfg.PlacesTable).Select(PlaceColumns).
		Where("parent_id IS NULL").Order("id").Find(&roots).Error; err != nil {
		return fmt.Errorf("query root of %s: %w", f.cfg.PlacesTable, err)
	}
	if len(roots) == 0 {
		return fmt.Errorf("%w: table %s has no row without parent", gazetteer.ErrNoRoot, f.cfg.PlacesTable)
	}

	frontier, err := f.emitLevel(db, roots, true, emit)
	if err != nil {
		return err
	}

	level := 1
	for len(frontier) > 0 {
		var next []int64
		for start := 0; start < len(frontier); start += f.cfg.BatchSize {
			end := min(start+f.cfg.BatchSize, len(frontier))

			var rows []map[string]any
			if err := db.Table(f.cfg.PlacesTable).Select(PlaceColumns).
				Where("parent_id IN ?", frontier[start:end]).Order("id").Find(&rows).Error; err != nil {
				return fmt.Errorf("query level %d of %s: %w", level, f.cfg.PlacesTable, err)
			}

			ids, err := f.emitLevel(db, rows, false, emit)
			if err != nil {
				return err
			}
			next = append(next, ids...)
		}

		f.log.Debug("Feed level read", zap.Int("level", level), zap.Int("places", len(next)))
		frontier = next
		level++
	}
	return nil
}

// emitLevel converts rows to records, attaches their names and emits them.
// It returns the ids of the emitted places.
func (f *DBFeed) emitLevel(db *gorm.DB, rows []map[string]any, root bool, emit func(gazetteer.Record) error) ([]int64, error) {
	records := make([]gazetteer.Record, 0, len(rows))
	for _, row := range rows {
		rec, ok := f.record(row, root)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(records))
	byID := make(map[int64]*gazetteer.Record, len(records))
	for i := range records {
		ids[i] = records[i].ID
		byID[records[i].ID] = &records[i]
	}

	var names []map[string]any
	if err := db.Table(f.cfg.NamesTable).Select(NameColumns).
		Where("place_id IN ?", ids).Order("place_id").Order("name").Find(&names).Error; err != nil {
		return nil, fmt.Errorf("query names from %s: %w", f.cfg.NamesTable, err)
	}
	for _, row := range names {
		rec, ok := byID[utils.ToInt64(row["place_id"])]
		if !ok {
			continue
		}
		name := utils.ToString(row["name"])
		if strings.EqualFold(utils.ToString(row["kind"]), NameKindOfficial) {
			rec.OfficialNames = append(rec.OfficialNames, name)
		} else {
			rec.AlternateNames = append(rec.AlternateNames, name)
		}
	}

	for _, rec := range records {
		if err := emit(rec); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// record maps one places row. The root is kept even when its feature does not classify.
func (f *DBFeed) record(row map[string]any, root bool) (gazetteer.Record, bool) {
	rec := gazetteer.Record{
		ID:          utils.ToInt64(row["id"]),
		PrimaryName: utils.ToString(row["name"]),
		Population:  utils.ToUint64(row["population"]),
		Lat:         utils.ToFloat64(row["latitude"]),
		Lon:         utils.ToFloat64(row["longitude"]),
	}
	if !utils.IsNull(row["parent_id"]) {
		parentID := utils.ToInt64(row["parent_id"])
		rec.ParentID = &parentID
	}

	feature := strings.TrimPrefix(strings.TrimSpace(utils.ToString(row["feature_code"])), gazetteer.FeaturePrefix)
	if feature == PopulatedFeature && rec.Population < f.cfg.MinPopulation {
		f.log.Debug("Dropping small populated place", zap.Int64("id", rec.ID), zap.Uint64("population", rec.Population))
		return rec, false
	}

	rec.Category = gazetteer.ClassifyFeature(feature)
	if rec.Category == gazetteer.CategoryUnknown {
		if root {
			rec.Category = gazetteer.CategoryArea
			return rec, true
		}
		f.log.Debug("Dropping unclassified place", zap.Int64("id", rec.ID), zap.String("feature", feature))
		return rec, false
	}
	return rec, true
}
