package ingest

import (
	"fmt"

	"gorm.io/gorm"
)

// Place is one row of the places table.
type Place struct {
	ID          int64   `gorm:"primaryKey;autoIncrement:false;column:id"`
	ParentID    *int64  `gorm:"column:parent_id"`
	Name        string  `gorm:"column:name;type:varchar(200)"`
	FeatureCode string  `gorm:"column:feature_code;type:varchar(64)"`
	Population  uint64  `gorm:"column:population;default:0"`
	Latitude    float64 `gorm:"column:latitude"`
	Longitude   float64 `gorm:"column:longitude"`
}

func (Place) TableName() string {
	return "places"
}

// PlaceName is one row of the names table.
type PlaceName struct {
	PlaceID int64  `gorm:"column:place_id"`
	Name    string `gorm:"column:name;type:varchar(200)"`
	Kind    string `gorm:"column:kind;type:varchar(16);default:alternate"`
}

func (PlaceName) TableName() string {
	return "place_names"
}

// Migrate creates or extends the feed tables named by cfg.
func Migrate(db *gorm.DB, cfg Config) error {
	cfg = cfg.withDefaults()
	if err := db.Table(cfg.PlacesTable).AutoMigrate(&Place{}); err != nil {
		return fmt.Errorf("migrate %s: %w", cfg.PlacesTable, err)
	}
	if err := db.Table(cfg.NamesTable).AutoMigrate(&PlaceName{}); err != nil {
		return fmt.Errorf("migrate %s: %w", cfg.NamesTable, err)
	}
	return nil
}
