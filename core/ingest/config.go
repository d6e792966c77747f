package ingest

// Config holds configuration for reading the gazetteer feed.
type Config struct {
	// MinPopulation drops plain populated places (P.PPL) below this population.
	MinPopulation uint64 `mapstructure:"min_population" default:"100"`
	// PlacesTable holds one row per place.
	PlacesTable string `mapstructure:"places_table" default:"places"`
	// NamesTable holds the official and alternate names of places.
	NamesTable string `mapstructure:"names_table" default:"place_names"`
	// BatchSize bounds the number of parent ids per child query.
	BatchSize int `mapstructure:"batch_size" default:"500"`
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 500
	}
	if c.PlacesTable == "" {
		c.PlacesTable = Place{}.TableName()
	}
	if c.NamesTable == "" {
		c.NamesTable = PlaceName{}.TableName()
	}
	return c
}

// PlaceColumns are the columns read from the places table.
var PlaceColumns = []string{"id", "parent_id", "name", "feature_code", "population", "latitude", "longitude"}

// NameColumns are the columns read from the names table.
var NameColumns = []string{"place_id", "name", "kind"}

// NameKindOfficial marks an official name; any other kind is an alternate name.
const NameKindOfficial = "official"

// PopulatedFeature is the plain populated-place feature code subject to MinPopulation.
const PopulatedFeature = "P.PPL"
