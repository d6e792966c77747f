package snapshot

// Config holds configuration for index snapshots.
type Config struct {
	// Prefix is the object prefix of snapshots inside the storage bucket.
	Prefix string `mapstructure:"prefix" default:"snapshots"`
	// Keep is the number of snapshot versions retained after a save.
	Keep int `mapstructure:"keep" default:"3"`
	// File is a local snapshot path used instead of object storage when set.
	File string `mapstructure:"file" default:""`
}
