package gazetteer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Per-record defects. A record failing with one of these is skipped and reported.
var (
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrUnresolvedParent   = errors.New("unresolved parent")
)

// Structural violations. Any of these aborts the build.
var (
	ErrDuplicateID   = errors.New("duplicate id")
	ErrMultipleRoots = errors.New("multiple roots")
	ErrNoRoot        = errors.New("no root")
	ErrFinished      = errors.New("builder already finished")
)

// Record is one place as delivered by the ingestion feed.
type Record struct {
	ID             int64
	PrimaryName    string
	OfficialNames  []string
	AlternateNames []string
	Category       Category
	Population     uint64
	Lat            float64
	Lon            float64
	// ParentID is nil only for the root.
	ParentID *int64
}

// SkipError reports a record that was left out of the build.
type SkipError struct {
	ID  int64
	Err error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skip record %d: %v", e.ID, e.Err)
}

func (e *SkipError) Unwrap() error {
	return e.Err
}

// BuildOptions configures a Builder.
type BuildOptions struct {
	// Logger receives skip warnings and progress. Nil disables logging.
	Logger *zap.Logger
	// OnSkip is called for each skipped record, in addition to the report.
	OnSkip func(*SkipError)
}

// BuildReport summarizes a finished build.
type BuildReport struct {
	Nodes   int
	Names   int
	Skipped []*SkipError
}

// Builder constructs an Index from records streamed parent-before-child.
type Builder struct {
	opts   BuildOptions
	log    *zap.Logger
	index  *Index
	report BuildReport
	err    error
	done   bool
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts BuildOptions) *Builder {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		opts: opts,
		log:  log,
		index: &Index{
			tree:  newTree(),
			names: make(map[string][]int32),
		},
	}
}

// Add places one record in the tree and registers its names.
// Defective records are skipped and nil is returned; a non-nil error means the
// build is broken and every later call returns the same error.
func (b *Builder) Add(rec Record) error {
	if b.done {
		return ErrFinished
	}
	if b.err != nil {
		return b.err
	}

	tree := b.index.tree
	if _, exists := tree.byID[rec.ID]; exists {
		b.err = fmt.Errorf("record %d: %w", rec.ID, ErrDuplicateID)
		return b.err
	}

	if !rec.Category.Valid() {
		b.skip(rec.ID, ErrInvalidCategory)
		return nil
	}
	if !validCoordinates(rec.Lat, rec.Lon) {
		b.skip(rec.ID, fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinates, rec.Lat, rec.Lon))
		return nil
	}

	parent := noParent
	depth := int32(0)
	if rec.ParentID != nil {
		slot, ok := tree.byID[*rec.ParentID]
		if !ok {
			b.skip(rec.ID, fmt.Errorf("%w: %d", ErrUnresolvedParent, *rec.ParentID))
			return nil
		}
		parent = slot
		depth = tree.nodes[slot].depth + 1
	} else if len(tree.nodes) > 0 {
		b.err = fmt.Errorf("record %d: %w", rec.ID, ErrMultipleRoots)
		return b.err
	}

	slot := int32(len(tree.nodes))
	tree.nodes = append(tree.nodes, Node{
		ID:         rec.ID,
		Name:       rec.PrimaryName,
		Lat:        rec.Lat,
		Lon:        rec.Lon,
		Population: rec.Population,
		Category:   rec.Category,
		parent:     parent,
		depth:      depth,
		refDist:    Haversine(rec.Lat, rec.Lon, RefLatitude, RefLongitude),
		tree:       tree,
	})
	tree.byID[rec.ID] = slot

	b.index.register(slot, rec.PrimaryName)
	for _, name := range rec.OfficialNames {
		b.index.register(slot, name)
	}
	for _, name := range rec.AlternateNames {
		b.index.register(slot, name)
	}

	if rec.Category == CategoryCountry {
		b.log.Debug("Entering new country",
			zap.Int64("id", rec.ID),
			zap.String("name", rec.PrimaryName),
			zap.Int("nodes", len(tree.nodes)),
		)
	}
	return nil
}

// Finish ranks every name entry and returns the read-only index.
func (b *Builder) Finish() (*Index, *BuildReport, error) {
	if b.done {
		return nil, nil, ErrFinished
	}
	b.done = true

	if b.err != nil {
		return nil, &b.report, b.err
	}
	if b.index.tree.Len() == 0 {
		return nil, &b.report, ErrNoRoot
	}

	b.index.rank()
	b.report.Nodes = b.index.tree.Len()
	b.report.Names = b.index.Len()
	return b.index, &b.report, nil
}

func (b *Builder) skip(id int64, err error) {
	skipErr := &SkipError{ID: id, Err: err}
	b.report.Skipped = append(b.report.Skipped, skipErr)
	b.log.Warn("Skipping record", zap.Int64("id", id), zap.Error(err))
	if b.opts.OnSkip != nil {
		b.opts.OnSkip(skipErr)
	}
}

// Build is a convenience wrapper feeding a slice of records to a Builder.
func Build(records []Record, opts BuildOptions) (*Index, *BuildReport, error) {
	b := NewBuilder(opts)
	for _, rec := range records {
		if err := b.Add(rec); err != nil {
			return nil, nil, err
		}
	}
	return b.Finish()
}
