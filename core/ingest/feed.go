package ingest

import (
	"context"
	"fmt"

	"georecon/core/gazetteer"
)

// Feed streams gazetteer records, every parent before its children.
type Feed interface {
	// Stream calls emit once per record. An error from emit stops the stream
	// and is returned.
	Stream(ctx context.Context, emit func(gazetteer.Record) error) error
}

// SliceFeed serves records from memory in slice order.
type SliceFeed []gazetteer.Record

// Stream implements Feed.
func (f SliceFeed) Stream(ctx context.Context, emit func(gazetteer.Record) error) error {
	for _, rec := range f {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
	return nil
}

// Load drains feed into a new index.
func Load(ctx context.Context, feed Feed, opts gazetteer.BuildOptions) (*gazetteer.Index, *gazetteer.BuildReport, error) {
	b := gazetteer.NewBuilder(opts)
	if err := feed.Stream(ctx, b.Add); err != nil {
		return nil, nil, fmt.Errorf("stream feed: %w", err)
	}
	return b.Finish()
}
