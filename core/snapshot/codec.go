package snapshot

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"georecon/core/gazetteer"

	"github.com/klauspost/compress/zstd"
)

// Magic opens every snapshot.
var Magic = [4]byte{'G', 'Z', 'I', 'X'}

// Version is the current format version.
const Version uint16 = 1

var (
	// ErrBadMagic is returned for input that is not a snapshot.
	ErrBadMagic = errors.New("snapshot: bad magic")
	// ErrUnsupportedVersion is returned for snapshots of another format version.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")
	// ErrCorrupt is returned when the payload does not rebuild into a valid index.
	ErrCorrupt = errors.New("snapshot: corrupt payload")
)

// Meta describes a snapshot.
type Meta struct {
	// Generation identifies the index build.
	Generation string
	// Built is the build time.
	Built time.Time
	// Nodes is the number of tree nodes.
	Nodes int
	// Names is the number of distinct normalized names.
	Names int
}

// record is the stored form of one node.
type record struct {
	ID         int64
	Name       string
	Names      []string
	Category   uint8
	Population uint64
	Lat        float64
	Lon        float64
	HasParent  bool
	ParentID   int64
}

// payload is the gob body inside the zstd frame.
type payload struct {
	Meta    Meta
	Records []record
}

// Encode writes index to w. Nodes and Names of meta are filled in from the index.
func Encode(w io.Writer, index *gazetteer.Index, meta Meta) error {
	header := make([]byte, 6)
	copy(header, Magic[:])
	binary.BigEndian.PutUint16(header[4:], Version)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	meta.Nodes = index.Tree().Len()
	meta.Names = index.Len()
	body := payload{Meta: meta}
	for _, rec := range index.Records() {
		r := record{
			ID:         rec.ID,
			Name:       rec.PrimaryName,
			Names:      rec.AlternateNames,
			Category:   uint8(rec.Category),
			Population: rec.Population,
			Lat:        rec.Lat,
			Lon:        rec.Lon,
		}
		if rec.ParentID != nil {
			r.HasParent = true
			r.ParentID = *rec.ParentID
		}
		body.Records = append(body.Records, r)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	if err := gob.NewEncoder(zw).Encode(&body); err != nil {
		zw.Close()
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush zstd frame: %w", err)
	}
	return nil
}

// Decode reads a snapshot and rebuilds the index.
func Decode(r io.Reader) (*gazetteer.Index, *Meta, error) {
	header := make([]byte, 6)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	if !bytes.Equal(header[:4], Magic[:]) {
		return nil, nil, ErrBadMagic
	}
	if v := binary.BigEndian.Uint16(header[4:]); v != Version {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer zr.Close()

	var body payload
	if err := gob.NewDecoder(zr).Decode(&body); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	b := gazetteer.NewBuilder(gazetteer.BuildOptions{})
	for _, r := range body.Records {
		rec := gazetteer.Record{
			ID:             r.ID,
			PrimaryName:    r.Name,
			AlternateNames: r.Names,
			Category:       gazetteer.Category(r.Category),
			Population:     r.Population,
			Lat:            r.Lat,
			Lon:            r.Lon,
		}
		if r.HasParent {
			parentID := r.ParentID
			rec.ParentID = &parentID
		}
		if err := b.Add(rec); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}
	index, report, err := b.Finish()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(report.Skipped) > 0 {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorrupt, report.Skipped[0])
	}

	meta := body.Meta
	return index, &meta, nil
}

// SaveFile writes a snapshot to path through a temporary file and a rename.
func SaveFile(path string, index *gazetteer.Index, meta Meta) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := Encode(w, index, meta); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// LoadFile reads a snapshot from path.
func LoadFile(path string) (*gazetteer.Index, *Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}
