// Package vecindex is a single-writer flat vector index backed by one
// append-only file. Admission decisions search the nearest neighbor by
// squared L2 distance; readers see an immutable published snapshot while
// the writer holds the exclusive mutex.
//
// File layout: a 16-byte header (magic "NPRINTIX", dimension u32 LE,
// count u32 LE) followed by fixed-size records of {ordinal u32 LE,
// float32[D] LE}. Appends fsync the record first and rewrite the header
// last, so the header count is the commit point.
package vecindex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"
)

const (
	magic      = "NPRINTIX"
	headerSize = 16
)

var (
	// ErrCorrupt marks damage past recovery (bad magic or dimension).
	// The caller should refuse admission traffic but keep serving
	// everything else.
	ErrCorrupt = errors.New("vector index file is corrupt")

	// ErrDimension is returned when a vector does not match the index
	// dimension.
	ErrDimension = errors.New("vector dimension mismatch")

	// ErrLocked is returned when another process holds the index file.
	ErrLocked = errors.New("vector index file is locked by another process")
)

// Index owns the index file. All mutation goes through WithWriter.
type Index struct {
	path   string
	dim    int
	file   *os.File
	flk    *flock.Flock
	logger *slog.Logger

	mu   sync.Mutex
	snap atomic.Pointer[Snapshot]
}

// Snapshot is an immutable view of the index contents.
type Snapshot struct {
	dim      int
	ordinals []uint32
	vectors  []float32
}

// Count returns the number of admitted vectors.
func (s *Snapshot) Count() int {
	return len(s.ordinals)
}

// Search returns the ordinal and squared L2 distance of the nearest
// vector. ok is false when the snapshot is empty.
func (s *Snapshot) Search(q []float32) (ordinal uint32, dist float32, ok bool) {
	if len(s.ordinals) == 0 {
		return 0, 0, false
	}
	best := -1
	var bestDist float32
	for i := range s.ordinals {
		row := s.vectors[i*s.dim : (i+1)*s.dim]
		var d float32
		for j, v := range row {
			diff := q[j] - v
			d += diff * diff
		}
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return s.ordinals[best], bestDist, true
}

// Open loads or creates the index file. The flock is held for the life
// of the Index to keep a second process off the file.
func Open(path string, dim int, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}

	flk := flock.New(path + ".lock")
	locked, err := flk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking index file: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		flk.Unlock()
		return nil, fmt.Errorf("opening index file: %w", err)
	}

	ix := &Index{
		path:   path,
		dim:    dim,
		file:   file,
		flk:    flk,
		logger: logger,
	}
	if err := ix.load(); err != nil {
		file.Close()
		flk.Unlock()
		return nil, err
	}
	return ix, nil
}

// Close releases the file and its lock. Pending writers must finish
// first; callers stop accepting work before closing.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	err := ix.file.Close()
	if uerr := ix.flk.Unlock(); err == nil {
		err = uerr
	}
	return err
}

// Snapshot returns the current published view for lock-free searches.
func (ix *Index) Snapshot() *Snapshot {
	return ix.snap.Load()
}

// WithWriter runs fn holding the exclusive writer lock. The whole
// count-search-add-flush decision sequence of an admission happens
// inside one call.
func (ix *Index) WithWriter(fn func(w *Writer) error) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return fn(&Writer{ix: ix})
}

func (ix *Index) recordSize() int {
	return 4 + 4*ix.dim
}

// load reads the file, recovering from a truncated tail by rolling the
// count back to the largest whole-record prefix.
func (ix *Index) load() error {
	info, err := ix.file.Stat()
	if err != nil {
		return fmt.Errorf("stat index file: %w", err)
	}

	if info.Size() == 0 {
		if err := ix.writeHeader(0); err != nil {
			return err
		}
		ix.snap.Store(&Snapshot{dim: ix.dim})
		ix.logger.Info("vector index initialized", "path", ix.path, "dim", ix.dim)
		return nil
	}

	if info.Size() < headerSize {
		return fmt.Errorf("%w: file shorter than header", ErrCorrupt)
	}

	data, err := unix.Mmap(int(ix.file.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("mmap index file: %w", err)
	}
	defer unix.Munmap(data)

	if string(data[:8]) != magic {
		return fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	fileDim := int(binary.LittleEndian.Uint32(data[8:12]))
	if fileDim != ix.dim {
		return fmt.Errorf("%w: file dimension %d, configured %d", ErrCorrupt, fileDim, ix.dim)
	}
	count := int(binary.LittleEndian.Uint32(data[12:16]))

	recSize := ix.recordSize()
	whole := (len(data) - headerSize) / recSize
	if whole < count {
		ix.logger.Warn("vector index truncated, rolling back count",
			"path", ix.path, "header_count", count, "recovered", whole)
		count = whole
	}

	snap := &Snapshot{
		dim:      ix.dim,
		ordinals: make([]uint32, count),
		vectors:  make([]float32, count*ix.dim),
	}
	for i := 0; i < count; i++ {
		rec := data[headerSize+i*recSize : headerSize+(i+1)*recSize]
		snap.ordinals[i] = binary.LittleEndian.Uint32(rec[:4])
		for j := 0; j < ix.dim; j++ {
			bits := binary.LittleEndian.Uint32(rec[4+4*j : 8+4*j])
			snap.vectors[i*ix.dim+j] = math.Float32frombits(bits)
		}
	}
	ix.snap.Store(snap)
	ix.logger.Info("vector index loaded", "path", ix.path, "count", count, "dim", ix.dim)

	// Persist the rollback so the header matches what we serve.
	if whole < int(binary.LittleEndian.Uint32(data[12:16])) {
		if err := ix.writeHeader(uint32(count)); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Index) writeHeader(count uint32) error {
	var hdr [headerSize]byte
	copy(hdr[:8], magic)
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(ix.dim))
	binary.LittleEndian.PutUint32(hdr[12:16], count)
	if _, err := ix.file.WriteAt(hdr[:], 0); err != nil {
		return fmt.Errorf("writing index header: %w", err)
	}
	if err := ix.file.Sync(); err != nil {
		return fmt.Errorf("syncing index header: %w", err)
	}
	return nil
}

// Writer is the view handed to WithWriter callbacks.
type Writer struct {
	ix *Index
}

// Count returns the committed vector count.
func (w *Writer) Count() int {
	return w.ix.snap.Load().Count()
}

// Search returns the nearest neighbor under the writer lock.
func (w *Writer) Search(q []float32) (uint32, float32, bool) {
	if len(q) != w.ix.dim {
		return 0, 0, false
	}
	return w.ix.snap.Load().Search(q)
}

// Add appends the vector, fsyncs the record, commits the header, and
// publishes a new snapshot. The returned ordinal equals the previous
// count.
func (w *Writer) Add(vec []float32) (uint32, error) {
	ix := w.ix
	if len(vec) != ix.dim {
		return 0, ErrDimension
	}

	old := ix.snap.Load()
	ordinal := uint32(old.Count())

	rec := make([]byte, ix.recordSize())
	binary.LittleEndian.PutUint32(rec[:4], ordinal)
	for j, v := range vec {
		binary.LittleEndian.PutUint32(rec[4+4*j:8+4*j], math.Float32bits(v))
	}

	offset := int64(headerSize + int(ordinal)*ix.recordSize())
	if _, err := ix.file.WriteAt(rec, offset); err != nil {
		return 0, fmt.Errorf("appending vector record: %w", err)
	}
	if err := ix.file.Sync(); err != nil {
		return 0, fmt.Errorf("syncing vector record: %w", err)
	}
	if err := ix.writeHeader(ordinal + 1); err != nil {
		// The header still says the old count; the dangling record is
		// rolled back on the next load.
		return 0, err
	}

	snap := &Snapshot{
		dim:      ix.dim,
		ordinals: append(append([]uint32(nil), old.ordinals...), ordinal),
		vectors:  append(append([]float32(nil), old.vectors...), vec...),
	}
	ix.snap.Store(snap)
	return ordinal, nil
}
