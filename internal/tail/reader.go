package tail

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Rotation describes what Sync found out about the file behind the path.
type Rotation int

const (
	RotationNone      Rotation = iota
	RotationTruncated          // Same file, shorter than the cursor
	RotationReplaced           // Path now names a different file
)

func (r Rotation) String() string {
	switch r {
	case RotationNone:
		return "none"
	case RotationTruncated:
		return "truncated"
	case RotationReplaced:
		return "replaced"
	default:
		return fmt.Sprintf("rotation(%d)", int(r))
	}
}

// Reader tails a single log file. It is not safe for concurrent use; the
// monitor's loop is its only caller.
type Reader struct {
	path   string
	file   *os.File
	cursor Cursor
	logger *zap.Logger
}

// Open opens path for reading and places the cursor at the current end of
// file, so only content appended afterwards is ever yielded.
func Open(path string, logger *zap.Logger) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	end, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("seeking to end of %s: %w", path, err)
	}

	logger.Debug("opened log file", zap.Int64("offset", end))

	return &Reader{
		path:   path,
		file:   file,
		cursor: Cursor{Offset: end},
		logger: logger,
	}, nil
}

// Sync checks the path for truncation or replacement. When either happened
// the file is reopened and the cursor reset to 0 so content written after the
// rotation is still observed.
func (r *Reader) Sync() (Rotation, error) {
	pathInfo, err := os.Stat(r.path)
	if err != nil {
		// Mid-rotation gap: keep the old handle, retry on the next signal
		return RotationNone, fmt.Errorf("stat %s: %w", r.path, err)
	}

	handleInfo, err := r.file.Stat()
	if err != nil {
		return RotationNone, fmt.Errorf("stat open handle: %w", err)
	}

	rotation := RotationNone
	switch {
	case !os.SameFile(pathInfo, handleInfo):
		rotation = RotationReplaced
	case pathInfo.Size() < r.cursor.Offset:
		rotation = RotationTruncated
	default:
		return RotationNone, nil
	}

	if err := r.reopen(); err != nil {
		return rotation, err
	}

	r.logger.Info("log file rotated, reading from start",
		zap.Stringer("rotation", rotation),
		zap.Int64("previousOffset", r.cursor.Offset),
		zap.Int64("size", pathInfo.Size()),
	)
	r.cursor = Cursor{}

	return rotation, nil
}

func (r *Reader) reopen() error {
	file, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("reopening %s: %w", r.path, err)
	}
	if err := r.file.Close(); err != nil {
		r.logger.Warn("failed to close rotated file", zap.Error(err))
	}
	r.file = file
	return nil
}

// Drain yields the terminated lines appended since the last call.
func (r *Reader) Drain() ([]Line, error) {
	return Drain(r.file, &r.cursor)
}

// Cursor returns the current read position.
func (r *Reader) Cursor() Cursor {
	return r.cursor
}

// Path returns the tailed path.
func (r *Reader) Path() string {
	return r.path
}

// Close releases the file handle.
func (r *Reader) Close() error {
	return r.file.Close()
}
