// Package artifact stores exported text artifacts: the attributed
// transcript notes, the segments JSON sidecar, the finished tale, and the
// session summary. Artifacts are small whole blobs, so the store API is
// Put/Get rather than streaming.
//
// Two backends are provided: local disk and S3-compatible object storage.
package artifact

import "context"

// Store is a blob store for exported artifacts.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put writes the blob at path, replacing any existing one. Parent
	// directories (or key prefixes) are handled by the backend.
	Put(ctx context.Context, path string, data []byte) error

	// Get reads the whole blob at path. A missing blob yields an error
	// wrapping os.ErrNotExist.
	Get(ctx context.Context, path string) ([]byte, error)

	// Delete removes the blob at path. Deleting a missing blob is not
	// an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether a blob is present at path.
	Exists(ctx context.Context, path string) (bool, error)
}

// Artifact file names derived from a session's base name. The notes and
// segments pair matches the transcriber's output convention, so files
// written here interoperate with transcripts exported elsewhere.
func NotesPath(base string) string    { return base + "_notes.txt" }
func SegmentsPath(base string) string { return base + "_segments.json" }
func TalePath(base string) string     { return base + "_tale.txt" }
func SummaryPath(base string) string  { return base + "_summary.txt" }
