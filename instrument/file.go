package instrument

import (
	"os"
	"time"

	"github.com/authe-me/authe-go/action"
	"github.com/authe-me/authe-go/client"
)

// FileRecorder records file-write operations. Reads are intentionally not
// tracked; only mutations of the filesystem count as agent behaviour.
type FileRecorder struct {
	tracker Tracker
}

// NewFileRecorder returns a FileRecorder recording against t.
func NewFileRecorder(t Tracker) *FileRecorder {
	return &FileRecorder{tracker: t}
}

// WriteFile wraps os.WriteFile, recording the write as a file_operation.
func (f *FileRecorder) WriteFile(path string, data []byte, perm os.FileMode) error {
	start := time.Now()
	err := os.WriteFile(path, data, perm)
	f.record(path, "w", len(data), time.Since(start), err)
	return err
}

// AppendFile appends data to path, creating it if needed.
func (f *FileRecorder) AppendFile(path string, data []byte, perm os.FileMode) error {
	start := time.Now()
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, perm)
	if err == nil {
		_, err = file.Write(data)
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}
	f.record(path, "a", len(data), time.Since(start), err)
	return err
}

func (f *FileRecorder) record(path, mode string, size int, duration time.Duration, err error) {
	opts := client.TrackOptions{
		Tool: "file.write",
		Type: action.TypeFileOperation,
		Input: map[string]any{
			"path": action.Truncate(path, 500),
			"mode": mode,
		},
		Duration: duration,
	}
	if err != nil {
		opts.Status = action.StatusError
		opts.Output = map[string]any{"error": action.Truncate(err.Error(), 500)}
	} else {
		opts.Output = map[string]any{"bytes": size}
	}
	f.tracker.Track(opts)
}
