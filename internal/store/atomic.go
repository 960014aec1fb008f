package store

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// writeAtomic writes data to a temp file in the target's directory, fsyncs,
// and renames it into place. The rename is what makes a crash mid-save leave
// either the old file or the new one, never a truncated mix.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting temp file mode: %w", err)
	}
	return renameWithRetry(tmpName, path, 3, 100*time.Millisecond)
}

// renameWithRetry performs the rename with retry logic for Windows, where
// renames can fail with "Access is denied" while another process (editor,
// watcher, git) holds a handle on the target. Retries back off exponentially.
func renameWithRetry(oldPath, newPath string, maxRetries int, initialDelay time.Duration) error {
	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := os.Rename(oldPath, newPath)
		if err == nil {
			return nil
		}
		lastErr = err

		// On non-Windows the error is likely permanent.
		if runtime.GOOS != "windows" {
			break
		}
		if attempt < maxRetries {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return fmt.Errorf("rename failed after %d attempt(s): %w", maxRetries+1, lastErr)
}
