package nrf

import (
	"os"
	"path/filepath"
)

// writeFileAtomic writes b to a temporary file next to name and renames it
// into place. name is never left partially written.
func writeFileAtomic(name string, b []byte) (err error) {
	dir, base := filepath.Split(name)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return &IOError{Op: "write", Path: name, Err: err}
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()
	if _, err = f.Write(b); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: name, Err: err}
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: name, Err: err}
	}
	if err = f.Close(); err != nil {
		return &IOError{Op: "write", Path: name, Err: err}
	}
	if err = os.Chmod(tmp, 0644); err != nil {
		return &IOError{Op: "write", Path: name, Err: err}
	}
	if err = os.Rename(tmp, name); err != nil {
		return &IOError{Op: "write", Path: name, Err: err}
	}
	return nil
}
