package overflow

import "os"

// unlinkedTempFile creates a named temp file and immediately removes the
// name, leaving only the open descriptor. Equivalent lifetime to O_TMPFILE
// without kernel support.
func unlinkedTempFile(dir string) (*os.File, error) {
	f, err := os.CreateTemp(dir, ".overflow-*")
	if err != nil {
		return nil, err
	}
	if err := os.Remove(f.Name()); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
