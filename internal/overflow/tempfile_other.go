//go:build !linux
// +build !linux

package overflow

import "os"

func tempFile(dir string) (*os.File, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	return unlinkedTempFile(dir)
}
