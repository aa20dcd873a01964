//go:build linux
// +build linux

package overflow

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// tempFile opens an anonymous file that never appears in the directory
// tree. O_TMPFILE is not supported on every filesystem (tmpfs and ext4 are
// fine, some overlayfs setups are not), so fall back to create-and-unlink.
func tempFile(dir string) (*os.File, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	fd, err := unix.Open(dir, unix.O_TMPFILE|unix.O_RDWR|unix.O_CLOEXEC, 0600)
	if err != nil {
		log.Warn().Msgf("O_TMPFILE not supported in %s, falling back to unlinked temp file: %v", dir, err)
		return unlinkedTempFile(dir)
	}
	return os.NewFile(uintptr(fd), filepath.Join(dir, ".overflow")), nil
}
