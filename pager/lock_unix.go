//go:build !windows

package pager

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockFile acquires an exclusive lock on the backing file. Two pagers
// over the same file would silently corrupt each other, so a second open
// fails with ErrFileLocked instead.
func lockFile(f *os.File) error {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		if err == unix.EWOULDBLOCK {
			return ErrFileLocked
		}
		return err
	}
	return nil
}

// unlockFile releases the lock on the backing file.
func unlockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
