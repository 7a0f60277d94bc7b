//go:build windows

package pager

import "os"

// No lock is taken on Windows, so a second pager over the same file is
// not refused there.
func lockFile(f *os.File) error { return nil }

func unlockFile(f *os.File) error { return nil }
