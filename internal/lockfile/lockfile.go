// Package lockfile implements the cross-process locking discipline the
// repository uses: unbounded concurrent readers, at most one writer, and
// release on every exit path including a panic.
package lockfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Mutex is a lock file at a fixed path. The zero value is not usable;
// construct one with At.
type Mutex struct {
	path string
}

// At returns the Mutex guarding path. The file is created on first Lock or
// RLock if it does not already exist.
func At(path string) *Mutex {
	return &Mutex{path: path}
}

// Unlock releases a lock acquired by Lock or RLock.
type Unlock func() error

// Lock acquires the exclusive (writer) lock, blocking until it is
// available. The returned func releases it; callers must call it exactly
// once, typically via defer.
func (m *Mutex) Lock() (Unlock, error) {
	return m.acquire(unix.LOCK_EX)
}

// RLock acquires the shared (reader) lock, blocking until it is available.
func (m *Mutex) RLock() (Unlock, error) {
	return m.acquire(unix.LOCK_SH)
}

func (m *Mutex) acquire(how int) (Unlock, error) {
	f, err := os.OpenFile(m.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("lockfile: open %s: %w", m.path, err)
	}
	if err := unix.Flock(int(f.Fd()), how); err != nil {
		f.Close()
		return nil, fmt.Errorf("lockfile: lock %s: %w", m.path, err)
	}
	return func() error {
		if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil {
			f.Close()
			return fmt.Errorf("lockfile: unlock %s: %w", m.path, err)
		}
		return f.Close()
	}, nil
}
