package lockfile

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExclusiveLockExcludesWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")
	m := At(path)

	unlock, err := m.Lock()
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		u2, err := At(path).Lock()
		require.NoError(t, err)
		close(acquired)
		u2()
	}()

	select {
	case <-acquired:
		t.Fatal("second exclusive lock acquired while first was held")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, unlock())
	<-acquired
}

func TestSharedLocksCoexist(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")

	u1, err := At(path).RLock()
	require.NoError(t, err)
	u2, err := At(path).RLock()
	require.NoError(t, err)

	require.NoError(t, u1())
	require.NoError(t, u2())
}

func TestLockThenUnlockAllowsNextWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")
	var counter int64
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := At(path).Lock()
			require.NoError(t, err)
			atomic.AddInt64(&counter, 1)
			time.Sleep(5 * time.Millisecond)
			require.NoError(t, unlock())
		}()
	}
	wg.Wait()
	require.EqualValues(t, 4, counter)
}
