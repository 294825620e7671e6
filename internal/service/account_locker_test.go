package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccountLocker_SerializesSameAccount(t *testing.T) {
	locker := NewAccountLocker()

	var (
		wg      sync.WaitGroup
		active  int
		maxSeen int
		mu      sync.Mutex
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock(1, 7)
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, locker.size())
}

func TestAccountLocker_OppositeOrderDoesNotDeadlock(t *testing.T) {
	locker := NewAccountLocker()
	done := make(chan struct{})

	go func() {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				unlock := locker.Lock(1, 1, 2)
				unlock()
			}()
			go func() {
				defer wg.Done()
				unlock := locker.Lock(1, 2, 1)
				unlock()
			}()
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("locking accounts in opposite order deadlocked")
	}
	assert.Equal(t, 0, locker.size())
}

func TestAccountLocker_DifferentAccountsRunInParallel(t *testing.T) {
	locker := NewAccountLocker()

	unlockFirst := locker.Lock(1, 1)
	defer unlockFirst()

	acquired := make(chan struct{})
	go func() {
		unlock := locker.Lock(1, 2)
		defer unlock()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock on an unrelated account was blocked")
	}
}

func TestAccountLocker_WorkspacesAreIndependent(t *testing.T) {
	locker := NewAccountLocker()

	unlock := locker.Lock(1, 5)
	defer unlock()

	acquired := make(chan struct{})
	go func() {
		other := locker.Lock(2, 5)
		other()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("same account id in another workspace was blocked")
	}
}

func TestAccountLocker_DuplicateIDsAndDoubleUnlock(t *testing.T) {
	locker := NewAccountLocker()

	unlock := locker.Lock(1, 3, 3, 3)
	assert.Equal(t, 1, locker.size())

	unlock()
	unlock()
	assert.Equal(t, 0, locker.size())
}
