package punish

import (
	"sync"
	"time"
)

// lockTable is a time-boxed mutual-exclusion table keyed by request
// signature. It protects against rapid double submission inside one process;
// the storage-layer dedup query remains the durable guarantee. Locks
// self-expire so a crash mid-operation can never wedge a signature forever.
type lockTable struct {
	mu   sync.Mutex
	ttl  time.Duration
	held map[string]time.Time
}

func newLockTable(ttl time.Duration) *lockTable {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &lockTable{
		ttl:  ttl,
		held: make(map[string]time.Time),
	}
}

// acquire takes the lock for a signature. It returns false when the
// signature is already locked and the lock has not yet expired.
func (t *lockTable) acquire(sig string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if acquiredAt, ok := t.held[sig]; ok {
		if time.Since(acquiredAt) < t.ttl {
			return false
		}
	}
	t.held[sig] = time.Now()
	return true
}

// release frees the lock. Safe to call for signatures that already expired.
func (t *lockTable) release(sig string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.held, sig)
}
