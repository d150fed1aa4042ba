package punish

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockTableAcquireRelease(t *testing.T) {
	locks := newLockTable(time.Minute)

	assert.True(t, locks.acquire("sig"))
	assert.False(t, locks.acquire("sig"))
	assert.True(t, locks.acquire("other"))

	locks.release("sig")
	assert.True(t, locks.acquire("sig"))
}

func TestLockTableExpiry(t *testing.T) {
	locks := newLockTable(20 * time.Millisecond)

	assert.True(t, locks.acquire("sig"))
	assert.False(t, locks.acquire("sig"))

	// A crashed holder never releases; the lock must expire on its own.
	time.Sleep(30 * time.Millisecond)
	assert.True(t, locks.acquire("sig"))
}

func TestLockTableReleaseUnknownSignature(t *testing.T) {
	locks := newLockTable(time.Minute)
	locks.release("never-held")
	assert.True(t, locks.acquire("never-held"))
}
