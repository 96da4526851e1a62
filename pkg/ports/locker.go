package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes the messages of one session across processes that
// share a task list backend, so two replicas never interleave a read and an append.
type DistributedLocker interface {
	// Lock blocks until the session key is free or ctx is done. The lock expires
	// after ttl even if the holder never calls the returned UnlockFunc.
	Lock(ctx context.Context, sessionID string, ttl time.Duration) (UnlockFunc, error)
}

// SessionIndex lists the sessions that own a persisted task list.
type SessionIndex interface {
	List(ctx context.Context) ([]string, error)
}
