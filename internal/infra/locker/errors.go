package locker

import "errors"

var (
	// ErrLockNotOwned возвращается, когда блокировку держит другой владелец или она истекла
	ErrLockNotOwned = errors.New("locker: lock not owned by this client")
)
