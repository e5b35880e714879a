package locker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Locker распределенная блокировка на SETNX с токеном владельца
type Locker struct {
	store Store
	log   Logger
}

func New(store Store, log Logger) *Locker {
	return &Locker{store: store, log: log}
}

// Lock захваченная блокировка
type Lock struct {
	Key   string
	Token string
}

// TryLock пытается захватить ключ на ttl. Возвращает nil, если ключ занят.
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (*Lock, error) {
	token := uuid.NewString()

	acquired, err := l.store.SetNX(ctx, key, token, ttl)
	if err != nil {
		return nil, fmt.Errorf("locker: TryLock %s: %w", key, err)
	}
	if !acquired {
		l.log.Info("locker: %s is held by another owner", key)
		return nil, nil
	}

	return &Lock{Key: key, Token: token}, nil
}

// Extend продлевает блокировку, если она все еще принадлежит нам
func (l *Locker) Extend(ctx context.Context, lock *Lock, ttl time.Duration) error {
	ok, err := l.store.CompareAndExpire(ctx, lock.Key, lock.Token, ttl)
	if err != nil {
		return fmt.Errorf("locker: Extend %s: %w", lock.Key, err)
	}
	if !ok {
		return ErrLockNotOwned
	}
	return nil
}

// Unlock освобождает блокировку атомарно: ключ удаляется, только если токен совпадает
func (l *Locker) Unlock(ctx context.Context, lock *Lock) error {
	ok, err := l.store.CompareAndDelete(ctx, lock.Key, lock.Token)
	if err != nil {
		return fmt.Errorf("locker: Unlock %s: %w", lock.Key, err)
	}
	if !ok {
		l.log.Warn("locker: %s expired or taken over before unlock", lock.Key)
		return ErrLockNotOwned
	}
	return nil
}
