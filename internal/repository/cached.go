package repository

import (
	"context"
	"time"

	"teachjournal/internal/cache"
	"teachjournal/internal/core"
)

// CachedTeachers memoizes teacher-by-email lookups. Teachers are immutable
// once provisioned, so entries only leave the cache through TTL or eviction.
// Misses are never cached: a teacher provisioned after a failed lookup is
// found on the next request.
type CachedTeachers struct {
	next  TeacherFinder
	cache *cache.LRUCache[core.Teacher]
}

func NewCachedTeachers(next TeacherFinder, maxSize int, ttl time.Duration) *CachedTeachers {
	return &CachedTeachers{
		next:  next,
		cache: cache.NewLRUCache[core.Teacher](maxSize, ttl),
	}
}

func (c *CachedTeachers) FindTeacherByEmail(ctx context.Context, email string) (*core.Teacher, error) {
	if t, ok := c.cache.Get(email); ok {
		return &t, nil
	}
	t, err := c.next.FindTeacherByEmail(ctx, email)
	if err != nil || t == nil {
		return t, err
	}
	c.cache.Set(email, *t)
	return t, nil
}

// Cache exposes the underlying cache for cleanup registration and metrics.
func (c *CachedTeachers) Cache() *cache.LRUCache[core.Teacher] {
	return c.cache
}
