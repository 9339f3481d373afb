package lock

import "context"

// ShowLocker serializes seat-state mutations per show. Every writer of a
// show's booked/blocked seat sets must run inside WithLock for that show's
// id, so two overlapping booking attempts can never both pass the
// availability check.
type ShowLocker interface {
	WithLock(ctx context.Context, key string, fn func() error) error
}
