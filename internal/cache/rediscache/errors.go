package rediscache

import (
	"github.com/BearBump/ZapShift/internal/cache"
)

// OpError is returned for every failed Redis command. It matches
// cache.ErrUnavailable, and Unwrap exposes the client error.
type OpError struct {
	Op  string
	Key string
	Err error
}

func (e *OpError) Error() string {
	return "redis " + e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

func (e *OpError) Is(target error) bool { return target == cache.ErrUnavailable }

func opError(op, key string, err error) error {
	return &OpError{Op: op, Key: key, Err: err}
}
