package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrExists            = errors.New("already exists")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrRankerUnavailable = errors.New("ranker unavailable")
)
