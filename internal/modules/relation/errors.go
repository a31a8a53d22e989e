package relation

import "errors"

var (
	ErrAlreadyExists = errors.New("relation already exists")
	ErrNotFound      = errors.New("no such relation to remove")
	ErrSelfFollow    = errors.New("cannot follow yourself")
	ErrUnknownKind   = errors.New("unknown relation kind")
)
