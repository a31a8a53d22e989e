package subscription

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrSelfSubscribe     = errors.New("cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrNotSubscribed     = errors.New("not subscribed")
)
