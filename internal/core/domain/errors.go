package domain

import "errors"

var (
	ErrRateLimited   = errors.New("rate limit exceeded")
	ErrInvalidPolicy = errors.New("rate policy must have positive requests and window")
)

func IsRateLimitedError(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
