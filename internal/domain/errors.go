package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the feed server is unreachable
	ErrServerOffline = errors.New("feed server is unreachable")

	// ErrBadResponse indicates the feed server answered with an API error
	ErrBadResponse = errors.New("feed server returned an error")

	// ErrInvalidQuery indicates an unknown feed or list type
	ErrInvalidQuery = errors.New("invalid feed query")

	// ErrUnknownCategory indicates a category that does not belong to the feed
	ErrUnknownCategory = errors.New("unknown category")
)
