package domain

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrNoTextAvailable   = errors.New("no text available from any capture source")
	ErrMalformedResponse = errors.New("malformed completion response")
	ErrUnauthorized      = errors.New("completion API rejected credentials")
	ErrSecretNotFound    = errors.New("secret not found")
)
