package application

import "errors"

var (
	// ErrNoCombination is the legitimate negative outcome: the pair has no
	// known composite image. Callers should stay silent rather than report
	// an error.
	ErrNoCombination = errors.New("no composite image for this pair")
	// ErrUpstream signals the CDN could not be reached at all during the
	// attempt. Nothing is cached, so the pair is retried on the next call.
	ErrUpstream = errors.New("emoji kitchen CDN unreachable")
)
