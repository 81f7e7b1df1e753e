package core

import "errors"

var (
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrSignatureExpired  = errors.New("signature has expired")
	ErrFutureTimestamp   = errors.New("signature timestamp is in the future")
	ErrMalformedMessage  = errors.New("malformed sign-in message")
	ErrNonceMismatch     = errors.New("nonce does not match issued challenge")
	ErrChallengeNotFound = errors.New("no active challenge for address")
	ErrEntryNotFound     = errors.New("entry not found")
	ErrNotEntryOwner     = errors.New("requester does not own the entry")
)
