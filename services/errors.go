package services

import (
	"errors"
)

var (
	ErrInviteNotFound    = errors.New("invite not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrRequestNotFound   = errors.New("screening request not found")
	ErrDuplicateInvite   = errors.New("an invite already exists for this email")
	ErrNotRequested      = errors.New("invite is not awaiting approval")
	ErrInvalidEventInput = errors.New("missing or invalid event fields")
)
