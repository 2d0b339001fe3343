package messaging

import (
	"errors"
	"fmt"
)

// Domain-level errors for messaging behaviors
var (
	ErrNotFound            = errors.New("messaging: conversation or message not found")
	ErrInvalidParticipants = errors.New("messaging: invalid participants")
	ErrPartialFanout       = errors.New("messaging: one or more replica writes failed")
	ErrStatusRegression    = errors.New("messaging: delivery status cannot move backward")
)

// Specific InvalidParticipants variants; errors.Is against
// ErrInvalidParticipants matches all of them.
var (
	ErrEmptyMessage   = fmt.Errorf("%w: empty message content", ErrInvalidParticipants)
	ErrNotParticipant = fmt.Errorf("%w: sender does not belong to the conversation", ErrInvalidParticipants)
	ErrTooFewMembers  = fmt.Errorf("%w: a conversation needs at least two members", ErrInvalidParticipants)
)
