package gate

import "errors"

// Button is one inline keyboard button carrying an action token.
type Button struct {
	Label string
	Data  string
}

// Role is the chat member role reported by the platform.
type Role int

const (
	RoleMember Role = iota
	RoleAdmin
	RoleOwner
)

// Platform abstracts the messaging platform. Every call is a single
// attempt; callers must not assume success and must never blindly
// retry approve/decline.
type Platform interface {
	// SendMessage delivers text (with an optional inline keyboard) to a
	// chat and returns the new message id.
	SendMessage(chatID int64, text string, keyboard [][]Button) (int32, error)
	// EditMessage replaces the text and keyboard of an existing
	// message. A nil keyboard strips any leftover buttons.
	EditMessage(chatID int64, msgID int32, text string, keyboard [][]Button) error
	ApproveJoinRequest(groupID, userID int64) error
	DeclineJoinRequest(groupID, userID int64) error
	MemberRole(groupID, userID int64) (Role, error)
}

var (
	// ErrExpiredSession is returned when an answer arrives for a user
	// with no outstanding challenge. Recoverable: the user re-triggers
	// the join flow.
	ErrExpiredSession = errors.New("challenge session expired")

	// ErrUnauthorized is returned when a non-admin attempts a
	// moderation action. No state is changed.
	ErrUnauthorized = errors.New("actor is not a group admin")

	// ErrMalformedInput is returned for unparseable action tokens.
	ErrMalformedInput = errors.New("malformed action token")

	// ErrStaleAction is returned when a moderation decision targets a
	// request that was already resolved.
	ErrStaleAction = errors.New("moderation request already resolved")
)
