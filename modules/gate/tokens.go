package gate

import (
	"fmt"
	"strconv"
	"strings"
)

// Action is an admin decision carried in a moderation token.
type Action string

const (
	ActionApprove Action = "approve"
	ActionDismiss Action = "dismiss"
)

// VerifyToken encodes a challenge button press: the stage it belongs
// to and the shuffled option index the user picked.
func VerifyToken(stage, index int) string {
	return fmt.Sprintf("verify_%d_%d", stage, index)
}

// ParseVerifyToken decodes a verification token. Malformed tokens are
// rejected with ErrMalformedInput, never a panic.
func ParseVerifyToken(data string) (stage, index int, err error) {
	parts := strings.Split(data, "_")
	if len(parts) != 3 || parts[0] != "verify" {
		return 0, 0, ErrMalformedInput
	}
	stage, err = strconv.Atoi(parts[1])
	if err != nil || stage < 1 {
		return 0, 0, ErrMalformedInput
	}
	index, err = strconv.Atoi(parts[2])
	if err != nil || index < 0 {
		return 0, 0, ErrMalformedInput
	}
	return stage, index, nil
}

// ModerationToken encodes an admin decision button for a target user.
func ModerationToken(action Action, userID int64) string {
	return fmt.Sprintf("%s_%d", action, userID)
}

// ParseModerationToken decodes an approve/dismiss token.
func ParseModerationToken(data string) (Action, int64, error) {
	prefix, rest, ok := strings.Cut(data, "_")
	if !ok {
		return "", 0, ErrMalformedInput
	}
	action := Action(prefix)
	if action != ActionApprove && action != ActionDismiss {
		return "", 0, ErrMalformedInput
	}
	userID, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || userID <= 0 {
		return "", 0, ErrMalformedInput
	}
	return action, userID, nil
}
