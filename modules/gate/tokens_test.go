package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyTokenRoundTrip(t *testing.T) {
	stage, index, err := ParseVerifyToken(VerifyToken(2, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, stage)
	assert.Equal(t, 3, index)
}

func TestParseVerifyTokenRejectsMalformed(t *testing.T) {
	for _, data := range []string{
		"", "verify", "verify_1", "verify_1_2_3", "verify_x_1",
		"verify_1_x", "verify_0_1", "verify_1_-2", "approve_1_2",
	} {
		_, _, err := ParseVerifyToken(data)
		assert.ErrorIs(t, err, ErrMalformedInput, "data=%q", data)
	}
}

func TestModerationTokenRoundTrip(t *testing.T) {
	action, userID, err := ParseModerationToken(ModerationToken(ActionDismiss, 42))
	require.NoError(t, err)
	assert.Equal(t, ActionDismiss, action)
	assert.Equal(t, int64(42), userID)

	action, userID, err = ParseModerationToken(ModerationToken(ActionApprove, 7))
	require.NoError(t, err)
	assert.Equal(t, ActionApprove, action)
	assert.Equal(t, int64(7), userID)
}

func TestParseModerationTokenRejectsMalformed(t *testing.T) {
	for _, data := range []string{
		"", "approve", "approve_", "approve_abc", "approve_-5",
		"approve_0", "ban_42", "verify_1_2",
	} {
		_, _, err := ParseModerationToken(data)
		assert.ErrorIs(t, err, ErrMalformedInput, "data=%q", data)
	}
}
