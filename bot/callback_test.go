package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCallbackMealOps(t *testing.T) {
	ev, err := decodeCallback("confirm:t_42871")
	require.NoError(t, err)
	assert.Equal(t, OpConfirm, ev.Op)
	assert.Equal(t, "t_42871", ev.MealKey)

	ev, err = decodeCallback("pset:p_903:1.5")
	require.NoError(t, err)
	assert.Equal(t, OpPortionSet, ev.Op)
	assert.Equal(t, "p_903", ev.MealKey)
	assert.Equal(t, 1.5, ev.Value)

	ev, err = decodeCallback("nudge:t_42871:calories:-50")
	require.NoError(t, err)
	assert.Equal(t, OpNudge, ev.Op)
	assert.Equal(t, "calories", ev.Field)
	assert.Equal(t, -50.0, ev.Value)
}

func TestDecodeCallbackAdminOps(t *testing.T) {
	ev, err := decodeCallback("appr:123456789")
	require.NoError(t, err)
	assert.Equal(t, OpApprove, ev.Op)
	assert.Equal(t, "123456789", ev.UserID)

	ev, err = decodeCallback("del:42")
	require.NoError(t, err)
	assert.Equal(t, OpDeleteMeal, ev.Op)
	assert.EqualValues(t, 42, ev.MealID)
}

func TestDecodeCallbackRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"confirm",
		"confirm:a:b",
		"pset:t_1",
		"pset:t_1:abc",
		"nudge:t_1:calories",
		"del:notanumber",
		"unknownop:x",
	}
	for _, data := range cases {
		_, err := decodeCallback(data)
		assert.Error(t, err, "data %q", data)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data := encodeCallback(OpNudge, "t_42871", "protein", formatValue(10))
	assert.Equal(t, "nudge:t_42871:protein:10", data)

	ev, err := decodeCallback(data)
	require.NoError(t, err)
	assert.Equal(t, "t_42871", ev.MealKey)
	assert.Equal(t, "protein", ev.Field)
	assert.Equal(t, 10.0, ev.Value)

	// Callback payloads must stay inside Telegram's 64-byte limit.
	assert.LessOrEqual(t, len(data), 64)
}
