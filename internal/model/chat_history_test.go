package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessagesEmptyNormalizesToArray(t *testing.T) {
	t.Parallel()

	var m Messages

	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	out, err := json.Marshal(ChatHistory{Messages: m})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"messages":[]`)
}

func TestMessagesScan(t *testing.T) {
	t.Parallel()

	var m Messages
	require.NoError(t, m.Scan([]byte(`[{"role":"user","content":"hi"}]`)))
	assert.JSONEq(t, `[{"role":"user","content":"hi"}]`, string(m))

	var fromString Messages
	require.NoError(t, fromString.Scan(`[1,2]`))
	assert.Equal(t, "[1,2]", string(fromString))

	var fromNil Messages
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)
}

func TestMessagesJSONRoundTrip(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"messages":[{"role":"assistant","content":"4"}]}`)

	var history ChatHistory
	require.NoError(t, json.Unmarshal(payload, &history))
	assert.JSONEq(t, `[{"role":"assistant","content":"4"}]`, string(history.Messages))
}
