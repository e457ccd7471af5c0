package pubsub

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type payload struct {
	RecipientID string `msgpack:"recipient_id"`
	CardName    string `msgpack:"card_name"`
}

func TestParsePush(t *testing.T) {
	data, err := msgpack.Marshal(payload{RecipientID: "U1", CardName: "mew"})
	require.NoError(t, err)

	body, err := json.Marshal(map[string]any{
		"subscription": "projects/p/subscriptions/notify-match-push",
		"message": map[string]any{
			"messageId": "42",
			"data":      base64.StdEncoding.EncodeToString(data),
		},
	})
	require.NoError(t, err)

	envelope, raw, err := ParsePush(body)
	require.NoError(t, err)
	assert.Equal(t, "42", envelope.Message.ID)

	var got payload
	require.NoError(t, Decode(raw, &got))
	assert.Equal(t, payload{RecipientID: "U1", CardName: "mew"}, got)
}

func TestParsePush_Rejects(t *testing.T) {
	_, _, err := ParsePush([]byte("not json"))
	assert.Error(t, err)

	_, _, err = ParsePush([]byte(`{"message":{"data":"%%%"}}`))
	assert.Error(t, err)

	var got payload
	assert.Error(t, Decode([]byte{0xc1}, &got))
}
