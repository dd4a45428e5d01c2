package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/teleivo/assertive/assert"
)

func TestVersionRoundTrips(t *testing.T) {
	b, err := json.Marshal(Version{})
	assert.NoError(t, err)
	assert.Equal(t, `"2.0"`, string(b))

	var v Version
	assert.NoError(t, json.Unmarshal([]byte(`"2.0"`), &v))
}

func TestVersionRejectsOtherValues(t *testing.T) {
	var v Version
	err := json.Unmarshal([]byte(`"1.0"`), &v)
	assert.NotNil(t, err)
}

func TestMessageKindOf(t *testing.T) {
	tests := map[string]struct {
		msg  Message
		want Kind
	}{
		"Request":      {msg: Message{ID: NewID(1), Method: "ping"}, want: KindRequest},
		"Response":     {msg: Message{ID: NewID(1)}, want: KindResponse},
		"Notification": {msg: Message{Method: "initialized"}, want: KindNotification},
		"Invalid":      {msg: Message{}, want: KindInvalid},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, test.msg.KindOf())
		})
	}
}

func TestMessageMarshalsOmitsAbsentFields(t *testing.T) {
	msg := Message{ID: NewID(2), Method: "ping"}

	b, err := json.Marshal(msg)
	assert.NoError(t, err)

	var m map[string]any
	assert.NoError(t, json.Unmarshal(b, &m))
	_, hasResult := m["result"]
	_, hasError := m["error"]
	assert.False(t, hasResult)
	assert.False(t, hasError)
	assert.Equal(t, "2.0", m["jsonrpc"])
}
