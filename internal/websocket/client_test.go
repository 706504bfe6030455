package websocket

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendAfterClose(t *testing.T) {
	client := newTestClient("c-1", "", NewHub())

	client.Close()
	client.Close()

	msg, err := NewMessage(TypePong, "", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, client.Send(msg), ErrConnectionClosed)
	assert.True(t, client.IsClosed())
}

func TestClient_SendBufferFullClosesClient(t *testing.T) {
	client := newTestClient("c-1", "", NewHub())

	msg, err := NewMessage(TypePong, "", nil)
	require.NoError(t, err)

	for i := 0; i < cap(client.send); i++ {
		require.NoError(t, client.Send(msg))
	}

	assert.ErrorIs(t, client.Send(msg), ErrConnectionClosed)
	assert.True(t, client.IsClosed())
}

func TestClient_SendError(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	client := newTestClient("c-1", "", NewHub())

	client.SendError("bad_request", "invalid message format", "unexpected end of JSON input")

	msg := readMessage(t, client)
	assert.Equal(t, TypeError, msg.Type)

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Details string `json:"details"`
	}
	require.NoError(t, msg.UnmarshalPayload(&payload))
	assert.Equal(t, "bad_request", payload.Error)
	assert.Equal(t, "unexpected end of JSON input", payload.Details)
}

func TestClient_SendErrorHidesDetailsInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	client := newTestClient("c-1", "", NewHub())

	client.SendError("bad_request", "invalid message format", "internal detail")

	var payload struct {
		Details string `json:"details"`
	}
	require.NoError(t, readMessage(t, client).UnmarshalPayload(&payload))
	assert.Empty(t, payload.Details)
}

func TestClient_IsAuthenticated(t *testing.T) {
	assert.False(t, newTestClient("a", "", nil).IsAuthenticated())
	assert.True(t, newTestClient("b", "c1", nil).IsAuthenticated())
}

func TestMessage_UnmarshalPayloadEmpty(t *testing.T) {
	msg := &Message{Type: TypeSubscribe}
	var payload ChannelPayload
	assert.ErrorIs(t, msg.UnmarshalPayload(&payload), ErrInvalidMessage)
}

func TestOriginChecker(t *testing.T) {
	allowed := []string{"https://metastamp.app"}

	tests := []struct {
		name       string
		production bool
		origins    []string
		origin     string
		want       bool
	}{
		{"development allows any", false, nil, "http://evil.example", true},
		{"production allowed origin", true, allowed, "https://metastamp.app", true},
		{"production other origin", true, allowed, "http://evil.example", false},
		{"production missing origin", true, allowed, "", false},
		{"production unconfigured", true, nil, "https://metastamp.app", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			assert.Equal(t, tt.want, OriginChecker(tt.origins, tt.production)(req))
		})
	}
}

func TestGenerateClientID(t *testing.T) {
	a, err := GenerateClientID()
	require.NoError(t, err)
	b, err := GenerateClientID()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
