package magent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientInvoke(t *testing.T) {
	var received Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, InvokePath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		reply := Message{
			MessageID: "reply-1",
			ContextID: received.ContextID,
			TaskID:    received.TaskID,
			Role:      RoleAgent,
			Parts:     []Part{NewTextPart("Echo: hi")},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reply)
	}))
	defer srv.Close()

	client := NewHTTPClient()

	in := Message{
		MessageID: "msg-1",
		ContextID: "ctx-1",
		TaskID:    "task-1",
		Role:      RoleAgent,
		Parts:     []Part{NewTextPart("hi")},
	}

	reply, err := client.Invoke(context.Background(), srv.URL, in)
	require.NoError(t, err)

	assert.Equal(t, in, received)
	assert.Equal(t, RoleAgent, reply.Role)
	assert.Equal(t, "task-1", reply.TaskID)
	text, ok := reply.Text()
	require.True(t, ok)
	assert.Equal(t, "Echo: hi", text)
}

func TestClientInvokeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient()

	_, err := client.Invoke(context.Background(), srv.URL, NewTextMessage(RoleUser, "hi"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
	assert.Contains(t, err.Error(), "boom")
}

func TestClientInvokeInvalidReply(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "this is not json"},
		{"invalid message", `{"message_id":"m","role":"robot","parts":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewHTTPClient()
			_, err := client.Invoke(context.Background(), srv.URL, NewTextMessage(RoleUser, "hi"))
			assert.Error(t, err)
		})
	}
}

func TestClientInvokeContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can detect the client disconnect;
		// with unread body bytes pending, r.Context() is never cancelled.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewHTTPClient()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Invoke(ctx, srv.URL, NewTextMessage(RoleUser, "hi"))
	assert.Error(t, err)
}

func TestClientDiscover(t *testing.T) {
	card := AgentCard{
		Name:               "EchoAgent",
		Description:        "echoes",
		URL:                "http://127.0.0.1:9999",
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text"},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, WellKnownPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(card)
	}))
	defer srv.Close()

	client := NewHTTPClient()

	// Trailing slash on the base URL must not break the well-known path.
	got, err := client.Discover(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, card, *got)
}

func TestClientDiscoverMissingName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"description":"anonymous"}`))
	}))
	defer srv.Close()

	client := NewHTTPClient()
	_, err := client.Discover(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name")
}

func TestClientDiscoverNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client := NewHTTPClient()
	_, err := client.Discover(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestClientOptions(t *testing.T) {
	c := NewHTTPClient(WithTimeout(5 * time.Second))
	assert.Equal(t, 5*time.Second, c.http.Timeout)

	hc := &http.Client{Timeout: time.Second}
	c = NewHTTPClient(WithHTTPClient(hc))
	assert.Same(t, hc, c.http)
}
