package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpoClient_Send(t *testing.T) {
	var got expoRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"status":"ok"}}`))
	}))
	defer server.Close()

	c := NewExpoClient(server.URL, time.Second)
	err := c.Send(context.Background(), "ExponentPushToken[xyz]", Message{
		Title: "Job update",
		Body:  "New assignment",
		Data:  map[string]string{"jobId": "J1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ExponentPushToken[xyz]", got.To)
	assert.Equal(t, "Job update", got.Title)
	assert.Equal(t, "J1", got.Data["jobId"])
}

func TestExpoClient_RejectedTicket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"status":"error","message":"DeviceNotRegistered"}}`))
	}))
	defer server.Close()

	c := NewExpoClient(server.URL, time.Second)
	err := c.Send(context.Background(), "tok", Message{Title: "t", Body: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DeviceNotRegistered")
}

func TestFCMClient_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key=secret", r.Header.Get("Authorization"))
		var req fcmRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "device-token", req.To)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":1,"failure":0}`))
	}))
	defer server.Close()

	c := NewFCMClient(server.URL, "secret", time.Second)
	err := c.Send(context.Background(), "device-token", Message{Title: "t", Body: "b"})
	assert.NoError(t, err)
}

func TestFCMClient_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":0,"failure":1}`))
	}))
	defer server.Close()

	c := NewFCMClient(server.URL, "secret", time.Second)
	err := c.Send(context.Background(), "device-token", Message{Title: "t", Body: "b"})
	assert.Error(t, err)
}

func TestExpoClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := NewExpoClient(server.URL, 20*time.Millisecond)
	err := c.Send(context.Background(), "tok", Message{Title: "t", Body: "b"})
	assert.Error(t, err)
}
