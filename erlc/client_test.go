package erlc

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetServerStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/server", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("Server-Key"))
		w.Write([]byte(`{"Name":"Test Server","CurrentPlayers":12,"MaxPlayers":40,"JoinKey":"TEST"}`))
	}))
	defer ts.Close()

	client := New("secret", ts.URL)
	status := client.GetServerStatus()

	require.NotNil(t, status)
	assert.Equal(t, "Test Server", status.Name)
	assert.Equal(t, 12, status.CurrentPlayers)
	assert.Equal(t, 40, status.MaxPlayers)
}

func TestGetServerStatusRateLimited(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := New("secret", ts.URL)
	assert.Nil(t, client.GetServerStatus())
}

func TestGetServerStatusAPIDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	client := New("secret", ts.URL)
	assert.Nil(t, client.GetServerStatus())
}

func TestGetServerStatusTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // connection refused from here on

	client := New("secret", ts.URL)
	assert.Nil(t, client.GetServerStatus())
}

func TestRunCommand(t *testing.T) {
	var received map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/server/command", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
	}))
	defer ts.Close()

	client := New("secret", ts.URL)
	ok := client.RunCommand(":kick Badguy")

	assert.True(t, ok)
	assert.Equal(t, ":kick Badguy", received["command"])
}

func TestRunCommandRejected(t *testing.T) {
	for name, code := range map[string]int{
		"rate limited": http.StatusTooManyRequests,
		"forbidden":    http.StatusForbidden,
		"server error": http.StatusInternalServerError,
	} {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
			}))
			defer ts.Close()

			client := New("secret", ts.URL)
			assert.False(t, client.RunCommand(":h hello"))
		})
	}
}

func TestGetKillLogs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/server/killlogs", r.URL.Path)
		w.Write([]byte(`[{"Killer":"Alice:1","Killed":"Bob:2","Timestamp":1700000000}]`))
	}))
	defer ts.Close()

	client := New("secret", ts.URL)
	logs := client.GetKillLogs()

	require.Len(t, logs, 1)
	assert.Equal(t, "Alice:1", logs[0].Killer)
	assert.Equal(t, "Bob:2", logs[0].Killed)
	assert.Equal(t, int64(1700000000), logs[0].Timestamp)
}

func TestGetLogsEmptyOnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := New("secret", ts.URL)
	assert.Empty(t, client.GetKillLogs())
	assert.Empty(t, client.GetCommandLogs())
	assert.Empty(t, client.GetJoinLogs())
}
