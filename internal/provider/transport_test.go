package provider

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_StampsClientHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer server.Close()

	transport := NewTransport("1.2.3")
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "sdk/0.1")

	resp, err := transport.Client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "commitsmith/1.2.3", got.Get("User-Agent"))
	assert.Equal(t, "commitsmith", got.Get("X-Title"))
	assert.Equal(t, ClientURL, got.Get("HTTP-Referer"))
	assert.Equal(t, "sdk/0.1", req.Header.Get("User-Agent"), "caller request must not be mutated")
}

func TestClientHeaders_DefaultVersion(t *testing.T) {
	assert.Equal(t, "commitsmith/dev", ClientHeaders("").Get("User-Agent"))
}
