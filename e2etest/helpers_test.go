package e2etest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// apiResponse mirrors the envelope of cached data
type apiResponse struct {
	Data    json.RawMessage `json:"data"`
	Stale   bool            `json:"stale"`
	Warning *struct {
		Kind    string `json:"kind"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"warning"`
}

type apiError struct {
	Error struct {
		Kind       string `json:"kind"`
		Code       string `json:"code"`
		StatusCode int    `json:"status_code"`
		Message    string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, method, url string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "Should be able to make a request to %s", url)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target), "Response should be valid JSON")
}

// waitForDataInitialization waits until the default currency markets are warm
func waitForDataInitialization(t *testing.T, env *TestEnv) {
	t.Helper()
	require.Eventually(t, func() bool {
		return env.MockServer.Requests("/api/v3/coins/markets") > 0 &&
			env.MockServer.Requests("/api/v3/simple/supported_vs_currencies") > 0
	}, 5*time.Second, 20*time.Millisecond, "Markets and currencies should be fetched on start")

	// Let the warm-up fetches complete
	require.Eventually(t, func() bool {
		resp, err := http.Get(env.ServerBaseURL + "/api/v1/markets")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK && resp.Header.Get("Cache-Status") == "fresh"
	}, 5*time.Second, 20*time.Millisecond)
}
