package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestServer() http.Handler {
	return NewServer(zerolog.Nop(), nil).Routes()
}

func postCompile(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/compile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestCompileEndpoint(t *testing.T) {
	handler := newTestServer()

	body, err := json.Marshal(map[string]any{"source": "print(1 + 2);"})
	require.NoError(t, err)
	w := postCompile(t, handler, string(body))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result struct {
		ID        string   `json:"id"`
		StageLogs []string `json:"stage_logs"`
		Output    []string `json:"output"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	require.NotEmpty(t, result.ID)
	require.Len(t, result.StageLogs, 16)
	require.Equal(t, []string{"3"}, result.Output)
}

func TestCompileEndpointStageFailure(t *testing.T) {
	handler := newTestServer()

	// A stage failure is still a 200: the error lives in the payload.
	w := postCompile(t, handler, `{"source": "int x = ;"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
		Output []string `json:"output"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	require.Equal(t, "parse error", result.Error.Kind)
	require.Empty(t, result.Output)
}

func TestCompileEndpointValidation(t *testing.T) {
	handler := newTestServer()

	w := postCompile(t, handler, `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "source is required")

	w = postCompile(t, handler, `{"source": `)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "invalid request body")
}

func TestCompilePersistWithoutStore(t *testing.T) {
	handler := newTestServer()

	w := postCompile(t, handler, `{"source": "print(1);", "persist": true}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "persistence is not configured")
}

func TestRunsEndpointsWithoutStore(t *testing.T) {
	handler := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/runs/7f9c24e5-2f33-4db1-a64e-0f2b4e7ff907", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCompileEndpointInstructionLimit(t *testing.T) {
	handler := NewServer(zerolog.Nop(), nil, WithServerMaxInstructions(1000)).Routes()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(map[string]any{
		"source": "for (;;) {}",
	}))
	w := postCompile(t, handler, buf.String())
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Error struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	require.Equal(t, "runtime error", result.Error.Kind)
	require.Equal(t, "instruction limit of 1000 exceeded", result.Error.Message)
}
