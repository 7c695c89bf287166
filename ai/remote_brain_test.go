package ai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-splendor/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func remoteServer(t *testing.T, handler http.HandlerFunc) *RemoteBrain {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRemoteBrain(srv.URL, time.Second, nil)
}

func TestRemoteBrainUsesServiceAnswer(t *testing.T) {
	var got remoteRequest
	b := remoteServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": map[string]interface{}{"type": "pass"},
		})
	})

	s := newGame(t, 2, 5)
	a, err := b.Decide(s, "ai_0")
	require.NoError(t, err)
	assert.Equal(t, engine.Pass("ai_0"), a)
	assert.Equal(t, "ai_0", got.PlayerID)
	assert.NotEmpty(t, got.LegalActions)
	assert.Equal(t, s.Seed, got.GameState.Seed)
}

func TestRemoteBrainFallsBack(t *testing.T) {
	s := newGame(t, 2, 5)
	want, err := NewRuleBrain().Decide(s, "ai_0")
	require.NoError(t, err)

	handlers := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"no result": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		},
		"illegal action": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result":{"type":"take_resources","tokens":{"Gold":1}}}`))
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		},
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			a, err := remoteServer(t, h).Decide(s, "ai_0")
			require.NoError(t, err)
			assert.Equal(t, want, a)
		})
	}
}

func TestRemoteBrainUnreachable(t *testing.T) {
	b := NewRemoteBrain("http://127.0.0.1:1/decide", 100*time.Millisecond, nil)
	s := newGame(t, 2, 5)
	a, err := b.Decide(s, "ai_0")
	require.NoError(t, err)
	assert.NoError(t, engine.Validate(s, a))

	_, err = b.Decide(s, "ai_1")
	assert.ErrorIs(t, err, ErrNotActor)
}
