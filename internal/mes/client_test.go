package mes

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

func TestClient_MaterialSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/MESMaterialSearch", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req searchRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "5210", req.Plant)
		assert.Equal(t, "000000000001234567", req.Material)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"materialDescription":"X","0012":{"VUL":{"R18-H06":{"GESME":149}}}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "5210", 2*time.Second)
	raw, err := client.MaterialSearch(context.Background(), "000000000001234567")
	require.NoError(t, err)

	var snap LocationSnapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, "X", snap.MaterialDescription)
	assert.Len(t, snap.Reshape(), 1)
}

func TestClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "5210", 2*time.Second)
	_, err := client.MaterialSearch(context.Background(), "123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_Unreachable(t *testing.T) {
	// Server started and immediately closed: the port refuses connections.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, "5210", 2*time.Second)
	_, err := client.MaterialSearch(context.Background(), "123")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "5210", 50*time.Millisecond)
	_, err := client.MaterialSearch(context.Background(), "123")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_CallerCancellationIsNotTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	client := NewClient(srv.URL, "5210", 5*time.Second)
	_, err := client.MaterialSearch(ctx, "123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>not json</html>`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "5210", 2*time.Second)
	_, err := client.MaterialSearch(context.Background(), "123")

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}
