package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackURL(t *testing.T) {
	t.Run("Plain Key", func(t *testing.T) {
		assert.Equal(t,
			"http://localhost:8000/async_image_upload/presignedurl/test/key/",
			CallbackURL("http://localhost:8000", "test/key"))
	})

	t.Run("Trailing Slash On Base", func(t *testing.T) {
		assert.Equal(t,
			"https://api.example.com/async_image_upload/presignedurl/test/key/",
			CallbackURL("https://api.example.com/", "test/key"))
	})

	t.Run("Escaped Segments", func(t *testing.T) {
		assert.Equal(t,
			"http://localhost:8000/async_image_upload/presignedurl/photos/my%20photo%3F.jpg/",
			CallbackURL("http://localhost:8000", "photos/my photo?.jpg"))
	})
}

func TestCallbackNotifierPut(t *testing.T) {
	t.Run("Sends JSON And Returns Response", func(t *testing.T) {
		var received CallbackPayload
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "/async_image_upload/presignedurl/test/key/", r.URL.Path)
			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.NoError(t, json.Unmarshal(body, &received))
			_, _ = w.Write([]byte(`{"message": "ok"}`))
		}))
		defer srv.Close()

		notifier := NewCallbackNotifier(srv.Client())
		status, body, err := notifier.Put(context.Background(), CallbackURL(srv.URL, "test/key"), CallbackPayload{
			Bucket:     "example-bucket",
			Key:        "test/key",
			Thumbnails: []string{"image/test/key/small.jpg"},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"message": "ok"}`, string(body))
		assert.Equal(t, CallbackPayload{
			Bucket:     "example-bucket",
			Key:        "test/key",
			Thumbnails: []string{"image/test/key/small.jpg"},
		}, received)
	})

	t.Run("Non 2xx Is Not An Error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail": "Not found."}`))
		}))
		defer srv.Close()

		status, body, err := NewCallbackNotifier(srv.Client()).Put(context.Background(), srv.URL, map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, status)
		assert.JSONEq(t, `{"detail": "Not found."}`, string(body))
	})

	t.Run("Transport Error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		_, _, err := NewCallbackNotifier(nil).Put(context.Background(), url, map[string]string{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "callback request to "+url+" failed")
	})

	t.Run("Unmarshalable Body", func(t *testing.T) {
		_, _, err := NewCallbackNotifier(nil).Put(context.Background(), "http://localhost:8000", make(chan int))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to marshal callback body")
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := NewCallbackNotifier(srv.Client()).Put(ctx, srv.URL, map[string]string{})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
