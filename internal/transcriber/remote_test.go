package transcriber

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voxtype/voxtype/internal/config"
)

func TestRemoteTranscriberPrepareSucceedsOnReachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rt := NewRemoteTranscriber(config.RemoteConfig{Endpoint: srv.URL, Timeout: time.Second})
	require.NoError(t, rt.Prepare(context.Background(), ""))
}

func TestRemoteTranscriberPrepareFailsWithoutEndpoint(t *testing.T) {
	rt := NewRemoteTranscriber(config.RemoteConfig{Timeout: time.Second})
	require.Error(t, rt.Prepare(context.Background(), ""))
}

func TestRemoteTranscriberTranscribeReturnsBodyOnSuccess(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	t.Setenv("VOXTYPE_TEST_API_KEY", "secret123")
	rt := NewRemoteTranscriber(config.RemoteConfig{
		Endpoint: srv.URL,
		APIKey:   "VOXTYPE_TEST_API_KEY",
		Timeout:  time.Second,
	})

	text, err := rt.Transcribe(context.Background(), []float32{0.1, 0.2, 0.3}, Options{})
	require.NoError(t, err)
	require.Equal(t, "hello world", text)
	require.Equal(t, "Bearer secret123", gotAuth)
	require.Equal(t, "audio/wav", gotContentType)
}

func TestRemoteTranscriberTranscribeRejectsEmptyAudio(t *testing.T) {
	rt := NewRemoteTranscriber(config.RemoteConfig{Endpoint: "http://example.invalid", Timeout: time.Second})
	_, err := rt.Transcribe(context.Background(), nil, Options{})
	require.Error(t, err)
}

func TestRemoteTranscriberTranscribeReturnsErrorOnNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	rt := NewRemoteTranscriber(config.RemoteConfig{Endpoint: srv.URL, Timeout: time.Second})
	_, err := rt.Transcribe(context.Background(), []float32{0.1}, Options{})
	require.Error(t, err)
	require.ErrorContains(t, err, "500")
}

func TestRemoteTranscriberTranscribeTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte("too slow"))
	}))
	defer srv.Close()

	rt := NewRemoteTranscriber(config.RemoteConfig{Endpoint: srv.URL, Timeout: 10 * time.Millisecond})
	_, err := rt.Transcribe(context.Background(), []float32{0.1}, Options{})
	require.ErrorIs(t, err, ErrRemoteTimeout)
}

func TestRemoteTranscriberCancelAbortsInFlightRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte("late"))
	}))
	defer srv.Close()
	defer close(release)

	rt := NewRemoteTranscriber(config.RemoteConfig{Endpoint: srv.URL, Timeout: time.Second})

	errCh := make(chan error, 1)
	go func() {
		_, err := rt.Transcribe(context.Background(), []float32{0.1}, Options{})
		errCh <- err
	}()

	require.Eventually(t, func() bool {
		return rt.Cancel() == nil
	}, time.Second, 5*time.Millisecond)
	rt.Cancel()

	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("transcribe did not return after cancel")
	}
}
