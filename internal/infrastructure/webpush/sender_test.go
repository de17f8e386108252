package webpush

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/go-badge-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSubscription builds a subscription with real client keys so the payload
// encryption step succeeds.
func newSubscription(t *testing.T, endpoint string) domain.PushSubscription {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)
	return domain.PushSubscription{
		SubscriptionID: "sub-1",
		UserID:         "u1",
		Endpoint:       endpoint,
		P256dh:         base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		Auth:           base64.RawURLEncoding.EncodeToString(auth),
		IsActive:       true,
	}
}

func newTestSender(t *testing.T) *Sender {
	t.Helper()
	priv, pub, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)
	return NewSender(Options{
		VAPIDPublicKey:  pub,
		VAPIDPrivateKey: priv,
		Subscriber:      "mailto:test@example.com",
		TTLSeconds:      60,
	})
}

func pushServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "aes128gcm", r.Header.Get("Content-Encoding"))
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSend_Created(t *testing.T) {
	srv := pushServer(t, http.StatusCreated)
	err := newTestSender(t).Send(context.Background(), newSubscription(t, srv.URL), []byte(`{"title":"hi"}`))
	assert.NoError(t, err)
}

func TestSend_Gone(t *testing.T) {
	for _, status := range []int{http.StatusGone, http.StatusNotFound} {
		srv := pushServer(t, status)
		err := newTestSender(t).Send(context.Background(), newSubscription(t, srv.URL), []byte(`{}`))
		assert.ErrorIs(t, err, domain.ErrSubscriptionGone, "status %d", status)
	}
}

func TestSend_ServerErrorIsTransient(t *testing.T) {
	srv := pushServer(t, http.StatusServiceUnavailable)
	err := newTestSender(t).Send(context.Background(), newSubscription(t, srv.URL), []byte(`{}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSubscriptionGone)
	assert.Contains(t, err.Error(), "503")
}

func TestSend_ContextDeadline(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := newTestSender(t).Send(ctx, newSubscription(t, srv.URL), []byte(`{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, domain.ErrSubscriptionGone)
}
