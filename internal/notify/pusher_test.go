package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/models"
)

func TestHTTPPusherSendsPayload(t *testing.T) {
	var got models.PushRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode error: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	pusher := NewHTTPPusher(server.URL, "secret")
	err := pusher.Push(context.Background(), models.PushRequest{
		Type:         models.PushTypeNewClient,
		CustomerName: "Carlos",
		TicketNumber: "B-001",
	})
	if err != nil {
		t.Fatalf("push error: %v", err)
	}
	if got.Type != models.PushTypeNewClient || got.CustomerName != "Carlos" || got.TicketNumber != "B-001" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if auth != "Bearer secret" {
		t.Fatalf("unexpected auth header: %q", auth)
	}
}

func TestHTTPPusherRejectsNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	pusher := NewHTTPPusher(server.URL, "")
	if err := pusher.Push(context.Background(), models.PushRequest{Type: models.PushTypeTransfer}); err == nil {
		t.Fatalf("expected error for 502 response")
	}
}

type failPusher struct{ calls int }

func (p *failPusher) Push(context.Context, models.PushRequest) error {
	p.calls++
	return context.DeadlineExceeded
}

func TestDispatchSwallowsErrors(t *testing.T) {
	pusher := &failPusher{}
	Dispatch(context.Background(), pusher, models.PushRequest{Type: models.PushTypeNewClient})
	if pusher.calls != 1 {
		t.Fatalf("expected one push attempt, got %d", pusher.calls)
	}
	// nil pusher is a no-op
	Dispatch(context.Background(), nil, models.PushRequest{})
}

func TestNewPusherDisabledWithoutEndpoint(t *testing.T) {
	if _, ok := NewPusher("", "").(noopPusher); !ok {
		t.Fatalf("expected noop pusher for empty endpoint")
	}
	if _, ok := NewPusher("http://push.local/send", "").(*HTTPPusher); !ok {
		t.Fatalf("expected HTTP pusher for configured endpoint")
	}
}
