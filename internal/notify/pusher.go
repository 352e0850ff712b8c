package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"log"
	"net/http"
	"time"

	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/models"
)

var pushesDispatched = expvar.NewInt("push_dispatched_total")

// Pusher delivers a push request to the remote push endpoint.
type Pusher interface {
	Push(ctx context.Context, req models.PushRequest) error
}

type HTTPPusher struct {
	url    string
	token  string
	client *http.Client
}

func NewHTTPPusher(url, token string) *HTTPPusher {
	return &HTTPPusher{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (p *HTTPPusher) Push(ctx context.Context, req models.PushRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.token)
	}
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errors.New("push endpoint rejected request")
	}
	return nil
}

type noopPusher struct{}

func (noopPusher) Push(context.Context, models.PushRequest) error { return nil }

// NewPusher picks an implementation from config. An empty endpoint disables
// outbound pushes entirely.
func NewPusher(endpoint, token string) Pusher {
	if endpoint == "" {
		return noopPusher{}
	}
	return NewHTTPPusher(endpoint, token)
}

// Dispatch sends a push without letting delivery affect the caller: failures
// are logged and swallowed, and the triggering mutation stays successful.
func Dispatch(ctx context.Context, pusher Pusher, req models.PushRequest) {
	if pusher == nil {
		return
	}
	pushesDispatched.Add(1)
	if err := pusher.Push(ctx, req); err != nil {
		log.Printf("push dispatch error type=%s ticket=%s: %v", req.Type, req.TicketNumber, err)
	}
}
