package main

import (
	"context"
	"encoding/json"
	"expvar"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/igm/sockjs-go/sockjs"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/config"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/gateway"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/httpapi"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/hub"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/models"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/notify"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/realtime"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/telemetry"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/ticketstore"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/viewcache"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/views"
)

type changeEnvelope struct {
	Table     string              `json:"table"`
	Type      string              `json:"type"`
	Ticket    *models.QueueTicket `json:"ticket,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

func main() {
	cfg := config.Load()
	shutdownTelemetry := telemetry.Setup("queue-agent")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	tickets := ticketstore.New(cfg.TicketFile)
	cache := viewcache.New()
	pusher := notify.NewPusher(cfg.PushEndpoint, cfg.PushToken)
	gw := gateway.New(gateway.NewPGCaller(pool), tickets, cache, pusher)
	remoteViews := views.NewPGViews(pool)

	dispatcher := notify.NewDispatcher(notify.DispatcherOptions{
		Sounder:           notify.NewSounder(cfg.SoundPlayer),
		Vibrator:          notify.NewVibrator(),
		Renderer:          rendererOrNil(cfg.Renderer),
		PageRenderer:      rendererOrNil(cfg.PageRenderer),
		PermissionGranted: cfg.NotifyPermission,
	})

	h := hub.New()

	feed, err := realtime.Listen(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("change feed listen: %v", err)
	}
	sync := realtime.NewSynchronizer(feed, cache, tickets, dispatcher, func(event realtime.ChangeEvent) {
		broadcastChange(h, event)
	})
	sync.Start(context.Background())

	handler := httpapi.NewHandler(gw, remoteViews, cache, tickets)
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		IPPerMinute: cfg.RateLimitPerMinute,
		IPBurst:     cfg.RateLimitBurst,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", expvar.Handler())
	mux.Handle("/realtime/", sockjs.NewHandler("/realtime", sockjs.DefaultOptions, func(session sockjs.Session) {
		serveRealtime(h, session)
	}))
	mux.Handle("/", httpapi.AdminMiddleware(cfg.AdminToken, handler.Routes()))

	otelHandler := otelhttp.NewHandler(httpapi.LoggingMiddleware(limiter.Middleware(mux)), "queue-agent")
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("queue-agent listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sync.Close(ctx); err != nil {
		log.Printf("synchronizer close error: %v", err)
	}
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func rendererOrNil(kind string) notify.Renderer {
	if kind == "" {
		return nil
	}
	return notify.NewRenderer(kind)
}

// broadcastChange republishes a queue event to subscribed dashboards, keyed
// by the assigned barber when the row carries one.
func broadcastChange(h *hub.Hub, event realtime.ChangeEvent) {
	row := event.New
	if row == nil {
		row = event.Old
	}
	env := changeEnvelope{Table: event.Table, Type: event.Type, Ticket: row, CreatedAt: time.Now().UTC()}
	payload, err := json.Marshal(env)
	if err != nil {
		return
	}

	meta := hub.Subscription{}
	if row != nil && row.BarberID != nil {
		meta.BarberID = *row.BarberID
	}
	h.Broadcast(payload, meta)
}

func serveRealtime(h *hub.Hub, session sockjs.Session) {
	client := &hub.Client{ID: uuid.NewString(), Send: make(chan []byte, 16)}
	h.Register(client)
	defer h.Unregister(client)

	go func() {
		for msg := range client.Send {
			_ = session.Send(string(msg))
		}
	}()

	for {
		msg, err := session.Recv()
		if err != nil {
			return
		}
		parsed, ok := hub.ParseSubscribe([]byte(msg))
		if !ok {
			continue
		}
		if parsed.Action == "unsubscribe" {
			h.UpdateSubscription(client, hub.Subscription{})
			continue
		}
		h.UpdateSubscription(client, hub.Subscription{BarberID: parsed.BarberID})
	}
}
