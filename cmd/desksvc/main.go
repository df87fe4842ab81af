package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	config "github.com/troycsc/desk-services/configs"
	"github.com/troycsc/desk-services/internal/cardsvc/broker"
	"github.com/troycsc/desk-services/internal/cardsvc/handlers"
	"github.com/troycsc/desk-services/internal/cardsvc/service"
	"github.com/troycsc/desk-services/internal/cardsvc/store"
	"github.com/troycsc/desk-services/internal/db"
	"github.com/troycsc/desk-services/internal/nats"
)

const SERVICE_NAME = "desk"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg := config.Load()

	st, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()
	log.Infof("%s store ready", cfg.StoreDriver)

	// NATS is optional, without it the live feed simply stays quiet
	var publisher service.Publisher
	stopHeartbeat := make(chan struct{})
	if cfg.NatsURL != "" {
		n, err := nats.Connect(cfg.NatsURL, cfg.NatsToken, SERVICE_NAME+"_"+instanceId)
		if err != nil {
			log.Fatalf("Error: unable to connect to NATS server %v", err)
		}
		defer n.Conn.Close()
		log.Printf("NATS connection established successfully %s", n.Url)

		b := broker.NewBroker(n.Conn, cfg.NatsSubject)
		go b.Heartbeat(instanceId, 5*time.Second, stopHeartbeat)
		publisher = b
	} else {
		log.Warn("NATS_URL not set, card events will not be published")
	}

	var tokenAuth *jwtauth.JWTAuth
	if cfg.JWTSecret != "" {
		tokenAuth = jwtauth.New("HS256", []byte(cfg.JWTSecret), nil)
	} else {
		log.Warn("JWT_SECRET_KEY not set, staff routes are open")
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS(cfg.CORSOrigins)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	h := handlers.NewHandler(st, publisher, handlers.Options{
		Port:        cfg.DeskPort,
		MaxUploadMB: cfg.MaxUploadMB,
		TokenAuth:   tokenAuth,
	})
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.DeskPort,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	close(stopHeartbeat)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}

func openStore(ctx context.Context, cfg config.Config) (service.Store, func(), error) {
	switch cfg.StoreDriver {
	case "mongo":
		client, database, err := db.ConnectToDB(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureIndexes(ctx, database); err != nil {
			log.Warnf("unable to ensure indexes, run cardctl migrate: %s", err)
		}
		return store.NewMongoStore(database), func() { client.Disconnect(context.Background()) }, nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx, pool); err != nil {
			db.ClosePool()
			return nil, nil, err
		}
		return store.NewPgStore(pool), db.ClosePool, nil
	case "memory":
		return store.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
