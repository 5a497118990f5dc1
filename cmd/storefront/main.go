package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Cheertaboi/restaurant-storefront/internal/api"
	"github.com/Cheertaboi/restaurant-storefront/internal/api/middleware"
	"github.com/Cheertaboi/restaurant-storefront/internal/cache"
	"github.com/Cheertaboi/restaurant-storefront/internal/config"
	"github.com/Cheertaboi/restaurant-storefront/internal/coupon"
	"github.com/Cheertaboi/restaurant-storefront/internal/geocode"
	"github.com/Cheertaboi/restaurant-storefront/internal/models"
	"github.com/Cheertaboi/restaurant-storefront/internal/notify"
	"github.com/Cheertaboi/restaurant-storefront/internal/repository"
	"github.com/Cheertaboi/restaurant-storefront/internal/service"
	"github.com/Cheertaboi/restaurant-storefront/pkg/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// load DB config from env
	dbCfg, err := db.LoadPostgresConfig()
	if err != nil {
		log.Fatalf("db config: %v", err)
	}

	conn, err := db.NewPostgresConnection(dbCfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer conn.Close()

	schemaCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureSchema(schemaCtx, conn); err != nil {
		cancel()
		log.Fatalf("db schema: %v", err)
	}
	cancel()

	var publisher notify.Publisher = notify.LogPublisher{}
	if url := cfg.RabbitMQURL(); url != "" {
		log.Printf("connecting to RabbitMQ at %s", cfg.RabbitMQHost)
		rp, err := notify.NewRabbitPublisher(url, cfg.EmailQueue)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer rp.Close()
		publisher = rp
	} else {
		log.Println("RABBITMQ_HOST not set; status emails will only be logged")
	}

	couponStore := repository.NewCouponRepo(conn, repository.NewUsageRepo(conn))
	geocoder := geocode.NewCached(
		geocode.New(cfg.GeocoderURL, cfg.GeocoderUserAgent, &http.Client{Timeout: 8 * time.Second}),
		cache.NewTTLCache[models.Coordinate](cfg.GeocodeCacheTTL),
	)

	handler := api.NewRouter(api.Services{
		Coupons:  service.NewCouponService(couponStore, coupon.NewEvaluator(time.Now, cfg.Location)),
		Delivery: service.NewDeliveryService(cfg.Store, geocoder),
		Orders:   service.NewOrderService(publisher, time.Now),
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Mount("/", handler)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("starting storefront on %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("listen: %s\n", err)
	}

	<-idleConnsClosed
	log.Println("server stopped")
}
