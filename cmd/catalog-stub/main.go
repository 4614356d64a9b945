package main

import (
	"context"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rishia17/ecommerceweb/pkg/backend"
	"github.com/rishia17/ecommerceweb/pkg/common"
	"github.com/rishia17/ecommerceweb/pkg/config"
	"github.com/rishia17/ecommerceweb/pkg/messaging"
)

var configPath = os.Getenv("CONFIG_FILE")
var jwtSecret = os.Getenv("JWT_SECRET")

type app struct {
	server       *backend.Server
	productsFile string
	conn         *amqp.Connection
}

func (a *app) ConnectAmqp(amqpUrl string) {
	conn, err := amqp.Dial(amqpUrl)
	if err != nil {
		log.Printf("Failed to connect to RabbitMQ: %v", err)
		return
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Printf("Failed to open a channel: %v", err)
		conn.Close()
		return
	}
	defer ch.Close()
	if err = messaging.DefineTopic(ch, messaging.DefaultPrefix, messaging.CatalogChanged); err != nil {
		log.Printf("Failed to define topic: %v", err)
		conn.Close()
		return
	}
	a.conn = conn
	log.Printf("Publishing catalog changes to %s", messaging.CatalogChanged)
}

// Reload reads the products file again and announces the new catalog.
func (a *app) Reload() error {
	products, err := backend.LoadProducts(a.productsFile)
	if err != nil {
		return err
	}
	a.server.SetProducts(products)
	log.Printf("Loaded %d products from %s", len(products), a.productsFile)
	if a.conn != nil {
		change := messaging.CatalogChange{Products: len(products), ChangedAt: time.Now()}
		if err := messaging.SendChange(a.conn, messaging.DefaultPrefix, messaging.CatalogChanged, change); err != nil {
			log.Printf("Failed to send catalog change: %v", err)
		}
	}
	return nil
}

func (a *app) watchReload(ctx context.Context) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		defer signal.Stop(hup)
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if err := a.Reload(); err != nil {
					log.Printf("Failed to reload products: %v", err)
				}
			}
		}
	}()
}

func debugMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

func main() {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	a := &app{
		server:       backend.NewServer(nil, nil),
		productsFile: cfg.Server.ProductsFile,
	}
	if jwtSecret != "" {
		a.server.Authorize = backend.SignedTokenCheck([]byte(jwtSecret))
		log.Println("Verifying signed bearer tokens")
	}
	if cfg.Tracking.RabbitUrl != "" {
		a.ConnectAmqp(cfg.Tracking.RabbitUrl)
	}
	if err = a.Reload(); err != nil {
		log.Fatalf("Could not load products: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.watchReload(ctx)

	mux := a.server.Handler()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	go func() {
		log.Printf("debug server on %s", cfg.Server.DebugAddress)
		if err := http.ListenAndServe(cfg.Server.DebugAddress, debugMux()); err != nil {
			log.Printf("debug server stopped: %v", err)
		}
	}()

	timeouts := common.LoadTimeoutConfig(common.DefaultTimeouts())
	server := common.NewServer(cfg.Server.ListenAddress, mux, timeouts)
	err = common.Serve(ctx, server, "catalog-stub", timeouts, func(ctx context.Context) error {
		if a.conn != nil {
			return a.conn.Close()
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
