package main

import (
	"fmt"
	"io"
	"log"
	"net/http"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rishia17/ecommerceweb/pkg/cache"
	"github.com/rishia17/ecommerceweb/pkg/cart"
	"github.com/rishia17/ecommerceweb/pkg/catalog"
	"github.com/rishia17/ecommerceweb/pkg/config"
	"github.com/rishia17/ecommerceweb/pkg/controller"
	"github.com/rishia17/ecommerceweb/pkg/filter"
	"github.com/rishia17/ecommerceweb/pkg/session"
	"github.com/rishia17/ecommerceweb/pkg/tracking"
	"github.com/rishia17/ecommerceweb/pkg/types"
)

type app struct {
	cfg     *config.Config
	session *session.Context
	ctrl    *controller.Controller
	closers []io.Closer
}

func newApp(cfg *config.Config) (*app, error) {
	sess, err := session.FromToken(cfg.Catalog.Token)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, session: sess}
	client := &http.Client{Timeout: cfg.Catalog.Timeout}

	var lists filter.ListCache
	if cfg.Cache.RedisUrl != "" {
		redisCache := cache.NewListCache(cfg.Cache.RedisUrl, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.Cache.TTL)
		a.closers = append(a.closers, redisCache)
		lists = redisCache
		log.Printf("Using redis list cache at %s", cfg.Cache.RedisUrl)
	}

	opts := []controller.Option{
		controller.WithCart(cart.NewDispatcher(cfg.Catalog.Url, sess, client)),
	}
	if cfg.Tracking.RabbitUrl != "" {
		tracker, err := tracking.NewRabbitTracking(cfg.Tracking.RabbitUrl, cfg.Tracking.Country)
		if err != nil {
			log.Printf("Failed to connect to rabbitmq for tracking: %v", err)
		} else {
			a.closers = append(a.closers, tracker)
			opts = append(opts, controller.WithTracking(tracker))
		}
	}

	nav := filter.NavigatorFunc(func(query string) {
		log.Printf("location ?%s", query)
	})
	store := filter.NewStore(sess.Role(), lists, nav)
	a.ctrl = controller.New(sess.User(), store, catalog.NewFetcher(cfg.Catalog.Url, sess, client), opts...)
	return a, nil
}

func (a *app) dialRabbit() (*amqp.Connection, error) {
	if a.cfg.Tracking.RabbitUrl == "" {
		return nil, fmt.Errorf("RABBIT_URL is required")
	}
	conn, err := amqp.Dial(a.cfg.Tracking.RabbitUrl)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, conn)
	return conn, nil
}

func (a *app) user() types.UserContext {
	return a.session.User()
}

// Close releases connections in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			log.Printf("close: %v", err)
		}
	}
}
