package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/hotelfinder/config"
	"github.com/meghashyamc/hotelfinder/db/kvdb"
	"github.com/meghashyamc/hotelfinder/db/searchdb"
	"github.com/meghashyamc/hotelfinder/logger"
	"github.com/meghashyamc/hotelfinder/metrics"
	"github.com/meghashyamc/hotelfinder/mq"
	"github.com/meghashyamc/hotelfinder/services/catalog"
	"github.com/meghashyamc/hotelfinder/services/index"
	"github.com/meghashyamc/hotelfinder/services/listener"
	"github.com/meghashyamc/hotelfinder/services/search"
	"github.com/meghashyamc/hotelfinder/validation"
	"golang.org/x/sync/errgroup"
)

// eventBus carries catalog change events from the admin side to the listener.
type eventBus interface {
	mq.Publisher
	mq.Subscriber
	Close() error
}

type server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	kvdb       kvdb.DB
	searchdb   searchdb.DB
	bus        eventBus
	validator  *validation.Validator
	metrics    *metrics.SearchMetrics
	search     *search.Service
	catalog    *catalog.Service
	index      *index.Service
	listener   *listener.Listener
	logger     logger.Logger
}

// Run serves the HTTP API and applies change events until ctx is cancelled or the process
// receives an interrupt.
func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)

	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(cfg.GetLogLevel()),
	}
	if err := s.setupDependencies(ctx); err != nil {
		s.close()
		return err
	}
	defer s.close()

	s.setupRouter()
	s.setupHTTPServer()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		s.logger.Info("starting http server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "err", err.Error())
			return err
		}
		return nil
	})

	group.Go(func() error {
		events, err := s.bus.Subscribe(groupCtx)
		if err != nil {
			return err
		}
		return s.listener.Run(groupCtx, events)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		return s.shutdown()
	})

	return group.Wait()
}

func (s *server) setupDependencies(ctx context.Context) error {
	var err error
	s.kvdb, err = kvdb.New(s.logger, s.cfg.GetCatalogPath())
	if err != nil {
		s.logger.Error("error creating kvDB", "err", err.Error())
		return err
	}
	s.searchdb, err = searchdb.New(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating searchDB", "err", err.Error())
		return err
	}
	s.bus, err = s.newEventBus()
	if err != nil {
		s.logger.Error("error creating event bus", "err", err.Error())
		return err
	}
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}

	s.metrics = metrics.NewSearchMetrics(s.cfg.GetServiceName())
	s.search = search.New(s.logger, s.searchdb, s.metrics, search.Options{
		BoostWeight:    s.cfg.GetBoostWeight(),
		FacetSize:      s.cfg.GetFacetSize(),
		SuggestionSize: s.cfg.GetSuggestionSize(),
	})
	s.catalog = catalog.New(s.logger, s.kvdb, s.bus)
	s.index = index.New(ctx, s.logger, s.searchdb, s.catalog, s.kvdb)
	s.listener = listener.New(s.logger, s.catalog, s.searchdb, s.metrics, s.cfg.GetListenerWorkers())

	return nil

}

// newEventBus uses redis when an address is configured and an in-process bus otherwise.
func (s *server) newEventBus() (eventBus, error) {
	addr := s.cfg.GetRedisAddr()
	if addr == "" {
		s.logger.Info("no redis address configured, change events stay in-process")
		return mq.NewLocalBus(s.logger, 0), nil
	}

	return mq.NewRedisBus(s.logger, mq.RedisConfig{
		Addr:          addr,
		Password:      s.cfg.GetRedisPassword(),
		DB:            s.cfg.GetRedisDB(),
		InsertChannel: s.cfg.GetInsertChannel(),
		DeleteChannel: s.cfg.GetDeleteChannel(),
	})
}

func (s *server) setupRouter() {
	router := newRouter()

	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(s.logger))

	setupRoutes(router, s)

	s.router = router
}

func (s *server) setupHTTPServer() {

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}
}

func (s *server) shutdown() error {
	s.logger.Info("starting to shut down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.GetShutdownTimeoutSec())*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error shutting down http server", "err", err.Error())
		return err
	}
	s.logger.Info("shut down http server successfully")
	return nil
}

// close releases the process-scoped handles in reverse order of acquisition.
func (s *server) close() {
	if s.bus != nil {
		if err := s.bus.Close(); err != nil {
			s.logger.Error("error closing event bus", "err", err.Error())
		}
	}
	if s.searchdb != nil {
		s.searchdb.Close()
	}
	if s.kvdb != nil {
		if err := s.kvdb.Close(); err != nil {
			s.logger.Error("error closing kvDB", "err", err.Error())
		}
	}
}
