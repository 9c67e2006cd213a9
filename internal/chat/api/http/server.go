package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cantina-chat/internal/chat/api/http/handle"
	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/app/intent"
	"cantina-chat/internal/chat/app/services"
	"cantina-chat/internal/xpkg/config"
	"cantina-chat/internal/xpkg/logger"

	xdb "cantina-chat/internal/xpkg/db"

	brokermessage "cantina-chat/internal/chat/adapter/broker_message"
	database "cantina-chat/internal/chat/adapter/db"
	"cantina-chat/internal/chat/adapter/llm"
	"cantina-chat/internal/chat/adapter/memory"
)

var ErrServerClosed = errors.New("Server closed")

type Server struct {
	mux        *http.ServeMux
	cfg        *config.Config
	srv        *http.Server
	chatParams *core.ChatParams
	mylog      logger.Logger
	db         core.IDB
	mb         *brokermessage.RabbitMQ
	repos      services.Repositories
	ctx        context.Context
	appCtx     context.Context
	mu         sync.Mutex
	wg         sync.WaitGroup
}

func NewServer(ctx, appCtx context.Context, cfg *config.Config, chatParams *core.ChatParams, mylog logger.Logger) *Server {
	return &Server{
		ctx:        ctx,
		appCtx:     appCtx,
		cfg:        cfg,
		chatParams: chatParams,
		mylog:      mylog,
		mux:        http.NewServeMux(),
	}
}

// Run initializes stores, routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	if err := s.initializeStore(); err != nil {
		mylog.Action("store_init_failed").Error("Failed to initialize store", err, "store", s.chatParams.Store)
		return err
	}
	mylog.Action("store_ready").Info("Store initialized", "store", s.chatParams.Store)

	// The broker is optional. Without it finalized orders are only stored.
	if s.cfg.RMQ != nil {
		if err := s.initializeRabbitMQ(); err != nil {
			mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
			return err
		}
		mylog.Action("mb_connected").Info("Successful message broker connection")
	}

	if err := s.Configure(); err != nil {
		return err
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.chatParams.Port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Unlock()

	mylog.WithGroup("details").With("port", s.chatParams.Port, "store", s.chatParams.Store).Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, core.WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}
	s.wg.Wait()

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		s.mylog.Action("mb_closed").Info("Message broker closed")
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Action("db_close_failed").Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Action("db_closed").Info("Database closed")
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) initializeStore() error {
	switch s.chatParams.Store {
	case core.StoreMemory:
		catalog, err := memory.CatalogFromConfig(s.cfg.Menu)
		if err != nil {
			return fmt.Errorf("load menu: %w", err)
		}
		open := memory.NewOpenOrders()
		s.repos = services.Repositories{
			Catalog:   catalog,
			Open:      open,
			Finalized: memory.NewFinalizedOrders(open),
			Messages:  memory.NewMessages(),
		}
		return nil
	case core.StorePostgres:
		return s.initializeDatabase()
	default:
		return fmt.Errorf("unknown store %q", s.chatParams.Store)
	}
}

func (s *Server) initializeDatabase() error {
	db, err := xdb.Start(s.appCtx, s.cfg.DB, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db

	ctx, cancel := context.WithTimeout(s.appCtx, core.WaitTime*time.Second)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	items, err := memory.ItemsFromConfig(s.cfg.Menu)
	if err != nil {
		return fmt.Errorf("load menu: %w", err)
	}
	catalog := database.NewCatalogRepo(db)
	seeded, err := catalog.Seed(ctx, items)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	s.mylog.Action("catalog_seeded").Info("Catalog seeded", "inserted", seeded, "configured", len(items))

	s.repos = services.Repositories{
		Catalog:   catalog,
		Open:      database.NewOpenOrderRepo(db),
		Finalized: database.NewFinalizedOrderRepo(db),
		Messages:  database.NewMessageRepo(db),
	}
	return nil
}

func (s *Server) initializeRabbitMQ() error {
	mb, err := brokermessage.New(s.appCtx, s.cfg.RMQ, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	return nil
}

// Configure wires services and registers the chat, menu, order history and health routes.
func (s *Server) Configure() error {
	loc, err := time.LoadLocation(s.cfg.Chat.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", s.cfg.Chat.Timezone, err)
	}

	var publisher core.IOrderPublisher
	if s.mb != nil {
		publisher = s.mb
	}

	var generator core.IGenerator
	gemini, err := llm.NewGemini(s.appCtx, s.cfg.GenAI)
	switch {
	case err == nil:
		generator = gemini
	case errors.Is(err, core.ErrGeneratorDisabled):
		s.mylog.Action("generator_disabled").Info("No generator configured, using the fixed fallback reply")
	default:
		return err
	}

	systemPrompt := config.DefaultSystemPrompt
	if s.cfg.GenAI != nil {
		systemPrompt = s.cfg.GenAI.SystemPrompt
	}

	engine := services.NewOrderEngine(s.repos.Open, s.repos.Finalized, publisher, s.cfg.Chat.InitialStatus, s.mylog)
	assistant := services.NewAssistant(
		intent.NewClassifier(intent.DefaultRules()),
		engine,
		services.NewPresenter(loc),
		generator,
		systemPrompt,
		s.mylog,
	)
	chatService := services.NewChatService(s.repos, assistant, s.cfg.Chat.RecentTurns, s.cfg.Chat.HistoryLimit, s.mylog)

	chatHandler := handle.NewChatHandler(chatService, s.mylog)
	orderHandler := handle.NewOrderHandler(chatService, s.mylog)

	var alive func() error
	if s.db != nil {
		alive = s.db.IsAlive
	}

	s.mux.Handle("POST /chat", chatHandler.Send())
	s.mux.Handle("GET /chat/history", chatHandler.History())
	s.mux.Handle("DELETE /chat/history", chatHandler.ClearHistory())
	s.mux.Handle("GET /menu", orderHandler.Menu())
	s.mux.Handle("GET /orders/history", orderHandler.History())
	s.mux.Handle("GET /health", handle.Health(s.chatParams.Store, alive))
	return nil
}
