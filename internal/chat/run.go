package chat

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"cantina-chat/internal/chat/api/http"
	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/xpkg/config"
	xerrors "cantina-chat/internal/xpkg/errors"
	"cantina-chat/internal/xpkg/logger"
)

type params struct {
	chatParams *core.ChatParams
	configPath string
	cfg        *config.Config
}

// Execute starts the chat service.
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params, err := parseParams(args)
	if err != nil {
		if errors.Is(err, xerrors.ErrHelp) {
			return err
		}
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return err
	}
	if err = validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}
	mylog.Action("command_validation_completed").Info("Successfully validate params", "store", params.chatParams.Store)

	server := http.NewServer(newCtx, context.Background(), params.cfg, params.chatParams, mylog)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return server.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Action("chat_service_failed").Error("Server failed unexpectedly", err)
			_ = server.Stop(context.Background())
			return err
		}
		mylog.Action("server_stopped").Info("Server exited normally")
		return server.Stop(context.Background())
	}
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("chat-service", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")

	port := fs.Int("port", 3000, "Port to run the chat service")
	store := fs.String("store", core.StorePostgres, "Storage backend: postgres or memory")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, xerrors.ErrHelp
		}
		return nil, xerrors.ErrParseCmd
	}

	if *showHelp {
		fs.Usage()
		return nil, xerrors.ErrHelp
	}

	return &params{
		chatParams: &core.ChatParams{
			Port:  *port,
			Store: *store,
		},
		configPath: *configPath,
	}, nil
}

func validateParams(params *params) error {
	chatParams := params.chatParams
	if chatParams.Port <= 0 || chatParams.Port >= 65536 {
		return fmt.Errorf("port must be in [1: 65,535]: %d", chatParams.Port)
	}

	switch chatParams.Store {
	case core.StorePostgres, core.StoreMemory:
	default:
		return fmt.Errorf("store must be %q or %q: %q", core.StorePostgres, core.StoreMemory, chatParams.Store)
	}

	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	if chatParams.Store == core.StorePostgres && cfg.DB == nil {
		return fmt.Errorf("store %q needs a database section in %s", core.StorePostgres, params.configPath)
	}
	params.cfg = cfg
	return nil
}
