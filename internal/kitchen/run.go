package kitchen

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"cantina-chat/internal/kitchen/adapter/consumer"
	"cantina-chat/internal/kitchen/app/core"
	"cantina-chat/internal/xpkg/config"
	xerrors "cantina-chat/internal/xpkg/errors"
	"cantina-chat/internal/xpkg/logger"
)

type params struct {
	subscriberParams *core.SubscriberParams
	configPath       string
	cfg              *config.Config
}

// Execute starts the kitchen subscriber.
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
	mylog.Action("command_parse_completed").Debug("Received params", "prefetch", params.subscriberParams.Prefetch,
		"workers", params.subscriberParams.Workers, "config_path", params.configPath)

	if err := validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}
	mylog.Action("command_validation_completed").Info("Successfully validate params")

	kitchen := consumer.NewKitchen(newCtx, context.Background(), params.cfg, params.subscriberParams, mylog)

	runErr := kitchen.Run()
	if runErr != nil {
		mylog.Action("consumer_failed").Error("Error running consumer", runErr)
	}
	if err := kitchen.Stop(); err != nil {
		return err
	}
	return runErr
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("kitchen-subscriber", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")

	prefetch := fs.Int("prefetch", 10, "RabbitMQ prefetch count")
	workers := fs.Int("workers", 4, "Orders processed concurrently")

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
		subscriberParams: &core.SubscriberParams{
			Prefetch: *prefetch,
			Workers:  *workers,
		},
		configPath: *configPath,
	}, nil
}

func validateParams(params *params) error {
	sp := params.subscriberParams
	if sp.Prefetch <= 0 {
		return fmt.Errorf("prefetch must be positive: %d", sp.Prefetch)
	}
	if sp.Workers <= 0 {
		return fmt.Errorf("workers must be positive: %d", sp.Workers)
	}

	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	if cfg.DB == nil {
		return fmt.Errorf("kitchen needs a database section in %s", params.configPath)
	}
	if cfg.RMQ == nil {
		return fmt.Errorf("kitchen needs a rabbitmq section in %s", params.configPath)
	}
	params.cfg = cfg
	return nil
}
