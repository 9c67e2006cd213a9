package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"cantina-chat/internal/chat"
	"cantina-chat/internal/kitchen"
	xerrors "cantina-chat/internal/xpkg/errors"
	"cantina-chat/internal/xpkg/logger"
)

func main() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "INFO"
	}
	mylogger, err := logger.New(level)
	if err != nil {
		log.Fatalf("log error: %v", err)
	}
	defer mylogger.Sync()

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.String("mode", "", "service to run: chat-service | kitchen-subscriber")

	mode, remainingArgs := splitMode(os.Args[1:])
	if mode == "" {
		mylogger.Action("cantina_failed").Error("Failed to start cantina", xerrors.ErrModeFlag)
		help(fs)
		os.Exit(2)
	}

	ctx := context.Background()
	switch mode {
	case "chat-service", "cs":
		l := mylogger.With("service", "chat-service")
		l.Action("chat_service_started").Info("Successfully started")
		if err := chat.Execute(ctx, l, remainingArgs); err != nil {
			if errors.Is(err, xerrors.ErrHelp) {
				return
			}
			l.Action("chat_service_failed").Error("Error in chat-service", err)
			mylogger.Sync()
			log.Fatalf("failed to execute chat-service: %s", err)
		}
		l.Action("chat_service_completed").Info("Successfully completed")

	case "kitchen-subscriber", "ks":
		l := mylogger.With("service", "kitchen-subscriber")
		l.Action("kitchen_subscriber_started").Info("Successfully started")
		if err := kitchen.Execute(ctx, l, remainingArgs); err != nil {
			if errors.Is(err, xerrors.ErrHelp) {
				return
			}
			l.Action("kitchen_subscriber_failed").Error("Error in kitchen-subscriber", err)
			mylogger.Sync()
			log.Fatalf("failed to execute kitchen-subscriber: %s", err)
		}
		l.Action("kitchen_subscriber_completed").Info("Successfully completed")

	default:
		mylogger.Action("cantina_failed").Error("Failed to start cantina", xerrors.ErrUnknownService, "mode", mode)
		help(fs)
		os.Exit(2)
	}
}

// splitMode pulls --mode out of args in either --mode=x or --mode x form and returns the rest
// for the selected service.
func splitMode(args []string) (string, []string) {
	var (
		mode string
		rest []string
	)
	for i := 0; i < len(args); i++ {
		arg := strings.TrimPrefix(args[i], "-")
		switch {
		case strings.HasPrefix(arg, "-mode="), strings.HasPrefix(arg, "mode="):
			mode = arg[strings.Index(arg, "=")+1:]
		case (arg == "-mode" || arg == "mode") && i+1 < len(args):
			mode = args[i+1]
			i++
		default:
			rest = append(rest, args[i])
		}
	}
	return mode, rest
}

func help(fs *flag.FlagSet) {
	fmt.Println("\nUsage:")
	fs.PrintDefaults()
	fmt.Println("\nModes:")
	fmt.Println("  chat-service (cs)        --port=3000 --store=postgres|memory --config-path=config.yaml")
	fmt.Println("  kitchen-subscriber (ks)  --prefetch=10 --workers=4 --config-path=config.yaml")
	fmt.Println("\nExample:")
	fmt.Println("  ./cantina-chat --mode=chat-service --store=memory --port=3000")
}
