package main

import (
	"context"
	"embed"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"
	apttemplate "github.com/appetiteclub/apt/template"

	"github.com/appetiteclub/checkout/internal/checkout"
	"github.com/appetiteclub/checkout/internal/events"
)

//go:embed assets
var assetsFS embed.FS

const (
	appNamespace = "CHECKOUT"
	appName      = "checkout"
	appVersion   = "0.1.0"
)

const modalCleanupInterval = 5 * time.Minute

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	tmplMgr := apttemplate.NewManager(assetsFS, apttemplate.WithLogger(logger))

	deps := checkout.HandlerDeps{
		Renderer: checkout.NewTemplateRenderer(tmplMgr),
	}

	lifecycles := []interface{}{tmplMgr}

	if config.GetStringOrDef("nats.enabled", "false") == "true" {
		natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")
		pub, err := events.NewNATSPublisher(natsURL, appName)
		if err != nil {
			log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
		}
		deps.Publisher = pub

		lifecycles = append(lifecycles, apt.LifecycleHooks{
			OnStop: func(context.Context) error {
				return pub.Close()
			},
		})
	}

	handler, err := checkout.NewHandler(deps, config, logger)
	if err != nil {
		log.Fatalf("%s(%s) cannot initialize checkout handler: %v", appName, appVersion, err)
	}

	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	defer cancelCleanup()

	lifecycles = append(lifecycles, apt.LifecycleHooks{
		OnStart: func(context.Context) error {
			handler.Store().StartCleanup(cleanupCtx, modalCleanupInterval, func(count int) {
				logger.Debug("expired checkout modals removed", "count", count)
			})
			return nil
		},
		OnStop: func(context.Context) error {
			cancelCleanup()
			return nil
		},
	})

	// Public-facing: served to customers' browsers.
	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: false,
	})

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
