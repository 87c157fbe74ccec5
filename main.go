package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"

	"github.com/platterclub/platter/internal/auth"
	"github.com/platterclub/platter/internal/booking"
	"github.com/platterclub/platter/internal/cart"
	"github.com/platterclub/platter/internal/menu"
	"github.com/platterclub/platter/internal/mongo"
	"github.com/platterclub/platter/internal/notify"
	"github.com/platterclub/platter/pkg"
)

const (
	appNamespace = "PLATTER"
	appName      = "platter"
	appVersion   = "0.1.0"
)

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

	baseRepo := mongo.NewBaseRepo(config, logger)
	if err := baseRepo.Start(ctx); err != nil {
		log.Fatalf("%s(%s) cannot start base repository: %v", appName, appVersion, err)
	}

	db := baseRepo.GetDatabase()
	if db == nil {
		log.Fatalf("%s(%s) cannot initialize repository database: %v", appName, appVersion, errors.New("repository database is nil"))
	}

	menuItemRepo := mongo.NewMenuItemRepo(db)
	orderRepo := mongo.NewOrderRepo(db)
	slotRepo := mongo.NewSlotRepo(db)
	userRepo := mongo.NewUserRepo(db)

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	pub, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}

	sub, err := pkg.NewNATSSubscriber(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
	}

	registry := booking.NewSlotRegistry(slotRepo, logger)

	scheduler := booking.NewScheduler(booking.SchedulerDeps{
		OrderRepo: orderRepo,
		Slots:     registry,
		Publisher: pub,
		Mode:      config.GetStringOrDef("booking.mode", booking.ModeSlots),
		Capacity: booking.CapacityPolicy{
			Thresholds: capacityThresholds(config),
			Enforce:    config.GetStringOrDef("booking.capacity.enforce", "false") == "true",
		},
	}, logger)

	secret, _ := config.GetString("auth.jwt.secret")
	if secret == "" {
		log.Fatalf("%s(%s) cannot start: auth.jwt.secret is required", appName, appVersion)
	}
	issuer := auth.NewTokenIssuer(secret, sessionTTL(config))

	cartStore := cart.NewStore(logger)

	mailer := notify.NewHTTPMailer(
		config.GetStringOrDef("mail.endpoint", "https://api.emailjs.com/api/v1.0/email/send"),
		config.GetStringOrDef("mail.service_id", ""),
		config.GetStringOrDef("mail.template_id", ""),
		config.GetStringOrDef("mail.public_key", ""),
	)
	mailSub := notify.NewOrderCreatedSubscriber(sub, mailer, logger)

	menuHandler := menu.NewHandler(menu.HandlerDeps{
		ItemRepo:  menuItemRepo,
		AdminGate: auth.RequireAdmin,
	}, config, logger)

	cartHandler := cart.NewHandler(cart.HandlerDeps{
		Store:    cartStore,
		ItemRepo: menuItemRepo,
	}, config, logger)

	bookingHandler := booking.NewHandler(booking.HandlerDeps{
		Scheduler: scheduler,
		Registry:  registry,
		OrderRepo: orderRepo,
		Carts:     cartStore,
		Capacity:  capacityThresholds(config),
		AdminGate: auth.RequireAdmin,
	}, config, logger)

	authHandler := auth.NewHandler(auth.HandlerDeps{
		UserRepo:     userRepo,
		Issuer:       issuer,
		Carts:        cartStore,
		InternalGate: middleware.InternalOnly(),
		AdminGate:    auth.RequireAdmin,
	}, config, logger)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger: logger,
	})
	stack = append(stack, auth.SessionExtractor(issuer, logger))

	lifecycles := []interface{}{
		apt.LifecycleHooks{OnStop: baseRepo.Stop},
		mailSub,
		apt.LifecycleHooks{OnStop: func(context.Context) error { return pub.Close() }},
		apt.LifecycleHooks{OnStop: func(context.Context) error { return sub.Close() }},
	}
	if config.GetStringOrDef("seeding.menu", "true") == "true" {
		lifecycles = append(lifecycles, apt.LifecycleHooks{
			OnStart: menu.SeedingFunc(appName, baseRepo.GetDatabase, logger),
		})
	}

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", menuHandler, cartHandler, bookingHandler, authHandler),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		_ = baseRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}

func capacityThresholds(config *apt.Config) booking.Thresholds {
	t := booking.DefaultThresholds()
	if v, err := strconv.Atoi(config.GetStringOrDef("booking.capacity.max_orders", "")); err == nil && v > 0 {
		t.MaxOrders = v
	}
	if v, err := strconv.Atoi(config.GetStringOrDef("booking.capacity.max_items", "")); err == nil && v > 0 {
		t.MaxItems = v
	}
	return t
}

func sessionTTL(config *apt.Config) time.Duration {
	ttl, err := time.ParseDuration(config.GetStringOrDef("auth.session.ttl", "12h"))
	if err != nil {
		return 12 * time.Hour
	}
	return ttl
}
