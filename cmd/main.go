package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/app"
	"github.com/daniillazarev2301/belbird-checkout-service/internal/config"
	"github.com/daniillazarev2301/belbird-checkout-service/internal/delivery"
	"github.com/daniillazarev2301/belbird-checkout-service/internal/events"
	"github.com/daniillazarev2301/belbird-checkout-service/internal/handler"
	"github.com/daniillazarev2301/belbird-checkout-service/internal/payment"
	"github.com/daniillazarev2301/belbird-checkout-service/internal/postgres"
	"github.com/daniillazarev2301/belbird-checkout-service/internal/repo"
	"github.com/daniillazarev2301/belbird-checkout-service/internal/service"
	"github.com/daniillazarev2301/belbird-checkout-service/pkg/cache"
	"github.com/daniillazarev2301/belbird-checkout-service/pkg/trm"

	"github.com/joho/godotenv"
)

// @title           Checkout Service API
// @version         1.0
// @description     Оформление заказов: промокоды, баллы, оплата
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	panicIfErr("failed to run migrations", postgres.RunMigrations(db, conf.Postgres))

	storeRepo := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)
	promoCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)

	paymentClient := payment.NewClient(logger, conf.Payment)
	deliveryClient := delivery.NewClient(conf.Delivery)
	publisher := events.NewPublisher(logger, conf.Kafka)

	promoService := service.NewPromoService(logger, storeRepo, promoCache)
	checkoutService := service.NewCheckoutService(logger, txManager, storeRepo, paymentClient, publisher, promoService)
	ordersService := service.NewOrdersService(logger, storeRepo)

	httpHandler := handler.NewHTTPHandler(logger, checkoutService, promoService, ordersService, deliveryClient)
	handler.RegisterMetrics()

	app := app.New(logger, conf)

	app.SetHTTPHandlers(httpHandler)
	app.SetStarters(promoCache, promoWarmUpAdapter{svc: promoService, count: conf.Cache.Capacity})
	app.SetClosers(publisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", app.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}

type warmUpper interface {
	WarmUpCache(ctx context.Context, count int) error
}

type promoWarmUpAdapter struct {
	svc   warmUpper
	count int
}

func (a promoWarmUpAdapter) Start(ctx context.Context) error {
	return a.svc.WarmUpCache(ctx, a.count)
}
