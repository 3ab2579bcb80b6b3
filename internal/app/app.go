package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/twmb/franz-go/pkg/sr"

	"github.com/greencart/ecostore/config"
	"github.com/greencart/ecostore/internal/adapter/httphandler"
	"github.com/greencart/ecostore/internal/adapter/kafka"
	"github.com/greencart/ecostore/internal/adapter/ranker"
	"github.com/greencart/ecostore/internal/adapter/storage"
	"github.com/greencart/ecostore/internal/core/port"
	"github.com/greencart/ecostore/internal/core/service"
	"github.com/greencart/ecostore/pkg/schema"
)

type serdes struct {
	viewEvent schema.Serde
}

type repositories struct {
	db       storage.SQLDB
	products storage.ProductsRepository
	users    storage.UsersRepository
	activity storage.ActivityRepository
}

type analytics struct {
	viewsProducer kafka.ViewEventsProducer
	countProc     *kafka.ViewCountProcessor
	countView     *kafka.ViewCountView
}

type services struct {
	catalog     port.Catalog
	activity    port.Activity
	users       port.Users
	recommender port.Recommender
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	serdes     serdes
	repos      repositories
	analytics  analytics
	services   services
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initSerdes()
	app.initAnalytics()
	app.initServices()
	app.initHTTPServer()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	db, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}

	app.repos.db = db
	app.repos.products = storage.NewProductsRepository(db)
	app.repos.users = storage.NewUsersRepository(db)
	app.repos.activity = storage.NewActivityRepository(db)
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"

	srClient, err := sr.NewClient(
		sr.URLs(app.cfg.Broker.SchemaRegistryURLs...),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	viewEventSubject := app.cfg.Broker.Topics.ClientEvents + "-value"
	viewEventSerde, err := schema.NewSerdeViewEventV1(
		app.ctx,
		schema.SubjectOpt(viewEventSubject),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serdes.viewEvent = viewEventSerde
}

func (app *App) initAnalytics() {
	const op = "App.initAnalytics"

	seedBrokers := app.cfg.Broker.SeedBrokers
	eventsTopic := app.cfg.Broker.Topics.ClientEvents
	countGroup := app.cfg.Broker.Consumers.ViewCountGroup

	viewsProducer, err := kafka.NewViewEventsProducer(
		kafka.ProducerClientOpt(app.ctx, seedBrokers, eventsTopic),
		kafka.ProducerEncoderOpt(app.serdes.viewEvent),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	countProc, err := kafka.NewViewCountProc(
		seedBrokers, eventsTopic, countGroup, app.serdes.viewEvent,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	countView, err := kafka.NewViewCountView(
		seedBrokers, countGroup+"-table",
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.analytics.viewsProducer = viewsProducer
	app.analytics.countProc = countProc
	app.analytics.countView = countView
}

func (app *App) initServices() {
	catalog := service.NewCatalog(app.repos.products, app.analytics.countView)
	activity := service.NewActivity(
		app.repos.activity, catalog, app.analytics.viewsProducer,
	)
	users := service.NewUsers(app.repos.users)
	recommender := service.NewRecommender(
		catalog,
		app.repos.users,
		app.repos.activity,
		app.makeRanker(),
		app.cfg.Ranker.PoolSize,
	)

	app.services.catalog = catalog
	app.services.activity = activity
	app.services.users = users
	app.services.recommender = recommender
}

func (app *App) makeRanker() port.Ranker {
	if app.cfg.Ranker.Mode == "process" {
		return ranker.NewProcessRanker(
			app.cfg.Ranker.Command, app.cfg.Ranker.Args...,
		)
	}
	return ranker.NewBuiltinRanker()
}

func (app *App) initHTTPServer() {
	mux := http.NewServeMux()
	ident := httphandler.NewIdentity(app.services.users)

	httphandler.RegisterUsers(mux, app.services.users, ident)
	httphandler.RegisterProducts(mux, app.services.catalog)
	httphandler.RegisterActivity(mux, app.services.activity, ident)
	httphandler.RegisterRecommendations(mux, app.services.recommender, ident)

	handler := httphandler.AllowContent(mux)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc, wg *sync.WaitGroup) {
	wg.Add(1)
	app.analytics.countProc.Run(app.ctx, stopFn, wg)
	go app.analytics.countView.Run(app.ctx)
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.analytics.viewsProducer.Close()
	app.analytics.countProc.Close()
	app.repos.db.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
