package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/bus-seating/internal/config"
	"github.com/iliyamo/bus-seating/internal/database"
	"github.com/iliyamo/bus-seating/internal/handler"
	"github.com/iliyamo/bus-seating/internal/presets"
	"github.com/iliyamo/bus-seating/internal/queue"
	"github.com/iliyamo/bus-seating/internal/repository"
	"github.com/iliyamo/bus-seating/internal/repository/memory"
	"github.com/iliyamo/bus-seating/internal/router"
	"github.com/iliyamo/bus-seating/internal/service"
	"github.com/iliyamo/bus-seating/internal/service/ports"
)

// stores bundles the persistence ports for one driver.
type stores struct {
	templates   ports.TemplateStore
	configs     ports.BusConfigStore
	assignments ports.AssignmentStore
	tokens      ports.ClaimTokenStore
	directory   ports.ParticipantDirectory
	db          *sql.DB
}

func openStores(cfg config.Config) (*stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		m := memory.New()
		return &stores{
			templates:   m,
			configs:     m.Configs(),
			assignments: m.Assignments(),
			tokens:      m,
			directory:   m,
		}, nil
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &stores{
		templates:   repository.NewTemplateRepo(db),
		configs:     repository.NewBusConfigRepo(db),
		assignments: repository.NewAssignmentRepo(db),
		tokens:      repository.NewClaimTokenRepo(db),
		directory:   repository.NewParticipantRepo(db),
		db:          db,
	}, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("failed to read .env: %v", err)
	}
	cfg := config.Load()
	log.SetLevel(cfg.LogLevel)

	logger := service.NewLogger()
	logger.SetLevel(cfg.LogLevel)

	st, err := openStores(cfg)
	if err != nil {
		log.Fatalf("open %s store: %v", cfg.StoreDriver, err)
	}
	if st.db != nil {
		defer st.db.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		notifier  ports.SeatNotifier
		publisher *queue.Publisher
	)
	if cfg.EventsEnabled {
		publisher = queue.NewPublisher(cfg.RabbitURL)
		notifier = publisher
		consumer := &queue.Consumer{URL: cfg.RabbitURL, LogDir: cfg.EventLogDir}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Errorf("seat-consumer stopped: %v", err)
			}
		}()
	}

	templates := service.NewTemplateService(st.templates, st.configs, logger)
	configs := service.NewBusConfigService(st.configs, st.templates, logger)
	ledger := service.NewLedgerService(st.configs, st.assignments, st.directory, notifier, logger)
	claims := service.NewClaimService(st.tokens, st.configs, st.assignments, notifier, logger)

	types, err := presets.Load(cfg.PresetsFile)
	if err != nil {
		log.Fatalf("load presets: %v", err)
	}
	added, err := templates.SeedPresets(ctx, types)
	if err != nil {
		log.Fatalf("seed presets: %v", err)
	}
	if added > 0 {
		log.Infof("seeded %d bus type presets", added)
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	var ping func(context.Context) error
	if st.db != nil {
		ping = st.db.PingContext
	}
	router.RegisterRoutes(e, ping)
	router.RegisterPublic(e, handler.NewClaimHandler(claims), cfg, rdb)
	router.RegisterStaff(e, handler.NewStaffHandler(templates, configs, ledger), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Infof("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreDriver)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	if publisher != nil {
		if err := publisher.Close(shutdownCtx); err != nil {
			log.Errorf("seat events: %v", err)
		}
	}
}
