package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Whitenz/next-train-telegram-bot/internal/config"
	"github.com/Whitenz/next-train-telegram-bot/internal/metrics"
	"github.com/Whitenz/next-train-telegram-bot/internal/scheduler"
	"github.com/Whitenz/next-train-telegram-bot/internal/stations"
	"github.com/Whitenz/next-train-telegram-bot/internal/store"
	"github.com/Whitenz/next-train-telegram-bot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	db      *store.DB
	router  *telegram.Router
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	return &App{cfg: cfg, log: log, bot: bot}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting next-train-bot",
		zap.String("bot", a.bot.Self.UserName),
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("tz", a.cfg.TZ),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.Migrate(a.cfg.DatabaseURL); err != nil {
		a.log.Error("migrate failed", zap.Error(err))
		return err
	}
	db, err := store.Open(ctx, a.cfg.DatabaseURL)
	if err != nil {
		a.log.Error("open database failed", zap.Error(err))
		return err
	}
	a.db = db
	defer func() {
		if err := a.db.Close(); err != nil {
			a.log.Warn("close database failed", zap.Error(err))
		}
	}()
	a.log.Info("database ready", zap.String("driver", db.Driver()))

	cache := stations.New(store.NewStationRepo(db))
	if err := cache.Refresh(ctx); err != nil {
		a.log.Error("load stations failed", zap.Error(err))
		return err
	}

	schedules := store.NewScheduleRepo(db, store.ScheduleOptions{
		MaxWait:  a.cfg.MaxWait,
		Limit:    a.cfg.LimitRow,
		Location: a.cfg.Location(),
	})
	favorites := store.NewFavoriteRepo(db, a.cfg.LimitFavorites)
	a.router = telegram.NewRouter(a.bot, a.log, schedules, favorites, cache, telegram.Options{
		Hours:          a.cfg.Hours(),
		Location:       a.cfg.Location(),
		LimitRow:       a.cfg.LimitRow,
		LimitFavorites: a.cfg.LimitFavorites,
		DialogTimeout:  a.cfg.ConversationTimeout,
		DeveloperID:    a.cfg.DeveloperID,
	})
	if err := a.router.RegisterCommands(); err != nil {
		a.log.Warn("set bot commands failed", zap.Error(err))
	}

	a.httpSrv = &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      newHTTPHandler(db),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
			return err
		}
		return nil
	})
	g.Go(func() error {
		scheduler.New(a.router, a.log).Run(gctx)
		return nil
	})
	g.Go(func() error {
		a.collectPoolStats(gctx)
		return nil
	})
	g.Go(func() error {
		return a.poll(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutdown signal received")

		// Create a short-lived shutdown context and cancel it immediately after use.
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := a.httpSrv.Shutdown(shCtx)
		cancel()

		if err != nil {
			a.log.Warn("http server shutdown error", zap.Error(err))
		}
		a.bot.StopReceivingUpdates()
		return nil
	})
	return g.Wait()
}

// poll reads updates and handles each one in its own goroutine, at most
// cfg.Workers at a time. In-flight updates finish before poll returns.
func (a *App) poll(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	var workers errgroup.Group
	workers.SetLimit(a.cfg.Workers)
	defer func() { _ = workers.Wait() }()

	handlerCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case upd, ok := <-updCh:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("telegram updates channel closed")
			}
			workers.Go(func() error {
				a.router.HandleUpdate(handlerCtx, upd)
				return nil
			})
		}
	}
}

func (a *App) collectPoolStats(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		metrics.UpdateDBPoolMetrics(a.db.Stats())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
