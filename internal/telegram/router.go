package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Whitenz/next-train-telegram-bot/internal/domain"
	"github.com/Whitenz/next-train-telegram-bot/internal/metrics"
	"github.com/Whitenz/next-train-telegram-bot/internal/stations"
	"github.com/Whitenz/next-train-telegram-bot/internal/store"
)

// Sender is the part of *tgbotapi.BotAPI the router needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Options configure the router. Zero values fall back to defaults.
type Options struct {
	Hours          domain.Hours
	Location       *time.Location   // default time.Local
	LimitRow       int              // default 2
	LimitFavorites int              // default 2, used in the limit notice only
	DialogTimeout  time.Duration    // default 3m
	DeveloperID    int64            // chat receiving handler errors, 0 disables
	Now            func() time.Time // default time.Now
}

// Router wires Telegram updates to handlers and holds the in-memory dialog state.
type Router struct {
	bot       Sender
	log       *zap.Logger
	schedules store.Schedules
	favorites store.Favorites
	stations  *stations.Cache
	opts      Options
	dialogs   *dialogs
	chain     []Middleware
}

// NewRouter creates a new Telegram router. The station cache must be loaded.
func NewRouter(bot Sender, log *zap.Logger, schedules store.Schedules, favorites store.Favorites, st *stations.Cache, opts Options) *Router {
	if opts.Hours == (domain.Hours{}) {
		opts.Hours = domain.DefaultHours
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.LimitRow <= 0 {
		opts.LimitRow = 2
	}
	if opts.LimitFavorites <= 0 {
		opts.LimitFavorites = 2
	}
	if opts.DialogTimeout <= 0 {
		opts.DialogTimeout = 3 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Router{
		bot:       bot,
		log:       log,
		schedules: schedules,
		favorites: favorites,
		stations:  st,
		opts:      opts,
		dialogs:   newDialogs(),
		chain:     []Middleware{Logging(log), Metrics(), Recover(log)},
	}
}

func (r *Router) now() time.Time { return r.opts.Now().In(r.opts.Location) }

// RegisterCommands publishes the command menu.
func (r *Router) RegisterCommands() error {
	_, err := r.bot.Request(tgbotapi.NewSetMyCommands(botCommands()...))
	return err
}

// HandleUpdate routes a single update through the middleware chain to its handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	req, h := r.route(upd)
	if h == nil {
		return
	}
	if err := Chain(h, r.chain...)(ctx, req); err != nil {
		r.reportError(req, err)
	}
}

func (r *Router) route(upd tgbotapi.Update) (*Request, HandlerFunc) {
	// Text messages
	if msg := upd.Message; msg != nil {
		req := &Request{Update: upd, ChatID: msg.Chat.ID, User: msg.From, Command: "text"}
		if !msg.IsCommand() {
			return req, r.handleWrongCommand
		}
		req.Command = msg.Command()
		switch req.Command {
		case cmdStart:
			return req, r.handleStart
		case cmdHelp:
			return req, r.handleHelp
		case cmdSchedule:
			return req, r.handleSchedule
		case cmdFavorites:
			return req, r.handleFavorites
		case cmdAddFavorite:
			return req, r.handleAddFavorite
		case cmdClearFavorites:
			return req, r.handleClearFavorites
		default:
			return req, r.handleWrongCommand
		}
	}

	// Callback queries (inline buttons)
	if cb := upd.CallbackQuery; cb != nil && cb.Message != nil {
		return &Request{Update: upd, ChatID: cb.Message.Chat.ID, User: cb.From, Command: "station"}, r.handleStation
	}
	return nil, nil
}

// reportError tells the user something failed and forwards the error to the developer chat.
func (r *Router) reportError(req *Request, err error) {
	r.log.Error("handler error",
		zap.String("command", req.Command),
		zap.Int64("chat_id", req.ChatID),
		zap.Error(err),
	)
	if _, sendErr := r.bot.Send(tgbotapi.NewMessage(req.ChatID, failureText)); sendErr != nil {
		r.log.Warn("send failure notice failed", zap.Error(sendErr))
	}
	if r.opts.DeveloperID == 0 {
		return
	}
	text := fmt.Sprintf("update %d, user %d, /%s: %v", req.Update.UpdateID, req.UserID(), req.Command, err)
	if _, sendErr := r.bot.Send(tgbotapi.NewMessage(r.opts.DeveloperID, text)); sendErr != nil {
		r.log.Warn("notify developer failed", zap.Error(sendErr))
	}
}

// ExpireDialogs closes dialogs idle for longer than the dialog timeout and
// replaces their keyboards with the timeout notice. Returns how many were closed.
func (r *Router) ExpireDialogs(now time.Time) int {
	expired := r.dialogs.expire(now.Add(-r.opts.DialogTimeout))
	for key, dlg := range expired {
		edit := tgbotapi.NewEditMessageText(key.chatID, dlg.messageID, dialogTimeoutText)
		if _, err := r.bot.Send(edit); err != nil {
			r.log.Warn("edit timed out dialog failed", zap.Int64("chat_id", key.chatID), zap.Error(err))
		}
	}
	metrics.DialogTimeouts.Add(float64(len(expired)))
	metrics.ActiveDialogs.Set(float64(r.dialogs.len()))
	return len(expired)
}
