package telegram

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Whitenz/next-train-telegram-bot/internal/metrics"
)

// Request is one incoming update resolved to a chat, a user and a command name.
type Request struct {
	Update  tgbotapi.Update
	ChatID  int64
	User    *tgbotapi.User // nil for anonymous senders
	Command string
}

// UserID returns the sender id or 0.
func (r *Request) UserID() int64 {
	if r.User == nil {
		return 0
	}
	return r.User.ID
}

func (r *Request) dialogKey() dialogKey {
	return dialogKey{chatID: r.ChatID, userID: r.UserID()}
}

// HandlerFunc handles one request.
type HandlerFunc func(ctx context.Context, req *Request) error

// Middleware wraps a handler invocation.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain applies mws around h; the first middleware is the outermost.
func Chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Recover turns a handler panic into an error.
func Recover(log *zap.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) (err error) {
			defer func() {
				if p := recover(); p != nil {
					log.Error("handler panic",
						zap.Any("panic", p),
						zap.ByteString("stack", debug.Stack()),
					)
					err = fmt.Errorf("panic in %s handler: %v", req.Command, p)
				}
			}()
			return next(ctx, req)
		}
	}
}

// Logging writes one structured line per handled update.
func Logging(log *zap.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) error {
			start := time.Now()
			err := next(ctx, req)
			fields := []zap.Field{
				zap.Int64("user_id", req.UserID()),
				zap.Int64("chat_id", req.ChatID),
				zap.String("command", req.Command),
				zap.Duration("took", time.Since(start)),
			}
			if err != nil {
				log.Warn("update failed", append(fields, zap.Error(err))...)
				return err
			}
			log.Info("update handled", fields...)
			return nil
		}
	}
}

// Metrics counts handled updates and their latency.
func Metrics() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) error {
			start := time.Now()
			err := next(ctx, req)
			metrics.ObserveHandler(req.Command, err, time.Since(start))
			return err
		}
	}
}
