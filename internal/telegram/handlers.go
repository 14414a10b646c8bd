package telegram

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Whitenz/next-train-telegram-bot/internal/domain"
	"github.com/Whitenz/next-train-telegram-bot/internal/metrics"
)

// --- Generic helpers ---

func (r *Router) sendText(chatID int64, text string) error {
	_, err := r.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (r *Router) sendHTML(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := r.bot.Send(msg)
	return err
}

func (r *Router) editHTML(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	_, err := r.bot.Send(edit)
	return err
}

func (r *Router) answerCallback(id string) {
	if _, err := r.bot.Request(tgbotapi.NewCallback(id, "")); err != nil {
		r.log.Debug("answer callback failed", zap.Error(err))
	}
}

// metroClosed replies with the closed notice when the metro is not running.
func (r *Router) metroClosed(chatID int64) (bool, error) {
	if !r.opts.Hours.Closed(r.now()) {
		return false, nil
	}
	metrics.MetroClosedReplies.Inc()
	return true, r.sendText(chatID, metroClosedText)
}

func botUser(u *tgbotapi.User) domain.BotUser {
	return domain.BotUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.UserName,
		IsBot:     u.IsBot,
	}
}

// scheduleText looks up the nearest trains and formats them.
func (r *Router) scheduleText(ctx context.Context, fromID, toID int) (string, error) {
	entries, err := r.schedules.SelectSchedule(ctx, fromID, toID)
	if err != nil {
		return "", err
	}
	metrics.ObserveSchedule(len(entries))
	return FormatSchedule(entries, r.stations.Direction(fromID, toID), r.opts.LimitRow), nil
}

// --- Commands ---

func (r *Router) handleStart(ctx context.Context, req *Request) error {
	if req.User == nil {
		return r.handleWrongCommand(ctx, req)
	}
	if err := r.favorites.InsertUser(ctx, botUser(req.User)); err != nil {
		return err
	}
	return r.sendText(req.ChatID, fmt.Sprintf(startFmt, req.User.FirstName)+"\n\n"+helpText)
}

func (r *Router) handleHelp(_ context.Context, req *Request) error {
	return r.sendText(req.ChatID, helpText)
}

func (r *Router) handleWrongCommand(_ context.Context, req *Request) error {
	return r.sendText(req.ChatID, wrongCommandText)
}

func (r *Router) handleSchedule(_ context.Context, req *Request) error {
	if closed, err := r.metroClosed(req.ChatID); closed || err != nil {
		return err
	}
	return r.startDialog(req, cmdSchedule)
}

func (r *Router) handleAddFavorite(ctx context.Context, req *Request) error {
	if req.User == nil {
		return r.handleWrongCommand(ctx, req)
	}
	if err := r.favorites.InsertUser(ctx, botUser(req.User)); err != nil {
		return err
	}
	limited, err := r.favorites.FavoritesLimited(ctx, req.User.ID)
	if err != nil {
		return err
	}
	if limited {
		return r.sendText(req.ChatID, fmt.Sprintf(favoritesLimitFmt, r.opts.LimitFavorites))
	}
	return r.startDialog(req, cmdAddFavorite)
}

func (r *Router) handleFavorites(ctx context.Context, req *Request) error {
	if req.User == nil {
		return r.handleWrongCommand(ctx, req)
	}
	if closed, err := r.metroClosed(req.ChatID); closed || err != nil {
		return err
	}
	favs, err := r.favorites.SelectFavorites(ctx, req.User.ID)
	if err != nil {
		return err
	}
	if len(favs) == 0 {
		return r.sendText(req.ChatID, clearFavoritesText)
	}

	blocks := make([]string, 0, len(favs))
	for _, f := range favs {
		text, err := r.scheduleText(ctx, f.FromStationID, f.ToStationID)
		if err != nil {
			return err
		}
		blocks = append(blocks, text)
	}
	return r.sendHTML(req.ChatID, strings.Join(blocks, "\n\n"))
}

func (r *Router) handleClearFavorites(ctx context.Context, req *Request) error {
	if req.User == nil {
		return r.handleWrongCommand(ctx, req)
	}
	if err := r.favorites.DeleteFavorites(ctx, req.User.ID); err != nil {
		return err
	}
	return r.sendText(req.ChatID, clearFavoritesText)
}

// --- Station dialog ---

// startDialog sends the station keyboard; a previous dialog of the user in the chat is replaced.
func (r *Router) startDialog(req *Request, command string) error {
	msg := tgbotapi.NewMessage(req.ChatID, choiceStationText)
	msg.ReplyMarkup = stationsKeyboard(r.stations.All())
	sent, err := r.bot.Send(msg)
	if err != nil {
		return err
	}
	r.dialogs.put(req.dialogKey(), dialog{
		command:   command,
		stage:     stageChoiceDirection,
		messageID: sent.MessageID,
		updatedAt: r.now(),
	})
	metrics.ActiveDialogs.Set(float64(r.dialogs.len()))
	return nil
}

// handleStation processes a station button in either dialog step.
func (r *Router) handleStation(ctx context.Context, req *Request) error {
	cb := req.Update.CallbackQuery
	r.answerCallback(cb.ID)

	id, err := strconv.Atoi(strings.TrimPrefix(cb.Data, stationPrefix))
	if err != nil || !strings.HasPrefix(cb.Data, stationPrefix) {
		return nil // unknown callback, ignore silently
	}
	if _, ok := r.stations.Name(id); !ok {
		return nil
	}
	dlg, ok := r.dialogs.take(req.dialogKey(), cb.Message.MessageID)
	if !ok {
		return nil // stale keyboard or another user's
	}
	defer func() { metrics.ActiveDialogs.Set(float64(r.dialogs.len())) }()

	if dlg.stage == stageFinal {
		if !r.isDirection(dlg.fromID, id) {
			r.dialogs.put(req.dialogKey(), dlg)
			return nil
		}
		return r.finishDialog(ctx, req, dlg, dlg.fromID, id)
	}
	if toID, ok := r.stations.EndDirection(id); ok {
		return r.finishDialog(ctx, req, dlg, id, toID)
	}

	dlg.stage = stageFinal
	dlg.fromID = id
	dlg.updatedAt = r.now()
	first, last := r.stations.Terminals()
	edit := tgbotapi.NewEditMessageTextAndMarkup(req.ChatID, dlg.messageID, choiceDirectionText, directionKeyboard(first, last))
	if _, err := r.bot.Send(edit); err != nil {
		return err
	}
	r.dialogs.put(req.dialogKey(), dlg)
	return nil
}

// isDirection reports whether toID is a terminal station other than fromID.
func (r *Router) isDirection(fromID, toID int) bool {
	if fromID == toID {
		return false
	}
	first, last := r.stations.Terminals()
	return toID == first.ID || toID == last.ID
}

func (r *Router) finishDialog(ctx context.Context, req *Request, dlg dialog, fromID, toID int) error {
	switch dlg.command {
	case cmdSchedule:
		text, err := r.scheduleText(ctx, fromID, toID)
		if err != nil {
			return err
		}
		return r.editHTML(req.ChatID, dlg.messageID, text)

	case cmdAddFavorite:
		if req.User == nil {
			return nil
		}
		fav, err := r.favorites.InsertFavorite(ctx, req.User.ID, fromID, toID)
		if err != nil {
			return err
		}
		format := addFavoriteFmt
		if fav == nil {
			format = favoriteExistsFmt
		}
		direction := html.EscapeString(r.stations.Direction(fromID, toID))
		return r.editHTML(req.ChatID, dlg.messageID, fmt.Sprintf(format, direction))
	}
	return nil
}
