package telegram

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Whitenz/next-train-telegram-bot/internal/domain"
)

// Bot commands.
const (
	cmdStart          = "start"
	cmdHelp           = "help"
	cmdSchedule       = "schedule"
	cmdFavorites      = "favorites"
	cmdAddFavorite    = "add_favorite"
	cmdClearFavorites = "clear_favorites"
)

// UI texts in Russian
const (
	startFmt = "Привет %s!\n" +
		"Бот знает расписание движения поездов в метро Екатеринбурга."
	helpText = "Команда /schedule показывает время до ближайших поездов. Для этого нужно" +
		" выбрать свою станцию, а затем направление движения поезда.\n\n" +
		"Команда /favorites показывает время до ближайших поездов на избранных" +
		" маршрутах (не более двух).\n\n" +
		"Команда /add_favorite и /clear_favorites добавляет выбранный маршрут в" +
		" список избранных маршрутов и очищает его соответственно. Добавить можно" +
		" не более двух маршрутов."
	metroClosedText = "Метрополитен закрыт. Часы работы с 06:00 до 00:00.\n" +
		"Расписание будет доступно с 05:30."
	clearFavoritesText = "Список избранных маршрутов очищен.\n" +
		"Чтобы добавить маршрут в избранное воспользуйтесь командой /add_favorite"

	addFavoriteFmt      = "Маршрут \"<b>%s</b>\" добавлен в избранное."
	favoriteExistsFmt   = "Маршрут \"<b>%s</b>\" уже есть в избранном."
	favoritesLimitFmt   = "У вас уже добавлено %d маршрута в избранное и это максимум."
	wrongCommandText    = "Некорректная команда."
	choiceStationText   = "Выберите станцию отправления:"
	choiceDirectionText = "Выберите конечную станцию направления:"
	dialogTimeoutText   = "Время для выбора станций вышло."
	failureText         = "Что-то пошло не так. Попробуйте позже."

	directionFmt    = "<b>%s:</b>\n\n"
	closestTrainFmt = "ближайший поезд через %s (мин:с)"
	nextTrainFmt    = "следующий через %s (мин:с)"
	lastTrainFmt    = "последний поезд через %s (мин:с)"
	noTrainsText    = "По расписанию поездов сегодня больше нет."
)

// botCommands is the menu registered with setMyCommands.
func botCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: cmdSchedule, Description: "Время до ближайших поездов"},
		{Command: cmdFavorites, Description: "Поезда на избранных маршрутах"},
		{Command: cmdAddFavorite, Description: "Добавить маршрут в избранное"},
		{Command: cmdClearFavorites, Description: "Очистить избранное"},
		{Command: cmdHelp, Description: "Справка"},
	}
}

// stationPrefix marks callback data carrying a station id, e.g. "st:5".
const stationPrefix = "st:"

func stationData(id int) string { return stationPrefix + strconv.Itoa(id) }

// stationsKeyboard lists every station, one per row.
func stationsKeyboard(list []domain.Station) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(list))
	for _, s := range list {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(s.Name, stationData(s.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// directionKeyboard offers the two terminal stations in one row.
func directionKeyboard(first, last domain.Station) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(first.Name, stationData(first.ID)),
			tgbotapi.NewInlineKeyboardButtonData(last.Name, stationData(last.ID)),
		),
	)
}
