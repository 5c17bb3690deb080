package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/AbdulWasayUl/go-weather-bot/internal/api"
	"github.com/AbdulWasayUl/go-weather-bot/internal/logger"
	"github.com/AbdulWasayUl/go-weather-bot/models"
	"github.com/AbdulWasayUl/go-weather-bot/services/weather"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	pkgerrors "github.com/pkg/errors"
)

// Sender is the slice of *tgbotapi.BotAPI the handlers need.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type WeatherLookup interface {
	Lookup(ctx context.Context, q weather.Query) (weather.Reading, error)
}

type History interface {
	Enabled() bool
	Record(ctx context.Context, l models.Lookup)
	Recent(ctx context.Context, chatID int64) ([]models.Lookup, error)
}

// Submitter queues work; *workpool.WorkerPool satisfies it.
type Submitter interface {
	Submit(ctx context.Context, job models.Job) error
}

type Bot struct {
	api     Sender
	weather WeatherLookup
	history History
}

func New(sender Sender, lookup WeatherLookup, history History) *Bot {
	return &Bot{
		api:     sender,
		weather: lookup,
		history: history,
	}
}

// Run hands every update to the pool until ctx is cancelled or updates closes.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update, pool Submitter) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			err := pool.Submit(ctx, models.Job{
				Service: "bot",
				Run: func(ctx context.Context) error {
					return b.HandleUpdate(ctx, update)
				},
			})
			if err != nil {
				logger.Warn("Dropping update %d: %v", update.UpdateID, err)
				return
			}
		}
	}
}

// HandleUpdate routes one inbound update. Returned errors are delivery
// failures only; lookup failures are answered in-chat and logged here.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return nil
	}
	chatID := msg.Chat.ID

	switch {
	case msg.IsCommand():
		return b.handleCommand(ctx, msg)
	case msg.Location != nil:
		return b.respond(ctx, chatID, weather.CoordinatesQuery(msg.Location.Latitude, msg.Location.Longitude))
	case msg.Text != "":
		return b.handleText(ctx, msg)
	}
	return nil
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		reply := tgbotapi.NewMessage(chatID, welcomeText)
		keyboard := tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonLocation(locationButtonText)),
		)
		keyboard.ResizeKeyboard = true
		reply.ReplyMarkup = keyboard
		return b.send(reply)
	case "help":
		return b.send(tgbotapi.NewMessage(chatID, usageText))
	case "weather":
		city := strings.Join(strings.Fields(msg.CommandArguments()), " ")
		if city == "" {
			return b.send(tgbotapi.NewMessage(chatID, weatherUsageText))
		}
		return b.respond(ctx, chatID, weather.CityQuery(city))
	case "history":
		return b.handleHistory(ctx, chatID)
	}
	return nil
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) error {
	city := strings.TrimSpace(msg.Text)
	if city == "" {
		return nil
	}
	if !LooksLikeCity(city) {
		logger.Debug("[bot] ignoring freeform text in chat %d", msg.Chat.ID)
		return b.send(tgbotapi.NewMessage(msg.Chat.ID, notCityText))
	}
	return b.respond(ctx, msg.Chat.ID, weather.CityQuery(strings.Join(strings.Fields(city), " ")))
}

func (b *Bot) handleHistory(ctx context.Context, chatID int64) error {
	if b.history == nil || !b.history.Enabled() {
		return b.send(tgbotapi.NewMessage(chatID, historyDisabledText))
	}
	lookups, err := b.history.Recent(ctx, chatID)
	if err != nil {
		logger.Exception(err, "[bot] failed to load history for chat %d", chatID)
		return b.send(tgbotapi.NewMessage(chatID, genericText))
	}
	return b.send(tgbotapi.NewMessage(chatID, historyText(lookups)))
}

// respond is the single lookup pipeline: placeholder, fetch, format, edit.
func (b *Bot) respond(ctx context.Context, chatID int64, q weather.Query) error {
	placeholder, err := b.api.Send(tgbotapi.NewMessage(chatID, searchingText(q)))
	if err != nil {
		return pkgerrors.Wrap(err, "failed to send placeholder")
	}

	record := models.Lookup{ChatID: chatID, Kind: string(q.Kind), Query: q.String()}

	var edit tgbotapi.EditMessageTextConfig
	reading, err := b.weather.Lookup(ctx, q)
	if err != nil {
		logger.Exception(err, "[bot] lookup failed for %s %q", q.Kind, q.String())
		var text string
		record.Outcome, text = classify(err)
		edit = tgbotapi.NewEditMessageText(chatID, placeholder.MessageID, text)
	} else {
		record.Outcome = models.OutcomeOK
		record.Location = reading.LocationName
		edit = tgbotapi.NewEditMessageText(chatID, placeholder.MessageID, weather.Format(reading))
		edit.ParseMode = tgbotapi.ModeHTML
	}

	if b.history != nil {
		b.history.Record(ctx, record)
	}

	if _, err := b.api.Send(edit); err != nil {
		return pkgerrors.Wrap(err, "failed to edit reply")
	}
	return nil
}

// classify maps a lookup failure onto one of the two user-facing messages.
func classify(err error) (models.Outcome, string) {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		return models.OutcomeNotFound, notFoundText
	}
	return models.OutcomeError, genericText
}

func (b *Bot) send(c tgbotapi.Chattable) error {
	if _, err := b.api.Send(c); err != nil {
		return pkgerrors.Wrap(err, "failed to send message")
	}
	return nil
}
