package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"

	"dispatch-service/internal/logging"
	"dispatch-service/internal/models"
)

// Messenger sends pages and answers button presses via the go-telegram/bot
// library. It is the only write path to the messaging provider.
type Messenger struct {
	bot     *bot.Bot
	limiter *rate.Limiter
	logger  *logging.Logger
}

// NewMessenger initializes the bot once for the process lifetime.
// ratePerSecond caps outbound messages across all recipients.
func NewMessenger(token string, ratePerSecond int, logger *logging.Logger) (*Messenger, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	return &Messenger{
		bot:     b,
		limiter: rate.NewLimiter(rate.Limit(float64(ratePerSecond)), ratePerSecond),
		logger:  logger,
	}, nil
}

// Send delivers one message to a chat. When actions is non-nil the message
// carries the two inline response buttons. Returns the provider message id.
func (m *Messenger) Send(ctx context.Context, chatID int64, text string, actions *models.PageActions) (string, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("telegram rate limit wait failed: %w", err)
	}

	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "Markdown",
	}
	if actions != nil {
		params.ReplyMarkup = tgmodels.InlineKeyboardMarkup{
			InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
				{
					{Text: "I am available", CallbackData: actions.ConfirmData},
					{Text: "Not available", CallbackData: actions.DeclineData},
				},
			},
		}
	}

	msg, err := m.bot.SendMessage(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to send Telegram message to chat_id %d: %w", chatID, err)
	}
	m.logger.Debugf("Sent message %d to chat_id %d", msg.ID, chatID)
	return strconv.Itoa(msg.ID), nil
}

// AnswerCallback acknowledges a button press so the provider stops showing
// the loading state and does not retry the callback.
func (m *Messenger) AnswerCallback(ctx context.Context, callbackID, text string) error {
	ok, err := m.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		return fmt.Errorf("failed to answer callback %s: %w", callbackID, err)
	}
	if !ok {
		return fmt.Errorf("provider rejected callback answer %s", callbackID)
	}
	return nil
}
