package notifier

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lootradar/logger"
	"lootradar/pkg/errors"
)

// TelegramNotifier implements Notifier over the Telegram Bot API
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *logger.Logger
}

// NewTelegramNotifier authorizes the bot and returns a notifier bound to
// one chat.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.NewConfiguration("failed to authorize telegram bot", err)
	}
	bot.Debug = false

	log := logger.ForNotifier()
	log.Info().Str("username", bot.Self.UserName).Msg("Telegram bot authorized")

	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		log:    log,
	}, nil
}

// Send delivers one HTML-formatted message. Link previews are disabled;
// the product link rides on an inline button instead.
func (t *TelegramNotifier) Send(text, link string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if link != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("Open deal", link),
			),
		)
	}

	if _, err := t.bot.Send(msg); err != nil {
		return errors.NewNotification("telegram", "failed to send message", err)
	}
	return nil
}

// Close is a no-op; the bot client holds no persistent connection
func (t *TelegramNotifier) Close() error {
	return nil
}
