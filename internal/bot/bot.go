package bot

import (
	"log"
	"strings"
	"sync"

	"video-gen-bot/internal/config"
	"video-gen-bot/internal/jobs"
	"video-gen-bot/internal/pricing"
	"video-gen-bot/internal/storage"
	"video-gen-bot/internal/wizard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	cfg       *config.Config
	localizer *i18n.Localizer
	db        *storage.Storage
	sessions  *wizard.Manager
	jobs      *jobs.Manager
	tariffs   pricing.Tariffs
	userLocks sync.Map
}

func New(cfg *config.Config, localizer *i18n.Localizer, db *storage.Storage, sessions *wizard.Manager, jobManager *jobs.Manager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}

	api.Debug = cfg.Debug
	log.Printf("Authorized on account %s", api.Self.UserName)

	bot := &Bot{
		api:       api,
		cfg:       cfg,
		localizer: localizer,
		db:        db,
		sessions:  sessions,
		jobs:      jobManager,
		tariffs:   pricing.New(cfg.Tariffs),
		userLocks: sync.Map{},
	}

	if err := bot.setCommands(); err != nil {
		log.Printf("Warning: Failed to set bot commands: %v", err)
	}

	return bot, nil
}

func (b *Bot) setCommands() error {
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Запустить бота"},
		{Command: "menu", Description: "Главное меню"},
		{Command: "balance", Description: "Показать баланс"},
		{Command: "cancel", Description: "Отменить текущее действие"},
	}
	config := tgbotapi.NewSetMyCommands(commands...)
	_, err := b.api.Request(config)
	return err
}

func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		go func(upd tgbotapi.Update) {
			var userID int64

			if upd.CallbackQuery != nil {
				userID = upd.CallbackQuery.From.ID
			} else if upd.Message != nil {
				userID = upd.Message.From.ID
			} else {
				return
			}

			mu, _ := b.userLocks.LoadOrStore(userID, &sync.Mutex{})
			userMutex := mu.(*sync.Mutex)
			userMutex.Lock()
			defer userMutex.Unlock()

			if err := b.db.CreateUser(userID); err != nil {
				log.Printf("FATAL: Could not get or create user %d: %v", userID, err)
				if upd.Message != nil {
					b.sendErrorMessage(upd.Message.Chat.ID, "internal_error")
				}
				return
			}

			if upd.CallbackQuery != nil {
				b.handleCallbackQuery(upd.CallbackQuery)
				return
			}

			b.handleMessage(upd.Message)
		}(update)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID

	if message.IsCommand() {
		b.handleCommand(message)
		return
	}

	if ok, err := b.isSubscribed(userID); err != nil || !ok {
		b.sendSubscribePrompt(chatID)
		return
	}

	session, ok := b.sessions.Get(userID)
	if !ok {
		return
	}

	switch {
	case session.Sora != nil:
		b.handleSoraMessage(message, session.Sora)
	case session.Veo != nil:
		b.handleVeoMessage(message, session.Veo)
	}
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStartCommand(message)
	case "menu":
		b.handleMenuCommand(message)
	case "balance":
		b.handleBalanceCommand(message.From.ID, message.Chat.ID)
	case "cancel":
		b.handleCancelCommand(message)
	default:
		log.Printf("Received an unknown command: %s", message.Command())
	}
}

func (b *Bot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	if callback.Data == "check_sub" {
		b.handleCheckSubscription(callback)
		return
	}

	ack := tgbotapi.NewCallback(callback.ID, "")
	if _, err := b.api.Request(ack); err != nil {
		log.Printf("Failed to acknowledge callback query: %v", err)
	}

	if ok, err := b.isSubscribed(userID); err != nil || !ok {
		b.sendSubscribePrompt(chatID)
		return
	}

	switch callback.Data {
	case "back_to_main":
		b.sessions.Clear(userID)
		b.renderMainMenu(chatID, messageID)
		return
	case "menu_balance":
		b.handleBalanceCommand(userID, chatID)
		return
	case "menu_topup":
		b.handleTopup(chatID)
		return
	case "menu_create":
		b.renderEngineSelect(chatID, messageID)
		return
	case "engine_sora":
		b.sessions.StartSora(userID)
		b.renderSoraInputKind(chatID, messageID)
		return
	case "engine_veo":
		b.sessions.StartVeo(userID)
		b.renderVeoMode(chatID, messageID)
		return
	case "back_to_engine":
		b.sessions.Clear(userID)
		b.renderEngineSelect(chatID, messageID)
		return
	}

	session, ok := b.sessions.Get(userID)
	if !ok {
		log.Printf("Callback %q from user %d without an active session", callback.Data, userID)
		b.renderMainMenu(chatID, 0)
		return
	}

	switch {
	case session.Sora != nil:
		b.handleSoraCallback(callback, session.Sora)
	case session.Veo != nil:
		b.handleVeoCallback(callback, session.Veo)
	}
}

func (b *Bot) text(messageID string, data map[string]string) string {
	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if data != nil {
		cfg.TemplateData = data
	}
	text, err := b.localizer.Localize(cfg)
	if err != nil {
		log.Printf("Missing localization for %q: %v", messageID, err)
		return messageID
	}
	return text
}

func (b *Bot) sendErrorMessage(chatID int64, messageID string) {
	msg := tgbotapi.NewMessage(chatID, b.text(messageID, nil))
	b.api.Send(msg)
}

// render sends the given text and keyboard as a new message, or edits the
// message the user just interacted with when messageID is non-zero.
func (b *Bot) render(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	if messageID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
		_, err := b.api.Send(edit)
		if err == nil || strings.Contains(err.Error(), "message is not modified") {
			return
		}
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

// photoURL resolves the largest size of an incoming photo to a direct
// download URL that the generation providers can fetch.
func (b *Bot) photoURL(message *tgbotapi.Message) (string, error) {
	photos := message.Photo
	best := photos[len(photos)-1]
	return b.api.GetFileDirectURL(best.FileID)
}
