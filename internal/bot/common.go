package bot

import (
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleStartCommand(message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID

	b.sessions.Clear(userID)

	if ok, err := b.isSubscribed(userID); err != nil || !ok {
		b.sendSubscribePrompt(chatID)
		return
	}

	b.render(chatID, 0, b.text("start_message", nil), b.mainMenuKeyboard())
}

func (b *Bot) handleMenuCommand(message *tgbotapi.Message) {
	b.sessions.Clear(message.From.ID)
	b.renderMainMenu(message.Chat.ID, 0)
}

func (b *Bot) handleCancelCommand(message *tgbotapi.Message) {
	b.sessions.Clear(message.From.ID)
	b.render(message.Chat.ID, 0, b.text("cancel_message", nil), b.mainMenuKeyboard())
}

func (b *Bot) renderMainMenu(chatID int64, messageID int) {
	b.render(chatID, messageID, b.text("menu_message", nil), b.mainMenuKeyboard())
}

func (b *Bot) handleBalanceCommand(userID, chatID int64) {
	user, err := b.db.GetUser(userID)
	if err != nil {
		log.Printf("Failed to read balance for user %d: %v", userID, err)
		b.sendErrorMessage(chatID, "internal_error")
		return
	}
	if user == nil {
		b.sendErrorMessage(chatID, "balance_unknown")
		return
	}

	text := b.text("balance_message", map[string]string{
		"Tokens": strconv.Itoa(user.Tokens),
	})
	b.render(chatID, 0, text, b.balanceKeyboard())
}

func (b *Bot) renderEngineSelect(chatID int64, messageID int) {
	tariffs := b.cfg.Tariffs
	text := b.text("engine_select_message", map[string]string{
		"SoraBase10":   strconv.Itoa(tariffs.Sora2Cost10s),
		"SoraBase15":   strconv.Itoa(tariffs.Sora2Cost15s),
		"SoraProStd10": strconv.Itoa(tariffs.Sora2ProStd10s),
		"SoraProStd15": strconv.Itoa(tariffs.Sora2ProStd15s),
		"SoraProHD10":  strconv.Itoa(tariffs.Sora2ProHD10s),
		"SoraProHD15":  strconv.Itoa(tariffs.Sora2ProHD15s),
		"VeoFast":      strconv.Itoa(tariffs.VeoFastCost),
		"VeoQuality":   strconv.Itoa(tariffs.VeoQualityCost),
	})
	b.render(chatID, messageID, text, b.engineKeyboard())
}

func (b *Bot) handleTopup(chatID int64) {
	if b.cfg.TopupLink == "" {
		b.sendErrorMessage(chatID, "internal_error")
		return
	}
	text := b.text("topup_message", map[string]string{"Link": b.cfg.TopupLink})
	b.render(chatID, 0, text, b.backToMainKeyboard())
}

// isSubscribed reports whether the user is a member of the required channel.
// Without a configured channel the gate is open; a Telegram API failure
// closes it.
func (b *Bot) isSubscribed(userID int64) (bool, error) {
	if b.cfg.ChannelID == 0 {
		return true, nil
	}

	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: b.cfg.ChannelID,
			UserID: userID,
		},
	})
	if err != nil {
		log.Printf("Failed to check channel membership for user %d: %v", userID, err)
		return false, err
	}

	switch member.Status {
	case "member", "administrator", "creator":
		return true, nil
	}
	return false, nil
}

func (b *Bot) sendSubscribePrompt(chatID int64) {
	b.render(chatID, 0, b.text("subscribe_prompt", nil), b.subscribeKeyboard())
}

func (b *Bot) handleCheckSubscription(callback *tgbotapi.CallbackQuery) {
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID

	ok, err := b.isSubscribed(userID)
	if err != nil || !ok {
		alert := tgbotapi.NewCallbackWithAlert(callback.ID, b.text("subscribe_again", nil))
		if _, err := b.api.Request(alert); err != nil {
			log.Printf("Failed to answer callback query: %v", err)
		}
		return
	}

	ack := tgbotapi.NewCallback(callback.ID, "")
	if _, err := b.api.Request(ack); err != nil {
		log.Printf("Failed to acknowledge callback query: %v", err)
	}

	b.render(chatID, callback.Message.MessageID, b.text("subscribed_ok", nil), b.mainMenuKeyboard())
}
