package bot

import (
	"errors"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// The job manager only knows user IDs; for private chats the chat ID is the
// user ID, which is the only place this bot delivers results to.

func (b *Bot) SendText(userID int64, text string) {
	msg := tgbotapi.NewMessage(userID, text)
	b.sendWithRetry(msg)
}

func (b *Bot) SendVideo(userID int64, videoURL, caption string) {
	video := tgbotapi.NewVideo(userID, tgbotapi.FileURL(videoURL))
	video.Caption = caption
	b.sendWithRetry(video)
}

func (b *Bot) SendMenu(userID int64) {
	msg := tgbotapi.NewMessage(userID, b.text("menu_message", nil))
	msg.ReplyMarkup = b.mainMenuKeyboard()
	b.sendWithRetry(msg)
}

// sendWithRetry retries exactly once after the wait Telegram asks for on a
// rate limit. Blocked bots and bad requests are logged and dropped; outcome
// delivery is best effort and must never wedge a poll goroutine.
func (b *Bot) sendWithRetry(c tgbotapi.Chattable) {
	_, err := b.api.Send(c)
	if err == nil {
		return
	}

	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		time.Sleep(time.Duration(apiErr.RetryAfter) * time.Second)
		if _, err = b.api.Send(c); err == nil {
			return
		}
	}

	log.Printf("Failed to deliver message: %v", err)
}
