package bot

import (
	"context"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"video-gen-bot/internal/models"
	"video-gen-bot/internal/wizard"
)

func (b *Bot) handleVeoCallback(callback *tgbotapi.CallbackQuery, s *wizard.VeoSession) {
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	var err error

	switch callback.Data {
	case "veo_mode_t2v":
		err = s.ChooseMode(models.VeoModeText)
	case "veo_mode_i2v":
		err = s.ChooseMode(models.VeoModeImage)
	case "veo_mode_ref":
		err = s.ChooseMode(models.VeoModeReference)
	case "veo_q_fast":
		err = s.ChooseQuality(models.VeoModelFast)
	case "veo_q_quality":
		err = s.ChooseQuality(models.VeoModelQuality)
	case "veo_ar_169":
		err = s.ChooseOrientation(models.OrientationLandscape)
	case "veo_ar_916":
		err = s.ChooseOrientation(models.OrientationPortrait)
	case "back_to_veo_mode", "change_veo":
		s.BackToMode()
	case "confirm_veo":
		b.handleVeoConfirm(userID, chatID, messageID, s)
		return
	default:
		log.Printf("Received unknown callback data: %s", callback.Data)
		return
	}

	if err != nil {
		log.Printf("Rejected Veo input %q from user %d: %v", callback.Data, userID, err)
	}

	b.renderVeoStep(chatID, messageID, s)
}

func (b *Bot) renderVeoStep(chatID int64, messageID int, s *wizard.VeoSession) {
	switch s.Step() {
	case wizard.VeoStepMode:
		b.renderVeoMode(chatID, messageID)
	case wizard.VeoStepQuality:
		b.render(chatID, messageID, b.text("veo_quality_message", nil), b.veoQualityKeyboard())
	case wizard.VeoStepOrientation:
		b.renderVeoOrientation(chatID, messageID, s)
	case wizard.VeoStepImages:
		b.renderVeoImages(chatID, messageID, s)
	case wizard.VeoStepPrompt:
		b.renderVeoPrompt(chatID, messageID, s)
	case wizard.VeoStepConfirm:
		b.renderVeoConfirm(chatID, messageID, s)
	}
}

func (b *Bot) renderVeoMode(chatID int64, messageID int) {
	b.render(chatID, messageID, b.text("veo_mode_message", nil), b.veoModeKeyboard())
}

func (b *Bot) renderVeoOrientation(chatID int64, messageID int, s *wizard.VeoSession) {
	if s.Mode() == models.VeoModeReference {
		b.render(chatID, messageID, b.text("veo_ref_orientation_message", nil), b.veoOrientationKeyboard())
		return
	}
	text := b.text("veo_orientation_message", map[string]string{
		"Model": b.veoModelName(s.Model()),
	})
	b.render(chatID, messageID, text, b.veoOrientationKeyboard())
}

func (b *Bot) renderVeoImages(chatID int64, messageID int, s *wizard.VeoSession) {
	id := "veo_images_i2v"
	if s.Mode() == models.VeoModeReference {
		id = "veo_images_ref"
	}
	text := b.text(id, map[string]string{
		"Model":  b.veoModelName(s.Model()),
		"Aspect": string(s.Orientation()),
	})
	b.render(chatID, messageID, text, b.veoBackKeyboard())
}

func (b *Bot) renderVeoPrompt(chatID int64, messageID int, s *wizard.VeoSession) {
	text := b.text("veo_prompt_message", map[string]string{
		"Model":  b.veoModelName(s.Model()),
		"Aspect": string(s.Orientation()),
	})
	b.render(chatID, messageID, text, b.veoBackKeyboard())
}

func (b *Bot) renderVeoConfirm(chatID int64, messageID int, s *wizard.VeoSession) {
	text := b.text("veo_confirm_message", map[string]string{
		"Model":  b.veoModelName(s.Model()),
		"Aspect": string(s.Orientation()),
		"Images": strconv.Itoa(len(s.Images())),
		"Cost":   strconv.Itoa(s.Cost(b.tariffs)),
		"Prompt": s.Prompt(),
	})
	b.render(chatID, messageID, text, b.veoConfirmKeyboard())
}

func (b *Bot) veoModelName(model models.VeoModel) string {
	if model == models.VeoModelQuality {
		return b.text("btn_veo_quality", nil)
	}
	return b.text("btn_veo_fast", nil)
}

func (b *Bot) handleVeoMessage(message *tgbotapi.Message, s *wizard.VeoSession) {
	chatID := message.Chat.ID

	switch s.Step() {
	case wizard.VeoStepImages:
		if len(message.Photo) > 0 {
			url, err := b.photoURL(message)
			if err != nil {
				log.Printf("Failed to resolve photo URL for user %d: %v", message.From.ID, err)
				b.sendErrorMessage(chatID, "internal_error")
				return
			}
			if err := s.AddImage(url); err != nil {
				b.sendErrorMessage(chatID, "veo_image_limit")
				return
			}
			text := b.text("veo_image_saved", map[string]string{
				"Count": strconv.Itoa(len(s.Images())),
				"Max":   strconv.Itoa(s.ImageLimit()),
			})
			b.render(chatID, 0, text, b.veoBackKeyboard())
			return
		}

		text := strings.TrimSpace(message.Text)
		if text == "" {
			return
		}
		if err := s.PromptAfterImages(text); err != nil {
			b.sendErrorMessage(chatID, "veo_need_image_first")
			return
		}
		b.renderVeoConfirm(chatID, 0, s)

	case wizard.VeoStepPrompt:
		text := strings.TrimSpace(message.Text)
		if text == "" {
			return
		}
		if err := s.SetPrompt(text); err != nil {
			log.Printf("Rejected Veo prompt from user %d: %v", message.From.ID, err)
			return
		}
		b.renderVeoConfirm(chatID, 0, s)
	}
}

func (b *Bot) handleVeoConfirm(userID, chatID int64, messageID int, s *wizard.VeoSession) {
	gen, err := s.Finalize(b.tariffs)
	if err != nil {
		log.Printf("Failed to finalize Veo session for user %d: %v", userID, err)
		b.sessions.Clear(userID)
		b.sendErrorMessage(chatID, "internal_error")
		b.renderMainMenu(chatID, 0)
		return
	}

	b.sessions.Clear(userID)

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	b.api.Send(edit)

	go func() {
		if err := b.jobs.SubmitAndTrack(context.Background(), gen); err != nil {
			log.Printf("Veo submission for user %d not accepted: %v", userID, err)
		}
	}()
}
