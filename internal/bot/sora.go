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

func (b *Bot) handleSoraCallback(callback *tgbotapi.CallbackQuery, s *wizard.SoraSession) {
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	var err error

	switch callback.Data {
	case "ptype_t2v":
		err = s.ChooseInputKind(models.InputText)
	case "ptype_i2v":
		err = s.ChooseInputKind(models.InputImage)
	case "tier_sora2":
		err = s.ChooseTier(models.TierSora2)
	case "tier_sora2pro":
		err = s.ChooseTier(models.TierSora2Pro)
	case "qual_std":
		err = s.ChooseQuality(models.QualityStandard)
	case "qual_high":
		err = s.ChooseQuality(models.QualityHigh)
	case "quality_next":
		err = s.ContinueQuality()
	case "duration_10":
		err = s.ChooseDuration(models.Duration10s)
	case "duration_15":
		err = s.ChooseDuration(models.Duration15s)
	case "orientation_9_16":
		err = s.ChooseOrientation(models.OrientationPortrait)
	case "orientation_16_9":
		err = s.ChooseOrientation(models.OrientationLandscape)
	case "continue_video":
		if err = s.ContinueFormat(); err == wizard.ErrInvalidSelection {
			b.sendErrorMessage(chatID, "sora_format_incomplete")
			return
		}
	case "back_to_prompt_type":
		s.BackToInputKind()
	case "back_to_model_tier":
		s.BackToTier()
	case "back_to_quality_or_tier":
		s.BackFromFormat()
	case "back_to_duration":
		s.BackToFormat()
	case "back_to_prompt":
		s.BackToPrompt()
		b.render(chatID, messageID, b.text("sora_edit_prompt", nil), b.soraInputBackKeyboard())
		return
	case "change_video":
		// Amend re-opens the duration/orientation step with every collected
		// field intact.
		s.BackToFormat()
	case "confirm_video":
		b.handleSoraConfirm(userID, chatID, messageID, s)
		return
	default:
		log.Printf("Received unknown callback data: %s", callback.Data)
		return
	}

	if err != nil {
		log.Printf("Rejected Sora input %q from user %d: %v", callback.Data, userID, err)
	}

	b.renderSoraStep(chatID, messageID, s)
}

// renderSoraStep re-renders whatever step the session is in. Rejected input
// lands here too, so an out-of-step tap just redraws the current screen.
func (b *Bot) renderSoraStep(chatID int64, messageID int, s *wizard.SoraSession) {
	switch s.Step() {
	case wizard.SoraStepInputKind:
		b.renderSoraInputKind(chatID, messageID)
	case wizard.SoraStepTier:
		b.renderSoraTier(chatID, messageID)
	case wizard.SoraStepQuality:
		b.renderSoraQuality(chatID, messageID, s)
	case wizard.SoraStepFormat:
		b.renderSoraFormat(chatID, messageID, s)
	case wizard.SoraStepImage:
		b.render(chatID, messageID, b.text("sora_send_image", nil), b.soraInputBackKeyboard())
	case wizard.SoraStepPrompt:
		b.render(chatID, messageID, b.text("sora_send_prompt", nil), b.soraInputBackKeyboard())
	case wizard.SoraStepConfirm:
		b.renderSoraConfirm(chatID, messageID, s)
	}
}

func (b *Bot) renderSoraInputKind(chatID int64, messageID int) {
	b.render(chatID, messageID, b.text("sora_kind_message", nil), b.soraKindKeyboard())
}

func (b *Bot) renderSoraTier(chatID int64, messageID int) {
	b.render(chatID, messageID, b.text("sora_tier_message", nil), b.soraTierKeyboard())
}

func (b *Bot) renderSoraQuality(chatID int64, messageID int, s *wizard.SoraSession) {
	b.render(chatID, messageID, b.text("sora_quality_message", nil), b.soraQualityKeyboard(s.Quality()))
}

func (b *Bot) renderSoraFormat(chatID int64, messageID int, s *wizard.SoraSession) {
	quality := s.Quality()
	if quality == "" {
		quality = models.QualityStandard
	}
	cost10 := b.tariffs.SoraCost(s.Tier(), quality, models.Duration10s)
	cost15 := b.tariffs.SoraCost(s.Tier(), quality, models.Duration15s)

	var text string
	if s.Tier() == models.TierSora2Pro {
		qualityName := b.text("btn_qual_std", nil)
		if quality == models.QualityHigh {
			qualityName = b.text("btn_qual_high", nil)
		}
		text = b.text("sora_format_pro", map[string]string{
			"QualityName": qualityName,
			"Cost10":      strconv.Itoa(cost10),
			"Cost15":      strconv.Itoa(cost15),
		})
	} else {
		text = b.text("sora_format_base", map[string]string{
			"Cost10": strconv.Itoa(cost10),
			"Cost15": strconv.Itoa(cost15),
		})
	}

	b.render(chatID, messageID, text, b.soraFormatKeyboard(s.Duration(), s.Orientation()))
}

func (b *Bot) renderSoraConfirm(chatID int64, messageID int, s *wizard.SoraSession) {
	modeID := "sora_mode_t2v"
	if s.InputKind() == models.InputImage {
		modeID = "sora_mode_i2v"
	}
	modelName := b.text("btn_tier_sora2", nil)
	if s.Tier() == models.TierSora2Pro {
		modelName = b.text("btn_tier_sora2pro", nil)
	}

	text := b.text("sora_confirm_message", map[string]string{
		"Mode":        b.text(modeID, nil),
		"Model":       modelName,
		"Duration":    strconv.Itoa(s.Duration()),
		"Orientation": string(s.Orientation()),
		"Cost":        strconv.Itoa(s.Cost(b.tariffs)),
		"Prompt":      s.Prompt(),
	})
	if s.Tier() == models.TierSora2Pro {
		text = b.text("sora_pro_warning", nil) + "\n\n" + text
	}

	b.render(chatID, messageID, text, b.soraConfirmKeyboard())
}

func (b *Bot) handleSoraMessage(message *tgbotapi.Message, s *wizard.SoraSession) {
	chatID := message.Chat.ID

	switch s.Step() {
	case wizard.SoraStepImage:
		if len(message.Photo) == 0 {
			b.sendErrorMessage(chatID, "sora_not_image")
			return
		}
		url, err := b.photoURL(message)
		if err != nil {
			log.Printf("Failed to resolve photo URL for user %d: %v", message.From.ID, err)
			b.sendErrorMessage(chatID, "internal_error")
			return
		}
		if err := s.AttachImage(url); err != nil {
			log.Printf("Rejected Sora image from user %d: %v", message.From.ID, err)
			return
		}
		b.render(chatID, 0, b.text("sora_image_saved", nil), b.soraInputBackKeyboard())

	case wizard.SoraStepPrompt:
		text := strings.TrimSpace(message.Text)
		if text == "" {
			return
		}
		if err := s.SetPrompt(text); err != nil {
			log.Printf("Rejected Sora prompt from user %d: %v", message.From.ID, err)
			return
		}
		b.renderSoraConfirm(chatID, 0, s)
	}
}

func (b *Bot) handleSoraConfirm(userID, chatID int64, messageID int, s *wizard.SoraSession) {
	gen, err := s.Finalize(b.tariffs)
	if err != nil {
		log.Printf("Failed to finalize Sora session for user %d: %v", userID, err)
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
			log.Printf("Sora submission for user %d not accepted: %v", userID, err)
		}
	}()
}
