package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"video-gen-bot/internal/models"
)

func (b *Bot) btn(messageID, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(b.text(messageID, nil), data)
}

// marked prefixes the chosen option with a checkmark so the keyboard shows
// the current selection after a re-render.
func (b *Bot) marked(messageID, data string, selected bool) tgbotapi.InlineKeyboardButton {
	label := b.text(messageID, nil)
	if selected {
		label = "✅ " + label
	}
	return tgbotapi.NewInlineKeyboardButtonData(label, data)
}

func (b *Bot) backRow(data string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(b.btn("btn_back", data))
}

func (b *Bot) mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_create_video", "menu_create")),
		tgbotapi.NewInlineKeyboardRow(
			b.btn("btn_balance", "menu_balance"),
			b.btn("btn_topup", "menu_topup"),
		),
	)
}

func (b *Bot) balanceKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_topup", "menu_topup")),
		b.backRow("back_to_main"),
	)
}

func (b *Bot) backToMainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(b.backRow("back_to_main"))
}

func (b *Bot) subscribeKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	if b.cfg.ChannelURL != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(b.text("btn_subscribe", nil), b.cfg.ChannelURL),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(b.btn("btn_check_sub", "check_sub")))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) engineKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_engine_sora", "engine_sora")),
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_engine_veo", "engine_veo")),
		b.backRow("back_to_main"),
	)
}

func (b *Bot) soraKindKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_t2v", "ptype_t2v")),
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_i2v", "ptype_i2v")),
		b.backRow("back_to_engine"),
	)
}

func (b *Bot) soraTierKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_tier_sora2", "tier_sora2")),
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_tier_sora2pro", "tier_sora2pro")),
		b.backRow("back_to_prompt_type"),
	)
}

func (b *Bot) soraQualityKeyboard(selected models.Quality) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			b.marked("btn_qual_std", "qual_std", selected == models.QualityStandard),
			b.marked("btn_qual_high", "qual_high", selected == models.QualityHigh),
		),
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_next", "quality_next")),
		b.backRow("back_to_model_tier"),
	)
}

func (b *Bot) soraFormatKeyboard(duration int, orientation models.Orientation) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			b.marked("btn_duration_10", "duration_10", duration == models.Duration10s),
			b.marked("btn_duration_15", "duration_15", duration == models.Duration15s),
		),
		tgbotapi.NewInlineKeyboardRow(
			b.marked("btn_orientation_916", "orientation_9_16", orientation == models.OrientationPortrait),
			b.marked("btn_orientation_169", "orientation_16_9", orientation == models.OrientationLandscape),
		),
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_continue", "continue_video")),
		b.backRow("back_to_quality_or_tier"),
	)
}

func (b *Bot) soraInputBackKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(b.backRow("back_to_duration"))
}

func (b *Bot) soraConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_confirm", "confirm_video")),
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_change", "change_video")),
	)
}

func (b *Bot) veoModeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_veo_t2v", "veo_mode_t2v")),
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_veo_i2v", "veo_mode_i2v")),
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_veo_ref", "veo_mode_ref")),
		b.backRow("back_to_engine"),
	)
}

func (b *Bot) veoQualityKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_veo_fast", "veo_q_fast")),
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_veo_quality", "veo_q_quality")),
		b.backRow("back_to_veo_mode"),
	)
}

func (b *Bot) veoOrientationKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			b.btn("btn_ar_169", "veo_ar_169"),
			b.btn("btn_ar_916", "veo_ar_916"),
		),
		b.backRow("back_to_veo_mode"),
	)
}

func (b *Bot) veoBackKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(b.backRow("back_to_veo_mode"))
}

func (b *Bot) veoConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_confirm", "confirm_veo")),
		tgbotapi.NewInlineKeyboardRow(b.btn("btn_change", "change_veo")),
	)
}
