// Package pricing resolves the token cost of a generation from its final
// parameters. Cost functions are pure: the same resolved fields always
// produce the same cost.
package pricing

import (
	"video-gen-bot/internal/config"
	"video-gen-bot/internal/models"
)

type Tariffs struct {
	cfg config.Tariffs
}

func New(cfg config.Tariffs) Tariffs {
	return Tariffs{cfg: cfg}
}

// SoraCost returns the price of a Sora generation in tokens.
// The base tier prices by duration only; the pro tier prices by
// quality and duration.
func (t Tariffs) SoraCost(tier models.Tier, quality models.Quality, duration int) int {
	if tier == models.TierSora2 {
		if duration == models.Duration10s {
			return t.cfg.Sora2Cost10s
		}
		return t.cfg.Sora2Cost15s
	}

	if quality == models.QualityHigh {
		if duration == models.Duration10s {
			return t.cfg.Sora2ProHD10s
		}
		return t.cfg.Sora2ProHD15s
	}

	if duration == models.Duration10s {
		return t.cfg.Sora2ProStd10s
	}
	return t.cfg.Sora2ProStd15s
}

// VeoCost returns the price of a Veo generation in tokens. Reference mode
// always runs on the fast model, so it is priced at the fast rate no matter
// what quality was clicked along the way.
func (t Tariffs) VeoCost(mode models.VeoMode, model models.VeoModel) int {
	if mode == models.VeoModeReference || model == models.VeoModelFast {
		return t.cfg.VeoFastCost
	}
	return t.cfg.VeoQualityCost
}
