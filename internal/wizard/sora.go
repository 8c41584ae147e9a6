package wizard

import (
	"github.com/google/uuid"

	"video-gen-bot/internal/models"
	"video-gen-bot/internal/pricing"
)

type SoraStep int

const (
	SoraStepInputKind SoraStep = iota
	SoraStepTier
	SoraStepQuality
	SoraStepFormat
	SoraStepImage
	SoraStepPrompt
	SoraStepConfirm
)

// SoraSession walks the Sora flow:
// input kind → tier → quality (pro only) → duration/orientation →
// image (image mode only) → prompt → confirmation.
//
// Back edges keep every field that is not being re-asked, so stepping back
// from the format step to the tier step does not lose a chosen quality.
type SoraSession struct {
	userID      int64
	step        SoraStep
	inputKind   models.InputKind
	tier        models.Tier
	quality     models.Quality
	duration    int
	orientation models.Orientation
	imageURL    string
	prompt      string
}

func NewSoraSession(userID int64) *SoraSession {
	return &SoraSession{userID: userID, step: SoraStepInputKind}
}

func (s *SoraSession) Step() SoraStep                  { return s.step }
func (s *SoraSession) InputKind() models.InputKind     { return s.inputKind }
func (s *SoraSession) Tier() models.Tier               { return s.tier }
func (s *SoraSession) Quality() models.Quality         { return s.quality }
func (s *SoraSession) Duration() int                   { return s.duration }
func (s *SoraSession) Orientation() models.Orientation { return s.orientation }
func (s *SoraSession) Prompt() string                  { return s.prompt }

// ChooseInputKind handles the first step: text→video or image→video.
func (s *SoraSession) ChooseInputKind(kind models.InputKind) error {
	if s.step != SoraStepInputKind {
		return ErrInvalidSelection
	}
	if kind != models.InputText && kind != models.InputImage {
		return ErrInvalidSelection
	}

	s.inputKind = kind
	s.step = SoraStepTier
	return nil
}

// ChooseTier picks Sora 2 or Sora 2 Pro. The pro tier detours through the
// quality step; the base tier goes straight to duration/orientation.
func (s *SoraSession) ChooseTier(tier models.Tier) error {
	if s.step != SoraStepTier {
		return ErrInvalidSelection
	}
	if tier != models.TierSora2 && tier != models.TierSora2Pro {
		return ErrInvalidSelection
	}

	s.tier = tier
	if tier == models.TierSora2Pro {
		s.step = SoraStepQuality
	} else {
		s.step = SoraStepFormat
	}
	return nil
}

// ChooseQuality records a quality selection without leaving the step, so
// the keyboard can re-render with the choice marked.
func (s *SoraSession) ChooseQuality(q models.Quality) error {
	if s.step != SoraStepQuality {
		return ErrInvalidSelection
	}
	if q != models.QualityStandard && q != models.QualityHigh {
		return ErrInvalidSelection
	}

	s.quality = q
	return nil
}

// ContinueQuality advances past the quality step. Skipping the selection
// means standard quality, which is also how it is priced.
func (s *SoraSession) ContinueQuality() error {
	if s.step != SoraStepQuality {
		return ErrInvalidSelection
	}

	if s.quality == "" {
		s.quality = models.QualityStandard
	}
	s.step = SoraStepFormat
	return nil
}

func (s *SoraSession) ChooseDuration(d int) error {
	if s.step != SoraStepFormat {
		return ErrInvalidSelection
	}
	if d != models.Duration10s && d != models.Duration15s {
		return ErrInvalidSelection
	}

	s.duration = d
	return nil
}

func (s *SoraSession) ChooseOrientation(o models.Orientation) error {
	if s.step != SoraStepFormat {
		return ErrInvalidSelection
	}
	if o != models.OrientationPortrait && o != models.OrientationLandscape {
		return ErrInvalidSelection
	}

	s.orientation = o
	return nil
}

// ContinueFormat leaves the duration/orientation step once both are chosen.
func (s *SoraSession) ContinueFormat() error {
	if s.step != SoraStepFormat {
		return ErrInvalidSelection
	}
	if s.duration == 0 || s.orientation == "" {
		return ErrInvalidSelection
	}

	if s.inputKind == models.InputImage {
		s.step = SoraStepImage
	} else {
		s.step = SoraStepPrompt
	}
	return nil
}

func (s *SoraSession) AttachImage(url string) error {
	if s.step != SoraStepImage {
		return ErrInvalidSelection
	}
	if url == "" {
		return ErrInvalidSelection
	}

	s.imageURL = url
	s.step = SoraStepPrompt
	return nil
}

func (s *SoraSession) SetPrompt(text string) error {
	if s.step != SoraStepPrompt {
		return ErrInvalidSelection
	}
	if text == "" {
		return ErrInvalidSelection
	}

	s.prompt = text
	s.step = SoraStepConfirm
	return nil
}

// Back edges. Each returns to a named earlier step and keeps everything
// that step does not re-ask.

func (s *SoraSession) BackToInputKind() {
	s.step = SoraStepInputKind
}

func (s *SoraSession) BackToTier() {
	s.step = SoraStepTier
}

// BackFromFormat returns from duration/orientation to the quality step for
// the pro tier, or the tier step otherwise, and reports where it went.
func (s *SoraSession) BackFromFormat() SoraStep {
	if s.tier == models.TierSora2Pro {
		s.step = SoraStepQuality
	} else {
		s.step = SoraStepTier
	}
	return s.step
}

func (s *SoraSession) BackToFormat() {
	s.step = SoraStepFormat
}

func (s *SoraSession) BackToPrompt() {
	s.step = SoraStepPrompt
}

// Cost is the token price for the session as currently configured.
func (s *SoraSession) Cost(t pricing.Tariffs) int {
	return t.SoraCost(s.tier, s.quality, s.duration)
}

// Finalize consumes a confirmed session and emits the immutable generation
// request. Every required field is re-checked here: a gap at this point is
// a transition bug, not user error.
func (s *SoraSession) Finalize(t pricing.Tariffs) (*models.GenerationRequest, error) {
	if s.step != SoraStepConfirm {
		return nil, ErrInvalidSelection
	}

	if s.inputKind == "" || s.tier == "" || s.duration == 0 || s.orientation == "" || s.prompt == "" {
		return nil, ErrSessionIncomplete
	}
	if s.tier == models.TierSora2Pro && s.quality == "" {
		return nil, ErrSessionIncomplete
	}
	if s.inputKind == models.InputImage && s.imageURL == "" {
		return nil, ErrSessionIncomplete
	}

	req := &models.GenerationRequest{
		ID:          uuid.NewString(),
		UserID:      s.userID,
		Engine:      models.EngineSora,
		Model:       soraModelName(s.inputKind, s.tier),
		Prompt:      s.prompt,
		Cost:        s.Cost(t),
		InputKind:   s.inputKind,
		Tier:        s.tier,
		Quality:     s.quality,
		Duration:    s.duration,
		Orientation: s.orientation,
	}
	if s.imageURL != "" {
		req.ImageURLs = []string{s.imageURL}
	}
	return req, nil
}

func soraModelName(kind models.InputKind, tier models.Tier) string {
	switch {
	case kind == models.InputText && tier == models.TierSora2:
		return "sora-2-text-to-video"
	case kind == models.InputImage && tier == models.TierSora2:
		return "sora-2-image-to-video"
	case kind == models.InputText && tier == models.TierSora2Pro:
		return "sora-2-pro-text-to-video"
	case kind == models.InputImage && tier == models.TierSora2Pro:
		return "sora-2-pro-image-to-video"
	}
	return "sora-2-text-to-video"
}
