package wizard

import (
	"github.com/google/uuid"

	"video-gen-bot/internal/models"
	"video-gen-bot/internal/pricing"
)

type VeoStep int

const (
	VeoStepMode VeoStep = iota
	VeoStepQuality
	VeoStepOrientation
	VeoStepImages
	VeoStepPrompt
	VeoStepConfirm
)

// VeoSession walks the Veo flow:
// mode → quality (text/image modes) → orientation →
// images (image/reference modes) → prompt → confirmation.
//
// Reference mode skips the quality step entirely and is pinned to the fast
// model. While collecting images, a text message counts as the prompt once
// at least one photo is in, which ends the collection step early.
type VeoSession struct {
	userID      int64
	step        VeoStep
	mode        models.VeoMode
	model       models.VeoModel
	orientation models.Orientation
	images      []string
	prompt      string
}

func NewVeoSession(userID int64) *VeoSession {
	return &VeoSession{userID: userID, step: VeoStepMode}
}

func (s *VeoSession) Step() VeoStep                    { return s.step }
func (s *VeoSession) Mode() models.VeoMode             { return s.mode }
func (s *VeoSession) Model() models.VeoModel           { return s.model }
func (s *VeoSession) Orientation() models.Orientation  { return s.orientation }
func (s *VeoSession) Images() []string                 { return s.images }
func (s *VeoSession) Prompt() string                   { return s.prompt }

func (s *VeoSession) ImageLimit() int {
	return models.VeoModeImageLimit(s.mode)
}

func (s *VeoSession) ChooseMode(mode models.VeoMode) error {
	if s.step != VeoStepMode {
		return ErrInvalidSelection
	}

	switch mode {
	case models.VeoModeText, models.VeoModeImage:
		s.mode = mode
		s.step = VeoStepQuality
	case models.VeoModeReference:
		// Reference mode always runs on the fast model.
		s.mode = mode
		s.model = models.VeoModelFast
		s.step = VeoStepOrientation
	default:
		return ErrInvalidSelection
	}
	return nil
}

func (s *VeoSession) ChooseQuality(model models.VeoModel) error {
	if s.step != VeoStepQuality {
		return ErrInvalidSelection
	}
	if model != models.VeoModelFast && model != models.VeoModelQuality {
		return ErrInvalidSelection
	}

	s.model = model
	s.step = VeoStepOrientation
	return nil
}

func (s *VeoSession) ChooseOrientation(o models.Orientation) error {
	if s.step != VeoStepOrientation {
		return ErrInvalidSelection
	}
	if o != models.OrientationPortrait && o != models.OrientationLandscape {
		return ErrInvalidSelection
	}

	s.orientation = o
	if s.mode == models.VeoModeText {
		s.step = VeoStepPrompt
	} else {
		s.step = VeoStepImages
	}
	return nil
}

// AddImage stores one collected photo. Hitting the mode's limit is a
// notice to the user, not a hard error.
func (s *VeoSession) AddImage(url string) error {
	if s.step != VeoStepImages {
		return ErrInvalidSelection
	}
	if url == "" {
		return ErrInvalidSelection
	}
	if len(s.images) >= s.ImageLimit() {
		return ErrImageLimit
	}

	s.images = append(s.images, url)
	return nil
}

// PromptAfterImages interprets a text message during image collection as
// the prompt, ending the collection step. At least one photo must be in.
func (s *VeoSession) PromptAfterImages(text string) error {
	if s.step != VeoStepImages {
		return ErrInvalidSelection
	}
	if len(s.images) == 0 {
		return ErrNoImages
	}
	if text == "" {
		return ErrInvalidSelection
	}

	s.prompt = text
	s.step = VeoStepConfirm
	return nil
}

func (s *VeoSession) SetPrompt(text string) error {
	if s.step != VeoStepPrompt {
		return ErrInvalidSelection
	}
	if text == "" {
		return ErrInvalidSelection
	}

	s.prompt = text
	s.step = VeoStepConfirm
	return nil
}

// BackToMode restarts the Veo flow from mode selection. The mode decides
// every later field, so everything collected so far is dropped.
func (s *VeoSession) BackToMode() {
	s.step = VeoStepMode
	s.mode = ""
	s.model = ""
	s.orientation = ""
	s.images = nil
	s.prompt = ""
}

// Cost is the token price for the session as currently configured.
func (s *VeoSession) Cost(t pricing.Tariffs) int {
	return t.VeoCost(s.mode, s.model)
}

// Finalize consumes a confirmed session and emits the immutable generation
// request, re-checking that every field the mode requires is populated.
func (s *VeoSession) Finalize(t pricing.Tariffs) (*models.GenerationRequest, error) {
	if s.step != VeoStepConfirm {
		return nil, ErrInvalidSelection
	}

	if s.mode == "" || s.model == "" || s.orientation == "" || s.prompt == "" {
		return nil, ErrSessionIncomplete
	}
	if s.mode != models.VeoModeText && len(s.images) == 0 {
		return nil, ErrSessionIncomplete
	}

	model := s.model
	if s.mode == models.VeoModeReference {
		model = models.VeoModelFast
	}

	return &models.GenerationRequest{
		ID:             uuid.NewString(),
		UserID:         s.userID,
		Engine:         models.EngineVeo,
		Model:          string(model),
		Prompt:         s.prompt,
		Cost:           s.Cost(t),
		Mode:           s.mode,
		GenerationType: veoGenerationType(s.mode),
		Orientation:    s.orientation,
		ImageURLs:      append([]string(nil), s.images...),
	}, nil
}

func veoGenerationType(mode models.VeoMode) string {
	switch mode {
	case models.VeoModeText:
		return "TEXT_2_VIDEO"
	case models.VeoModeImage:
		return "FIRST_AND_LAST_FRAMES_2_VIDEO"
	default:
		return "REFERENCE_2_VIDEO"
	}
}
