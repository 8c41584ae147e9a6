package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-gen-bot/internal/config"
	"video-gen-bot/internal/models"
	"video-gen-bot/internal/pricing"
)

func testTariffs() pricing.Tariffs {
	return pricing.New(config.Tariffs{
		Sora2Cost10s:   30,
		Sora2Cost15s:   35,
		Sora2ProStd10s: 90,
		Sora2ProStd15s: 135,
		Sora2ProHD10s:  200,
		Sora2ProHD15s:  400,
		VeoFastCost:    30,
		VeoQualityCost: 45,
	})
}

func TestSoraBaseTextFlow(t *testing.T) {
	s := NewSoraSession(42)

	require.NoError(t, s.ChooseInputKind(models.InputText))
	require.NoError(t, s.ChooseTier(models.TierSora2))
	assert.Equal(t, SoraStepFormat, s.Step(), "base tier skips the quality step")

	require.NoError(t, s.ChooseDuration(models.Duration10s))
	require.NoError(t, s.ChooseOrientation(models.OrientationPortrait))
	require.NoError(t, s.ContinueFormat())
	assert.Equal(t, SoraStepPrompt, s.Step())

	require.NoError(t, s.SetPrompt("a cat surfing a wave"))
	assert.Equal(t, SoraStepConfirm, s.Step())

	gen, err := s.Finalize(testTariffs())
	require.NoError(t, err)
	assert.Equal(t, int64(42), gen.UserID)
	assert.Equal(t, models.EngineSora, gen.Engine)
	assert.Equal(t, "sora-2-text-to-video", gen.Model)
	assert.Equal(t, 30, gen.Cost)
	assert.Empty(t, gen.ImageURLs)
	assert.NotEmpty(t, gen.ID)
}

func TestSoraProImageFlow(t *testing.T) {
	s := NewSoraSession(7)

	require.NoError(t, s.ChooseInputKind(models.InputImage))
	require.NoError(t, s.ChooseTier(models.TierSora2Pro))
	assert.Equal(t, SoraStepQuality, s.Step(), "pro tier detours through quality")

	require.NoError(t, s.ChooseQuality(models.QualityHigh))
	assert.Equal(t, SoraStepQuality, s.Step(), "quality selection re-renders in place")
	require.NoError(t, s.ContinueQuality())

	require.NoError(t, s.ChooseDuration(models.Duration15s))
	require.NoError(t, s.ChooseOrientation(models.OrientationLandscape))
	require.NoError(t, s.ContinueFormat())
	assert.Equal(t, SoraStepImage, s.Step(), "image mode collects a photo first")

	require.NoError(t, s.AttachImage("https://files.example/photo.jpg"))
	require.NoError(t, s.SetPrompt("make it move"))

	gen, err := s.Finalize(testTariffs())
	require.NoError(t, err)
	assert.Equal(t, "sora-2-pro-image-to-video", gen.Model)
	assert.Equal(t, 400, gen.Cost, "pro HD at 15s is the top of the price grid")
	assert.Equal(t, []string{"https://files.example/photo.jpg"}, gen.ImageURLs)
}

func TestSoraQualityDefaultsToStandard(t *testing.T) {
	s := NewSoraSession(1)
	require.NoError(t, s.ChooseInputKind(models.InputText))
	require.NoError(t, s.ChooseTier(models.TierSora2Pro))

	// Next without an explicit pick means standard quality.
	require.NoError(t, s.ContinueQuality())
	assert.Equal(t, models.QualityStandard, s.Quality())

	require.NoError(t, s.ChooseDuration(models.Duration10s))
	require.NoError(t, s.ChooseOrientation(models.OrientationPortrait))
	require.NoError(t, s.ContinueFormat())
	require.NoError(t, s.SetPrompt("p"))

	gen, err := s.Finalize(testTariffs())
	require.NoError(t, err)
	assert.Equal(t, 90, gen.Cost)
}

func TestSoraRejectsOutOfStepInput(t *testing.T) {
	s := NewSoraSession(1)

	assert.ErrorIs(t, s.ChooseTier(models.TierSora2), ErrInvalidSelection)
	assert.ErrorIs(t, s.ChooseDuration(models.Duration10s), ErrInvalidSelection)
	assert.ErrorIs(t, s.SetPrompt("too early"), ErrInvalidSelection)
	assert.ErrorIs(t, s.ChooseInputKind("gif"), ErrInvalidSelection)

	// Nothing above may have moved or touched the session.
	assert.Equal(t, SoraStepInputKind, s.Step())
	assert.Empty(t, s.InputKind())
	assert.Zero(t, s.Duration())
	assert.Empty(t, s.Prompt())
}

func TestSoraContinueFormatNeedsBothFields(t *testing.T) {
	s := NewSoraSession(1)
	require.NoError(t, s.ChooseInputKind(models.InputText))
	require.NoError(t, s.ChooseTier(models.TierSora2))

	assert.ErrorIs(t, s.ContinueFormat(), ErrInvalidSelection, "nothing chosen")

	require.NoError(t, s.ChooseDuration(models.Duration10s))
	assert.ErrorIs(t, s.ContinueFormat(), ErrInvalidSelection, "orientation missing")
	assert.Equal(t, SoraStepFormat, s.Step())
	assert.Equal(t, models.Duration10s, s.Duration(), "rejection keeps the chosen duration")

	require.NoError(t, s.ChooseOrientation(models.OrientationPortrait))
	require.NoError(t, s.ContinueFormat())
}

func TestSoraBackEdgesKeepFields(t *testing.T) {
	s := NewSoraSession(1)
	require.NoError(t, s.ChooseInputKind(models.InputText))
	require.NoError(t, s.ChooseTier(models.TierSora2Pro))
	require.NoError(t, s.ChooseQuality(models.QualityHigh))
	require.NoError(t, s.ContinueQuality())
	require.NoError(t, s.ChooseDuration(models.Duration15s))
	require.NoError(t, s.ChooseOrientation(models.OrientationLandscape))

	assert.Equal(t, SoraStepQuality, s.BackFromFormat(), "pro tier backs into quality")
	assert.Equal(t, models.QualityHigh, s.Quality())
	assert.Equal(t, models.Duration15s, s.Duration(), "fields the step does not re-ask survive")

	s.BackToTier()
	assert.Equal(t, SoraStepTier, s.Step())
	assert.Equal(t, models.InputText, s.InputKind())
}

func TestSoraBackFromFormatBaseTier(t *testing.T) {
	s := NewSoraSession(1)
	require.NoError(t, s.ChooseInputKind(models.InputText))
	require.NoError(t, s.ChooseTier(models.TierSora2))

	assert.Equal(t, SoraStepTier, s.BackFromFormat(), "base tier has no quality step to return to")
}

func TestSoraAmendReturnsToFormat(t *testing.T) {
	s := NewSoraSession(1)
	require.NoError(t, s.ChooseInputKind(models.InputText))
	require.NoError(t, s.ChooseTier(models.TierSora2))
	require.NoError(t, s.ChooseDuration(models.Duration10s))
	require.NoError(t, s.ChooseOrientation(models.OrientationPortrait))
	require.NoError(t, s.ContinueFormat())
	require.NoError(t, s.SetPrompt("first draft"))
	require.Equal(t, SoraStepConfirm, s.Step())

	// Amending from the confirmation screen re-opens duration/orientation
	// with everything collected so far intact.
	s.BackToFormat()
	assert.Equal(t, SoraStepFormat, s.Step())
	assert.Equal(t, models.Duration10s, s.Duration())
	assert.Equal(t, models.OrientationPortrait, s.Orientation())
	assert.Equal(t, "first draft", s.Prompt())

	require.NoError(t, s.ChooseDuration(models.Duration15s))
	require.NoError(t, s.ContinueFormat())
	require.NoError(t, s.SetPrompt("second draft"))

	gen, err := s.Finalize(testTariffs())
	require.NoError(t, err)
	assert.Equal(t, models.Duration15s, gen.Duration)
	assert.Equal(t, "second draft", gen.Prompt)
	assert.Equal(t, 35, gen.Cost, "the amended duration reprices the request")
}

func TestSoraFinalizeRequiresConfirmStep(t *testing.T) {
	s := NewSoraSession(1)
	require.NoError(t, s.ChooseInputKind(models.InputText))

	_, err := s.Finalize(testTariffs())
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestSoraModelNames(t *testing.T) {
	assert.Equal(t, "sora-2-text-to-video", soraModelName(models.InputText, models.TierSora2))
	assert.Equal(t, "sora-2-image-to-video", soraModelName(models.InputImage, models.TierSora2))
	assert.Equal(t, "sora-2-pro-text-to-video", soraModelName(models.InputText, models.TierSora2Pro))
	assert.Equal(t, "sora-2-pro-image-to-video", soraModelName(models.InputImage, models.TierSora2Pro))
}
