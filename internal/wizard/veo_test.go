package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-gen-bot/internal/models"
)

func TestVeoTextFlow(t *testing.T) {
	s := NewVeoSession(42)

	require.NoError(t, s.ChooseMode(models.VeoModeText))
	assert.Equal(t, VeoStepQuality, s.Step())

	require.NoError(t, s.ChooseQuality(models.VeoModelQuality))
	require.NoError(t, s.ChooseOrientation(models.OrientationLandscape))
	assert.Equal(t, VeoStepPrompt, s.Step(), "text mode skips image collection")

	require.NoError(t, s.SetPrompt("city at dawn"))

	gen, err := s.Finalize(testTariffs())
	require.NoError(t, err)
	assert.Equal(t, models.EngineVeo, gen.Engine)
	assert.Equal(t, "veo3", gen.Model)
	assert.Equal(t, "TEXT_2_VIDEO", gen.GenerationType)
	assert.Equal(t, 45, gen.Cost)
	assert.Empty(t, gen.ImageURLs)
}

func TestVeoImageFlow(t *testing.T) {
	s := NewVeoSession(7)

	require.NoError(t, s.ChooseMode(models.VeoModeImage))
	require.NoError(t, s.ChooseQuality(models.VeoModelFast))
	require.NoError(t, s.ChooseOrientation(models.OrientationPortrait))
	assert.Equal(t, VeoStepImages, s.Step())
	assert.Equal(t, 2, s.ImageLimit())

	require.NoError(t, s.AddImage("https://files.example/first.jpg"))
	require.NoError(t, s.AddImage("https://files.example/last.jpg"))
	assert.ErrorIs(t, s.AddImage("https://files.example/extra.jpg"), ErrImageLimit)
	assert.Len(t, s.Images(), 2, "the rejected photo is not stored")

	require.NoError(t, s.PromptAfterImages("morph between them"))

	gen, err := s.Finalize(testTariffs())
	require.NoError(t, err)
	assert.Equal(t, "veo3_fast", gen.Model)
	assert.Equal(t, "FIRST_AND_LAST_FRAMES_2_VIDEO", gen.GenerationType)
	assert.Equal(t, []string{"https://files.example/first.jpg", "https://files.example/last.jpg"}, gen.ImageURLs)
	assert.Equal(t, 30, gen.Cost)
}

func TestVeoReferenceFlow(t *testing.T) {
	s := NewVeoSession(1)

	require.NoError(t, s.ChooseMode(models.VeoModeReference))
	assert.Equal(t, VeoStepOrientation, s.Step(), "reference mode skips the quality step")
	assert.Equal(t, models.VeoModelFast, s.Model(), "reference mode is pinned to the fast model")
	assert.Equal(t, 3, s.ImageLimit())

	require.NoError(t, s.ChooseOrientation(models.OrientationLandscape))
	require.NoError(t, s.AddImage("https://files.example/ref1.jpg"))
	require.NoError(t, s.PromptAfterImages("same mood, new scene"))

	gen, err := s.Finalize(testTariffs())
	require.NoError(t, err)
	assert.Equal(t, "veo3_fast", gen.Model)
	assert.Equal(t, "REFERENCE_2_VIDEO", gen.GenerationType)
	assert.Equal(t, 30, gen.Cost, "reference mode is priced at the fast rate")
}

func TestVeoPromptBeforeAnyImage(t *testing.T) {
	s := NewVeoSession(1)
	require.NoError(t, s.ChooseMode(models.VeoModeImage))
	require.NoError(t, s.ChooseQuality(models.VeoModelFast))
	require.NoError(t, s.ChooseOrientation(models.OrientationPortrait))

	assert.ErrorIs(t, s.PromptAfterImages("too soon"), ErrNoImages)
	assert.Equal(t, VeoStepImages, s.Step())
	assert.Empty(t, s.Prompt())
}

func TestVeoRejectsOutOfStepInput(t *testing.T) {
	s := NewVeoSession(1)

	assert.ErrorIs(t, s.ChooseQuality(models.VeoModelFast), ErrInvalidSelection)
	assert.ErrorIs(t, s.ChooseOrientation(models.OrientationPortrait), ErrInvalidSelection)
	assert.ErrorIs(t, s.AddImage("https://files.example/a.jpg"), ErrInvalidSelection)
	assert.ErrorIs(t, s.ChooseMode("slideshow"), ErrInvalidSelection)

	assert.Equal(t, VeoStepMode, s.Step())
	assert.Empty(t, s.Mode())
	assert.Empty(t, s.Images())
}

func TestVeoBackToModeClearsEverything(t *testing.T) {
	s := NewVeoSession(1)
	require.NoError(t, s.ChooseMode(models.VeoModeReference))
	require.NoError(t, s.ChooseOrientation(models.OrientationLandscape))
	require.NoError(t, s.AddImage("https://files.example/ref.jpg"))

	s.BackToMode()

	assert.Equal(t, VeoStepMode, s.Step())
	assert.Empty(t, s.Mode())
	assert.Empty(t, s.Model())
	assert.Empty(t, s.Orientation())
	assert.Empty(t, s.Images())
	assert.Empty(t, s.Prompt())
}

func TestVeoFinalizeRequiresConfirmStep(t *testing.T) {
	s := NewVeoSession(1)
	require.NoError(t, s.ChooseMode(models.VeoModeText))

	_, err := s.Finalize(testTariffs())
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestManagerReplacesSession(t *testing.T) {
	m := NewManager()

	sora := m.StartSora(5)
	require.NoError(t, sora.ChooseInputKind(models.InputText))

	session, ok := m.Get(5)
	require.True(t, ok)
	assert.Equal(t, models.EngineSora, session.Engine)
	assert.Same(t, sora, session.Sora)

	// Starting a new wizard discards the old one.
	veo := m.StartVeo(5)
	session, ok = m.Get(5)
	require.True(t, ok)
	assert.Equal(t, models.EngineVeo, session.Engine)
	assert.Same(t, veo, session.Veo)
	assert.Nil(t, session.Sora)

	m.Clear(5)
	_, ok = m.Get(5)
	assert.False(t, ok)
}
