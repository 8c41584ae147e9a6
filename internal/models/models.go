package models

type Engine string

const (
	EngineSora Engine = "sora"
	EngineVeo  Engine = "veo"
)

// InputKind is the Sora prompt source: text→video or image→video.
type InputKind string

const (
	InputText  InputKind = "t2v"
	InputImage InputKind = "i2v"
)

type Tier string

const (
	TierSora2    Tier = "sora2"
	TierSora2Pro Tier = "sora2_pro"
)

type Quality string

const (
	QualityStandard Quality = "std"
	QualityHigh     Quality = "high"
)

type Orientation string

const (
	OrientationPortrait  Orientation = "9:16"
	OrientationLandscape Orientation = "16:9"
)

const (
	Duration10s = 10
	Duration15s = 15
)

// VeoMode is the Veo input mode: text, photo frames or style references.
type VeoMode string

const (
	VeoModeText      VeoMode = "t2v"
	VeoModeImage     VeoMode = "i2v"
	VeoModeReference VeoMode = "ref"
)

type VeoModel string

const (
	VeoModelFast    VeoModel = "veo3_fast"
	VeoModelQuality VeoModel = "veo3"
)

// VeoModeImageLimit returns how many photos a Veo mode accepts.
func VeoModeImageLimit(mode VeoMode) int {
	if mode == VeoModeImage {
		return 2
	}
	return 3
}

// GenerationRequest is a finalized wizard session. It is immutable once
// built and is consumed exactly once by the job lifecycle manager.
type GenerationRequest struct {
	ID     string
	UserID int64
	Engine Engine

	// Model is the provider model identifier: a jobs-API model name for
	// Sora (e.g. "sora-2-pro-text-to-video") or veo3/veo3_fast for Veo.
	Model  string
	Prompt string
	Cost   int

	// Sora fields.
	InputKind   InputKind
	Tier        Tier
	Quality     Quality
	Duration    int
	Orientation Orientation

	// Veo fields.
	Mode           VeoMode
	GenerationType string

	ImageURLs []string
}

// Job is one submitted generation task tracked until a terminal outcome.
// Cost holds the tokens already debited for it.
type Job struct {
	TaskID      string
	UserID      int64
	Engine      Engine
	Cost        int
	Duration    int
	Orientation Orientation
	MaxAttempts int
}

type User struct {
	ID     int64
	Tokens int
}
