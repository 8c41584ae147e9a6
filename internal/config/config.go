package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Tariffs holds every price point in tokens. All of them can be overridden
// from the environment, e.g. SORA2_COST_10S=35.
type Tariffs struct {
	Sora2Cost10s   int
	Sora2Cost15s   int
	Sora2ProStd10s int
	Sora2ProStd15s int
	Sora2ProHD10s  int
	Sora2ProHD15s  int
	VeoFastCost    int
	VeoQualityCost int
}

type Config struct {
	TelegramBotToken string

	KieAPIKey     string
	KieAPIBase    string
	JobsCreateURL string
	JobsStatusURL string
	VeoCreateURL  string
	VeoStatusURL  string

	ChannelID       int64
	ChannelUsername string
	ChannelURL      string

	TopupLink    string
	DefaultLang  string
	DatabasePath string
	Debug        bool

	Tariffs Tariffs
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	token := getEnv("TELEGRAM_BOT_TOKEN", "", true)
	apiKey := getEnv("KIE_API_KEY", "", true)
	apiBase := getEnv("KIE_API_BASE", "https://api.kie.ai", false)

	channelIDStr := getEnv("CHANNEL_ID", "0", false)
	channelID, err := strconv.ParseInt(channelIDStr, 10, 64)
	if err != nil {
		log.Fatalf("FATAL: CHANNEL_ID must be a valid integer chat id, got %q", channelIDStr)
	}

	return &Config{
		TelegramBotToken: token,

		KieAPIKey:     apiKey,
		KieAPIBase:    apiBase,
		JobsCreateURL: getEnv("JOBS_CREATE", apiBase+"/api/v1/jobs/createTask", false),
		JobsStatusURL: getEnv("JOBS_STATUS", apiBase+"/api/v1/jobs/recordInfo", false),
		VeoCreateURL:  getEnv("VEO_URL", apiBase+"/api/v1/veo/generate", false),
		VeoStatusURL:  getEnv("VEO_STATUS", apiBase+"/api/v1/veo/record-info", false),

		ChannelID:       channelID,
		ChannelUsername: getEnv("CHANNEL_USERNAME", "", false),
		ChannelURL:      getEnv("CHANNEL_URL", "", false),

		TopupLink:    getEnv("TOPUP_LINK", "", false),
		DefaultLang:  getEnv("DEFAULT_LANG", "ru", false),
		DatabasePath: getEnv("DATABASE_PATH", "./bot_data.db", false),
		Debug:        getEnv("DEBUG", "", false) == "true",

		Tariffs: Tariffs{
			Sora2Cost10s:   getEnvInt("SORA2_COST_10S", 30),
			Sora2Cost15s:   getEnvInt("SORA2_COST_15S", 35),
			Sora2ProStd10s: getEnvInt("SORA2_PRO_STD_10S", 90),
			Sora2ProStd15s: getEnvInt("SORA2_PRO_STD_15S", 135),
			Sora2ProHD10s:  getEnvInt("SORA2_PRO_HD_10S", 200),
			Sora2ProHD15s:  getEnvInt("SORA2_PRO_HD_15S", 400),
			VeoFastCost:    getEnvInt("VEO_FAST_COST", 30),
			VeoQualityCost: getEnvInt("VEO_QUALITY_COST", 45),
		},
	}
}

func getEnv(key, fallback string, required bool) string {
	value, exists := os.LookupEnv(key)

	if !exists {
		if required {
			log.Fatalf("FATAL: Required environment variable %s is not set.", key)
		}
		if fallback != "" {
			return fallback
		}
		return ""
	}

	if required && value == "" {
		log.Fatalf("FATAL: Required environment variable %s is set but empty.", key)
	}

	return value
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("FATAL: %s must be an integer, got %q", key, value)
	}
	return n
}
