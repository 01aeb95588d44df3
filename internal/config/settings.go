package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type GeminiConfig struct {
	APIKey             string `mapstructure:"api_key"`
	Model              string `mapstructure:"model"`
	RequestTimeoutSecs int    `mapstructure:"request_timeout_secs"`
	FileTimeoutSecs    int    `mapstructure:"file_timeout_secs"`
}

func (g GeminiConfig) RequestTimeout() time.Duration {
	return time.Duration(g.RequestTimeoutSecs) * time.Second
}

func (g GeminiConfig) FileTimeout() time.Duration {
	return time.Duration(g.FileTimeoutSecs) * time.Second
}

type VoiceSettings struct {
	Stability       float64 `mapstructure:"stability"`
	SimilarityBoost float64 `mapstructure:"similarity_boost"`
	Style           float64 `mapstructure:"style"`
	UseSpeakerBoost bool    `mapstructure:"use_speaker_boost"`
}

type ElevenLabsConfig struct {
	APIKey             string        `mapstructure:"api_key"`
	BaseURL            string        `mapstructure:"base_url"`
	RequestTimeoutSecs int           `mapstructure:"request_timeout_secs"`
	Voice              VoiceSettings `mapstructure:"voice"`
}

func (e ElevenLabsConfig) RequestTimeout() time.Duration {
	return time.Duration(e.RequestTimeoutSecs) * time.Second
}

type UploadConfig struct {
	Dir string `mapstructure:"dir"`
}

type Settings struct {
	Server     ServerConfig     `mapstructure:"server"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	ElevenLabs ElevenLabsConfig `mapstructure:"elevenlabs"`
	Uploads    UploadConfig     `mapstructure:"uploads"`
	Env        string           `mapstructure:"env"`
	Debug      bool             `mapstructure:"debug"`
}

func Load() (*Settings, error) {
	viper.SetConfigName("config_" + genEnv())
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", 8000)
	viper.SetDefault("gemini.model", "gemini-1.5-flash")
	viper.SetDefault("gemini.request_timeout_secs", 300)
	viper.SetDefault("gemini.file_timeout_secs", 120)
	viper.SetDefault("elevenlabs.base_url", "https://api.elevenlabs.io")
	viper.SetDefault("elevenlabs.request_timeout_secs", 120)
	viper.SetDefault("elevenlabs.voice.stability", 0.5)
	viper.SetDefault("elevenlabs.voice.similarity_boost", 0.75)
	viper.SetDefault("elevenlabs.voice.style", 0.0)
	viper.SetDefault("elevenlabs.voice.use_speaker_boost", true)
	viper.SetDefault("uploads.dir", "uploads")

	viper.AutomaticEnv()
	_ = viper.BindEnv("gemini.api_key", "GOOGLE_AI_STUDIO_API_KEY")
	_ = viper.BindEnv("elevenlabs.api_key", "ELEVENLABS_API_KEY")

	// the config file is optional; env vars and defaults cover a bare setup
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := viper.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &settings, nil
}

func genEnv() string {
	env := viper.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
