package main

import (
	"github.com/caarlos0/env/v11"

	"main/modules/gate"
)

type Config struct {
	AppID    int32  `env:"APP_ID,required"`
	AppHash  string `env:"APP_HASH,required"`
	BotToken string `env:"BOT_TOKEN,required"`

	MainGroupID   int64  `env:"MAIN_GROUP_ID,required"`
	MainGroupName string `env:"MAIN_GROUP_USERNAME,required"`
	AdminGroupID  int64  `env:"ADMIN_GROUP_ID,required"`
	Hashtag       string `env:"REVIEW_HASHTAG" envDefault:"#join"`

	DBPath  string `env:"DB_PATH" envDefault:"gatekeeper.db"`
	LogPort string `env:"LOG_PORT"`
}

func loadConfig() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	return cfg, err
}

// defaultStages is the stock verification pipeline. The questions are
// deliberately trivial for a human and each has exactly one correct
// option.
func defaultStages() []gate.Stage {
	return []gate.Stage{
		{
			Question: "What best describes what you do?",
			Options: []gate.Option{
				{Label: "I sell marketing services"},
				{Label: "I work with technical documentation", Correct: true},
				{Label: "I am here for the crypto signals"},
				{Label: "I just press buttons"},
			},
		},
		{
			Question: "Pick the same emoji: 🔥",
			Options: []gate.Option{
				{Label: "🟢"},
				{Label: "⭐"},
				{Label: "🔵"},
				{Label: "🔥", Correct: true},
			},
		},
	}
}
