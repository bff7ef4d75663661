package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tg "github.com/amarnathcjd/gogram/telegram"
	dotenv "github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"main/modules/db"
)

var startTimeStamp = time.Now().Unix()

func main() {
	dotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("bad configuration")
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if cfg.LogPort != "" {
		nl := NewNetworkLogger(cfg.LogPort)
		nl.Start()
		defer nl.Stop()
		log.SetOutput(io.MultiWriter(os.Stderr, nl))
	}

	db.SetPath(cfg.DBPath)
	defer db.CloseDB()

	client, err := tg.NewClient(tg.ClientConfig{
		AppID:    cfg.AppID,
		AppHash:  cfg.AppHash,
		LogLevel: tg.LogInfo,
		Session:  "session.dat",
	})
	if err != nil {
		log.WithError(err).Fatal("client init failed")
	}
	client.Log.SetColor(false)

	client.Conn()
	client.LoginBot(cfg.BotToken)

	if err := initFunc(client, cfg, log); err != nil {
		log.WithError(err).Fatal("startup failed")
	}

	me, err := client.GetMe()
	if err != nil {
		log.WithError(err).Fatal("whoami failed")
	}

	client.Logger.Info(fmt.Sprintf("Authenticated as @%s, in %s.", me.Username, time.Since(time.Unix(startTimeStamp, 0)).String()))
	client.Idle()
}
