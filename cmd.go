package main

import (
	tg "github.com/amarnathcjd/gogram/telegram"
	"github.com/sirupsen/logrus"

	"main/modules"
	"main/modules/db"
	"main/modules/gate"
)

func initFunc(c *tg.Client, cfg Config, log *logrus.Logger) error {
	c.UpdatesGetState()
	c.SetCommandPrefixes("/!")

	records, err := db.NewModerationStore()
	if err != nil {
		return err
	}

	engine, err := gate.New(gate.Config{
		GroupID:      cfg.MainGroupID,
		GroupHandle:  cfg.MainGroupName,
		AdminGroupID: cfg.AdminGroupID,
		Hashtag:      cfg.Hashtag,
		Stages:       defaultStages(),
	}, modules.NewTelegramPlatform(c, log.WithField("component", "platform")), records,
		log.WithField("component", "gate"))
	if err != nil {
		return err
	}
	modules.SetGatekeeper(engine, cfg.MainGroupID, cfg.MainGroupName, cfg.Hashtag,
		log.WithField("component", "handlers"))

	c.AddRawHandler(&tg.UpdateBotChatInviteRequester{}, modules.JoinRequestHandler)
	c.On("callback:verify_(.*)", modules.VerifyCallbackHandler)
	c.On("callback:approve_(.*)", modules.ModerationCallbackHandler)
	c.On("callback:dismiss_(.*)", modules.ModerationCallbackHandler)
	c.On(tg.OnNewMessage, modules.ReviewSubmissionHandler)

	c.On("cmd:start", modules.StartHandle)
	c.On("cmd:ping", modules.PingHandle)
	c.On("cmd:sys", modules.GatherSystemInfo)
	c.On("cmd:deploy", modules.DeployReportHandle)
	c.On("cmd:help", modules.HelpHandle)
	c.On("callback:help_back", modules.HelpBackCallback)

	modules.Mods.Init(c)
	return nil
}
