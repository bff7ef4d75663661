package modules

import (
	"errors"
	"fmt"
	"strings"

	tg "github.com/amarnathcjd/gogram/telegram"
	"github.com/sirupsen/logrus"

	"main/modules/gate"
)

// gk is the package-level wiring of the verification engine. Set once
// at startup, before the client begins polling updates.
var gk struct {
	engine  *gate.Engine
	groupID int64
	handle  string
	hashtag string
	log     *logrus.Entry
}

// SetGatekeeper binds the gate engine to the handlers below.
func SetGatekeeper(engine *gate.Engine, groupID int64, handle, hashtag string, log *logrus.Entry) {
	gk.engine = engine
	gk.groupID = groupID
	gk.handle = handle
	gk.hashtag = hashtag
	gk.log = log
}

func messageProfile(m *tg.NewMessage) gate.Profile {
	p := gate.Profile{UserID: m.SenderID()}
	if m.Sender != nil {
		p.Username = m.Sender.Username
		p.FirstName = m.Sender.FirstName
		p.LastName = m.Sender.LastName
	}
	return p
}

func callbackProfile(c *tg.CallbackQuery) gate.Profile {
	p := gate.Profile{UserID: c.SenderID}
	if c.Sender != nil {
		p.Username = c.Sender.Username
		p.FirstName = c.Sender.FirstName
		p.LastName = c.Sender.LastName
	}
	return p
}

// JoinRequestHandler feeds join requests for the gated group into the
// engine. Requests for any other chat are ignored.
func JoinRequestHandler(u tg.Update, c *tg.Client) error {
	req, ok := u.(*tg.UpdateBotChatInviteRequester)
	if !ok {
		return nil
	}
	ch, ok := req.Peer.(*tg.PeerChannel)
	if !ok || ch.ChannelID != gk.groupID {
		return nil
	}

	user, err := c.GetUser(req.UserID)
	if err != nil {
		gk.log.WithError(err).WithField("user_id", req.UserID).Error("resolve join requester")
		return nil
	}

	p := gate.Profile{
		UserID:    user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if err := gk.engine.Start(p); err != nil {
		gk.log.WithError(err).WithField("user_id", p.UserID).Error("join request handling failed")
	}
	return nil
}

// VerifyCallbackHandler applies a challenge button press.
func VerifyCallbackHandler(c *tg.CallbackQuery) error {
	stage, selected, err := gate.ParseVerifyToken(c.DataString())
	if err != nil {
		c.Answer("This button is no longer valid.")
		return nil
	}

	err = gk.engine.Answer(c.SenderID, c.MessageID, stage, selected)
	switch {
	case errors.Is(err, gate.ErrExpiredSession):
		c.Answer("Session expired.")
	case err != nil:
		gk.log.WithError(err).WithField("user_id", c.SenderID).Error("verification failed")
		c.Answer("Something went wrong. Please try again later.")
	default:
		c.Answer("OK")
	}
	return nil
}

// commandPrefixes mirrors the prefixes registered on the client, so
// commands like !help never fall through to the review flow.
const commandPrefixes = "/!"

func isCommandText(text string) bool {
	return text != "" && strings.ContainsAny(text[:1], commandPrefixes)
}

// ReviewSubmissionHandler routes private free-text messages into the
// manual review flow and replies with guidance for rejected ones.
func ReviewSubmissionHandler(m *tg.NewMessage) error {
	if !m.IsPrivate() || m.Text() == "" || isCommandText(m.Text()) {
		return nil
	}

	status, err := gk.engine.Submit(messageProfile(m), m.Text())
	if err != nil {
		gk.log.WithError(err).WithField("user_id", m.SenderID()).Error("review submission failed")
		m.Reply("Something went wrong. Please try again later.")
		return nil
	}

	switch status {
	case gate.SubmitRefusedDismissed:
		m.Reply("Your application has been declined. You cannot apply again.")
	case gate.SubmitAlreadyPending:
		m.Reply("Your application is already being reviewed.")
	case gate.SubmitNotEligible:
		m.Reply(fmt.Sprintf("Use «Request to Join» in the group first: https://t.me/%s", gk.handle))
	case gate.SubmitBadFormat:
		m.Reply(fmt.Sprintf("The message must contain the %s hashtag and a couple of sentences about yourself.", gk.hashtag))
	case gate.SubmitAccepted:
		m.Reply("Your application was sent to the administrators.")
	}
	return nil
}

// ModerationCallbackHandler applies an admin's approve/dismiss press.
func ModerationCallbackHandler(c *tg.CallbackQuery) error {
	action, target, err := gate.ParseModerationToken(c.DataString())
	if err != nil {
		c.Answer("Malformed action.", &tg.CallbackOptions{Alert: true})
		return nil
	}

	err = gk.engine.Resolve(callbackProfile(c), target, action, c.MessageID)
	switch {
	case errors.Is(err, gate.ErrUnauthorized):
		c.Answer("You're not an admin!", &tg.CallbackOptions{Alert: true})
	case errors.Is(err, gate.ErrStaleAction):
		c.Answer("Already handled.")
	case err != nil:
		gk.log.WithError(err).WithFields(logrus.Fields{
			"admin_id": c.SenderID,
			"user_id":  target,
		}).Error("moderation action failed")
		c.Answer("Action failed, check the logs.", &tg.CallbackOptions{Alert: true})
	default:
		c.Answer("Done.")
	}
	return nil
}

func init() {
	Mods.AddModule("Gate", `<b>Gate Module</b>

Screens join requests for the main group.

New join requests get a short multiple-choice verification in private
chat. Users who fail it can write a few sentences about themselves
tagged with the review hashtag; the request is then posted to the admin
group with Approve/Dismiss buttons. Dismissal is permanent.`)
}
