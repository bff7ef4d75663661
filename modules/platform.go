package modules

import (
	"fmt"

	tg "github.com/amarnathcjd/gogram/telegram"
	"github.com/sirupsen/logrus"

	"main/modules/gate"
)

// telegramPlatform adapts the gogram client to the gate.Platform
// surface the engine drives. Every method is a single attempt against
// the platform, no retries.
type telegramPlatform struct {
	client *tg.Client
	log    *logrus.Entry
}

func NewTelegramPlatform(client *tg.Client, log *logrus.Entry) gate.Platform {
	return &telegramPlatform{client: client, log: log}
}

func buildKeyboard(rows [][]gate.Button) *tg.ReplyInlineMarkup {
	b := tg.Button
	kb := tg.NewKeyboard()
	for _, row := range rows {
		btns := make([]tg.KeyboardButton, 0, len(row))
		for _, btn := range row {
			btns = append(btns, b.Data(btn.Label, btn.Data))
		}
		kb.AddRow(btns...)
	}
	return kb.Build()
}

func (t *telegramPlatform) SendMessage(chatID int64, text string, keyboard [][]gate.Button) (int32, error) {
	opts := &tg.SendOptions{}
	if keyboard != nil {
		opts.ReplyMarkup = buildKeyboard(keyboard)
	}
	msg, err := t.client.SendMessage(chatID, text, opts)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (t *telegramPlatform) EditMessage(chatID int64, msgID int32, text string, keyboard [][]gate.Button) error {
	opts := &tg.SendOptions{}
	if keyboard != nil {
		opts.ReplyMarkup = buildKeyboard(keyboard)
	} else {
		// An empty markup strips leftover buttons.
		opts.ReplyMarkup = &tg.ReplyInlineMarkup{}
	}
	_, err := t.client.EditMessage(chatID, msgID, text, opts)
	return err
}

func (t *telegramPlatform) ApproveJoinRequest(groupID, userID int64) error {
	return t.hideJoinRequest(groupID, userID, true)
}

func (t *telegramPlatform) DeclineJoinRequest(groupID, userID int64) error {
	return t.hideJoinRequest(groupID, userID, false)
}

func (t *telegramPlatform) hideJoinRequest(groupID, userID int64, approve bool) error {
	peer, err := t.client.ResolvePeer(groupID)
	if err != nil {
		return fmt.Errorf("resolve group %d: %w", groupID, err)
	}
	user, err := t.inputUser(userID)
	if err != nil {
		return err
	}
	_, err = t.client.MessagesHideChatJoinRequest(approve, peer, user)
	return err
}

func (t *telegramPlatform) inputUser(userID int64) (tg.InputUser, error) {
	peer, err := t.client.ResolvePeer(userID)
	if err != nil {
		return nil, fmt.Errorf("resolve user %d: %w", userID, err)
	}
	u, ok := peer.(*tg.InputPeerUser)
	if !ok {
		return nil, fmt.Errorf("peer %d is not a user", userID)
	}
	return &tg.InputUserObj{UserID: u.UserID, AccessHash: u.AccessHash}, nil
}

func (t *telegramPlatform) MemberRole(groupID, userID int64) (gate.Role, error) {
	peer, err := t.client.ResolvePeer(groupID)
	if err != nil {
		return gate.RoleMember, fmt.Errorf("resolve group %d: %w", groupID, err)
	}
	ch, ok := peer.(*tg.InputPeerChannel)
	if !ok {
		return gate.RoleMember, fmt.Errorf("chat %d is not a channel", groupID)
	}
	userPeer, err := t.client.ResolvePeer(userID)
	if err != nil {
		return gate.RoleMember, fmt.Errorf("resolve user %d: %w", userID, err)
	}

	res, err := t.client.ChannelsGetParticipant(
		&tg.InputChannelObj{ChannelID: ch.ChannelID, AccessHash: ch.AccessHash},
		userPeer,
	)
	if err != nil {
		return gate.RoleMember, err
	}

	switch res.Participant.(type) {
	case *tg.ChannelParticipantCreator:
		return gate.RoleOwner, nil
	case *tg.ChannelParticipantAdmin:
		return gate.RoleAdmin, nil
	}
	return gate.RoleMember, nil
}
