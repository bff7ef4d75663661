package gate

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Config is the static surface the engine needs: where the gated group
// lives, where admins decide, and what the challenge pipeline asks.
type Config struct {
	GroupID      int64
	GroupHandle  string
	AdminGroupID int64
	Hashtag      string
	Stages       []Stage
}

// Engine drives a user's join request through the automatic challenge
// and, when that fails, through the manual moderation path. All state
// transitions for a given user are serialized on that user's lock.
type Engine struct {
	cfg      Config
	platform Platform
	records  RecordStore
	sessions *sessionStore
	log      *logrus.Entry

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New validates the challenge pipeline and builds an engine. A nil
// logger falls back to the standard logrus logger.
func New(cfg Config, platform Platform, records RecordStore, log *logrus.Entry) (*Engine, error) {
	if len(cfg.Stages) == 0 {
		return nil, fmt.Errorf("challenge pipeline needs at least one stage")
	}
	for i, stage := range cfg.Stages {
		if len(stage.Options) < 2 {
			return nil, fmt.Errorf("stage %d needs at least two options", i+1)
		}
		correct := 0
		for _, opt := range stage.Options {
			if opt.Correct {
				correct++
			}
		}
		if correct != 1 {
			return nil, fmt.Errorf("stage %d needs exactly one correct option, has %d", i+1, correct)
		}
	}
	if cfg.Hashtag == "" {
		cfg.Hashtag = "#join"
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{
		cfg:      cfg,
		platform: platform,
		records:  records,
		sessions: newSessionStore(),
		log:      log,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

const (
	msgGreeting = "Hello! Pass a quick verification to join:\n\n"
	msgExpired  = "Your session has expired. Please send a new join request to the group."
	msgRefused  = "Your application has been declined by the administrators."
)

func (e *Engine) msgWrongAnswer() string {
	return fmt.Sprintf("❌ Wrong answer. Write a couple of sentences about yourself with the %s hashtag and your application will go to the administrators.\n\nExample: «%s Hi! I work with technical documentation and want advice from the community.»",
		e.cfg.Hashtag, e.cfg.Hashtag)
}

func (e *Engine) msgWelcome() string {
	return fmt.Sprintf("✅ Welcome to the group!\n\nhttps://t.me/%s\n\nPlease read the pinned rules before posting.", e.cfg.GroupHandle)
}

// Start handles a fresh join request: refresh the user's record, issue
// the first challenge stage and deliver it. A dismissed user is
// declined outright, and a user the bot cannot reach is declined
// rather than left in limbo.
func (e *Engine) Start(p Profile) error {
	unlock := e.sessions.lock(p.UserID)
	defer unlock()

	rec, found, err := e.records.Get(p.UserID)
	if err != nil {
		return fmt.Errorf("load record: %w", err)
	}
	if found && rec.Dismissed {
		e.log.WithField("user_id", p.UserID).Info("declining join request from dismissed user")
		if err := e.platform.DeclineJoinRequest(e.cfg.GroupID, p.UserID); err != nil {
			return fmt.Errorf("decline dismissed user: %w", err)
		}
		return nil
	}
	if found && rec.PendingReview {
		e.log.WithField("user_id", p.UserID).Info("join request while manual review pending, leaving to admins")
		return nil
	}

	if !found {
		rec = &Record{CreatedAt: time.Now()}
	}
	rec.SetProfile(p)
	rec.NotRequestedJoin = false
	if err := e.records.Upsert(rec); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}

	if err := e.askStage(p.UserID, 0, 1); err != nil {
		e.log.WithError(err).WithField("user_id", p.UserID).
			Error("could not deliver challenge, declining join request")
		if derr := e.platform.DeclineJoinRequest(e.cfg.GroupID, p.UserID); derr != nil {
			e.log.WithError(derr).WithField("user_id", p.UserID).Error("decline after failed delivery")
		}
		return fmt.Errorf("send challenge: %w", err)
	}
	return nil
}

// Answer applies one challenge button press. msgID is the challenge
// message the press came from; outcomes are rendered by editing it in
// place. A wrong answer is terminal for the automatic path.
func (e *Engine) Answer(userID int64, msgID int32, stage, selected int) error {
	unlock := e.sessions.lock(userID)
	defer unlock()

	sess, ok := e.sessions.get(userID)
	if !ok {
		e.bestEffortEdit(userID, msgID, msgExpired, nil)
		return ErrExpiredSession
	}
	if sess.Stage != stage {
		// Duplicate press of a stage that already advanced. The live
		// prompt for the current stage must survive it, so no edit.
		return ErrExpiredSession
	}

	if selected != sess.CorrectIndex {
		e.sessions.drop(userID)
		e.bestEffortEdit(userID, msgID, e.msgWrongAnswer(), nil)
		return nil
	}

	if sess.Stage < len(e.cfg.Stages) {
		// Stage transition, no approval yet.
		if err := e.askStage(userID, msgID, sess.Stage+1); err != nil {
			return fmt.Errorf("advance challenge: %w", err)
		}
		return nil
	}

	// Final stage passed: terminal either way, the session is spent.
	e.sessions.drop(userID)

	rec, found, err := e.records.Get(userID)
	if err != nil {
		return fmt.Errorf("load record: %w", err)
	}
	if found && rec.Dismissed {
		e.bestEffortEdit(userID, msgID, msgRefused, nil)
		return nil
	}

	if err := e.platform.ApproveJoinRequest(e.cfg.GroupID, userID); err != nil {
		// Not safe to blindly retry against the platform's own request
		// lifecycle; surface it and stop.
		e.log.WithError(err).WithField("user_id", userID).Error("approve join request failed")
		return fmt.Errorf("approve join request: %w", err)
	}
	if err := e.records.Update(userID, func(r *Record) {
		r.NotRequestedJoin = true
		r.PendingReview = false
	}); err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	e.bestEffortEdit(userID, msgID, e.msgWelcome(), nil)
	return nil
}

// askStage shuffles and delivers one stage. msgID zero sends a fresh
// message, otherwise the existing challenge message is edited. The
// session is stored only once delivery succeeded.
func (e *Engine) askStage(userID int64, msgID int32, stageNum int) error {
	stage := e.cfg.Stages[stageNum-1]
	labels, correct := e.shuffle(stage)

	keyboard := make([][]Button, 0, len(labels))
	for i, label := range labels {
		keyboard = append(keyboard, []Button{{Label: label, Data: VerifyToken(stageNum, i)}})
	}

	text := fmt.Sprintf("[%d/%d] %s", stageNum, len(e.cfg.Stages), stage.Question)
	if stageNum == 1 {
		text = msgGreeting + text
	}

	var err error
	if msgID == 0 {
		_, err = e.platform.SendMessage(userID, text, keyboard)
	} else {
		err = e.platform.EditMessage(userID, msgID, text, keyboard)
	}
	if err != nil {
		return err
	}

	e.sessions.put(userID, session{Stage: stageNum, CorrectIndex: correct})
	return nil
}

func (e *Engine) shuffle(stage Stage) ([]string, int) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return stage.Shuffle(e.rng)
}

// bestEffortEdit renders an outcome to the user. The state transition
// already happened, so delivery failures are logged and dropped.
func (e *Engine) bestEffortEdit(chatID int64, msgID int32, text string, keyboard [][]Button) {
	if err := e.platform.EditMessage(chatID, msgID, text, keyboard); err != nil {
		e.log.WithError(err).WithField("chat_id", chatID).Warn("best-effort edit failed")
	}
}

func (e *Engine) bestEffortSend(chatID int64, text string) {
	if _, err := e.platform.SendMessage(chatID, text, nil); err != nil {
		e.log.WithError(err).WithField("chat_id", chatID).Warn("best-effort notify failed")
	}
}
