package gate

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	testGroupID      = int64(2001)
	testAdminGroupID = int64(2002)
	testUserID       = int64(501)
	testAdminID      = int64(900)
)

type sentMsg struct {
	ChatID   int64
	MsgID    int32
	Text     string
	Keyboard [][]Button
}

// fakePlatform records every adapter call and can be scripted to fail.
type fakePlatform struct {
	mu sync.Mutex

	Sent     []sentMsg
	Edits    []sentMsg
	Approves []int64
	Declines []int64

	Roles map[int64]Role

	SendErr    error
	EditErr    error
	ApproveErr error
	DeclineErr error
	RoleErr    error

	nextID int32
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{Roles: make(map[int64]Role)}
}

func (f *fakePlatform) SendMessage(chatID int64, text string, keyboard [][]Button) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return 0, f.SendErr
	}
	f.nextID++
	f.Sent = append(f.Sent, sentMsg{ChatID: chatID, MsgID: f.nextID, Text: text, Keyboard: keyboard})
	return f.nextID, nil
}

func (f *fakePlatform) EditMessage(chatID int64, msgID int32, text string, keyboard [][]Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EditErr != nil {
		return f.EditErr
	}
	f.Edits = append(f.Edits, sentMsg{ChatID: chatID, MsgID: msgID, Text: text, Keyboard: keyboard})
	return nil
}

func (f *fakePlatform) ApproveJoinRequest(groupID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ApproveErr != nil {
		return f.ApproveErr
	}
	f.Approves = append(f.Approves, userID)
	return nil
}

func (f *fakePlatform) DeclineJoinRequest(groupID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeclineErr != nil {
		return f.DeclineErr
	}
	f.Declines = append(f.Declines, userID)
	return nil
}

func (f *fakePlatform) MemberRole(groupID, userID int64) (Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RoleErr != nil {
		return RoleMember, f.RoleErr
	}
	return f.Roles[userID], nil
}

func (f *fakePlatform) lastSent(t *testing.T) sentMsg {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.Sent, "expected at least one sent message")
	return f.Sent[len(f.Sent)-1]
}

func (f *fakePlatform) lastEdit(t *testing.T) sentMsg {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.Edits, "expected at least one edit")
	return f.Edits[len(f.Edits)-1]
}

// fakeStore is an in-memory RecordStore with copy-on-read semantics so
// tests cannot alias engine state by accident.
type fakeStore struct {
	mu   sync.Mutex
	recs map[int64]Record
}

func newFakeStore() *fakeStore {
	return &fakeStore{recs: make(map[int64]Record)}
}

func (s *fakeStore) Get(userID int64) (*Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[userID]
	if !ok {
		return nil, false, nil
	}
	cp := rec
	return &cp, true, nil
}

func (s *fakeStore) Upsert(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.UserID] = *rec
	return nil
}

func (s *fakeStore) Update(userID int64, mutate func(*Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[userID]
	if !ok {
		rec = Record{UserID: userID}
	}
	mutate(&rec)
	s.recs[userID] = rec
	return nil
}

func (s *fakeStore) mustGet(t *testing.T, userID int64) Record {
	t.Helper()
	rec, ok, err := s.Get(userID)
	require.NoError(t, err)
	require.True(t, ok, "record for user %d not found", userID)
	return *rec
}

func testStages() []Stage {
	return []Stage{
		{
			Question: "Why do you want to join?",
			Options: []Option{
				{Label: "I am a human"},
				{Label: "No"},
				{Label: "I work with technical documentation", Correct: true},
				{Label: "I am not a robot"},
			},
		},
		{
			Question: "Pick the same emoji: 🔥",
			Options: []Option{
				{Label: "🟢"},
				{Label: "⭐"},
				{Label: "🔵"},
				{Label: "🔥", Correct: true},
			},
		},
	}
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestEngine(t *testing.T, stages []Stage) (*Engine, *fakePlatform, *fakeStore) {
	t.Helper()
	platform := newFakePlatform()
	store := newFakeStore()
	engine, err := New(Config{
		GroupID:      testGroupID,
		GroupHandle:  "techwriters",
		AdminGroupID: testAdminGroupID,
		Hashtag:      "#join",
		Stages:       stages,
	}, platform, store, quietLog())
	require.NoError(t, err)
	return engine, platform, store
}

func testProfile(id int64) Profile {
	return Profile{UserID: id, Username: "jdoe", FirstName: "Jane", LastName: "Doe"}
}

// correctIndexFrom digs the correct option's shuffled position out of
// the keyboard the engine just sent, via the button tokens.
func correctIndexFrom(t *testing.T, msg sentMsg, correctLabel string, wantStage int) int {
	t.Helper()
	for _, row := range msg.Keyboard {
		for _, btn := range row {
			if btn.Label != correctLabel {
				continue
			}
			stage, index, err := ParseVerifyToken(btn.Data)
			require.NoError(t, err)
			require.Equal(t, wantStage, stage)
			return index
		}
	}
	t.Fatalf("correct label %q not present in keyboard", correctLabel)
	return -1
}

// wrongIndexFrom picks any option that is not the correct one.
func wrongIndexFrom(t *testing.T, msg sentMsg, correctLabel string) int {
	t.Helper()
	for _, row := range msg.Keyboard {
		for _, btn := range row {
			if btn.Label == correctLabel {
				continue
			}
			_, index, err := ParseVerifyToken(btn.Data)
			require.NoError(t, err)
			return index
		}
	}
	t.Fatal("no wrong option in keyboard")
	return -1
}

var errBoom = errors.New("boom")
