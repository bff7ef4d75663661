package gate

import "sync"

// session is the ephemeral challenge state for one user: which stage
// they are on and which shuffled position holds the correct answer.
// At most one session exists per user id.
type session struct {
	Stage        int // 1-based index into the stage pipeline
	CorrectIndex int
}

// sessionStore keeps outstanding challenge sessions in memory and
// hands out the per-user locks that serialize every read-modify-write
// sequence on a user's state. Operations on distinct users never
// contend.
type sessionStore struct {
	mu    sync.Mutex
	live  map[int64]session
	locks map[int64]*sync.Mutex
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		live:  make(map[int64]session),
		locks: make(map[int64]*sync.Mutex),
	}
}

// lock acquires the user's lock and returns the matching unlock.
func (s *sessionStore) lock(userID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *sessionStore) get(userID int64) (session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.live[userID]
	return sess, ok
}

func (s *sessionStore) put(userID int64, sess session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[userID] = sess
}

func (s *sessionStore) drop(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, userID)
}
