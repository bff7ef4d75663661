package gate

import (
	"strings"
	"time"
)

// Profile is the platform-side identity of a user, refreshed from
// every inbound event that carries it.
type Profile struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
}

// DisplayName formats the profile the way admins see it in decision
// posts: "First Last (@username)".
func (p Profile) DisplayName() string {
	parts := []string{}
	if p.FirstName != "" {
		parts = append(parts, p.FirstName)
	}
	if p.LastName != "" {
		parts = append(parts, p.LastName)
	}
	name := strings.Join(parts, " ")
	if p.Username != "" {
		if name == "" {
			return "@" + p.Username
		}
		return name + " (@" + p.Username + ")"
	}
	return name
}

// Record is the persisted moderation state for one user. Records are
// created on the first join request and never deleted. Dismissed is
// terminal: once set it is never cleared again.
type Record struct {
	UserID           int64     `json:"user_id"`
	Username         string    `json:"username"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Dismissed        bool      `json:"dismissed"`
	PendingReview    bool      `json:"pending_review"`
	NotRequestedJoin bool      `json:"not_requested_join"`
	ReviewID         string    `json:"review_id,omitempty"`
	ReviewText       string    `json:"review_text,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SetProfile refreshes the display metadata without touching any of
// the moderation flags.
func (r *Record) SetProfile(p Profile) {
	r.UserID = p.UserID
	r.Username = p.Username
	r.FirstName = p.FirstName
	r.LastName = p.LastName
}

// Profile returns the display metadata stored on the record.
func (r *Record) Profile() Profile {
	return Profile{
		UserID:    r.UserID,
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// RecordStore is the durable user id -> Record mapping. Writes must be
// atomic per key; Update applies mutate inside a single transaction,
// creating a zeroed record for the key when none exists yet.
type RecordStore interface {
	Get(userID int64) (*Record, bool, error)
	Upsert(rec *Record) error
	Update(userID int64, mutate func(*Record)) error
}
