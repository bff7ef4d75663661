package gate

import (
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
)

// SubmitStatus tells the inbound handler how a manual review
// submission was received.
type SubmitStatus int

const (
	// SubmitAccepted means the request was posted to the admin group.
	SubmitAccepted SubmitStatus = iota
	// SubmitRefusedDismissed is the permanent refusal for dismissed users.
	SubmitRefusedDismissed
	// SubmitAlreadyPending means a review request is already outstanding.
	SubmitAlreadyPending
	// SubmitNotEligible means there is no open join request to review:
	// the user never requested to join, or was already admitted.
	SubmitNotEligible
	// SubmitBadFormat means the hashtag is missing or the message is
	// the bare hashtag with nothing about the requester.
	SubmitBadFormat
)

// Submit bridges a user's hashtag-tagged message to an admin decision
// post. Rejections are checked in precedence order: dismissed, already
// pending, not eligible, bad format. Only an accepted submission
// mutates state or reaches the admin group.
func (e *Engine) Submit(p Profile, text string) (SubmitStatus, error) {
	unlock := e.sessions.lock(p.UserID)
	defer unlock()

	rec, found, err := e.records.Get(p.UserID)
	if err != nil {
		return 0, fmt.Errorf("load record: %w", err)
	}
	switch {
	case found && rec.Dismissed:
		return SubmitRefusedDismissed, nil
	case found && rec.PendingReview:
		return SubmitAlreadyPending, nil
	case !found || rec.NotRequestedJoin:
		return SubmitNotEligible, nil
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == e.cfg.Hashtag || !strings.Contains(trimmed, e.cfg.Hashtag) {
		return SubmitBadFormat, nil
	}

	rec.SetProfile(p)
	rec.PendingReview = true
	rec.ReviewID = uuid.NewString()
	rec.ReviewText = trimmed
	if err := e.records.Upsert(rec); err != nil {
		return 0, fmt.Errorf("upsert record: %w", err)
	}

	keyboard := [][]Button{{
		{Label: "✅ Approve", Data: ModerationToken(ActionApprove, p.UserID)},
		{Label: "❌ Dismiss", Data: ModerationToken(ActionDismiss, p.UserID)},
	}}
	if _, err := e.platform.SendMessage(e.cfg.AdminGroupID, renderReviewPost(rec), keyboard); err != nil {
		// Admins never saw the request, so it must not stay pending.
		if rerr := e.records.Update(p.UserID, func(r *Record) { r.PendingReview = false }); rerr != nil {
			e.log.WithError(rerr).WithField("user_id", p.UserID).Error("pending rollback failed")
		}
		return 0, fmt.Errorf("post review request: %w", err)
	}
	return SubmitAccepted, nil
}

// Resolve applies an admin's approve/dismiss decision. The acting user
// must hold an administrator or owner role in the target group; the
// check fails closed. adminMsgID is the decision post being acted on.
func (e *Engine) Resolve(actor Profile, target int64, action Action, adminMsgID int32) error {
	role, err := e.platform.MemberRole(e.cfg.GroupID, actor.UserID)
	if err != nil {
		return fmt.Errorf("member role lookup: %w", err)
	}
	if role != RoleAdmin && role != RoleOwner {
		return ErrUnauthorized
	}

	unlock := e.sessions.lock(target)
	defer unlock()

	rec, found, err := e.records.Get(target)
	if err != nil {
		return fmt.Errorf("load record: %w", err)
	}
	if !found || rec.Dismissed || !rec.PendingReview {
		return ErrStaleAction
	}

	actorName := html.EscapeString(actor.DisplayName())

	switch action {
	case ActionDismiss:
		if err := e.platform.DeclineJoinRequest(e.cfg.GroupID, target); err != nil {
			// The decision post stays untouched: its outcome line would
			// claim a decline that never happened.
			e.log.WithError(err).WithField("user_id", target).Error("decline join request failed")
			return fmt.Errorf("decline join request: %w", err)
		}
		if err := e.records.Update(target, func(r *Record) {
			r.Dismissed = true
			r.PendingReview = false
		}); err != nil {
			return fmt.Errorf("update record: %w", err)
		}
		e.bestEffortEdit(e.cfg.AdminGroupID, adminMsgID,
			renderReviewPost(rec)+"\n\n❌ Dismissed by "+actorName, nil)
		e.bestEffortSend(target, msgRefused)
		return nil

	case ActionApprove:
		if err := e.platform.ApproveJoinRequest(e.cfg.GroupID, target); err != nil {
			e.log.WithError(err).WithField("user_id", target).Error("approve join request failed")
			return fmt.Errorf("approve join request: %w", err)
		}
		if err := e.records.Update(target, func(r *Record) {
			r.PendingReview = false
			r.NotRequestedJoin = true
		}); err != nil {
			return fmt.Errorf("update record: %w", err)
		}
		e.bestEffortEdit(e.cfg.AdminGroupID, adminMsgID,
			renderReviewPost(rec)+"\n\n✅ Approved by "+actorName, nil)
		e.bestEffortSend(target, e.msgWelcome())
		return nil

	default:
		return ErrMalformedInput
	}
}

// renderReviewPost builds the admin-facing decision post from what is
// persisted on the record, so a later edit never depends on refetching
// the original message.
func renderReviewPost(rec *Record) string {
	return fmt.Sprintf("<b>Join request from</b> <a href='tg://user?id=%d'>%s</a>:\n\n%s\n\n<i>Request ID: %s</i>",
		rec.UserID,
		html.EscapeString(rec.Profile().DisplayName()),
		html.EscapeString(rec.ReviewText),
		rec.ReviewID)
}
