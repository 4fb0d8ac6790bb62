package user

import "time"

// State is the account lifecycle stage derived from the stored fields.
// It is never persisted.
type State string

const (
	StateUnverified          State = "unverified"
	StateVerificationPending State = "verification_pending"
	StateVerified            State = "verified"
	StateResetPending        State = "reset_pending"
)

// State derives the current stage at now. An expired OTP counts as absent
// even when it has not been cleared yet.
func (u *User) State(now time.Time) State {
	switch {
	case u.ResetOTP.IsActive(now):
		return StateResetPending
	case u.IsVerified:
		return StateVerified
	case u.VerifyOTP.IsActive(now):
		return StateVerificationPending
	default:
		return StateUnverified
	}
}
