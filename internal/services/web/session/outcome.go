package session

// Outcome is the result of one Verify call.
type Outcome int

const (
	// OutcomeValid means the backend accepted the token.
	OutcomeValid Outcome = iota
	// OutcomeMissing means there was no session to verify.
	OutcomeMissing
	// OutcomeStale means the answer was discarded because the session was
	// logged out or replaced while the call was in flight.
	OutcomeStale
	// OutcomeExpired means the backend answered 401 or 403.
	OutcomeExpired
	// OutcomeUnreachable means the backend could not be reached.
	OutcomeUnreachable
	// OutcomeServerError means the backend answered with another non-OK status.
	OutcomeServerError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeMissing:
		return "missing"
	case OutcomeStale:
		return "stale"
	case OutcomeExpired:
		return "expired"
	case OutcomeUnreachable:
		return "unreachable"
	case OutcomeServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// Reason explains why a session ended.
type Reason string

const (
	ReasonUserLogout  Reason = "logout"
	ReasonExpired     Reason = "expired"
	ReasonUnreachable Reason = "unreachable"
	ReasonServerError Reason = "server_error"
)

// NoticeKey returns the localization key of the message shown after a
// session ends for this reason.
func (r Reason) NoticeKey() string {
	switch r {
	case ReasonExpired:
		return "web.session.notice_expired"
	case ReasonUnreachable:
		return "web.session.notice_unreachable"
	case ReasonServerError:
		return "web.session.notice_server_error"
	default:
		return "web.session.notice_logged_out"
	}
}

// Reason returns the logout reason for a failed outcome.
func (o Outcome) Reason() Reason {
	switch o {
	case OutcomeExpired:
		return ReasonExpired
	case OutcomeUnreachable:
		return ReasonUnreachable
	default:
		return ReasonServerError
	}
}

// Failed reports whether the outcome logged the session out.
func (o Outcome) Failed() bool {
	return o == OutcomeExpired || o == OutcomeUnreachable || o == OutcomeServerError
}
