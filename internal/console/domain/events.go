package domain

// Notification event types published on the session bus.
const (
	EventSessionExpired = "session-expired"
	EventAccessDenied   = "access-denied"
	EventServerError    = "server-error"
)

// SessionExpiredMessage is the user-facing text for an expiry logout.
const SessionExpiredMessage = "Your session has expired. Please sign in again."
