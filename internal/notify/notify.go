package notify

import "time"

// Severity controls how a toast is presented.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Kind classifies what went wrong (or right). Each kind has exactly one
// presentation, so the same failure always looks the same to the user.
type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindPermission Kind = "permission"
	KindNetwork    Kind = "network"
	KindServer     Kind = "server"
	KindSuccess    Kind = "success"
	KindInfo       Kind = "info"
)

// severityFor maps each kind to its single presentation.
var severityFor = map[Kind]Severity{
	KindValidation: SeverityWarning,
	KindAuth:       SeverityWarning,
	KindPermission: SeverityWarning,
	KindNetwork:    SeverityError,
	KindServer:     SeverityError,
	KindSuccess:    SeveritySuccess,
	KindInfo:       SeverityInfo,
}

// Notification is one toast pushed to the browser.
type Notification struct {
	Type      Kind      `json:"type"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// New builds a notification of the given kind. Unknown kinds present as
// errors rather than being dropped.
func New(kind Kind, message string) Notification {
	sev, ok := severityFor[kind]
	if !ok {
		sev = SeverityError
	}
	return Notification{
		Type:      kind,
		Severity:  sev,
		Message:   message,
		Timestamp: time.Now(),
	}
}
