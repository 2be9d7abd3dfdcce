package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_OnePresentationPerKind(t *testing.T) {
	tests := []struct {
		kind Kind
		sev  Severity
	}{
		{KindValidation, SeverityWarning},
		{KindAuth, SeverityWarning},
		{KindPermission, SeverityWarning},
		{KindNetwork, SeverityError},
		{KindServer, SeverityError},
		{KindSuccess, SeveritySuccess},
		{KindInfo, SeverityInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			n := New(tt.kind, "msg")
			assert.Equal(t, tt.kind, n.Type)
			assert.Equal(t, tt.sev, n.Severity)
			assert.Equal(t, "msg", n.Message)
			assert.False(t, n.Timestamp.IsZero())
		})
	}
}

func TestNew_UnknownKindPresentsAsError(t *testing.T) {
	n := New(Kind("mystery"), "msg")
	assert.Equal(t, SeverityError, n.Severity)
}
