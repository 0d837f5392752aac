package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRegistrationFlow(t *testing.T) {
	tests := []struct {
		name     string
		triggers []registrationTrigger
		want     RegistrationState
	}{
		{
			name:     "happy path",
			triggers: []registrationTrigger{triggerCheckDuplicate, triggerCreateIdentity, triggerInsertProfile, triggerSucceed},
			want:     StateSuccess,
		},
		{
			name:     "rollback",
			triggers: []registrationTrigger{triggerCheckDuplicate, triggerCreateIdentity, triggerInsertProfile, triggerRollBack, triggerFail},
			want:     StateFailed,
		},
		{
			name:     "validation failure",
			triggers: []registrationTrigger{triggerFail},
			want:     StateFailed,
		},
		{
			name:     "duplicate",
			triggers: []registrationTrigger{triggerCheckDuplicate, triggerFail},
			want:     StateFailed,
		},
		{
			name:     "insert cannot fail without rolling back",
			triggers: []registrationTrigger{triggerCheckDuplicate, triggerCreateIdentity, triggerInsertProfile, triggerFail},
			want:     StateInsertingProfile,
		},
		{
			name:     "identity cannot be skipped",
			triggers: []registrationTrigger{triggerInsertProfile},
			want:     StateValidating,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := newRegistrationFlow(zap.NewNop())
			for _, trigger := range tt.triggers {
				flow.fire(context.Background(), trigger)
			}
			assert.Equal(t, tt.want, flow.State())
		})
	}
}

func TestRegistrationFlow_LogsTerminalState(t *testing.T) {
	tests := []struct {
		name     string
		triggers []registrationTrigger
		want     RegistrationState
	}{
		{
			name:     "success",
			triggers: []registrationTrigger{triggerCheckDuplicate, triggerCreateIdentity, triggerInsertProfile, triggerSucceed},
			want:     StateSuccess,
		},
		{
			name:     "rolled back",
			triggers: []registrationTrigger{triggerCheckDuplicate, triggerCreateIdentity, triggerInsertProfile, triggerRollBack, triggerFail},
			want:     StateFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			flow := newRegistrationFlow(zap.New(core))

			for _, trigger := range tt.triggers {
				flow.fire(context.Background(), trigger)
			}

			finished := logs.FilterMessage("registration finished").All()
			require.Len(t, finished, 1)
			assert.Equal(t, string(tt.want), finished[0].ContextMap()["state"])
		})
	}
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "DuplicateIdentifier", KindDuplicateIdentifier.String())
	assert.Equal(t, "Unknown", ErrorKind(0).String())
}
