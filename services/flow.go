package services

import (
	"context"

	"github.com/qmuntal/stateless"
	"go.uber.org/zap"
)

// RegistrationState is a step of a single registration request.
type RegistrationState string

const (
	StateValidating        RegistrationState = "Validating"
	StateCheckingDuplicate RegistrationState = "CheckingDuplicate"
	StateCreatingIdentity  RegistrationState = "CreatingIdentity"
	StateInsertingProfile  RegistrationState = "InsertingProfile"
	StateSuccess           RegistrationState = "Success"
	StateRollingBack       RegistrationState = "RollingBack"
	StateFailed            RegistrationState = "Failed"
)

type registrationTrigger string

const (
	triggerCheckDuplicate registrationTrigger = "checkDuplicate"
	triggerCreateIdentity registrationTrigger = "createIdentity"
	triggerInsertProfile  registrationTrigger = "insertProfile"
	triggerSucceed        registrationTrigger = "succeed"
	triggerRollBack       registrationTrigger = "rollBack"
	triggerFail           registrationTrigger = "fail"
)

type registrationFlow struct {
	machine *stateless.StateMachine
	logger  *zap.Logger
}

func newRegistrationFlow(logger *zap.Logger) *registrationFlow {
	machine := stateless.NewStateMachine(StateValidating)

	machine.Configure(StateValidating).
		Permit(triggerCheckDuplicate, StateCheckingDuplicate).
		Permit(triggerFail, StateFailed)

	machine.Configure(StateCheckingDuplicate).
		Permit(triggerCreateIdentity, StateCreatingIdentity).
		Permit(triggerFail, StateFailed)

	machine.Configure(StateCreatingIdentity).
		Permit(triggerInsertProfile, StateInsertingProfile).
		Permit(triggerFail, StateFailed)

	machine.Configure(StateInsertingProfile).
		Permit(triggerSucceed, StateSuccess).
		Permit(triggerRollBack, StateRollingBack)

	machine.Configure(StateRollingBack).
		Permit(triggerFail, StateFailed)

	f := &registrationFlow{machine: machine, logger: logger}
	machine.Configure(StateSuccess).OnEntry(f.finished(StateSuccess))
	machine.Configure(StateFailed).OnEntry(f.finished(StateFailed))

	machine.OnTransitioned(func(_ context.Context, t stateless.Transition) {
		f.logger.Debug("registration transition",
			zap.Any("from", t.Source),
			zap.Any("to", t.Destination),
			zap.Any("trigger", t.Trigger),
		)
	})
	return f
}

// finished logs reaching a terminal state once per request.
func (f *registrationFlow) finished(state RegistrationState) func(context.Context, ...any) error {
	return func(context.Context, ...any) error {
		f.logger.Info("registration finished", zap.String("state", string(state)))
		return nil
	}
}

func (f *registrationFlow) fire(ctx context.Context, trigger registrationTrigger) {
	if err := f.machine.FireCtx(ctx, trigger); err != nil {
		f.logger.Error("invalid registration transition",
			zap.String("state", string(f.State())),
			zap.String("trigger", string(trigger)),
			zap.Error(err),
		)
	}
}

func (f *registrationFlow) State() RegistrationState {
	return f.machine.MustState().(RegistrationState)
}
