package eventlog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"propdesk/pkg/domain"
)

type EventLogSuite struct {
	suite.Suite
	log *InMemoryLog
	ctx context.Context
}

func TestEventLogSuite(t *testing.T) {
	suite.Run(t, new(EventLogSuite))
}

func (s *EventLogSuite) SetupTest() {
	s.log = NewInMemoryLog()
	s.ctx = context.Background()
}

func (s *EventLogSuite) TestEmitterStampsRecords() {
	emitter := NewEmitter(ComponentGovernance, s.log)

	err := emitter.Emit(s.ctx, Record{
		Action:  ActionVoteSubmitted,
		Caller:  domain.AccountIDFromUint64(1),
		Subject: domain.AccountIDFromUint64(2).Hex(),
	})
	s.Require().NoError(err)

	records := s.log.Snapshot()
	s.Require().Len(records, 1)
	s.NotEqual(uuid.Nil, records[0].ID)
	s.False(records[0].Timestamp.IsZero())
	s.Equal(ComponentGovernance, records[0].Component)
}

func (s *EventLogSuite) TestEmitterKeepsSuppliedTimestamp() {
	emitter := NewEmitter(ComponentIdentity, s.log)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := emitter.Emit(s.ctx, Record{Action: ActionIdentityRegistered, Timestamp: at})
	s.Require().NoError(err)
	s.Equal(at, s.log.Snapshot()[0].Timestamp)
}

func (s *EventLogSuite) TestAppendOrderPreserved() {
	emitter := NewEmitter(ComponentPlatform, s.log)
	actions := []Action{ActionPlatformInitialized, ActionUserRegistered, ActionTradeExecuted}
	for _, action := range actions {
		s.Require().NoError(emitter.Emit(s.ctx, Record{Action: action}))
	}

	records := s.log.Snapshot()
	s.Require().Len(records, len(actions))
	for i, action := range actions {
		s.Equal(action, records[i].Action)
	}
}

func (s *EventLogSuite) TestChannelLogFeedsWorker() {
	inbox := make(chan Record, 8)
	worker := NewWorker(s.log, inbox)

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	emitter := NewEmitter(ComponentGovernance, NewChannelLog(inbox))
	s.Require().NoError(emitter.Emit(s.ctx, Record{Action: ActionPoolCreated}))
	s.Require().NoError(emitter.Emit(s.ctx, Record{Action: ActionPoolDonation}))

	s.Eventually(func() bool { return s.log.Len() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	s.ErrorIs(<-done, context.Canceled)
}
