//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	audit "mintgate/pkg/platform/audit"
	"mintgate/pkg/testutil/containers"
)

type AuditPostgresSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
}

func TestAuditPostgresSuite(t *testing.T) {
	suite.Run(t, new(AuditPostgresSuite))
}

func (s *AuditPostgresSuite) SetupSuite() {
	s.ctx = context.Background()
	pg := containers.NewPostgresContainer(s.T())

	db, err := Open(pg.DSN)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })

	s.store = New(db)
	s.Require().NoError(s.store.Migrate(s.ctx))
}

func (s *AuditPostgresSuite) TestAppendAndList() {
	stage := 0
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	actor := "0x00000000000000000000000000000000000000aa"

	for i := range 3 {
		err := s.store.Append(s.ctx, audit.Event{
			ID:        uuid.NewString(),
			Category:  audit.CategoryOperations,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			ActorID:   actor,
			Action:    string(audit.EventTokensMinted),
			Stage:     &stage,
			Quantity:  uint64(i + 1),
		})
		s.Require().NoError(err)
	}

	events, err := s.store.ListByActor(s.ctx, actor)
	s.Require().NoError(err)
	s.Require().Len(events, 3)
	s.Equal(uint64(3), events[0].Quantity, "newest first")
	s.Require().NotNil(events[0].Stage)
	s.Equal(0, *events[0].Stage)

	recent, err := s.store.ListRecent(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(recent, 2)
}

func (s *AuditPostgresSuite) TestAppendIsIdempotentByID() {
	id := uuid.NewString()
	event := audit.Event{ID: id, Action: string(audit.EventTransfersPaused), ActorID: "0xdup", Timestamp: time.Now()}
	s.Require().NoError(s.store.Append(s.ctx, event))
	s.Require().NoError(s.store.Append(s.ctx, event))

	events, err := s.store.ListByActor(s.ctx, "0xdup")
	s.Require().NoError(err)
	s.Len(events, 1)
}
