//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"quotedesk/internal/platform/crypto"
	"quotedesk/internal/portal/models"
	"quotedesk/pkg/platform/sentinel"
	"quotedesk/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisStore
	ctx   context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.Reset(s.ctx))
	c, err := crypto.New([]byte("0123456789abcdef0123456789abcdef"))
	s.Require().NoError(err)
	s.store = NewRedis(s.redis.Client, c)
	s.Require().NoError(s.store.Seed(s.ctx, models.DefaultIssues()))
}

func (s *RedisStoreSuite) TestListReturnsSeedOrderWithPlainPasswords() {
	issues, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(issues, 2)
	s.Equal("1", issues[0].ID)
	s.Equal("SecurePass123!", issues[0].Password)
	s.Equal("2", issues[1].ID)
	s.False(issues[1].Completed)
}

func (s *RedisStoreSuite) TestPasswordIsSealedAtRest() {
	raw, err := s.redis.Client.HGet(s.ctx, issueKey("1"), "password").Result()
	s.Require().NoError(err)
	s.NotEqual("SecurePass123!", raw)
}

func (s *RedisStoreSuite) TestMarkCompletedOnce() {
	at := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	issue, changed, err := s.store.MarkCompleted(s.ctx, "1", at)
	s.Require().NoError(err)
	s.True(changed)
	s.True(issue.Completed)
	s.Require().NotNil(issue.CompletedAt)
	s.True(at.Equal(*issue.CompletedAt))

	issue, changed, err = s.store.MarkCompleted(s.ctx, "1", at.Add(time.Hour))
	s.Require().NoError(err)
	s.False(changed)
	s.True(at.Equal(*issue.CompletedAt))

	// Reseeding keeps the completion.
	s.Require().NoError(s.store.Seed(s.ctx, models.DefaultIssues()))
	issues, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.True(issues[0].Completed)
}

func (s *RedisStoreSuite) TestMarkCompletedUnknown() {
	_, _, err := s.store.MarkCompleted(s.ctx, "missing", time.Now())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestSealedPasswordWithoutKeyFails() {
	plain := NewRedis(s.redis.Client, nil)
	_, err := plain.List(s.ctx)
	s.Error(err)
}
