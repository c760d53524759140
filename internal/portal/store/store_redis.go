package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quotedesk/internal/platform/crypto"
	"quotedesk/internal/portal/models"
	"quotedesk/pkg/platform/sentinel"
)

const (
	keyPrefix = "quotedesk:portal:issue:"
	indexKey  = "quotedesk:portal:issues"

	fieldCompletedAt = "completed_at"
	fieldSealed      = "sealed"
)

// RedisStore keeps one hash per issue plus a sorted set holding seed order.
// Passwords are sealed when a Crypter is configured.
type RedisStore struct {
	client  redis.UniversalClient
	crypter *crypto.Crypter
}

func NewRedis(client redis.UniversalClient, crypter *crypto.Crypter) *RedisStore {
	return &RedisStore{client: client, crypter: crypter}
}

func issueKey(id string) string {
	return keyPrefix + id
}

// Seed writes issues that do not exist yet. Existing hashes are left untouched.
func (s *RedisStore) Seed(ctx context.Context, issues []models.Issue) error {
	for i, issue := range issues {
		n, err := s.client.Exists(ctx, issueKey(issue.ID)).Result()
		if err != nil {
			return fmt.Errorf("check portal issue %s: %w", issue.ID, err)
		}
		if n > 0 {
			continue
		}

		password, sealed, err := s.sealPassword(issue.Password)
		if err != nil {
			return fmt.Errorf("seal portal password %s: %w", issue.ID, err)
		}
		_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, issueKey(issue.ID),
				"id", issue.ID,
				"portal_name", issue.PortalName,
				"failure_reason", issue.FailureReason,
				"portal_url", issue.PortalURL,
				"username", issue.Username,
				"password", password,
				fieldSealed, sealed,
			)
			pipe.ZAddNX(ctx, indexKey, redis.Z{Score: float64(i), Member: issue.ID})
			return nil
		})
		if err != nil {
			return fmt.Errorf("seed portal issue %s: %w", issue.ID, err)
		}
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]models.Issue, error) {
	ids, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list portal issues: %w", err)
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, issueKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load portal issues: %w", err)
	}

	out := make([]models.Issue, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		issue, err := s.decode(fields)
		if err != nil {
			return nil, err
		}
		out = append(out, issue)
	}
	return out, nil
}

// MarkCompleted stamps completed_at with HSETNX so only the first call wins.
func (s *RedisStore) MarkCompleted(ctx context.Context, id string, at time.Time) (models.Issue, bool, error) {
	key := issueKey(id)
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return models.Issue{}, false, fmt.Errorf("check portal issue %s: %w", id, err)
	}
	if n == 0 {
		return models.Issue{}, false, sentinel.ErrNotFound
	}

	changed, err := s.client.HSetNX(ctx, key, fieldCompletedAt, at.UTC().Format(time.RFC3339Nano)).Result()
	if err != nil {
		return models.Issue{}, false, fmt.Errorf("complete portal issue %s: %w", id, err)
	}

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return models.Issue{}, false, fmt.Errorf("load portal issue %s: %w", id, err)
	}
	issue, err := s.decode(fields)
	if err != nil {
		return models.Issue{}, false, err
	}
	return issue, changed, nil
}

func (s *RedisStore) sealPassword(password string) (string, string, error) {
	if s.crypter == nil {
		return password, "0", nil
	}
	sealed, err := s.crypter.Seal(password)
	if err != nil {
		return "", "", err
	}
	return sealed, "1", nil
}

func (s *RedisStore) decode(fields map[string]string) (models.Issue, error) {
	issue := models.Issue{
		ID:            fields["id"],
		PortalName:    fields["portal_name"],
		FailureReason: fields["failure_reason"],
		PortalURL:     fields["portal_url"],
		Username:      fields["username"],
		Password:      fields["password"],
	}
	if fields[fieldSealed] == "1" {
		if s.crypter == nil {
			return models.Issue{}, fmt.Errorf("portal issue %s: password sealed but no key configured", issue.ID)
		}
		plain, err := s.crypter.Open(issue.Password)
		if err != nil {
			return models.Issue{}, fmt.Errorf("open portal password %s: %w", issue.ID, err)
		}
		issue.Password = plain
	}
	if raw, ok := fields[fieldCompletedAt]; ok {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return models.Issue{}, fmt.Errorf("parse completed_at for %s: %w", issue.ID, err)
		}
		issue.Completed = true
		issue.CompletedAt = &at
	}
	return issue, nil
}
