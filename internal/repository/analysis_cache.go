package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/renegotiation-engine/internal/domain"
	"github.com/segyhp/renegotiation-engine/pkg/utils"
)

type redisAnalysisCache struct {
	client *redis.Client
}

func NewRedisAnalysisCache(client *redis.Client) AnalysisCache {
	return &redisAnalysisCache{client: client}
}

// AnalysisKey is the redis key of a customer's analysis at a reference date
func AnalysisKey(customerID uuid.UUID, referenceDate time.Time) string {
	return fmt.Sprintf("analysis:%s:%s", customerID, utils.FormatDate(referenceDate))
}

func (c *redisAnalysisCache) GetAnalysis(ctx context.Context, customerID uuid.UUID, referenceDate time.Time) (*domain.CustomerAnalysis, bool, error) {
	raw, err := c.client.Get(ctx, AnalysisKey(customerID, referenceDate)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var analysis domain.CustomerAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return nil, false, fmt.Errorf("decode cached analysis: %w", err)
	}

	return &analysis, true, nil
}

func (c *redisAnalysisCache) SetAnalysis(ctx context.Context, analysis *domain.CustomerAnalysis, ttl time.Duration) error {
	raw, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	key := AnalysisKey(analysis.CustomerID, analysis.ReferenceDate.Time)
	return c.client.Set(ctx, key, raw, ttl).Err()
}
