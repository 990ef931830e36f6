// Package metrics stores rollover counters in Redis so a day's pass can be
// inspected after the fact.
package metrics

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"
	"github.com/smokefree-kz/backend/pkg/utils"
	"go.uber.org/zap"
)

const (
	// RolloverStatsKeyPrefix forms the base key for daily rollover statistics in Redis.
	RolloverStatsKeyPrefix = "rollover_statistics"

	// FieldUsersProcessed tracks how many users a rollover pass visited.
	FieldUsersProcessed = "users_processed"
	// FieldStreaksExtended tracks how many streaks were incremented.
	FieldStreaksExtended = "streaks_extended"
	// FieldStreaksReset tracks how many streaks were reset to zero.
	FieldStreaksReset = "streaks_reset"
	// FieldLogsCreated tracks how many fresh day logs were created.
	FieldLogsCreated = "logs_created"
)

// DailyStats is the counter set for one calendar day.
type DailyStats struct {
	UsersProcessed  int `json:"users_processed"`
	StreaksExtended int `json:"streaks_extended"`
	StreaksReset    int `json:"streaks_reset"`
	LogsCreated     int `json:"logs_created"`
}

// Client handles Redis operations for storing and retrieving rollover metrics.
type Client struct {
	Client rueidis.Client
	logger *zap.Logger
}

// NewClient creates a Client with the provided Redis connection and logger.
func NewClient(client rueidis.Client, logger *zap.Logger) *Client {
	return &Client{
		Client: client,
		logger: logger,
	}
}

// IncrementDailyStat atomically increases a counter under today's key.
// Days follow the application time zone, matching the rollover boundary.
func (c *Client) IncrementDailyStat(ctx context.Context, field string, count int) error {
	key := fmt.Sprintf("%s:%s", RolloverStatsKeyPrefix, utils.Today())

	cmd := c.Client.B().Hincrby().Key(key).Field(field).Increment(int64(count)).Build()
	if err := c.Client.Do(ctx, cmd).Error(); err != nil {
		c.logger.Error("Failed to increment daily stat",
			zap.Error(err),
			zap.String("field", field),
			zap.Int("count", count))

		return err
	}

	return nil
}

// GetDailyStats retrieves the counter set for the given date.
// Missing fields read as zero.
func (c *Client) GetDailyStats(ctx context.Context, date string) (*DailyStats, error) {
	key := fmt.Sprintf("%s:%s", RolloverStatsKeyPrefix, date)

	cmd := c.Client.B().Hgetall().Key(key).Build()

	result, err := c.Client.Do(ctx, cmd).AsIntMap()
	if err != nil {
		c.logger.Error("Failed to get daily stats",
			zap.Error(err),
			zap.String("key", key))

		return nil, err
	}

	return &DailyStats{
		UsersProcessed:  int(result[FieldUsersProcessed]),
		StreaksExtended: int(result[FieldStreaksExtended]),
		StreaksReset:    int(result[FieldStreaksReset]),
		LogsCreated:     int(result[FieldLogsCreated]),
	}, nil
}
