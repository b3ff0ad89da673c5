package cache

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisForTest оборачивает готовый клиент, доступна только тестам пакета
func NewRedisForTest(client *redis.Client, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{client: client, logger: logger}
}
