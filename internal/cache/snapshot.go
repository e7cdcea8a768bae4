package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	snapshotDataKey = "dashboard:snapshot:global"
	snapshotSeqKey  = "dashboard:snapshot:seq"
)

// snapshotWriteScript guards snapshot writes with a monotonic sequence
// number so a slow refresh that finishes after a newer one cannot win
// the write.
var snapshotWriteScript = redis.NewScript(`
	local seq_key = KEYS[1]
	local data_key = KEYS[2]
	local seq = tonumber(ARGV[1])
	local ttl = tonumber(ARGV[2])

	local current = tonumber(redis.call('GET', seq_key) or '-1')
	if seq <= current then
		return 0
	end

	redis.call('SET', seq_key, seq)
	redis.call('SET', data_key, ARGV[3], 'EX', ttl)
	return 1
`)

// SetDashboardSnapshot stores the serialized dashboard report if seq is
// newer than the stored sequence. Returns false when the write was
// discarded as stale.
func (c *Cache) SetDashboardSnapshot(ctx context.Context, seq uint64, payload []byte, ttl time.Duration) (bool, error) {
	result, err := snapshotWriteScript.Run(ctx, c.client,
		[]string{snapshotSeqKey, snapshotDataKey},
		seq,
		int(ttl.Seconds()),
		payload,
	).Int()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}

// GetDashboardSnapshot retrieves the latest serialized dashboard report.
// Returns nil on a miss.
func (c *Cache) GetDashboardSnapshot(ctx context.Context) ([]byte, error) {
	data, err := c.client.Get(ctx, snapshotDataKey).Bytes()
	if err != nil {
		return nil, nil //nolint:nilerr
	}
	return data, nil
}
