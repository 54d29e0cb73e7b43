package weathercache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/skymind/internal/domain/weather"
)

// ValkeyCache persists snapshots in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "weather"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) (weather.Snapshot, bool, error) {
	cmd := c.client.B().Get().Key(c.snapshotKey(key)).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return weather.Snapshot{}, false, nil
		}
		return weather.Snapshot{}, false, err
	}
	var snapshot weather.Snapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return weather.Snapshot{}, false, err
	}
	return snapshot, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, snapshot weather.Snapshot, ttl time.Duration) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.snapshotKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) snapshotKey(key string) string {
	return fmt.Sprintf("%s:snapshot:%s", c.prefix, key)
}

var _ weather.SnapshotCache = (*ValkeyCache)(nil)
