package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/buybuddy-backend/pkg/config"
)

type fakeCommands struct {
	values map[string]string
	counts map[string]int64
	ttls   map[string]time.Duration
}

func newFake() *fakeCommands {
	return &fakeCommands{values: map[string]string{}, counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCommands) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeCommands) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.values[key] = fmt.Sprint(value)
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCommands) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCommands) GetDel(ctx context.Context, key string) *redis.StringCmd {
	cmd := f.Get(ctx, key)
	f.Del(ctx, key)
	return cmd
}

func (f *fakeCommands) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.Set(ctx, key, value, ttl)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCommands) Incr(_ context.Context, key string) *redis.IntCmd {
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCommands) ExpireNX(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	if _, ok := f.ttls[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.ttls[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCommands) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.values, key)
		delete(f.ttls, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestIncrWithTTLKeepsFirstExpiry(t *testing.T) {
	fake := newFake()
	client := &Client{cmd: fake}
	ctx := context.Background()
	key := client.RateLimitKey("login:ip:10.0.0.1")

	for want := int64(1); want <= 3; want++ {
		got, err := client.IncrWithTTL(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, time.Minute, fake.ttls[key])

	_, err := client.IncrWithTTL(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, fake.ttls[key], "a later window must not extend the running one")
}

func TestSetGetDel(t *testing.T) {
	client := &Client{cmd: newFake()}
	ctx := context.Background()
	key := client.CheckoutIntentKey("user-1")

	require.NoError(t, client.Set(ctx, key, `{"payment_method":"UPI"}`, 10*time.Minute))
	value, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"payment_method":"UPI"}`, value)

	ok, err := client.SetNX(ctx, key, "other", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	value, err = client.GetDel(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"payment_method":"UPI"}`, value)
	_, err = client.GetDel(ctx, key)
	assert.True(t, IsMiss(err))

	require.NoError(t, client.Set(ctx, key, "v", 0))
	require.NoError(t, client.Del(ctx, key))
	_, err = client.Get(ctx, key)
	assert.True(t, IsMiss(err))
	assert.False(t, IsMiss(errors.New("connection refused")))
}

func TestDisconnectedClient(t *testing.T) {
	client := &Client{}
	ctx := context.Background()
	assert.ErrorIs(t, client.Ping(ctx), errNotConnected)
	_, err := client.IncrWithTTL(ctx, "k", time.Second)
	assert.ErrorIs(t, err, errNotConnected)
	assert.NoError(t, client.Close())
}

func TestKeyspace(t *testing.T) {
	keys := Keyspace{}
	assert.Equal(t, "bb:idempotency:POST /place-order/:abc", keys.IdempotencyKey("POST /place-order/", "abc"))
	assert.Equal(t, "bb:rate_limit:login", keys.RateLimitKey("login"))
	assert.Equal(t, "bb:session:access:abc", keys.AccessSessionKey("abc"))
	assert.Equal(t, "bb:checkout:intent", keys.CheckoutIntentKey(" "))

	staging := Keyspace{Namespace: "bb-staging"}
	assert.Equal(t, "bb-staging:checkout:intent:u1", staging.CheckoutIntentKey("u1"))
}

func TestOptions(t *testing.T) {
	cfg := config.RedisConfig{URL: "redis://:pw@cache:6380/2", PoolSize: 7, DialTimeout: time.Second}
	opts, err := options(cfg)
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)

	opts, err = options(config.RedisConfig{Address: "localhost:6379", DB: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, opts.DB)

	_, err = options(config.RedisConfig{})
	assert.Error(t, err)
	_, err = options(config.RedisConfig{URL: "http://nope"})
	assert.Error(t, err)
}
