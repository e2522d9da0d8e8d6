package exchange

import (
	"context"
	"fmt"

	"github.com/go-redis/redis"
)

// Redis exchanges moves through keys of a Redis server. Keys are named
// "<namespace>:<item>".
type Redis struct {
	client    *redis.Client
	namespace string
	out, in   Slot
	options
}

var _ Exchange = (*Redis)(nil)

// NewRedis creates an exchange which writes to slot out and reads from slot in.
// Items are written with the expiry set by option TTL, if any.
func NewRedis(client *redis.Client, namespace string, out, in Slot, opts ...Option) *Redis {
	return &Redis{
		client:    client,
		namespace: namespace,
		out:       out,
		in:        in,
		options:   makeOptions(opts),
	}
}

// Dial connects to a Redis server and checks the connection.
func Dial(addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Network:      "tcp",
		Addr:         addr,
		DB:           db,
		PoolSize:     4,
		MinIdleConns: 1,
	})
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (r *Redis) key(item string) string {
	if r.namespace == "" {
		return item
	}
	return r.namespace + ":" + item
}

// Submit sets the data key for a turn, then its signal key.
func (r *Redis) Submit(ctx context.Context, turn int, text string) error {
	c := r.client.WithContext(ctx)
	tracer().P("slot", r.out).Debugf("turn %d: writing %q", turn, text)
	if err := c.Set(r.key(r.out.Data(turn)), text, r.ttl).Err(); err != nil {
		return fmt.Errorf("submitting turn %d: %w", turn, err)
	}
	if err := c.Set(r.key(r.out.Signal(turn)), TriggerText, r.ttl).Err(); err != nil {
		return fmt.Errorf("signaling turn %d: %w", turn, err)
	}
	return nil
}

// AwaitAndRead waits for the signal key of a turn, then returns the value of
// its data key. A missing data key reads as "".
func (r *Redis) AwaitAndRead(ctx context.Context, turn int) (string, error) {
	c := r.client.WithContext(ctx)
	signal := r.key(r.in.Signal(turn))
	err := poll(ctx, r.interval, r.timeout, func() (bool, error) {
		n, err := c.Exists(signal).Result()
		return n > 0, err
	})
	if err != nil && err != ErrTimeout {
		return "", err
	}
	if err != nil {
		tracer().P("slot", r.in).Infof("turn %d: no signal after %v", turn, r.timeout)
	}
	text, gerr := c.Get(r.key(r.in.Data(turn))).Result()
	if gerr == redis.Nil {
		text, gerr = "", nil
	}
	if gerr != nil {
		return "", gerr
	}
	tracer().P("slot", r.in).Debugf("turn %d: read %q", turn, text)
	return text, err
}
