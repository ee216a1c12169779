// Package idgen issues policy holder and policy identifiers from monotonic sequences.
package idgen

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	id "policyhub/pkg/domain"
)

// Generator issues identifiers. Implementations must never return the same id twice.
type Generator interface {
	NextPolicyHolderID(ctx context.Context) (id.PolicyHolderID, error)
	NextPolicyID(ctx context.Context) (id.PolicyID, error)
}

// Sequence is an in-process generator. Ids are unique only within one process,
// so it is meant for tests and single-instance deployments.
type Sequence struct {
	holders  atomic.Int64
	policies atomic.Int64
}

// NewSequence starts both counters after start; the first id issued is start+1.
func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.holders.Store(start)
	s.policies.Store(start)
	return s
}

// Resume advances the counters so the next ids follow the given highest issued
// sequence numbers. Counters never move backwards.
func (s *Sequence) Resume(lastHolder, lastPolicy int64) {
	advance(&s.holders, lastHolder)
	advance(&s.policies, lastPolicy)
}

func advance(counter *atomic.Int64, to int64) {
	for {
		cur := counter.Load()
		if to <= cur || counter.CompareAndSwap(cur, to) {
			return
		}
	}
}

func (s *Sequence) NextPolicyHolderID(_ context.Context) (id.PolicyHolderID, error) {
	return id.PolicyHolderIDFromSequence(s.holders.Add(1))
}

func (s *Sequence) NextPolicyID(_ context.Context) (id.PolicyID, error) {
	return id.PolicyIDFromSequence(s.policies.Add(1))
}

const (
	DefaultKeyPrefix = "policyhub:seq:"
	holderKey        = "policy_holder"
	policyKey        = "policy"
)

// Redis issues ids from INCR counters shared by every instance using the same server.
type Redis struct {
	client redis.Cmdable
	prefix string
}

func NewRedis(client redis.Cmdable, keyPrefix string) *Redis {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Redis{client: client, prefix: keyPrefix}
}

// raiseTo sets KEYS[1] to ARGV[1] unless the stored counter is already at or past it.
var raiseTo = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local target = tonumber(ARGV[1])
if cur < target then
	redis.call('SET', KEYS[1], ARGV[1])
	return target
end
return cur
`)

// Resume raises the shared counters to at least the given highest stored
// sequence numbers, so a fresh or flushed Redis never reissues a stored id.
// Counters already ahead are left alone.
func (r *Redis) Resume(ctx context.Context, lastHolder, lastPolicy int64) error {
	if err := raiseTo.Run(ctx, r.client, []string{r.prefix + holderKey}, lastHolder).Err(); err != nil {
		return fmt.Errorf("resume %s sequence: %w", holderKey, err)
	}
	if err := raiseTo.Run(ctx, r.client, []string{r.prefix + policyKey}, lastPolicy).Err(); err != nil {
		return fmt.Errorf("resume %s sequence: %w", policyKey, err)
	}
	return nil
}

func (r *Redis) NextPolicyHolderID(ctx context.Context) (id.PolicyHolderID, error) {
	seq, err := r.next(ctx, holderKey)
	if err != nil {
		return "", err
	}
	return id.PolicyHolderIDFromSequence(seq)
}

func (r *Redis) NextPolicyID(ctx context.Context) (id.PolicyID, error) {
	seq, err := r.next(ctx, policyKey)
	if err != nil {
		return "", err
	}
	return id.PolicyIDFromSequence(seq)
}

func (r *Redis) next(ctx context.Context, key string) (int64, error) {
	seq, err := r.client.Incr(ctx, r.prefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("increment %s sequence: %w", key, err)
	}
	return seq, nil
}
