package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Collection stores JSON documents of type T keyed by ID and remembers the
// order in which IDs were first written.
//
// Layout under "<prefix>:<name>":
//
//	:items  hash   id -> JSON document
//	:order  zset   id scored by first-insert sequence
//	:seq    string insert sequence counter
type Collection[T any] struct {
	client redis.UniversalClient
	items  string
	order  string
	seq    string
}

// NewCollection binds a collection to client.
func NewCollection[T any](client redis.UniversalClient, prefix, name string) *Collection[T] {
	base := prefix + ":" + name
	return &Collection[T]{
		client: client,
		items:  base + ":items",
		order:  base + ":order",
		seq:    base + ":seq",
	}
}

// All returns every document in insertion order.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	ids, err := c.client.ZRange(ctx, c.order, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read order: %w", err)
	}
	if len(ids) == 0 {
		return []T{}, nil
	}

	raw, err := c.client.HMGet(ctx, c.items, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}

	out := make([]T, 0, len(raw))
	for i, value := range raw {
		text, ok := value.(string)
		if !ok {
			// order entry without a document; left behind by an interrupted delete
			continue
		}
		var doc T
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", ids[i], err)
		}
		out = append(out, doc)
	}
	return out, nil
}

// Put writes doc under id. A new id is appended to the order; an existing id
// keeps its position.
func (c *Collection[T]) Put(ctx context.Context, id string, doc T) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}

	next, err := c.client.Incr(ctx, c.seq).Result()
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, c.items, id, payload)
		pipe.ZAddNX(ctx, c.order, redis.Z{Score: float64(next), Member: id})
		return nil
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", id, err)
	}
	return nil
}

// Delete removes id and reports whether it existed.
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	var removed *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.HDel(ctx, c.items, id)
		pipe.ZRem(ctx, c.order, id)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", id, err)
	}
	return removed.Val() > 0, nil
}
