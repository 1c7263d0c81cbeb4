// Package redisstore is the redis-backed record store. Unlike the CSV
// backend it can attach a TTL to each stored search, which is the one
// expiry knob the store interface admits; TTL zero reproduces the
// write-once-forever policy.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hmansouri/flightscout/config"
	"github.com/hmansouri/flightscout/models"
	"github.com/hmansouri/flightscout/store"
)

const keyPrefix = "flights:"

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// Conn dials redis and pings it once, so a misconfigured address fails at
// startup instead of on the first search.
func Conn(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if pong != "PONG" {
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}
	log.Printf("[Store] redis connected -> %s db=%d ttl=%s", cfg.Addr, cfg.DB, cfg.TTL)

	return &Store{client: client, ttl: cfg.TTL}, nil
}

func (s *Store) Get(ctx context.Context, req models.SearchRequest) ([]models.FlightRecord, error) {
	raw, err := s.client.Get(ctx, keyPrefix+req.Key()).Bytes()
	if err == redis.Nil {
		return nil, store.ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", req.Key(), err)
	}

	var rows []models.FlightRecord
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode stored rows for %s: %w", req.Key(), err)
	}
	return rows, nil
}

func (s *Store) Put(ctx context.Context, req models.SearchRequest, rows []models.FlightRecord) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode rows for %s: %w", req.Key(), err)
	}
	if err := s.client.Set(ctx, keyPrefix+req.Key(), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", req.Key(), err)
	}
	return nil
}

func (s *Store) Close() error { return s.client.Close() }
