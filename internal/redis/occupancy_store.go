package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ActiveRental is the cached snapshot of one occupied station, kept in redis
// for quick occupancy lookups without touching the database.
type ActiveRental struct {
	StationID    string    `json:"station_id"`
	StationName  string    `json:"station_name"`
	PlayerID     string    `json:"player_id"`
	GameID       string    `json:"game_id"`
	StartTime    time.Time `json:"start_time"`
	PrepaidUnits int       `json:"prepaid_units"`
}

// Store manages the active rental cache.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns a redis-backed store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(stationID string) string {
	return fmt.Sprintf("rentals:active:%s", stationID)
}

// Save caches an active rental keyed by station id.
func (s *Store) Save(ctx context.Context, rental ActiveRental) error {
	data, err := json.Marshal(rental)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(rental.StationID), data, s.ttl).Err()
}

// Delete removes the cached rental for a station.
func (s *Store) Delete(ctx context.Context, stationID string) error {
	return s.client.Del(ctx, s.key(stationID)).Err()
}

// List returns every cached active rental.
func (s *Store) List(ctx context.Context) ([]ActiveRental, error) {
	var rentals []ActiveRental
	iter := s.client.Scan(ctx, 0, s.key("*"), 100).Iterator()
	for iter.Next(ctx) {
		result, err := s.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			if err == redis.Nil {
				continue // expired between scan and get
			}
			return nil, err
		}
		var rental ActiveRental
		if err := json.Unmarshal([]byte(result), &rental); err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return rentals, nil
}
