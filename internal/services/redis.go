package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const bookingEventsChannel = "bookings:events"

// InitRedis initializes the Redis client
func InitRedis(redisURL string) error {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// BookingEvent is the observability side channel for booking transitions.
// Events are best-effort: bookings stay behind in the database either way,
// and publish failures are logged, never surfaced to the caller.
type BookingEvent struct {
	Type         string `json:"type"` // booking_created, booking_confirmed, booking_rejected
	BookingID    uint   `json:"bookingId"`
	RestaurantID uint   `json:"restaurantId"`
	OwnerID      uint   `json:"ownerId"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	ActorID      uint   `json:"actorId"`
}

// PublishBookingEvent publishes a booking transition to Redis pub/sub so
// every API instance can fan it out to its connected websocket clients.
func PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, bookingEventsChannel, data).Err()
}

// SubscribeBookingEvents consumes the booking event channel until ctx is
// cancelled, calling handle for each decoded event.
func SubscribeBookingEvents(ctx context.Context, handle func(BookingEvent)) {
	pubsub := RedisClient.Subscribe(ctx, bookingEventsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event BookingEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("Error unmarshaling booking event: %v", err)
				continue
			}
			handle(event)
		}
	}
}
