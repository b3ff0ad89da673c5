//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	generateStream = "stream:scenario:generate"
	doneStream     = "stream:scenario:done"
)

type scenarioRequestEvent struct {
	RequestID uuid.UUID       `json:"request_id"`
	Request   json.RawMessage `json:"request"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	seed := flag.Uint("seed", 42, "scenario seed")
	users := flag.Int("users", 10, "number of users")
	persist := flag.Bool("persist", false, "save scenario to PostgreSQL")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	request, err := json.Marshal(map[string]interface{}{
		"seed":          *seed,
		"users":         *users,
		"detect_climbs": true,
		"persist":       *persist,
	})
	if err != nil {
		log.Fatalf("Failed to marshal request: %v", err)
	}

	event := scenarioRequestEvent{RequestID: uuid.New(), Request: request}
	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// ответы до публикации не интересны, читаем с текущего конца стрима
	lastID := "$"
	if info, err := client.XInfoStream(ctx, doneStream).Result(); err == nil {
		lastID = info.LastGeneratedID
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: generateStream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", generateStream)
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Request ID: %s\n", event.RequestID)
	fmt.Printf("\nWaiting for response in %s...\n", doneStream)

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{doneStream, lastID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil && err != redis.Nil {
			log.Fatalf("Failed to read responses: %v", err)
		}

		for _, stream := range results {
			for _, msg := range stream.Messages {
				lastID = msg.ID

				dataStr, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}

				var response map[string]interface{}
				if err := json.Unmarshal([]byte(dataStr), &response); err != nil {
					continue
				}

				if response["request_id"] == event.RequestID.String() {
					fmt.Printf("\nResponse received\n")
					prettyJSON, _ := json.MarshalIndent(response, "", "  ")
					fmt.Printf("%s\n", prettyJSON)
					return
				}
			}
		}
	}

	fmt.Println("Timeout waiting for response")
}
