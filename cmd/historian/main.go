// cmd/historian/main.go is an asynchronous historian service that pops
// history records from a Redis queue and persists them to PostgreSQL.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/nope-cardgame/nopebot/internal/database"
	"github.com/nope-cardgame/nopebot/internal/history"
)

// HistorianService drains the bot's Redis action queue into PostgreSQL.
// Action records are batched; game-end records are written immediately
// so finished games never linger in memory.
type HistorianService struct {
	redisClient *redis.Client
	queueName   string
	batchSize   int
	flushDelay  time.Duration

	batchMu sync.Mutex
	batch   []history.Record

	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewHistorianService constructs a HistorianService from environment
// variables or defaults.
func NewHistorianService() *HistorianService {
	batchSize := getEnvInt("HISTORIAN_BATCH_SIZE", 20)
	flushMs := getEnvInt("HISTORIAN_FLUSH_MS", 500)

	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &HistorianService{
		redisClient: rdb,
		queueName:   getEnv("HISTORIAN_QUEUE_NAME", history.DefaultQueueName),
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		batch:       make([]history.Record, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run connects the database, ensures the schema, and starts the queue
// reader until the service is stopped.
func (hs *HistorianService) Run() {
	if err := database.ConnectDB(hs.ctx); err != nil {
		log.Fatalf("historian db connect: %v", err)
	}
	if err := database.EnsureSchema(hs.ctx); err != nil {
		log.Fatalf("historian schema: %v", err)
	}

	go hs.readRedisLoop()

	log.Println("nope-historian service started.")
	<-hs.ctx.Done()
	hs.flushBatchToDB()
	log.Println("nope-historian shutting down.")
}

// Stop cancels the service context.
func (hs *HistorianService) Stop() {
	hs.cancelFn()
}

// readRedisLoop continuously uses BLPop to retrieve records from the
// Redis queue, flushing the accumulated batch on a timer.
func (hs *HistorianService) readRedisLoop() {
	ticker := time.NewTicker(hs.flushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-hs.ctx.Done():
			return

		case <-ticker.C:
			hs.flushBatchToDB()

		default:
			// BLPop with a short timeout so context cancellation is handled.
			res, err := hs.redisClient.BLPop(hs.ctx, 3*time.Second, hs.queueName).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				if hs.ctx.Err() != nil {
					return
				}
				log.Printf("[ERROR] BLPop: %v\n", err)
				continue
			}
			if len(res) < 2 {
				// No message popped.
				continue
			}

			// res[0] is the queue name and res[1] the payload.
			var rec history.Record
			if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
				log.Printf("invalid history record: %v\n", err)
				continue
			}
			hs.handleRecord(rec)
		}
	}
}

// handleRecord routes one record: game results go straight to the DB,
// actions accumulate in the batch.
func (hs *HistorianService) handleRecord(rec history.Record) {
	if rec.Kind == history.KindGameEnd {
		if err := database.UpsertGameResult(hs.ctx, rec); err != nil {
			log.Printf("[ERROR] upsert game result: %v\n", err)
		}
		return
	}

	hs.batchMu.Lock()
	hs.batch = append(hs.batch, rec)
	full := len(hs.batch) >= hs.batchSize
	hs.batchMu.Unlock()
	if full {
		hs.flushBatchToDB()
	}
}

// flushBatchToDB writes the current batch in a single transaction.
func (hs *HistorianService) flushBatchToDB() {
	hs.batchMu.Lock()
	if len(hs.batch) == 0 {
		hs.batchMu.Unlock()
		return
	}
	batchCopy := make([]history.Record, len(hs.batch))
	copy(batchCopy, hs.batch)
	hs.batch = hs.batch[:0]
	hs.batchMu.Unlock()

	if err := database.InsertActionRecords(context.Background(), batchCopy); err != nil {
		log.Printf("[ERROR] flushBatchToDB: %v\n", err)
		return
	}
	log.Printf("Flushed %d actions to DB.\n", len(batchCopy))
}

func main() {
	hs := NewHistorianService()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		<-sigs
		hs.Stop()
	}()

	hs.Run()
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
