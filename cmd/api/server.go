package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	mw "github.com/evfilters/scrapbook-api/internal/api/middlewares"
	"github.com/evfilters/scrapbook-api/internal/api/router"
	"github.com/evfilters/scrapbook-api/internal/repository/sqlconnect"
	"github.com/evfilters/scrapbook-api/internal/store/scrapbooks"
	"github.com/evfilters/scrapbook-api/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	db, err := sqlconnect.ConnectDB()
	if err != nil {
		log.Fatalf("Postgres connection failed: %v", err)
	}
	defer db.Close()

	rdb := connectRedis()

	cache := buildCache(rdb)
	store := scrapbooks.New(db, cache)

	start := time.Now()
	handler := router.Router(store, start)

	mws := []utils.Middleware{
		mw.Cors,
		mw.RequestID,
		mw.ResponseTimeMiddleware,
	}
	if rdb != nil {
		tb := mw.NewRedisTokenBucket(rdb, 5, 20, mw.PerIPKey("tb"))
		sw := mw.NewRedisSlidingWindow(rdb, 3000, 60*time.Minute, mw.PerIPKey("sw"))
		mws = append(mws, tb.Middleware, sw.Middleware)
	} else {
		log.Println("[RateLimit] Redis not configured; rate limiting disabled")
	}
	mws = append(mws,
		mw.BodySizeLimit,
		mw.Compression,
		mw.SecurityHeaders,
		mw.Recovery,
	)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           utils.ApplyMiddleware(handler, mws...),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Println("Server is running on port:", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalln("Error starting server:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if mc, ok := cache.(*scrapbooks.MemoryCache); ok {
		mc.Stop()
	}
}

// connectRedis builds the optional redis client. Rate limiting and the
// redis cache backend need it; without it the server still runs, with the
// process-local cache and no limiter.
func connectRedis() *redis.Client {
	var rdb *redis.Client

	if url := os.Getenv("UPSTASH_REDIS_URL"); url != "" {
		opt, err := redis.ParseURL(url)
		if err != nil {
			log.Fatalf("invalid UPSTASH_REDIS_URL: %v", err)
		}
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = 1 * time.Second
		opt.WriteTimeout = 1 * time.Second
		rdb = redis.NewClient(opt)
	} else if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:         addr,
			Username:     os.Getenv("REDIS_USER"),
			Password:     os.Getenv("REDIS_PASSWORD"),
			DB:           0,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
	} else {
		return nil
	}

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	log.Println("Connected to Redis")
	return rdb
}

func buildCache(rdb *redis.Client) scrapbooks.Cache {
	ttl := scrapbooks.DefaultCacheTTL
	if v := os.Getenv("BOOK_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		}
	}

	if os.Getenv("CACHE_BACKEND") == "redis" {
		if rdb == nil {
			log.Fatal("CACHE_BACKEND=redis requires REDIS_ADDR or UPSTASH_REDIS_URL")
		}
		return scrapbooks.NewRedisCache(rdb, ttl)
	}

	mc := scrapbooks.NewMemoryCache(ttl)
	mc.StartSweeper(2 * ttl)
	return mc
}
