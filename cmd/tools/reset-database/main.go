// cmd/tools/reset-database/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	aid "internship-portal/internal/application/allocate-application-id"
	car "internship-portal/internal/application/create-application-record"
	ia "internship-portal/internal/application/index-application"
	"internship-portal/internal/common/config"
	"internship-portal/internal/common/database"
	"internship-portal/internal/common/logger"
)

func main() {
	confirm := flag.Bool("yes", false, "Confirm deleting every application and resetting the id counter")
	flag.Parse()

	if !*confirm {
		fmt.Println("This deletes every application and restarts application ids at 0001.")
		fmt.Println("Re-run with --yes to continue.")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewNoOpLogger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		fmt.Printf("Error connecting to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		fmt.Printf("Error preparing schema: %v\n", err)
		os.Exit(1)
	}

	repo := car.NewRepository(car.LoadConfig(), pg.GetDB(), log)
	deleted, err := repo.DeleteAll(ctx)
	if err != nil {
		fmt.Printf("Error deleting applications: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted %d applications\n", deleted)

	seqCfg := aid.LoadConfig(cfg.Sequence)
	var allocator aid.Allocator = aid.NewPostgresAllocator(pg.GetDB())
	if cfg.Sequence.Backend == config.SequenceBackendRedis {
		redis, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			fmt.Printf("Error connecting to redis: %v\n", err)
			os.Exit(1)
		}
		defer redis.Close()
		allocator = aid.NewRedisAllocator(redis.GetClient(), seqCfg.KeyPrefix)
	}

	ids := aid.NewGenerator(seqCfg, allocator, log)
	if err := ids.Reset(ctx); err != nil {
		fmt.Printf("Error resetting %s counter: %v\n", cfg.Sequence.Backend, err)
		os.Exit(1)
	}
	fmt.Printf("Reset %s counter %q\n", cfg.Sequence.Backend, cfg.Sequence.CounterName)

	if cfg.Database.Elasticsearch.Enabled {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err == nil {
			indexer := ia.NewIndexer(ia.LoadConfig(cfg.Database.Elasticsearch, cfg.Search), es.Client, log)
			err = indexer.Clear(ctx)
		}
		if err != nil {
			fmt.Printf("Warning: search index not cleared: %v\n", err)
		} else {
			fmt.Println("Cleared search index")
		}
	}

	next := aid.Formatter{Prefix: seqCfg.Prefix}.Format(time.Now().Year(), 1)
	fmt.Printf("Fresh start. Next application will be: %s\n", next)
}
