package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lk26129226creator/Shopmenu2/internal/cache"
	"github.com/lk26129226creator/Shopmenu2/internal/config"
	"github.com/lk26129226creator/Shopmenu2/internal/console"
	"github.com/lk26129226creator/Shopmenu2/internal/repository"
	"github.com/lk26129226creator/Shopmenu2/internal/service"
	"github.com/lk26129226creator/Shopmenu2/pkg/logger"
)

func main() {
	customerID := flag.Int64("customer", 0, "id of the logged-in customer")
	flag.Parse()

	// Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	lg := logger.New("shopmenu", logOut, logger.ParseLevel(cfg.LogLevel))
	defer lg.Sync()

	// Database setup
	repo, err := repository.NewRepository(cfg.Credentials())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	lg.Info(logger.Fields{Status: "migrations_completed", Message: cfg.DBDriver})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catalog cache is optional
	var catalogCache cache.CatalogCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			lg.Error(logger.Fields{Status: "redis_unavailable", Error: err.Error()})
		} else {
			catalogCache = cache.NewRedisCache(redisClient, cfg.CatalogCacheTTL)
			lg.Info(logger.Fields{Status: "redis_connected", Message: cfg.RedisAddr})
		}
	}

	policy := service.PaymentPolicy{
		InPersonShipping: cfg.InPersonShipping,
		CashMethods:      cfg.CashPaymentNames,
	}

	term := console.NewIO(os.Stdin, os.Stdout)
	catalog := service.NewCatalogService(repo, catalogCache, lg)
	committer := service.NewOrderCommitter(repo, lg)
	wizard := service.NewCheckoutWizard(repo, committer, term, policy, lg)
	session := console.NewSession(term, catalog, wizard, repo, *customerID, lg)

	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		lg.Error(logger.Fields{CustomerID: *customerID, Status: "session_failed", Error: err.Error()})
		os.Exit(1)
	}
	lg.Info(logger.Fields{CustomerID: *customerID, Status: "session_ended"})
}
