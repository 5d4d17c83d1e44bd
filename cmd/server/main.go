package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"

	"github.com/shopframe/go-shop-auth/authflow"
	"github.com/shopframe/go-shop-auth/internal/config"
	"github.com/shopframe/go-shop-auth/provider"
	"github.com/shopframe/go-shop-auth/provision"
	"github.com/shopframe/go-shop-auth/server"
	"github.com/shopframe/go-shop-auth/sessionstate"
	"github.com/shopframe/go-shop-auth/sessionstore"
)

const installQueueSize = 256

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := newSessionStore(ctx, c)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}

	queue := provision.NewQueue(installQueueSize)
	worker := provision.NewWorker(provision.NewInstaller(), queue.Tasks())
	go worker.Run(ctx)

	var jobs authflow.JobRunner
	if c.AfterAuthJobEnabled() {
		jobs = provision.NewJobRunner(afterAuthJob)
	}

	oauth := provider.New(
		c.GetAPIKey(),
		c.GetAPISecret(),
		c.GetOAuthScopes(),
		c.GetBaseURL()+server.RouteOAuthCallback,
		c.GetSessionSecret(),
	)

	flow := authflow.NewService(authflow.Config{
		EmbeddedApp:        c.EmbeddedAppEnabled(),
		ShopDomainSuffix:   c.GetShopDomainSuffix(),
		RootURL:            c.GetRootURL(),
		Webhooks:           configuredWebhooks(c),
		ScriptTags:         configuredScriptTags(c),
		AfterAuthJobInline: c.AfterAuthJobInline(),
	}, store, queue, jobs)

	srv, err := server.New(c, flow, sessionstate.NewCodec(c.GetSessionSecret()), oauth)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// newSessionStore picks a backend from the environment: Postgres when
// DATABASE_URL is set, Redis when REDIS_URL is set, otherwise an in-memory
// store that only suits local development.
func newSessionStore(ctx context.Context, c config.Config) (sessionstore.Repo, error) {
	if dsn := c.GetDatabaseURL(); dsn != "" {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := sessionstore.EnsureSchema(ctx, pool); err != nil {
			return nil, fmt.Errorf("sessionstore.EnsureSchema: %w", err)
		}
		return sessionstore.NewPostgresRepo(pool), nil
	}

	if redisURL := c.GetRedisURL(); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("redis.ParseURL: %w", err)
		}
		return sessionstore.NewRedisRepo(redis.NewClient(opts)), nil
	}

	zlog.Warn().Msg("no DATABASE_URL or REDIS_URL configured, shop sessions will not survive a restart")
	return sessionstore.NewInMemoryRepo(), nil
}

// afterAuthJob is the deployment-specific hook that runs once a shop has
// authenticated. The default build just records it.
func afterAuthJob(ctx context.Context, shopDomain string) error {
	zlog.Info().Str("shop", shopDomain).Msg("after-auth job complete")
	return nil
}

func configuredWebhooks(c config.Config) []provision.Webhook {
	address := c.GetWebhookAddress()
	if address == "" {
		return nil
	}
	var hooks []provision.Webhook
	for _, topic := range c.GetWebhookTopics() {
		hooks = append(hooks, provision.Webhook{Topic: topic, Address: address})
	}
	return hooks
}

func configuredScriptTags(c config.Config) []provision.ScriptTag {
	var tags []provision.ScriptTag
	for _, src := range c.GetScriptTagSources() {
		tags = append(tags, provision.ScriptTag{Event: "onload", Src: src})
	}
	return tags
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
