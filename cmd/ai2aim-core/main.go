package main

// @title           ai2aim Core API
// @version         1.0
// @description     Social platform connections, Google sign-in, publishing and AI content generation.

// @host      localhost:3001
// @BasePath  /
// @schemes   http https

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/ai"
	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/auth"
	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/connectors"
	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/connectors/google"
	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/connectors/linkedin"
	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/connectors/meta"
	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/connectors/twitter"
	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/crypto"
	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/memory"
	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/ai2aim-core/internal/adapters/driven/redis"
	"github.com/custodia-labs/ai2aim-core/internal/adapters/driving/http"
	"github.com/custodia-labs/ai2aim-core/internal/config"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
	"github.com/custodia-labs/ai2aim-core/internal/core/services"
	"github.com/custodia-labs/ai2aim-core/internal/telemetry"
)

var version = "dev"

// identityKeySalt keeps the token signing key distinct from the encryption key.
var identityKeySalt = []byte("ai2aim-core/identity-token")

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := telemetry.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	log.Printf("ai2aim-core %s starting", version)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Tracing (optional) =====
	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.OTelEndpoint, "ai2aim-core", version)
	if err != nil {
		log.Printf("Warning: tracing disabled: %v", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		_ = shutdownTracing(flushCtx)
	}()

	// ===== Secret key =====
	secret := cfg.SecretKey
	if secret == "" {
		secret = randomSecret()
		log.Println("Warning: SECRET_KEY not set, using a random key (credentials and sessions will not survive a restart)")
	}
	encryptor, err := crypto.NewSecretEncryptorFromString(secret)
	if err != nil {
		log.Fatalf("Failed to create credential encryptor: %v", err)
	}
	signingKey, err := crypto.DeriveKey([]byte(secret), identityKeySalt)
	if err != nil {
		log.Fatalf("Failed to derive signing key: %v", err)
	}

	pingers := make(map[string]http.Pinger)

	// ===== Initialize PostgreSQL (optional) =====
	var db *postgres.DB
	if cfg.DatabaseURL != "" {
		log.Println("Connecting to PostgreSQL...")
		db, err = postgres.Connect(ctx, postgres.DefaultConfig(cfg.DatabaseURL))
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Initialize schema (idempotent)
		if err := db.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		pingers[config.BackendPostgres] = db
		log.Println("PostgreSQL connected and schema initialized")
	}

	// ===== Initialize Redis (optional) =====
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		pingers[config.BackendRedis] = redisadapter.NewLock(redisClient)
		log.Println("Redis connected")
	}

	// ===== Credential Store (PostgreSQL, then Redis, otherwise memory) =====
	var credentialStore driven.CredentialStore
	switch cfg.CredentialBackend() {
	case config.BackendPostgres:
		credentialStore = postgres.NewCredentialStore(db.DB, encryptor)
	case config.BackendRedis:
		credentialStore = redisadapter.NewCredentialStore(redisClient, encryptor)
	default:
		credentialStore = memory.NewCredentialStore()
	}
	log.Printf("Using %s credential store", cfg.CredentialBackend())

	// ===== OAuth State Store (Redis, then PostgreSQL, otherwise memory) =====
	var stateStore driven.OAuthStateStore
	switch cfg.StateBackend() {
	case config.BackendRedis:
		stateStore = redisadapter.NewOAuthStateStore(redisClient, cfg.StateTTL)
	case config.BackendPostgres:
		stateStore = postgres.NewOAuthStateStore(db.DB, cfg.StateTTL)
	default:
		stateStore = memory.NewOAuthStateStore(cfg.StateTTL, cfg.JanitorInterval)
	}
	log.Printf("Using %s state store", cfg.StateBackend())

	// ===== Distributed Lock (Redis if available, otherwise PostgreSQL advisory locks) =====
	var distributedLock driven.DistributedLock
	switch {
	case redisClient != nil:
		distributedLock = redisadapter.NewLock(redisClient)
	case db != nil:
		distributedLock = postgres.NewAdvisoryLock(db)
	}

	// ===== Connectors =====
	httpClient := connectors.NewHTTPClient(cfg.ProviderTimeout)
	registry := connectors.NewRegistry()

	linkedinConnector := linkedin.New(linkedin.Config{
		ClientID:     cfg.LinkedIn.ClientID,
		ClientSecret: cfg.LinkedIn.ClientSecret,
		RedirectURL:  cfg.LinkedIn.RedirectURI,
	}, httpClient)
	twitterConnector := twitter.New(twitter.Config{
		ClientID:     cfg.Twitter.ClientID,
		ClientSecret: cfg.Twitter.ClientSecret,
		RedirectURL:  cfg.Twitter.RedirectURI,
	}, httpClient)
	facebookConnector := meta.NewFacebook(meta.Config{
		AppID:       cfg.Meta.AppID,
		AppSecret:   cfg.Meta.AppSecret,
		RedirectURL: cfg.Meta.FacebookRedirectURI,
	}, httpClient)
	instagramConnector := meta.NewInstagram(meta.Config{
		AppID:       cfg.Meta.AppID,
		AppSecret:   cfg.Meta.AppSecret,
		RedirectURL: cfg.Meta.InstagramRedirectURI,
	}, httpClient)
	googleConnector := google.New(google.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURI,
	}, httpClient)

	registry.Register(linkedinConnector)
	registry.Register(twitterConnector)
	registry.Register(facebookConnector)
	registry.Register(instagramConnector)
	registry.Register(googleConnector)

	publishers := []driven.Publisher{linkedinConnector, twitterConnector, facebookConnector, instagramConnector}

	for _, p := range registry.Platforms() {
		log.Printf("Platform %s configured=%t", p, registry.Configured(p))
	}

	// ===== Content generator (optional) =====
	generator, err := ai.NewContentGenerator(ai.Settings{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to create content generator: %v", err)
	}
	if generator == nil {
		log.Println("Warning: OPENAI_API_KEY not set, /generate is disabled")
	}

	// Services (core business logic)
	redirects := services.NewRedirectController(cfg.FrontendURL)

	oauthService := services.NewOAuthService(services.OAuthServiceConfig{
		StateStore:      stateStore,
		CredentialStore: credentialStore,
		Connectors:      registry,
		Redirects:       redirects,
		StateTTL:        cfg.StateTTL,
		ProviderTimeout: cfg.ProviderTimeout,
		Logger:          logger,
	})
	loginService := services.NewLoginService(services.LoginServiceConfig{
		StateStore:      stateStore,
		Connector:       googleConnector,
		Signer:          auth.NewSigner(signingKey, cfg.IdentityTokenTTL),
		Redirects:       redirects,
		StateTTL:        cfg.StateTTL,
		ProviderTimeout: cfg.ProviderTimeout,
		Logger:          logger,
	})
	connectionService := services.NewConnectionService(credentialStore, logger)
	publishService := services.NewPublishService(services.PublishServiceConfig{
		CredentialStore: credentialStore,
		Publishers:      publishers,
		ProviderTimeout: cfg.ProviderTimeout,
		Logger:          logger,
	})
	contentService := services.NewContentService(generator, logger)

	// ===== State janitor =====
	janitor := services.NewStateJanitor(services.StateJanitorConfig{
		Store:    stateStore,
		Lock:     distributedLock,
		Logger:   logger,
		Interval: cfg.JanitorInterval,
	})
	janitor.Start(ctx)
	defer janitor.Stop()
	log.Printf("State janitor enabled (lock=%t)", distributedLock != nil)

	server := http.NewServer(http.Config{
		Host:        "0.0.0.0",
		Port:        cfg.Port,
		Version:     version,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	}, http.Services{
		OAuth:       oauthService,
		Login:       loginService,
		Connections: connectionService,
		Publish:     publishService,
		Content:     contentService,
		Platforms:   registry,
		Redirects:   redirects,
	}, pingers)

	log.Printf("API server starting on :%d (frontend %s)", cfg.Port, cfg.FrontendURL)
	if err := server.Start(); err != nil {
		log.Printf("Server error: %v", err)
	}
}

// randomSecret returns a hex key accepted as a raw 32-byte encryption key.
func randomSecret() string {
	b := make([]byte, crypto.KeySize)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("Failed to generate secret key: %v", err)
	}
	return hex.EncodeToString(b)
}
