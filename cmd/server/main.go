// Package main is the entry point for the EventScout Public Chat Service.
// @title EventScout Public Chat API
// @version 1.0
// @description Authenticated, rate-limited conversational event-recommendation API.

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token authentication
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/eventscout/chat-service/docs"
	"github.com/eventscout/chat-service/internal/api/handlers"
	"github.com/eventscout/chat-service/internal/api/middleware"
	"github.com/eventscout/chat-service/internal/api/routes"
	"github.com/eventscout/chat-service/internal/config"
	"github.com/eventscout/chat-service/internal/core/cache"
	"github.com/eventscout/chat-service/internal/core/docdb"
	"github.com/eventscout/chat-service/internal/core/vault"
	rediscache "github.com/eventscout/chat-service/internal/infrastructure/cache/redis"
	"github.com/eventscout/chat-service/internal/infrastructure/docdb/mongodb"
	dotenvvault "github.com/eventscout/chat-service/internal/infrastructure/vault/dotenv"
	"github.com/eventscout/chat-service/internal/pkg/identity"
	"github.com/eventscout/chat-service/internal/services/conversation"
	"github.com/eventscout/chat-service/internal/services/extraction"
	"github.com/eventscout/chat-service/internal/services/ratelimit"
	"github.com/eventscout/chat-service/internal/services/recommend"
	"github.com/eventscout/chat-service/internal/services/search"
	"github.com/eventscout/chat-service/internal/services/usage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	setupLogging(cfg.Log)

	ctx := context.Background()

	vaultClient, err := createVaultClient(vault.Type(getVaultType()))
	if err != nil {
		log.Fatalf("failed to initialize vault client: %v", err)
	}
	defer vaultClient.Close()

	cacheClient, err := createCacheClient(cfg.Cache)
	if err != nil {
		log.Fatalf("failed to initialize cache client: %v", err)
	}
	defer cacheClient.Close()

	docDBClient, err := createDocDBClient(ctx, cfg.DocDB)
	if err != nil {
		log.Fatalf("failed to initialize document db client: %v", err)
	}
	defer docDBClient.Close(ctx)

	if err := docDBClient.EnsureIndexes(ctx); err != nil {
		zlog.Warn().Err(err).Msg("failed to ensure indexes")
	}

	verifier, err := createVerifier(ctx, cfg, vaultClient)
	if err != nil {
		log.Fatalf("failed to initialize token verifier: %v", err)
	}

	conversations, err := conversation.NewStore(&conversation.Config{DocDBClient: docDBClient})
	if err != nil {
		log.Fatalf("failed to initialize conversation store: %v", err)
	}

	registry, err := createExtractionRegistry(ctx, cfg, vaultClient)
	if err != nil {
		log.Fatalf("failed to initialize extraction providers: %v", err)
	}

	searcher, err := search.NewHTTPSearcher(search.Config{
		BaseURL: cfg.Search.URL,
		Timeout: cfg.Search.Timeout,
	})
	if err != nil {
		log.Fatalf("failed to initialize event searcher: %v", err)
	}

	recCache, err := recommend.NewCache(cacheClient, cfg.Cache.TTL)
	if err != nil {
		log.Fatalf("failed to initialize recommendation cache: %v", err)
	}

	assembler, err := recommend.NewAssembler(&recommend.Config{
		Registry:         registry,
		Searcher:         searcher,
		Cache:            recCache,
		Conversations:    conversations,
		Usage:            usage.NewTracker(cfg.Trial.Limit),
		ExtractionPolicy: cfg.LLM.ExtractionPolicy,
	})
	if err != nil {
		log.Fatalf("failed to initialize assembler: %v", err)
	}

	limiter := ratelimit.NewLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window())

	gin.SetMode(cfg.Server.GinMode)
	router := setupRouter(cfg, cacheClient, docDBClient, verifier, limiter, assembler, conversations)

	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	go func() {
		zlog.Info().Str("address", cfg.Server.Address()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	zlog.Info().Msg("server exited")
}

// setupLogging configures the global zerolog logger.
func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func getVaultType() string {
	if v := os.Getenv("VAULT_TYPE"); v != "" {
		return v
	}
	return "dotenv"
}

// createVaultClient creates a vault client based on the configuration.
func createVaultClient(vaultType vault.Type) (vault.Vault, error) {
	switch vaultType {
	case vault.TypeDotEnv:
		return dotenvvault.NewVault(), nil
	default:
		log.Fatalf("unsupported vault type: %s", vaultType)
		return nil, nil
	}
}

// createCacheClient creates a cache client based on the configuration.
func createCacheClient(cfg config.CacheConfig) (cache.Cache, error) {
	switch cache.Type(cfg.Type) {
	case cache.TypeRedis:
		return rediscache.NewCache(rediscache.Config{
			Host:       cfg.Host,
			Port:       cfg.Port,
			Password:   cfg.Password,
			DB:         cfg.DB,
			DefaultTTL: cfg.TTL,
		})
	default:
		log.Fatalf("unsupported cache type: %s", cfg.Type)
		return nil, nil
	}
}

// createDocDBClient creates a document database client based on the configuration.
func createDocDBClient(ctx context.Context, cfg config.DocDBConfig) (docdb.Client, error) {
	switch docdb.Type(cfg.Type) {
	case docdb.TypeMongoDB, docdb.TypeCosmosDB:
		// CosmosDB speaks the MongoDB protocol, so the same client serves both.
		return mongodb.NewClient(ctx, &mongodb.ClientConfig{
			URI:          cfg.URI,
			DatabaseName: cfg.Database,
		})
	default:
		log.Fatalf("unsupported docdb type: %s", cfg.Type)
		return nil, nil
	}
}

// createVerifier builds the JWT verifier, sourcing the secret from config
// or the vault.
func createVerifier(ctx context.Context, cfg *config.Config, vaultClient vault.Vault) (identity.Verifier, error) {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		if value, err := vaultClient.GetSecret(ctx, "dotenv://JWT_SECRET"); err == nil {
			secret = value
		}
	}
	return identity.NewJWTVerifier(secret, cfg.Auth.AnonymousPrefix)
}

// createExtractionRegistry registers the configured extraction providers.
func createExtractionRegistry(ctx context.Context, cfg *config.Config, vaultClient vault.Vault) (*extraction.Registry, error) {
	apiKey := cfg.LLM.OpenAIAPIKey
	if apiKey == "" {
		if value, err := vaultClient.GetSecret(ctx, "dotenv://OPENAI_API_KEY"); err == nil {
			apiKey = value
		}
	}

	openAIProvider, err := extraction.NewOpenAIProvider(extraction.OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: cfg.LLM.OpenAIBaseURL,
		Model:   cfg.LLM.OpenAIModel,
		Timeout: cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, err
	}

	registry := extraction.NewRegistry()
	registry.Register(openAIProvider)
	return registry, nil
}

// setupRouter creates and configures the Gin router.
func setupRouter(
	cfg *config.Config,
	cacheClient cache.Cache,
	docDBClient docdb.Client,
	verifier identity.Verifier,
	limiter *ratelimit.Limiter,
	assembler *recommend.Assembler,
	conversations conversation.Store,
) *gin.Engine {
	router := gin.New()

	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()
	authMw := middleware.NewAuthMiddleware(verifier)
	rateLimitMw := middleware.NewRateLimitMiddleware(limiter)
	corsMw := middleware.NewCORSMiddleware(cfg.CORS.DomainName)

	routesCfg := &routes.Config{
		HealthHandler:        handlers.NewHealthHandler(cacheClient, docDBClient),
		ChatHandler:          handlers.NewChatHandler(assembler),
		ConversationsHandler: handlers.NewConversationsHandler(conversations),
		AuthMiddleware:       authMw,
		RateLimitMiddleware:  rateLimitMw,
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw, corsMw)

	// Swagger documentation endpoint
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
