package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"formlens/internal/cache"
	"formlens/internal/config"
	"formlens/internal/metrics"
	"formlens/internal/repository"
	"formlens/internal/service"
)

// App holds the connections, stores and services shared by the binaries
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Mongo *mongo.Client
	Redis *redis.Client

	FormRepo       repository.FormRepo
	SubmissionRepo repository.SubmissionRepo
	ReportRepo     repository.ReportRepo
	ReportCache    cache.ReportCache
	EmbeddingCache cache.EmbeddingCache

	Metrics    metrics.Recorder
	Embeddings *service.EmbeddingService
	Categories *config.CategoryTable

	AuthService     *service.AuthService
	FormService     *service.FormService
	AnalysisService *service.AnalysisService

	exporter *metrics.Exporter
}

// New connects to MongoDB and Redis, starts the embedding service and
// builds every service. broadcaster may be nil.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, broadcaster service.Broadcaster) (*App, error) {
	a := &App{Config: cfg, Logger: log}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}
	a.Mongo = mongoClient

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}
	log.Info("Connected to MongoDB", zap.String("database", cfg.Mongo.Database))

	a.Redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address()})
	if _, err := a.Redis.Ping(ctx).Result(); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("pinging Redis: %w", err)
	}
	log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Address()))

	db := mongoClient.Database(cfg.Mongo.Database)
	a.FormRepo = repository.NewFormRepo(db)
	a.SubmissionRepo = repository.NewSubmissionRepo(db)
	a.ReportRepo = repository.NewReportRepo(db)
	a.ReportCache = cache.NewReportCache(a.Redis)
	a.EmbeddingCache = cache.NewEmbeddingCache(a.Redis)

	a.Metrics = metrics.Noop{}
	if cfg.Otel.Enabled {
		exporter, err := metrics.NewExporter(ctx, cfg.Otel)
		if err != nil {
			log.Warn("Metrics exporter unavailable", zap.Error(err))
		} else {
			a.exporter = exporter
			a.Metrics = exporter
		}
	}

	a.Categories, err = LoadCategories(cfg.CategoriesFile, log)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.Embeddings = service.NewEmbeddingService(&cfg.AI, a.EmbeddingCache, log)
	if err := a.Embeddings.Start(ctx); err != nil {
		log.Warn("Similarity analysis disabled", zap.Error(err))
	}

	// Analysis thresholds follow config.yaml reloads
	thresholds := service.LiveThresholds{Fallback: service.ThresholdsFromConfig(cfg.Analysis)}
	feedback := NewFeedbackService(a.Embeddings, thresholds, a.Metrics, log)
	suggester := service.NewSuggestionService(&cfg.AI, a.Categories, log)

	a.AuthService = service.NewAuthService(cfg.Auth)
	a.FormService = service.NewFormService(a.FormRepo, a.SubmissionRepo, a.ReportRepo, a.ReportCache, broadcaster, log)
	a.AnalysisService = service.NewAnalysisService(
		feedback, suggester,
		a.FormRepo, a.SubmissionRepo, a.ReportRepo, a.ReportCache,
		broadcaster, thresholds, log,
	)
	return a, nil
}

// NewFeedbackService assembles the analysis engine. embedder may be nil.
func NewFeedbackService(embedder service.Embedder, thresholds service.ThresholdSource, recorder metrics.Recorder, log *zap.Logger) *service.FeedbackService {
	return service.NewFeedbackService(
		service.NewBehaviorAnalyzer(thresholds, log),
		service.NewFormFeedbackService(embedder, thresholds, log),
		recorder,
		log,
	)
}

// LoadCategories reads the category table from path, or the built-in table when path is empty
func LoadCategories(path string, log *zap.Logger) (*config.CategoryTable, error) {
	table, err := config.LoadCategories(path)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded question categories", zap.String("path", path), zap.Strings("categories", table.Names()))
	return table, nil
}

// Close releases every connection; it is safe on a partially built App
func (a *App) Close(ctx context.Context) {
	if a.Embeddings != nil {
		a.Embeddings.Close()
	}
	if a.exporter != nil {
		if err := a.exporter.Close(ctx); err != nil {
			a.Logger.Warn("Failed to flush metrics", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.Mongo != nil {
		if err := a.Mongo.Disconnect(ctx); err != nil {
			a.Logger.Warn("Failed to disconnect MongoDB", zap.Error(err))
		}
	}
}
