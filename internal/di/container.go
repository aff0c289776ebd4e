package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"cisnr-assistant/internal/adapter/googleai"
	"cisnr-assistant/internal/adapter/pinecone"
	"cisnr-assistant/internal/adapter/repository"
	"cisnr-assistant/internal/domain"
	"cisnr-assistant/internal/infra"
	"cisnr-assistant/internal/infra/config"
	"cisnr-assistant/internal/infra/httpclient"
	"cisnr-assistant/internal/usecase"
)

// ApplicationComponents holds all wired dependencies for the service.
// Provider clients are built once here and shared across requests.
type ApplicationComponents struct {
	Embedder  domain.Embedder
	Index     domain.VectorIndex
	Generator domain.Generator

	AnswerUsecase usecase.AnswerUsecase

	pool *pgxpool.Pool
}

// NewApplicationComponents validates the configuration and wires the
// answer pipeline. Any error here means the pipeline must not be
// used; the caller keeps serving in degraded mode.
func NewApplicationComponents(ctx context.Context, cfg *config.Config, log *slog.Logger) (*ApplicationComponents, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	embedderHTTP := httpclient.NewPooledClient(time.Duration(cfg.EmbedderTimeout) * time.Second)
	generatorHTTP := httpclient.NewPooledClient(time.Duration(cfg.GeneratorTimeout) * time.Second)
	indexHTTP := httpclient.NewPooledClient(time.Duration(cfg.IndexTimeout) * time.Second)

	embedder := googleai.NewEmbedder(cfg.GoogleBaseURL, cfg.GoogleAPIKey, cfg.EmbeddingModel, embedderHTTP)
	generator := googleai.NewGenerator(cfg.GoogleBaseURL, cfg.GoogleAPIKey, cfg.GenerationModel, generatorHTTP)

	components := &ApplicationComponents{
		Embedder:  embedder,
		Generator: generator,
	}

	switch cfg.VectorBackend {
	case config.BackendPinecone:
		components.Index = pinecone.NewIndexClient(cfg.PineconeIndexHost, cfg.PineconeAPIKey, cfg.PineconeIndexName, indexHTTP)
	case config.BackendPostgres:
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		pool, err := infra.NewPostgresDB(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to vector db: %w", err)
		}
		components.pool = pool
		components.Index = repository.NewPgvectorIndex(pool)
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.VectorBackend)
	}

	timeouts := usecase.Timeouts{
		Embed:    time.Duration(cfg.EmbedderTimeout) * time.Second,
		Search:   time.Duration(cfg.IndexTimeout) * time.Second,
		Generate: time.Duration(cfg.GeneratorTimeout) * time.Second,
	}

	components.AnswerUsecase = usecase.NewAnswerUsecase(
		embedder,
		components.Index,
		usecase.NewCISNRPromptBuilder(),
		generator,
		cfg.TopK,
		cfg.GenerationTemperature,
		cfg.GenerationMaxTokens,
		timeouts,
		log,
	)

	log.Info("answer pipeline initialized",
		slog.String("embedding_model", embedder.Model()),
		slog.String("generation_model", generator.Model()),
		slog.String("vector_backend", cfg.VectorBackend),
		slog.Int("top_k", cfg.TopK))

	return components, nil
}

// Close releases long-lived resources.
func (c *ApplicationComponents) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}
