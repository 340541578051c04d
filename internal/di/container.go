package di

import (
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"docqa-orchestrator/internal/adapter/docconv"
	"docqa-orchestrator/internal/adapter/modelclient"
	"docqa-orchestrator/internal/adapter/repository"
	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/infra/config"
	"docqa-orchestrator/internal/infra/httpclient"
	"docqa-orchestrator/internal/usecase"
	"docqa-orchestrator/internal/worker"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	// Repositories
	ChunkRepo domain.ChunkRepository
	DocRepo   domain.DocumentRepository
	JobRepo   domain.JobRepository

	// Usecases
	IngestUsecase usecase.IngestDocumentUsecase
	AnswerUsecase usecase.AnswerQueryUsecase

	// Worker
	Worker *worker.IngestWorker
}

// NewApplicationComponents wires all dependencies from config and database pool.
func NewApplicationComponents(cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) *ApplicationComponents {
	// Repositories
	chunkRepo := repository.NewChunkRepository(pool)
	docRepo := repository.NewDocumentRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	txManager := repository.NewPostgresTransactionManager(pool)

	// Shared HTTP clients with connection pooling
	converterHTTP := httpclient.NewPooledClient(time.Duration(cfg.ConverterTimeout) * time.Second)
	embedderHTTP := httpclient.NewPooledClient(time.Duration(cfg.EmbedderTimeout) * time.Second)
	rerankHTTP := httpclient.NewPooledClient(time.Duration(cfg.RerankTimeout) * time.Second)
	generatorHTTP := httpclient.NewPooledClient(time.Duration(cfg.GeneratorTimeout) * time.Second)

	// External clients
	converter := docconv.NewConverterClient(cfg.ConverterURL, converterHTTP, log)
	embedder := modelclient.NewOllamaEmbedder(cfg.EmbedderURL, cfg.EmbeddingModel, embedderHTTP, cfg.EmbedderRPS)
	completion := modelclient.NewOllamaCompletion(cfg.GeneratorURL, cfg.GeneratorModel, generatorHTTP)

	// Ingestion pipeline
	enricher := usecase.NewChunkEnricher(converter, domain.NewSplitter(), log)
	ingestUsecase := usecase.NewIngestDocumentUsecase(enricher, embedder, chunkRepo, docRepo, txManager, log)

	// Per-document query pipeline
	var docOpts []usecase.AnswerDocumentOption
	if cfg.RerankEnabled {
		rerankerClient := modelclient.NewRerankerClient(cfg.RerankURL, cfg.RerankModel, rerankHTTP, log)
		docOpts = append(docOpts, usecase.WithReranker(rerankerClient, time.Duration(cfg.RerankTimeout)*time.Second))
		log.Info("reranker_enabled",
			slog.String("url", cfg.RerankURL),
			slog.String("model", cfg.RerankModel))
	}
	if cfg.LexicalEnabled {
		docOpts = append(docOpts, usecase.WithLexicalChannel(true))
		log.Info("lexical_channel_enabled")
	}

	promptBuilder := usecase.NewGroundedPromptBuilder()
	generator := usecase.NewGenerator(completion, cfg.AnswerMaxTokens, time.Duration(cfg.GeneratorTimeout)*time.Second, log)
	docPipeline := usecase.NewAnswerDocumentUsecase(chunkRepo, embedder, promptBuilder, generator, log, docOpts...)

	// Orchestrator with answer cache and bounded fan-out
	answerUsecase := usecase.NewAnswerQueryUsecase(
		docRepo, docPipeline, log,
		usecase.WithCacheConfig(cfg.CacheSize, time.Duration(cfg.CacheTTL)*time.Minute),
		usecase.WithFanOutLimit(cfg.FanOutLimit),
	)

	// Worker
	ingestWorker := worker.NewIngestWorker(jobRepo, ingestUsecase, log)

	return &ApplicationComponents{
		ChunkRepo:     chunkRepo,
		DocRepo:       docRepo,
		JobRepo:       jobRepo,
		IngestUsecase: ingestUsecase,
		AnswerUsecase: answerUsecase,
		Worker:        ingestWorker,
	}
}
