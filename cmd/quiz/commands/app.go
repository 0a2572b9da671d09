// ABOUTME: Wires configuration, logging, the OpenAI client, and the question bank for commands
// ABOUTME: Every command builds its services here so they share one setup path
package commands

import (
	"fmt"

	"github.com/harper/quizsmith/internal/config"
	"github.com/harper/quizsmith/internal/core"
	"github.com/harper/quizsmith/internal/extract"
	"github.com/harper/quizsmith/internal/llm"
	"github.com/harper/quizsmith/internal/logger"
	"github.com/harper/quizsmith/internal/quiz"
	"github.com/harper/quizsmith/internal/storage"
	"github.com/harper/quizsmith/internal/storage/charmkv"
	"github.com/harper/quizsmith/internal/storage/snapshot"
	"github.com/harper/quizsmith/internal/storage/sqlite"
	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"
)

// app holds the services a command needs
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	client  *llm.OpenAIClient // nil without OPENAI_API_KEY
	library *extract.Library
	engine  *core.Engine
	tutor   *core.Tutor
	bank    storage.Provider
}

// loadConfig reads .env (if present) and the environment
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logger.Logger {
	if quiet {
		return logger.NewNop()
	}
	log, err := logger.New(cfg.LogMode, verbose)
	if err != nil {
		return logger.NewNop()
	}
	return log
}

// newApp builds the full service graph. The bank is opened when withBank is set.
func newApp(withBank bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)

	a := &app{cfg: cfg, log: log}

	if cfg.OpenAIKey == "" {
		log.Warn("OPENAI_API_KEY not set: retrieval falls back to document order and generation is unavailable")
	} else {
		clientCfg := llm.DefaultConfig(cfg.OpenAIKey)
		clientCfg.ChatModel = cfg.ChatModel
		clientCfg.EmbeddingModel = openai.EmbeddingModel(cfg.EmbeddingModel)
		clientCfg.Timeout = cfg.Timeout
		clientCfg.MaxRetries = cfg.MaxRetries
		clientCfg.RetryDelay = cfg.RetryDelay
		client, err := llm.NewOpenAIClientWithConfig(clientCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		a.client = client
		log.Debug("OpenAI client initialized", "chat_model", cfg.ChatModel, "embedding_model", cfg.EmbeddingModel)
	}

	a.library = extract.NewLibrary(cfg.DocumentsDir, log)
	a.engine, err = buildEngine(cfg, a.library, a.client, log)
	if err != nil {
		return nil, err
	}

	// Typed nil pointers must not leak into the interfaces
	var answerer core.Answerer
	if a.client != nil {
		answerer = a.client
	}
	a.tutor = core.NewTutor(a.engine, answerer, cfg.TopK)

	if withBank {
		bank, err := openBank(cfg, log)
		if err != nil {
			return nil, err
		}
		a.bank = bank
	}

	return a, nil
}

func buildEngine(cfg *config.Config, docs core.DocumentSource, client *llm.OpenAIClient, log *logger.Logger) (*core.Engine, error) {
	var (
		embedder  core.Embedder
		completer core.Completer
	)
	if client != nil {
		embedder = client
		completer = client
	}

	chunker, err := core.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	generator := core.NewGenerator(completer, core.NewRecentStems(cfg.StemMemory), nil,
		core.GeneratorConfig{MaxAttempts: cfg.MaxAttempts, RetryDelay: cfg.RetryDelay}, log)

	return core.NewEngine(core.EngineOptions{
		Documents: docs,
		Index:     core.NewIndexCache(chunker, embedder, docs.ExtractText, cfg.EmbedBatchSize, log),
		Retriever: core.NewRetriever(embedder, log),
		Generator: generator,
		Excluded:  cfg.Course.ExcludedTerms,
		ContextK:  cfg.ContextK,
		Logger:    log,
	}), nil
}

// openBank opens the configured question bank backend
func openBank(cfg *config.Config, log *logger.Logger) (storage.Provider, error) {
	switch cfg.Backend {
	case config.BackendSnapshot:
		store, err := snapshot.Load(cfg.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
		log.Debug("using snapshot question bank", "path", cfg.SnapshotPath)
		return store, nil

	case config.BackendCharm:
		client, err := charmkv.NewClient(&charmkv.Config{
			Host:     cfg.CharmHost,
			DBName:   cfg.CharmDBName,
			AutoSync: cfg.AutoSync,
		})
		if err != nil {
			return nil, err
		}
		log.Debug("using charm question bank", "host", cfg.CharmHost, "db", cfg.CharmDBName)
		return charmkv.NewQuestionStore(client), nil

	default:
		return openSQLiteBank(cfg, log)
	}
}

func openSQLiteBank(cfg *config.Config, log *logger.Logger) (*sqlite.QuestionStore, error) {
	path := cfg.DBPath
	if path == "" {
		path = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open question bank: %w", err)
	}
	log.Debug("using sqlite question bank", "path", path)
	return sqlite.NewQuestionStore(db), nil
}

// sessionOptions configures quiz sessions from the app
func (a *app) sessionOptions() quiz.Options {
	return quiz.Options{
		Generator:    a.engine,
		Bank:         a.bank,
		MaxQuestions: a.cfg.MaxQuestions,
		RandomBatch:  a.cfg.RandomBatch,
		SaveToBank:   a.cfg.SaveToBank,
		Logger:       a.log,
	}
}

// Close releases the bank and flushes the logger
func (a *app) Close() {
	if a.bank != nil {
		if err := a.bank.Close(); err != nil {
			a.log.Warn("error closing question bank", "error", err)
		}
	}
	a.log.Sync()
}
