package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/kovalyov-valentin/news-agents/internal/agent"
	"github.com/kovalyov-valentin/news-agents/internal/cache"
	"github.com/kovalyov-valentin/news-agents/internal/config"
	"github.com/kovalyov-valentin/news-agents/internal/enrich"
	"github.com/kovalyov-valentin/news-agents/internal/imagestore"
	"github.com/kovalyov-valentin/news-agents/internal/llm"
	"github.com/kovalyov-valentin/news-agents/internal/logger"
	"github.com/kovalyov-valentin/news-agents/internal/model"
	"github.com/kovalyov-valentin/news-agents/internal/normalize"
	"github.com/kovalyov-valentin/news-agents/internal/notifier"
	"github.com/kovalyov-valentin/news-agents/internal/pipeline"
	"github.com/kovalyov-valentin/news-agents/internal/report"
	"github.com/kovalyov-valentin/news-agents/internal/search"
	"github.com/kovalyov-valentin/news-agents/internal/selector"
	"github.com/kovalyov-valentin/news-agents/internal/source"
	"github.com/kovalyov-valentin/news-agents/internal/storage"
)

func main() {
	cfg := config.Get()

	logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogOutput,
		Pretty: cfg.LogPretty,
	})
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid config")
		os.Exit(1)
	}

	//Graceful Shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("pipeline stopped")
			return
		}

		log.Error().Err(err).Msg("pipeline failed")
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	log := logger.Get()

	// Инициализируем подключение к БД
	db, err := sqlx.Connect("postgres", cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	prompts, err := agent.LoadPrompts(cfg.AgentsDir)
	if err != nil {
		return err
	}

	var (
		chat          = llm.NewOpenAIChat(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIMaxTokens)
		newsStorage   = storage.NewNewsPostgresStorage(db, cfg.AllowRawSQL)
		sourceStorage = storage.NewSourcePostgresStorage(db)
		aliases       = normalize.DefaultAliases
	)

	// Каналы researcher, которые не настроены, остаются nil
	var searcher agent.Searcher
	if serper := search.NewSerper(cfg.SerperKey, cfg.SearchResults); serper.Enabled() {
		searcher = serper
	}

	var links agent.LinkCache = cache.Nop{}
	if cfg.RedisURL != "" {
		linkCache, err := cache.NewRedisLinkCache(ctx, cfg.RedisURL, cfg.LinkTTL)
		if err != nil {
			log.Error().Err(err).Msg("link cache is unavailable, continuing without it")
		} else {
			defer linkCache.Close()
			links = linkCache
		}
	}

	var mirror enrich.Mirror
	if cfg.MirrorEnabled() {
		s3Mirror, err := imagestore.NewS3Mirror(ctx, imagestore.Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return err
		}
		mirror = s3Mirror
	}

	var announcer pipeline.Announcer
	if cfg.TelegramEnabled() {
		botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			return err
		}
		announcer = notifier.New(botAPI, cfg.TelegramChannelID, cfg.SiteURL)
	}

	saver := pipeline.NewNewsSaver(
		normalize.New(cfg.RawField,
			normalize.NewJSONStrategy(cfg.ListKeys, cfg.CompletionPhrases),
			normalize.NewSQLStatementStrategy(cfg.CompletionPhrases),
			normalize.NewFileStrategy(report.NewFileLoader(cfg.ReportPath, cfg.ListKeys)),
		),
		selector.New(aliases.CategoryID, aliases.Content, cfg.MinContentLength, cfg.PerCategory),
		aliases,
		enrich.New(
			enrich.NewOpenAIImageGenerator(cfg.OpenAIKey, cfg.ImageSize),
			mirror,
			cfg.ImagePrompt,
		),
		newsStorage,
		announcer,
	)

	p := pipeline.New(saver,
		agent.NewResearcher(
			chat,
			prompts,
			searcher,
			sourceStorage,
			func(s model.Source) agent.Feed {
				return source.NewRSSSourceFromModel(s, cfg.FeedItems)
			},
			links,
			cfg.FilterKeywords,
		),
		agent.NewReporter(chat, prompts, report.Write, cfg.ReportPath, cfg.CompletionPhrases),
		agent.NewPublisher(chat, prompts),
	)

	log.Info().Str("topic", cfg.Topic).Msg("pipeline started")

	return p.Run(ctx, cfg.Topic)
}
