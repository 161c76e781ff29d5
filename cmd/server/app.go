package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"voterfinder/internal/audit"
	jwttoken "voterfinder/internal/jwt_token"
	"voterfinder/internal/platform/config"
	"voterfinder/internal/platform/database"
	"voterfinder/internal/platform/kafka"
	"voterfinder/internal/platform/kv"
	"voterfinder/internal/platform/metrics"
	"voterfinder/internal/platform/redis"
	"voterfinder/internal/recent"
	searchhandler "voterfinder/internal/search/handler"
	searchservice "voterfinder/internal/search/service"
	sessionhandler "voterfinder/internal/session/handler"
	sessionservice "voterfinder/internal/session/service"
	sessionstore "voterfinder/internal/session/store"
	"voterfinder/internal/transliteration"
	translitmetrics "voterfinder/internal/transliteration/metrics"
	httptransport "voterfinder/internal/transport/http"
	voterhandler "voterfinder/internal/voter/handler"
	voterservice "voterfinder/internal/voter/service"
	voterstore "voterfinder/internal/voter/store"
	"voterfinder/pkg/platform/circuit"
)

const (
	tokenIssuer       = "voter-finder"
	tokenAudience     = "voter-finder"
	auditBuffer       = 256
	breakerCooldown   = 30 * time.Second
	topicPartitions   = 1
	topicReplication  = 1
	kafkaFlushTimeout = 5 * time.Second
)

// application is the fully wired process minus the HTTP listener.
type application struct {
	handler   http.Handler
	db        *sql.DB
	redis     *redis.Client
	kafka     *kgo.Client
	auditor   *audit.Async
	debouncer *transliteration.Debouncer
	logger    *slog.Logger
}

// buildApp opens every backing service and wires the modules together. On
// error everything opened so far is closed again.
func buildApp(ctx context.Context, cfg config.Config, logger *slog.Logger, reg *metrics.Registry) (_ *application, err error) {
	app := &application{logger: logger}
	defer func() {
		if err != nil {
			app.close(context.WithoutCancel(ctx))
		}
	}()

	driver, err := database.DriverFor(cfg.Database.Type)
	if err != nil {
		return nil, err
	}
	app.db, err = database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open voter database: %w", err)
	}
	voters, err := voterstore.New(app.db, driver)
	if err != nil {
		return nil, err
	}

	var store kv.Store = kv.NewInMemory()
	app.redis, err = redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if app.redis != nil {
		store = kv.NewRedis(app.redis.Client, kv.WithLatencyObserver(reg.KVLatency))
		logger.InfoContext(ctx, "using redis for session and cache state")
	} else {
		logger.InfoContext(ctx, "REDIS_URL not set, keeping state in memory")
	}

	var sink audit.Publisher = audit.NewLogPublisher(logger)
	app.kafka, err = kafka.NewProducer(ctx, cfg.Kafka)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	if app.kafka != nil {
		if err := kafka.EnsureTopic(ctx, app.kafka, cfg.Kafka.AuditTopic, topicPartitions, topicReplication); err != nil {
			return nil, err
		}
		sink = audit.NewKafkaPublisher(app.kafka, cfg.Kafka.AuditTopic, logger)
	}
	app.auditor = audit.NewAsync(sink, auditBuffer, logger)

	table := transliteration.DefaultTable()
	if cfg.Transliteration.TableFile != "" {
		table, err = transliteration.LoadTable(cfg.Transliteration.TableFile)
		if err != nil {
			return nil, err
		}
	}
	tc := cfg.Transliteration
	engine := transliteration.NewEngine(table,
		transliteration.WithPrimary(transliteration.NewInputToolsClient(tc.Endpoint, transliteration.WithTimeout(tc.Timeout))),
		transliteration.WithPrimaryTimeout(tc.Timeout),
		transliteration.WithCache(store, tc.CacheTTL),
		transliteration.WithRateLimit(tc.RPS, tc.Burst),
		transliteration.WithBreaker(circuit.New("transliteration", circuit.WithCooldown(breakerCooldown))),
		transliteration.WithMetrics(translitmetrics.New(reg)),
		transliteration.WithLogger(logger),
	)
	app.debouncer = transliteration.NewDebouncer(tc.Debounce)
	typeahead := searchservice.NewTypeahead(engine, app.debouncer, searchservice.WithTypeaheadLogger(logger))

	voterSvc, err := voterservice.New(voters, voterservice.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	recentLog := recent.New(store)
	searchSvc, err := searchservice.New(voterSvc,
		searchservice.WithRecentLog(recentLog),
		searchservice.WithAuditPublisher(app.auditor),
		searchservice.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	tokens := jwttoken.NewJWTService(cfg.Session.SigningKey, tokenIssuer, tokenAudience)
	gate, err := sessionservice.New(sessionstore.New(store, cfg.Session.TTL), tokens,
		sessionservice.WithLoginDelay(cfg.Session.LoginDelay),
		sessionservice.WithTokenTTL(cfg.Session.TTL),
		sessionservice.WithAuditPublisher(app.auditor),
		sessionservice.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	checks := map[string]httptransport.HealthCheck{
		"database": app.db.PingContext,
	}
	if app.redis != nil {
		checks["redis"] = app.redis.Health
	}
	if app.kafka != nil {
		checks["kafka"] = app.kafka.Ping
	}

	app.handler = httptransport.NewRouter(httptransport.Deps{
		Logger:        logger,
		Metrics:       reg,
		Tokens:        tokens,
		Sessions:      gate,
		SecureCookies: cfg.Server.IsProduction(),
		HealthChecks:  checks,
		Public: []httptransport.Registrar{
			sessionhandler.New(gate, logger),
		},
		Protected: []httptransport.Registrar{
			voterhandler.New(voterSvc, app.auditor, logger),
			searchhandler.New(searchSvc, typeahead, engine, recentLog, logger),
			searchhandler.NewDashboard(gate, voterSvc, recentLog, typeahead, logger),
		},
	})
	return app, nil
}

// close releases backing services. Call after the HTTP server has stopped
// and the audit worker has drained.
func (a *application) close(ctx context.Context) {
	if a.debouncer != nil {
		a.debouncer.Stop()
	}
	if a.kafka != nil {
		flushCtx, cancel := context.WithTimeout(ctx, kafkaFlushTimeout)
		if err := a.kafka.Flush(flushCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			a.logger.WarnContext(ctx, "kafka flush failed", "error", err)
		}
		cancel()
		a.kafka.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.WarnContext(ctx, "redis close failed", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.WarnContext(ctx, "database close failed", "error", err)
		}
	}
}
