package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"helpdesk-insights/internal/chat"
	"helpdesk-insights/internal/common/cache"
	"helpdesk-insights/internal/common/config"
	"helpdesk-insights/internal/common/logger"
	"helpdesk-insights/internal/common/observability"
	"helpdesk-insights/internal/helpdesk"
	"helpdesk-insights/internal/models"
	"helpdesk-insights/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting insightd",
		zap.String("environment", cfg.App.Environment),
		zap.Bool("liveCompletions", cfg.Completion.Enabled()),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
				zapLog.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	var snapshots *cache.SnapshotStore
	if cfg.Redis.Address != "" {
		snapshots = cache.New(cfg.Redis)
		if err := snapshots.Ping(ctx); err != nil {
			zapLog.Warn("snapshot cache unavailable, fallback answers will be generic", zap.Error(err))
			snapshots.Close()
			snapshots = nil
		} else {
			defer snapshots.Close()
		}
	}

	client := helpdesk.NewClient(cfg.Helpdesk, log)
	aggregator := report.NewAggregator(client, log)

	var completer chat.Completer
	if cfg.Completion.Enabled() {
		completer = chat.NewHTTPCompleter(cfg.Completion)
	}
	gateway := chat.NewGateway(completer, cfg.Completion.Provider, cfg.Completion.SystemPrompt, snapshots, log)

	engine, err := chat.NewEngine(aggregator, gateway, snapshots, log)
	if err != nil {
		zapLog.Fatal("engine init failed", zap.Error(err))
	}

	runREPL(ctx, engine, obs)
	zapLog.Info("shutting down")
}

// runREPL answers questions from stdin until EOF or a shutdown signal.
func runREPL(ctx context.Context, engine *chat.Engine, obs *observability.Observability) {
	scanner := bufio.NewScanner(os.Stdin)
	var history []models.ChatTurn

	fmt.Println("Ask a question about your helpdesk (Ctrl-D to quit):")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		start := time.Now()
		reply := engine.AskQuestion(ctx, question, history)
		obs.RecordQuestion(ctx, reply.Source)
		obs.RecordQuestionDuration(ctx, time.Since(start), reply.Source)
		fmt.Printf("\n%s\n\n[source: %s]\n\n", reply.Text, reply.Source)

		history = append(history,
			models.ChatTurn{Role: models.RoleUser, Content: question},
			models.ChatTurn{Role: models.RoleAssistant, Content: reply.Text},
		)
	}
}
