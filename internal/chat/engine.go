package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"helpdesk-insights/internal/common/cache"
	"helpdesk-insights/internal/common/logger"
	"helpdesk-insights/internal/common/metrics"
	"helpdesk-insights/internal/models"
	"helpdesk-insights/internal/report"
)

// Engine is the single entry point of the core: classify the question,
// aggregate the relevant API calls, compress the results and complete.
// Every entity it creates lives for one request only.
type Engine struct {
	aggregator *report.Aggregator
	gateway    *Gateway
	snapshots  *cache.SnapshotStore // optional
	logger     logger.Logger
}

// NewEngine wires the pipeline. A nil aggregator or gateway is the one
// configuration misuse allowed to surface as an error.
func NewEngine(aggregator *report.Aggregator, gateway *Gateway, snapshots *cache.SnapshotStore, log logger.Logger) (*Engine, error) {
	if aggregator == nil {
		return nil, fmt.Errorf("engine requires an aggregator")
	}
	if gateway == nil {
		return nil, fmt.Errorf("engine requires a gateway")
	}
	return &Engine{
		aggregator: aggregator,
		gateway:    gateway,
		snapshots:  snapshots,
		logger: log.With(map[string]interface{}{
			"component": "engine",
		}),
	}, nil
}

// AskQuestion answers one question. Failures while aggregating or completing
// degrade the reply but never escape as errors; the caller always gets a
// reply object.
func (e *Engine) AskQuestion(ctx context.Context, question string, history []models.ChatTurn) Reply {
	requestID := uuid.NewString()
	log := e.logger.With(map[string]interface{}{"requestID": requestID})
	start := time.Now()

	categories := report.Classify(question)
	log.Info("question classified", map[string]interface{}{
		"categories": categories,
	})

	bag := e.aggregator.Aggregate(ctx, categories, question, time.Now())
	contextBlock := report.Compress(bag, question)

	if contextBlock != "" && e.snapshots != nil {
		// Best effort; a cache outage must not affect the reply.
		if err := e.snapshots.SaveContext(ctx, contextBlock); err != nil {
			log.WithError(err).Warn("snapshot save failed", nil)
		}
	}

	reply := e.gateway.Reply(ctx, withQuestion(history, question), contextBlock)

	metrics.QuestionsTotal.WithLabelValues(reply.Source).Inc()
	metrics.QuestionDuration.Observe(time.Since(start).Seconds())
	log.Info("question answered", map[string]interface{}{
		"source":   reply.Source,
		"calls":    bag.Len(),
		"duration": time.Since(start).String(),
	})

	return reply
}

// withQuestion makes sure the question itself is the latest user turn of the
// outbound history.
func withQuestion(history []models.ChatTurn, question string) []models.ChatTurn {
	if models.LatestUserContent(history) == question {
		return history
	}
	out := make([]models.ChatTurn, len(history), len(history)+1)
	copy(out, history)
	return append(out, models.ChatTurn{Role: models.RoleUser, Content: question})
}
