// Package chat implements the question-answering pipeline above the report
// core: the completion gateway with its fallback path, and the engine that
// ties classification, aggregation and compression together.
package chat

import (
	"context"
	"strings"

	"helpdesk-insights/internal/common/cache"
	"helpdesk-insights/internal/common/logger"
	"helpdesk-insights/internal/common/metrics"
	"helpdesk-insights/internal/models"
)

// Reply is the outcome of one question. Source records provenance:
// "<provider>-realtime" (live completion with fresh data attached),
// "<provider>-basic" (live completion without data) or "fallback".
type Reply struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

const genericApology = "I'm sorry, I can't reach the helpdesk data or the assistant service right now. Please try again in a moment."

// Gateway builds the outbound completion request and guarantees a reply:
// any provider failure degrades to a locally synthesized answer, never an
// error to the caller.
type Gateway struct {
	completer    Completer // nil means no credential configured
	provider     string
	systemPrompt string
	snapshots    *cache.SnapshotStore // optional
	logger       logger.Logger
}

func NewGateway(completer Completer, provider, systemPrompt string, snapshots *cache.SnapshotStore, log logger.Logger) *Gateway {
	return &Gateway{
		completer:    completer,
		provider:     provider,
		systemPrompt: systemPrompt,
		snapshots:    snapshots,
		logger: log.With(map[string]interface{}{
			"component": "gateway",
		}),
	}
}

// Reply sends one completion attempt and falls back locally on any failure.
// The outbound message list is the instruction system turn, an optional
// system turn carrying the context block, then at most the last 8 non-system
// history turns.
func (g *Gateway) Reply(ctx context.Context, history []models.ChatTurn, contextBlock string) Reply {
	if g.completer == nil {
		metrics.CompletionsTotal.WithLabelValues("unconfigured").Inc()
		return g.fallback(ctx, contextBlock)
	}

	turns := g.buildTurns(history, contextBlock)

	text, err := g.completer.Complete(ctx, turns)
	if err != nil {
		metrics.CompletionsTotal.WithLabelValues("error").Inc()
		g.logger.WithError(err).Warn("completion failed, using fallback", nil)
		return g.fallback(ctx, contextBlock)
	}
	if strings.TrimSpace(text) == "" {
		metrics.CompletionsTotal.WithLabelValues("empty").Inc()
		g.logger.Warn("completion returned empty body, using fallback", nil)
		return g.fallback(ctx, contextBlock)
	}

	metrics.CompletionsTotal.WithLabelValues("success").Inc()
	source := g.provider + "-basic"
	if contextBlock != "" {
		source = g.provider + "-realtime"
	}
	return Reply{Text: text, Source: source}
}

func (g *Gateway) buildTurns(history []models.ChatTurn, contextBlock string) []models.ChatTurn {
	turns := []models.ChatTurn{
		{Role: models.RoleSystem, Content: g.systemPrompt},
	}
	if contextBlock != "" {
		turns = append(turns, models.ChatTurn{
			Role:    models.RoleSystem,
			Content: "Live helpdesk data:\n\n" + contextBlock,
		})
	}
	return append(turns, models.TrimHistory(history, models.MaxHistoryTurns)...)
}

// fallback synthesizes a local answer: the fresh context block when we have
// one, else the last cached snapshot, else a generic apology.
func (g *Gateway) fallback(ctx context.Context, contextBlock string) Reply {
	if contextBlock != "" {
		return Reply{
			Text:   "I couldn't reach the assistant service, but here is the latest helpdesk data:\n\n" + contextBlock,
			Source: "fallback",
		}
	}

	if g.snapshots != nil {
		if cached := g.snapshots.LatestContext(ctx); cached != "" {
			return Reply{
				Text:   "I couldn't fetch fresh data, but here is the most recent helpdesk snapshot:\n\n" + cached,
				Source: "fallback",
			}
		}
	}

	return Reply{Text: genericApology, Source: "fallback"}
}
