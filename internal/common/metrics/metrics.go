package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_fetches_total",
			Help: "Total number of helpdesk API calls dispatched by the aggregator",
		},
		[]string{"category", "endpoint", "outcome"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "helpdesk_fetch_duration_seconds",
			Help: "Duration of individual helpdesk API calls in seconds",
		},
		[]string{"category", "endpoint"},
	)

	QuestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_questions_total",
			Help: "Total number of questions answered, by reply source",
		},
		[]string{"source"},
	)

	QuestionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "insights_question_duration_seconds",
			Help: "End to end duration of a question, classify through completion",
		},
	)

	CompletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completions_total",
			Help: "Total number of completion provider calls, by outcome",
		},
		[]string{"outcome"},
	)
)
