package report

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"

	apierrors "helpdesk-insights/internal/common/errors"
	"helpdesk-insights/internal/common/logger"
	"helpdesk-insights/internal/common/metrics"
	"helpdesk-insights/internal/helpdesk"
)

// Fetcher is the resource-client capability the aggregator depends on.
type Fetcher interface {
	Get(ctx context.Context, path string, params url.Values) (helpdesk.Payload, error)
	GetPages(ctx context.Context, path string, params url.Values, itemsKey string) (helpdesk.Payload, error)
}

// FetchResult is the settled outcome of exactly one dispatched call. Either
// Payload is set (success) or Err carries the failure message; no dispatched
// call is ever dropped silently.
type FetchResult struct {
	Category Category
	Endpoint string
	Label    string
	ItemsKey string
	Payload  helpdesk.Payload
	Err      string
}

// Failed reports whether this call settled as a failure.
func (r FetchResult) Failed() bool {
	return r.Err != ""
}

type resultKey struct {
	category Category
	endpoint string
}

// ResultBag collects the settled outcomes of one aggregation, keyed by
// (category, endpoint) and preserving insertion order.
type ResultBag struct {
	order   []resultKey
	results map[resultKey]FetchResult
}

func NewResultBag() *ResultBag {
	return &ResultBag{results: make(map[resultKey]FetchResult)}
}

// Add records a settled result. A repeated (category, endpoint) key keeps its
// original position and takes the new value.
func (b *ResultBag) Add(result FetchResult) {
	key := resultKey{result.Category, result.Endpoint}
	if _, seen := b.results[key]; !seen {
		b.order = append(b.order, key)
	}
	b.results[key] = result
}

// Get returns the result for (category, endpoint) if one settled.
func (b *ResultBag) Get(category Category, endpoint string) (FetchResult, bool) {
	r, ok := b.results[resultKey{category, endpoint}]
	return r, ok
}

// Len is the number of settled calls in the bag.
func (b *ResultBag) Len() int {
	return len(b.order)
}

// Results returns all settled results in insertion order.
func (b *ResultBag) Results() []FetchResult {
	out := make([]FetchResult, 0, len(b.order))
	for _, key := range b.order {
		out = append(out, b.results[key])
	}
	return out
}

// ByCategory returns the category's results in insertion order.
func (b *ResultBag) ByCategory(category Category) []FetchResult {
	var out []FetchResult
	for _, key := range b.order {
		if key.category == category {
			out = append(out, b.results[key])
		}
	}
	return out
}

// Aggregator fans out the call batch for a question's categories and joins
// every call with settle-all semantics.
type Aggregator struct {
	fetcher Fetcher
	logger  logger.Logger
}

func NewAggregator(fetcher Fetcher, log logger.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger: log.With(map[string]interface{}{
			"component": "aggregator",
		}),
	}
}

// Aggregate builds one flat batch from all matched categories' plans,
// dispatches every call concurrently, and returns only after each call has
// settled. A failing call records a Failure result and never aborts its
// siblings. An empty category set substitutes the default ticket plan.
func (a *Aggregator) Aggregate(ctx context.Context, categories []Category, question string, now time.Time) *ResultBag {
	var specs []CallSpec
	for _, category := range categories {
		specs = append(specs, PlanFor(category, question, now)...)
	}
	if len(specs) == 0 {
		specs = DefaultPlan()
	}

	a.logger.Info("dispatching batch", map[string]interface{}{
		"categories": categories,
		"calls":      len(specs),
	})

	settled := make([]FetchResult, len(specs))
	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Add(1)
		go func(i int, spec CallSpec) {
			defer wg.Done()
			settled[i] = a.fetch(ctx, spec)
		}(i, spec)
	}
	wg.Wait()

	bag := NewResultBag()
	for _, result := range settled {
		bag.Add(result)
	}
	return bag
}

func (a *Aggregator) fetch(ctx context.Context, spec CallSpec) FetchResult {
	result := FetchResult{
		Category: spec.Category,
		Endpoint: spec.Endpoint,
		Label:    spec.Label,
		ItemsKey: spec.ItemsKey,
	}

	start := time.Now()
	var payload helpdesk.Payload
	var err error
	if spec.ItemsKey != "" {
		payload, err = a.fetcher.GetPages(ctx, spec.Path, spec.Params, spec.ItemsKey)
	} else {
		payload, err = a.fetcher.Get(ctx, spec.Path, spec.Params)
	}
	metrics.FetchDuration.WithLabelValues(string(spec.Category), spec.Endpoint).
		Observe(time.Since(start).Seconds())

	if err == nil && spec.Schema != "" {
		err = validateShape(spec, payload)
	}

	if err != nil {
		result.Err = err.Error()
		metrics.FetchesTotal.WithLabelValues(string(spec.Category), spec.Endpoint, "failure").Inc()
		a.logger.Warn("call failed", map[string]interface{}{
			"category": spec.Category,
			"endpoint": spec.Endpoint,
			"error":    err.Error(),
		})
		return result
	}

	result.Payload = payload
	metrics.FetchesTotal.WithLabelValues(string(spec.Category), spec.Endpoint, "success").Inc()
	return result
}

// validateShape applies the endpoint's loose schema guard so a structurally
// wrong payload settles as a Failure instead of surprising the compressor.
func validateShape(spec CallSpec, payload helpdesk.Payload) error {
	outcome, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(spec.Schema),
		gojsonschema.NewGoLoader(payload),
	)
	if err != nil {
		return apierrors.NewPayloadShapeError(spec.Endpoint, err.Error())
	}
	if !outcome.Valid() {
		details := ""
		for _, desc := range outcome.Errors() {
			details += desc.String() + "; "
		}
		return apierrors.NewPayloadShapeError(spec.Endpoint, details)
	}
	return nil
}
