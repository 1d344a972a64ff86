package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/sync/errgroup"

	"github.com/comandero/comandero/internal/core"
	"github.com/comandero/comandero/internal/domain/model"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// WebhookServiceOptions groups dependencies for WebhookService.
type WebhookServiceOptions struct {
	Repo      core.WebhookSinkRepository // Required: webhook sink repository
	Evaluator JMESPathEvaluator          // Optional, defaults to go-jmespath
	Logger    *slog.Logger               // Optional: structured logger
}

// WebhookService provides business logic for webhook sink CRUD. JMESPath
// expressions are validated at write time so the dispatcher never sees an
// uncompilable filter or selector.
type WebhookService struct {
	repo   core.WebhookSinkRepository
	jems   JMESPathEvaluator
	logger *slog.Logger
}

// NewWebhookService constructs a new WebhookService.
func NewWebhookService(opts WebhookServiceOptions) (*WebhookService, error) {
	if opts.Repo == nil {
		return nil, errors.New("WebhookSinkRepository is required")
	}

	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "webhook_service")
	}

	return &WebhookService{repo: opts.Repo, jems: jems, logger: logger}, nil
}

// Create creates a new webhook sink in the restaurant.
func (s *WebhookService) Create(ctx context.Context, restaurantID string, req *model.CreateWebhookSinkRequest) (*model.WebhookSink, error) {
	if req == nil {
		return nil, errors.New("create webhook sink request is required")
	}
	if err := s.validateExpressions(req.Filter, req.Selector); err != nil {
		return nil, err
	}

	sink, err := s.repo.Create(ctx, restaurantID, req)
	if err != nil {
		return nil, fmt.Errorf("create webhook sink: %w", err)
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "webhook sink created", "id", sink.ID, "restaurant_id", restaurantID)
	}
	return sink, nil
}

// GetByID retrieves a webhook sink by ID within the restaurant.
func (s *WebhookService) GetByID(ctx context.Context, restaurantID, id string) (*model.WebhookSink, error) {
	sink, err := s.repo.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, fmt.Errorf("get webhook sink: %w", err)
	}
	return sink, nil
}

// List retrieves webhook sinks for the restaurant.
func (s *WebhookService) List(ctx context.Context, restaurantID string, limit, offset int) ([]*model.WebhookSink, error) {
	sinks, err := s.repo.List(ctx, restaurantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list webhook sinks: %w", err)
	}
	return sinks, nil
}

// Update updates a webhook sink within the restaurant.
func (s *WebhookService) Update(ctx context.Context, restaurantID, id string, req model.UpdateWebhookSinkRequest) (*model.WebhookSink, error) {
	if err := s.validateExpressions(req.Filter, req.Selector); err != nil {
		return nil, err
	}

	sink, err := s.repo.Update(ctx, restaurantID, id, req)
	if err != nil {
		return nil, fmt.Errorf("update webhook sink: %w", err)
	}
	return sink, nil
}

// Delete deletes a webhook sink within the restaurant.
func (s *WebhookService) Delete(ctx context.Context, restaurantID, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, restaurantID, id)
	if err != nil {
		return false, fmt.Errorf("delete webhook sink: %w", err)
	}
	return deleted, nil
}

func (s *WebhookService) validateExpressions(filter, selector *string) error {
	if filter != nil {
		if err := s.jems.Validate(*filter); err != nil {
			return fmt.Errorf("invalid filter JMESPath: %w", err)
		}
	}
	if selector != nil {
		if err := s.jems.Validate(*selector); err != nil {
			return fmt.Errorf("invalid selector JMESPath: %w", err)
		}
	}
	return nil
}

// HTTPDoer abstracts the HTTP client for webhook delivery.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookDispatcherOptions groups dependencies for WebhookDispatcher.
type WebhookDispatcherOptions struct {
	Repo       core.WebhookSinkRepository // Required: webhook sink repository
	HTTPClient HTTPDoer                   // Optional, defaults to a 30s-timeout client
	Evaluator  JMESPathEvaluator          // Optional, defaults to go-jmespath
	Logger     *slog.Logger               // Optional: structured logger
}

// WebhookDispatcher delivers order events to the restaurant's enabled webhook
// sinks. A sink's filter suppresses delivery on a falsy result; its selector
// rewrites the delivered body. Delivery is best effort per sink; one failing
// sink never blocks the others.
type WebhookDispatcher struct {
	repo   core.WebhookSinkRepository
	http   HTTPDoer
	jems   JMESPathEvaluator
	logger *slog.Logger
}

// NewWebhookDispatcher constructs a new WebhookDispatcher.
func NewWebhookDispatcher(opts WebhookDispatcherOptions) (*WebhookDispatcher, error) {
	if opts.Repo == nil {
		return nil, errors.New("WebhookSinkRepository is required")
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "webhook_dispatcher")
	}

	return &WebhookDispatcher{
		repo:   opts.Repo,
		http:   hc,
		jems:   jems,
		logger: logger,
	}, nil
}

// OrderEvent is the payload delivered to webhook sinks.
type OrderEvent struct {
	Type         string       `json:"type"`
	RestaurantID string       `json:"restaurant_id"`
	Order        *model.Order `json:"order"`
}

// Dispatch delivers the event to all enabled sinks of the restaurant.
// Returns the number of sinks the event was delivered to.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event OrderEvent) (int, error) {
	sinks, err := d.repo.ListEnabled(ctx, event.RestaurantID)
	if err != nil {
		return 0, fmt.Errorf("list enabled webhook sinks: %w", err)
	}
	if len(sinks) == 0 {
		return 0, nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("marshal webhook event: %w", err)
	}

	var delivered atomic.Int64
	group, gctx := errgroup.WithContext(ctx)
	for _, sink := range sinks {
		group.Go(func() error {
			if sendErr := d.deliver(gctx, sink, payload); sendErr != nil {
				if errors.Is(sendErr, errFilteredOut) {
					return nil
				}
				if d.logger != nil {
					d.logger.WarnContext(gctx, "webhook delivery failed",
						"sink_id", sink.ID,
						"restaurant_id", event.RestaurantID,
						"err", sendErr,
					)
				}
				return nil
			}
			delivered.Add(1)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return int(delivered.Load()), err
	}
	return int(delivered.Load()), nil
}

var errFilteredOut = errors.New("event filtered out by sink")

func (d *WebhookDispatcher) deliver(ctx context.Context, sink *model.WebhookSink, payload []byte) error {
	var data any
	if err := json.Unmarshal(payload, &data); err != nil {
		return fmt.Errorf("decode event payload: %w", err)
	}

	if sink.Filter != nil && strings.TrimSpace(*sink.Filter) != "" {
		res, err := d.jems.Evaluate(*sink.Filter, data)
		if err != nil {
			return fmt.Errorf("evaluate filter: %w", err)
		}
		if !truthy(res) {
			return errFilteredOut
		}
	}

	body := payload
	if sink.Selector != nil && strings.TrimSpace(*sink.Selector) != "" {
		res, err := d.jems.Evaluate(*sink.Selector, data)
		if err != nil {
			return fmt.Errorf("evaluate selector: %w", err)
		}
		if body, err = json.Marshal(res); err != nil {
			return fmt.Errorf("marshal selected body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sink.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sink.Secret != nil && *sink.Secret != "" {
		req.Header.Set("X-Webhook-Secret", *sink.Secret)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// truthy applies JMESPath truthiness: false, null, empty string, empty
// collection, and empty object are all falsy.
func truthy(v any) bool {
	switch tv := v.(type) {
	case nil:
		return false
	case bool:
		return tv
	case string:
		return tv != ""
	case []any:
		return len(tv) > 0
	case map[string]any:
		return len(tv) > 0
	default:
		return true
	}
}
