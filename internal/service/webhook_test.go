package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comandero/comandero/internal/domain/model"
	"github.com/comandero/comandero/internal/testutil"
)

type mockWebhookSinkRepo struct {
	createFn      func(ctx context.Context, restaurantID string, req *model.CreateWebhookSinkRequest) (*model.WebhookSink, error)
	getByIDFn     func(ctx context.Context, restaurantID, id string) (*model.WebhookSink, error)
	listFn        func(ctx context.Context, restaurantID string, limit, offset int) ([]*model.WebhookSink, error)
	listEnabledFn func(ctx context.Context, restaurantID string) ([]*model.WebhookSink, error)
	updateFn      func(ctx context.Context, restaurantID, id string, req model.UpdateWebhookSinkRequest) (*model.WebhookSink, error)
	deleteFn      func(ctx context.Context, restaurantID, id string) (bool, error)
}

func (m *mockWebhookSinkRepo) Create(ctx context.Context, restaurantID string, req *model.CreateWebhookSinkRequest) (*model.WebhookSink, error) {
	return m.createFn(ctx, restaurantID, req)
}

func (m *mockWebhookSinkRepo) GetByID(ctx context.Context, restaurantID, id string) (*model.WebhookSink, error) {
	return m.getByIDFn(ctx, restaurantID, id)
}

func (m *mockWebhookSinkRepo) List(ctx context.Context, restaurantID string, limit, offset int) ([]*model.WebhookSink, error) {
	return m.listFn(ctx, restaurantID, limit, offset)
}

func (m *mockWebhookSinkRepo) ListEnabled(ctx context.Context, restaurantID string) ([]*model.WebhookSink, error) {
	return m.listEnabledFn(ctx, restaurantID)
}

func (m *mockWebhookSinkRepo) Update(ctx context.Context, restaurantID, id string, req model.UpdateWebhookSinkRequest) (*model.WebhookSink, error) {
	return m.updateFn(ctx, restaurantID, id, req)
}

func (m *mockWebhookSinkRepo) Delete(ctx context.Context, restaurantID, id string) (bool, error) {
	return m.deleteFn(ctx, restaurantID, id)
}

type recordedRequest struct {
	URL    string
	Secret string
	Body   []byte
}

type mockHTTPDoer struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	err      error
}

// Do records the request. Deliveries fan out concurrently, hence the lock.
func (m *mockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	body, _ := io.ReadAll(req.Body)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, recordedRequest{
		URL:    req.URL.String(),
		Secret: req.Header.Get("X-Webhook-Secret"),
		Body:   body,
	})
	if m.err != nil {
		return nil, m.err
	}
	status := m.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func sinksRepo(sinks ...*model.WebhookSink) *mockWebhookSinkRepo {
	return &mockWebhookSinkRepo{
		listEnabledFn: func(_ context.Context, _ string) ([]*model.WebhookSink, error) {
			return sinks, nil
		},
	}
}

func testOrderEvent() OrderEvent {
	return OrderEvent{
		Type:         EventOrderCreated,
		RestaurantID: "rest-1",
		Order: &model.Order{
			ID:           "order-1",
			RestaurantID: "rest-1",
			Status:       model.OrderStatusPending,
			TotalCents:   2500,
			Items: []model.OrderItem{
				{ProductID: "prod-1", Name: "Paella", Quantity: 1, PriceCents: 2500},
			},
		},
	}
}

func TestWebhookDispatcher_DeliversToEnabledSinks(t *testing.T) {
	doer := &mockHTTPDoer{}
	sink := &model.WebhookSink{ID: "sink-1", URL: "https://example.com/hook", Enabled: true,
		Secret: testutil.StringPtr("s3cret")}
	d, err := NewWebhookDispatcher(WebhookDispatcherOptions{
		Repo:       sinksRepo(sink),
		HTTPClient: doer,
	})
	require.NoError(t, err)

	n, err := d.Dispatch(context.Background(), testOrderEvent())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, doer.requests, 1)
	assert.Equal(t, "https://example.com/hook", doer.requests[0].URL)
	assert.Equal(t, "s3cret", doer.requests[0].Secret)

	var delivered OrderEvent
	require.NoError(t, json.Unmarshal(doer.requests[0].Body, &delivered))
	assert.Equal(t, EventOrderCreated, delivered.Type)
	assert.Equal(t, "order-1", delivered.Order.ID)
}

func TestWebhookDispatcher_FilterSuppressesDelivery(t *testing.T) {
	doer := &mockHTTPDoer{}
	sink := &model.WebhookSink{ID: "sink-1", URL: "https://example.com/hook", Enabled: true,
		Filter: testutil.StringPtr(`type == 'order.cancelled'`)}
	d, err := NewWebhookDispatcher(WebhookDispatcherOptions{
		Repo:       sinksRepo(sink),
		HTTPClient: doer,
	})
	require.NoError(t, err)

	n, err := d.Dispatch(context.Background(), testOrderEvent())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, doer.requests)
}

func TestWebhookDispatcher_SelectorRewritesBody(t *testing.T) {
	doer := &mockHTTPDoer{}
	sink := &model.WebhookSink{ID: "sink-1", URL: "https://example.com/hook", Enabled: true,
		Selector: testutil.StringPtr(`{order_id: order.id, total: order.total_cents}`)}
	d, err := NewWebhookDispatcher(WebhookDispatcherOptions{
		Repo:       sinksRepo(sink),
		HTTPClient: doer,
	})
	require.NoError(t, err)

	n, err := d.Dispatch(context.Background(), testOrderEvent())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var body map[string]any
	require.NoError(t, json.Unmarshal(doer.requests[0].Body, &body))
	assert.Equal(t, "order-1", body["order_id"])
	assert.EqualValues(t, 2500, body["total"])
}

func TestWebhookDispatcher_OneFailingSinkDoesNotBlockOthers(t *testing.T) {
	failing := &mockHTTPDoer{err: errors.New("connection refused")}
	d, err := NewWebhookDispatcher(WebhookDispatcherOptions{
		Repo: sinksRepo(
			&model.WebhookSink{ID: "sink-1", URL: "https://down.example.com/hook", Enabled: true},
			&model.WebhookSink{ID: "sink-2", URL: "https://up.example.com/hook", Enabled: true},
		),
		HTTPClient: failing,
	})
	require.NoError(t, err)

	// both attempted even though all deliveries error
	n, err := d.Dispatch(context.Background(), testOrderEvent())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, failing.requests, 2)
}

func TestWebhookDispatcher_Non2xxIsAFailure(t *testing.T) {
	doer := &mockHTTPDoer{status: http.StatusBadGateway}
	d, err := NewWebhookDispatcher(WebhookDispatcherOptions{
		Repo:       sinksRepo(&model.WebhookSink{ID: "sink-1", URL: "https://example.com/hook", Enabled: true}),
		HTTPClient: doer,
	})
	require.NoError(t, err)

	n, err := d.Dispatch(context.Background(), testOrderEvent())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWebhookService_RejectsInvalidJMESPath(t *testing.T) {
	svc, err := NewWebhookService(WebhookServiceOptions{Repo: &mockWebhookSinkRepo{}})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "rest-1", &model.CreateWebhookSinkRequest{
		Name:   "broken",
		URL:    "https://example.com/hook",
		Filter: testutil.StringPtr("order.["),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter JMESPath")
}

func TestTruthy(t *testing.T) {
	assert.False(t, truthy(nil))
	assert.False(t, truthy(false))
	assert.False(t, truthy(""))
	assert.False(t, truthy([]any{}))
	assert.False(t, truthy(map[string]any{}))
	assert.True(t, truthy(true))
	assert.True(t, truthy("x"))
	assert.True(t, truthy([]any{1}))
	assert.True(t, truthy(3.14))
}
