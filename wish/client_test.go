package wish

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a sandbox client whose API base points at server
func newTestClient(t *testing.T, server *httptest.Server, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{
		WithBaseURL(EnvSandbox, server.URL+"/api/"),
		WithLogger(zerolog.Nop()),
	}, opts...)

	client, err := NewClient(NewSession("test-token", EnvSandbox, "merchant-1"), opts...)
	require.NoError(t, err)
	return client
}

// requestParams returns the query or form values of r
func requestParams(t *testing.T, r *http.Request) url.Values {
	t.Helper()
	assert.NoError(t, r.ParseForm())
	return r.Form
}

func TestClientGetRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v2/product", r.URL.Path)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))

		q := r.URL.Query()
		assert.Equal(t, "p-1", q.Get("id"))
		assert.Equal(t, "test-token", q.Get("access_token"))
		assert.Equal(t, "merchant-1", q.Get("merchant_id"))

		fmt.Fprint(w, `{"code":0,"data":{"Product":{
			"id":"p-1","name":"Shirt","number_sold":"12","is_promoted":"True",
			"tags":[{"Tag":{"id":"t1","name":"cotton"}}],
			"variants":[{"Variant":{"sku":"S-1","price":"9.5","inventory":"3","enabled":"True"}}],
			"not_a_field":"ignored"}}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	product, err := client.GetProduct(context.Background(), "p-1")
	require.NoError(t, err)

	assert.Equal(t, "p-1", product.ID)
	assert.Equal(t, "Shirt", product.Name)
	assert.Equal(t, 12, product.NumberSold)
	assert.True(t, product.IsPromoted)
	require.Len(t, product.Tags, 1)
	assert.Equal(t, "cotton", product.Tags[0].Name)
	require.Len(t, product.Variations, 1)
	assert.Equal(t, "S-1", product.Variations[0].SKU)
	assert.Equal(t, 9.5, product.Variations[0].Price)
	assert.Equal(t, 3, product.Variations[0].Inventory)
	assert.True(t, product.Variations[0].Enabled)
}

func TestClientPostRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/order/fulfill-one", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Empty(t, r.URL.RawQuery)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		form, err := url.ParseQuery(string(body))
		assert.NoError(t, err)

		assert.Equal(t, "o-1", form.Get("id"))
		assert.Equal(t, "USPS", form.Get("tracking_provider"))
		assert.Equal(t, "1Z999", form.Get("tracking_number"))
		assert.False(t, form.Has("ship_note"))
		assert.Equal(t, "test-token", form.Get("access_token"))

		fmt.Fprint(w, `{"code":1002,"message":"Order already fulfilled","data":{}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	err := client.FulfillOrder(context.Background(), "o-1", Tracker{Provider: "USPS", Number: "1Z999"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOrderAlreadyFulfilled)

	var werr *Error
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "order/fulfill-one", werr.Request.Path)
	assert.Equal(t, "Order already fulfilled", werr.ServiceMessage())
}

func TestClientRefundOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/order/refund", r.URL.Path)
		params := requestParams(t, r)
		assert.Equal(t, "o-9", params.Get("id"))
		assert.Equal(t, "18", params.Get("reason_code"))
		assert.Equal(t, "damaged", params.Get("reason_note"))
		fmt.Fprint(w, `{"code":0,"data":{"success":true}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	require.NoError(t, client.RefundOrder(context.Background(), "o-9", 18, "damaged"))
}

func TestClientUpdateVariation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := requestParams(t, r)
		assert.Equal(t, "S-1", params.Get("sku"))
		assert.Equal(t, "0", params.Get("inventory"))
		assert.Equal(t, "false", params.Get("enabled"))
		assert.False(t, params.Has("price"))
		assert.False(t, params.Has("color"))
		fmt.Fprint(w, `{"code":0,"data":{}}`)
	}))
	defer server.Close()

	zero := 0
	disabled := false
	client := newTestClient(t, server)
	require.NoError(t, client.UpdateVariation(context.Background(), VariationUpdate{
		SKU:       "S-1",
		Inventory: &zero,
		Enabled:   &disabled,
	}))
}

func TestClientConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(t, server, WithConnectTimeout(time.Second))
	server.Close()

	_, err := client.AuthTest(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnection)

	var werr *Error
	require.ErrorAs(t, err, &werr)
	assert.Nil(t, werr.Envelope)
	assert.NotNil(t, werr.Err)
	_, ok := werr.StatusCode()
	assert.False(t, ok)
}

func TestClientContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":0,"data":"merchant-1"}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(t, server)
	_, err := client.AuthTest(ctx)
	assert.ErrorIs(t, err, ErrConnection)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientNonJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream unavailable")
	}))
	defer server.Close()

	client := newTestClient(t, server)
	env, err := client.Do(context.Background(), http.MethodGet, "auth_test", nil)
	require.NoError(t, err)
	assert.True(t, env.Fallback)
	assert.False(t, env.HasCode)
	assert.Equal(t, http.StatusBadGateway, env.HTTPStatus)
	assert.Equal(t, "upstream unavailable", string(env.Raw))
}

func TestClientAuthTest(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"string data", `{"code":0,"data":"merchant-1"}`, "merchant-1"},
		{"object data", `{"code":0,"data":{"merchant_id":"merchant-2"}}`, "merchant-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v2/auth_test", r.URL.Path)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			got, err := newTestClient(t, server).AuthTest(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClientUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":1015,"message":"Access token expired","data":{}}`)
	}))
	defer server.Close()

	_, err := newTestClient(t, server).GetOrder(context.Background(), "o-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenExpired)

	var werr *Error
	require.ErrorAs(t, err, &werr)
	assert.True(t, werr.IsUnauthorized())
}

func TestClientNotificationCounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/noti/get-unviewed-count":
			fmt.Fprint(w, `{"code":0,"data":{"count":4}}`)
		case "/api/v2/count/infractions":
			fmt.Fprint(w, `{"code":0,"data":7}`)
		case "/api/v2/noti/fetch-unviewed":
			fmt.Fprint(w, `{"code":0,"data":[{"Notification":{"id":"n1","title":"Hi","perma_link":"https://x"}}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server)
	ctx := context.Background()

	count, err := client.GetUnviewedNotificationCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	count, err = client.GetInfractionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	notes, err := client.GetUnviewedNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "n1", notes[0].ID)
	assert.Equal(t, "https://x", notes[0].PermaLink)
}

func TestClientUnviewedNotificationsShapes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantLen  int
		wantKind Kind
		wantErr  bool
	}{
		{"missing data", `{"code":0}`, 0, 0, false},
		{"null data", `{"code":0,"data":null}`, 0, 0, false},
		{"empty list", `{"code":0,"data":[]}`, 0, 0, false},
		{"single object", `{"code":0,"data":{"Notification":{"id":"n1","title":"Hi"}}}`, 0, KindDecode, true},
		{"scalar", `{"code":0,"data":"nope"}`, 0, KindDecode, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			notes, err := newTestClient(t, server).GetUnviewedNotifications(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrDecode)
				kind, ok := KindOf(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantKind, kind)
				assert.Nil(t, notes)
				return
			}
			require.NoError(t, err)
			assert.Len(t, notes, tt.wantLen)
		})
	}
}

// pagedServer serves pages of `perPage` variations and records every start offset
type pagedServer struct {
	mu     sync.Mutex
	starts []int
	limits []string
	pages  int
	failAt int // start offset that answers with code 1000, -1 for none
}

func (p *pagedServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start, _ := strconv.Atoi(r.URL.Query().Get("start"))
	limit := r.URL.Query().Get("limit")

	p.mu.Lock()
	p.starts = append(p.starts, start)
	p.limits = append(p.limits, limit)
	p.mu.Unlock()

	if start == p.failAt {
		fmt.Fprint(w, `{"code":1000,"message":"bad start","data":{}}`)
		return
	}

	index := start / DefaultPageSize
	if index >= p.pages {
		fmt.Fprint(w, `{"code":1000,"message":"out of range","data":{}}`)
		return
	}
	hasNext := index < p.pages-1
	fmt.Fprintf(w, `{"code":0,"data":[{"Variant":{"sku":"P%d-A"}},{"Variant":{"sku":"P%d-B"}}],"paging":{"hasNext":%t}}`, index, index, hasNext)
}

func (p *pagedServer) sortedStarts() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := append([]int(nil), p.starts...)
	sort.Ints(out)
	return out
}

func TestCollectPages(t *testing.T) {
	ps := &pagedServer{pages: 3, failAt: -1}
	server := httptest.NewServer(ps)
	defer server.Close()

	variations, err := newTestClient(t, server).GetAllVariations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 50, 100}, ps.starts)
	assert.Equal(t, []string{"50", "50", "50"}, ps.limits)

	skus := make([]string, 0, len(variations))
	for _, v := range variations {
		skus = append(skus, v.SKU)
	}
	assert.Equal(t, []string{"P0-A", "P0-B", "P1-A", "P1-B", "P2-A", "P2-B"}, skus)
}

func TestCollectWithoutPaging(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "0", r.URL.Query().Get("start"))
		fmt.Fprint(w, `{"code":0,"data":[{"Order":{"order_id":"o-1","quantity":"2"}}]}`)
	}))
	defer server.Close()

	orders, err := newTestClient(t, server).GetAllChangedOrdersSince(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, orders, 1)
	assert.Equal(t, "o-1", orders[0].OrderID)
	assert.Equal(t, 2, orders[0].Quantity)
}

func TestCollectMidSequenceFailure(t *testing.T) {
	ps := &pagedServer{pages: 3, failAt: 50}
	server := httptest.NewServer(ps)
	defer server.Close()

	variations, err := newTestClient(t, server).GetAllVariations(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Nil(t, variations)
	assert.Equal(t, []int{0, 50}, ps.starts)
}

func TestCollectEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/variant/multi-get", r.URL.Path)
		fmt.Fprint(w, `{"code":0,"data":[{"sku":"A"},{"sku":"B"}],"paging":{"hasNext":false}}`)
	}))
	defer server.Close()

	variations, err := newTestClient(t, server).GetAllVariations(context.Background())
	require.NoError(t, err)
	require.Len(t, variations, 2)
	assert.Equal(t, "A", variations[0].SKU)
	assert.Equal(t, "B", variations[1].SKU)
}

func TestCollectRejectsNonListData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":0,"data":{"sku":"A"}}`)
	}))
	defer server.Close()

	_, err := newTestClient(t, server).GetAllVariations(context.Background())
	assert.ErrorIs(t, err, ErrDecode)
}

func TestCollectConcurrentPages(t *testing.T) {
	ps := &pagedServer{pages: 5, failAt: -1}
	server := httptest.NewServer(ps)
	defer server.Close()

	client := newTestClient(t, server, WithPageConcurrency(3))
	variations, err := client.GetAllVariations(context.Background())
	require.NoError(t, err)

	require.Len(t, variations, 10)
	for i := 0; i < 5; i++ {
		assert.Equal(t, fmt.Sprintf("P%d-A", i), variations[2*i].SKU)
		assert.Equal(t, fmt.Sprintf("P%d-B", i), variations[2*i+1].SKU)
	}
	// the second window overshoots the last page; that answer is ignored
	assert.Equal(t, []int{0, 50, 100, 150, 200, 250, 300}, ps.sortedStarts())
}

func TestCollectConcurrentFailure(t *testing.T) {
	ps := &pagedServer{pages: 5, failAt: 100}
	server := httptest.NewServer(ps)
	defer server.Close()

	client := newTestClient(t, server, WithPageConcurrency(2))
	variations, err := client.GetAllVariations(context.Background())
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Nil(t, variations)
}

func TestCollectCustomPageSize(t *testing.T) {
	var limits []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limits = append(limits, r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{"code":0,"data":[]}`)
	}))
	defer server.Close()

	_, err := newTestClient(t, server, WithPageSize(10)).GetAllProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"10"}, limits)
}
