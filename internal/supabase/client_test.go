package supabase_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condo-setup/internal/schema"
	"condo-setup/internal/supabase"
	"condo-setup/internal/supabase/supabasetest"
)

func newClient(t *testing.T, base, key string) *supabase.Client {
	t.Helper()
	c, err := supabase.New(base, key, supabase.WithRateLimit(100), supabase.WithTimeout(2*time.Second))
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := supabase.New("https://x.supabase.co", "")
	assert.Error(t, err)

	_, err = supabase.New("not a url", "key")
	assert.Error(t, err)

	c, err := supabase.New("https://x.supabase.co/", "key", supabase.WithRole("anon"))
	require.NoError(t, err)
	assert.Equal(t, "https://x.supabase.co", c.BaseURL())
	assert.Equal(t, "anon", c.Role())
	assert.Equal(t, "https://x.supabase.co/storage/v1/object/public/blog-images/", c.PublicURL("blog-images"))
}

func TestClient_SelectDecodesRows(t *testing.T) {
	srv := supabasetest.New(t)
	srv.Seed()
	c := newClient(t, srv.URL, supabasetest.ServiceKey)

	var props []schema.Property
	err := c.Select(context.Background(), "properties", supabase.Query{Limit: 5}, &props)
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, "Sunset Condo", props[0].Name)
	assert.Equal(t, []string{"wifi", "pool"}, []string(props[0].Amenities))
	assert.True(t, props[0].Featured)

	reqs := srv.Requests()
	require.NotEmpty(t, reqs)
	last := reqs[len(reqs)-1]
	assert.Equal(t, "/rest/v1/properties", last.Path)
	assert.Equal(t, supabasetest.ServiceKey, last.Key)
	q, err := url.ParseQuery(last.Query)
	require.NoError(t, err)
	assert.Equal(t, "*", q.Get("select"))
	assert.Equal(t, "5", q.Get("limit"))
}

func TestClient_SelectProjectionAndFilters(t *testing.T) {
	srv := supabasetest.New(t)
	srv.Seed()
	c := newClient(t, srv.URL, supabasetest.ServiceKey)

	var rows []map[string]interface{}
	err := c.Select(context.Background(), "properties", supabase.Query{
		Select:  "name,slug",
		Order:   "display_order.asc",
		Filters: url.Values{"active": {"eq.true"}},
	}, &rows)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 2)

	last := srv.Requests()[len(srv.Requests())-1]
	q, _ := url.ParseQuery(last.Query)
	assert.Equal(t, "display_order.asc", q.Get("order"))
	assert.Equal(t, "eq.true", q.Get("active"))
}

func TestClient_MissingTableIsNotFound(t *testing.T) {
	srv := supabasetest.New(t)
	c := newClient(t, srv.URL, supabasetest.ServiceKey)

	var rows []map[string]interface{}
	err := c.Select(context.Background(), "blog_posts", supabase.Query{Limit: 1}, &rows)
	require.Error(t, err)
	assert.True(t, errors.Is(err, supabase.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, supabase.StatusCode(err))

	var apiErr *supabase.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, `relation "public.blog_posts" does not exist`, apiErr.Message)
	assert.Contains(t, apiErr.Body, "42P01")
}

func TestClient_AnonDenied(t *testing.T) {
	srv := supabasetest.New(t)
	srv.Seed()
	srv.DenyAnon("site_settings")
	c := newClient(t, srv.URL, supabasetest.AnonKey)

	var rows []map[string]interface{}
	err := c.Select(context.Background(), "site_settings", supabase.Query{Limit: 1}, &rows)
	require.Error(t, err)
	assert.True(t, supabase.IsAccessDenied(err))
	assert.True(t, errors.Is(err, supabase.ErrUnauthorized))
	assert.False(t, errors.Is(err, supabase.ErrForbidden))
}

func TestClient_Count(t *testing.T) {
	srv := supabasetest.New(t)
	srv.Seed()
	c := newClient(t, srv.URL, supabasetest.ServiceKey)

	n, err := c.Count(context.Background(), "properties")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = c.Count(context.Background(), "blog_posts")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	last := srv.Requests()[len(srv.Requests())-1]
	assert.Equal(t, "count=exact", last.Prefer)
}

func TestClient_CountWithoutTotal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Range", "0-0/*")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("[]"))
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, "key")
	_, err := c.Count(context.Background(), "properties")
	assert.ErrorIs(t, err, supabase.ErrCountUnavailable)
}

func TestClient_NoRetryOnServerError(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, "key")
	var rows []map[string]interface{}
	err := c.Select(context.Background(), "properties", supabase.Query{}, &rows)
	require.Error(t, err)
	assert.Equal(t, 1, hits)
	assert.Equal(t, "status 503: upstream down", err.Error())
}

func TestClient_Buckets(t *testing.T) {
	srv := supabasetest.New(t)
	srv.AddBucket(supabase.Bucket{ID: "property-photos", Public: true}, supabase.Object{ID: "1", Name: "a.jpg"})
	c := newClient(t, srv.URL, supabasetest.ServiceKey)
	ctx := context.Background()

	buckets, err := c.ListBuckets(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "property-photos", buckets[0].Name)
	assert.True(t, buckets[0].Public)

	require.NoError(t, c.CreateBucket(ctx, supabase.BucketSpec{ID: "blog-images", Name: "blog-images", Public: true}))
	err = c.CreateBucket(ctx, supabase.BucketSpec{ID: "blog-images", Name: "blog-images"})
	assert.ErrorIs(t, err, supabase.ErrConflict)

	require.NoError(t, c.UpdateBucket(ctx, "blog-images", supabase.BucketUpdate{Public: true}))
	assert.ErrorIs(t, c.UpdateBucket(ctx, "nope", supabase.BucketUpdate{Public: true}), supabase.ErrNotFound)

	objects, err := c.ListObjects(ctx, "property-photos", supabase.ListOptions{Limit: 100})
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "a.jpg", objects[0].Name)

	buckets = srv.Buckets()
	require.Len(t, buckets, 2)
	assert.True(t, buckets[1].Public)
}

func TestClient_StorageRequiresServiceKey(t *testing.T) {
	srv := supabasetest.New(t)
	c := newClient(t, srv.URL, supabasetest.AnonKey)

	_, err := c.ListBuckets(context.Background())
	assert.ErrorIs(t, err, supabase.ErrForbidden)
}

func TestDashboardURL(t *testing.T) {
	assert.Equal(t, "https://supabase.com/dashboard/project/abc", supabase.DashboardURL("abc"))
}
