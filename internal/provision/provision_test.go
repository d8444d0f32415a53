package provision_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condo-setup/internal/manual"
	"condo-setup/internal/provision"
	"condo-setup/internal/report"
	"condo-setup/internal/supabase"
	"condo-setup/internal/supabase/supabasetest"
)

func setup(t *testing.T) (*supabasetest.Server, *provision.Provisioner, *bytes.Buffer) {
	t.Helper()
	srv := supabasetest.New(t)
	c, err := supabase.New(srv.URL, supabasetest.ServiceKey, supabase.WithRateLimit(100))
	require.NoError(t, err)

	out := &bytes.Buffer{}
	p := provision.New(c, manual.Instructions{ProjectRef: "abc"}, report.New(out))
	return srv, p, out
}

func TestDefaultBuckets(t *testing.T) {
	specs := provision.DefaultBuckets()
	require.Len(t, specs, 2)
	assert.Equal(t, "property-photos", specs[0].ID)
	assert.Equal(t, "blog-images", specs[1].ID)
	for _, s := range specs {
		assert.True(t, s.Public)
		assert.Nil(t, s.FileSizeLimit)
		assert.Equal(t, []string{"image/jpeg", "image/png", "image/webp"}, s.AllowedMimeTypes)
	}

	specs[0].AllowedMimeTypes[0] = "text/plain"
	assert.Equal(t, "image/jpeg", provision.DefaultBuckets()[0].AllowedMimeTypes[0])
}

func TestEnsure_CreatesMissingBuckets(t *testing.T) {
	srv, p, out := setup(t)
	srv.AddBucket(supabase.Bucket{ID: "property-photos", Public: true})

	ready, err := p.Ensure(context.Background(), provision.DefaultBuckets())
	require.NoError(t, err)
	assert.Equal(t, 2, ready)

	buckets := srv.Buckets()
	require.Len(t, buckets, 2)
	assert.Equal(t, "blog-images", buckets[1].ID)
	assert.True(t, buckets[1].Public)

	s := out.String()
	assert.Contains(t, s, "Existing buckets: [property-photos]")
	assert.Contains(t, s, "✅ Bucket 'property-photos' already exists")
	assert.Contains(t, s, "✅ Successfully created bucket 'blog-images'")
	assert.Contains(t, s, "   └── Set bucket to public access")
	assert.Contains(t, s, "🎉 All storage buckets are ready!")
	assert.Contains(t, s, "- blog-images: "+srv.URL+"/storage/v1/object/public/blog-images/")
}

func TestEnsure_IsIdempotent(t *testing.T) {
	srv, p, _ := setup(t)
	ctx := context.Background()

	_, err := p.Ensure(ctx, provision.DefaultBuckets())
	require.NoError(t, err)
	ready, err := p.Ensure(ctx, provision.DefaultBuckets())
	require.NoError(t, err)
	assert.Equal(t, 2, ready)
	assert.Len(t, srv.Buckets(), 2)
}

func TestEnsure_CreateFailure(t *testing.T) {
	srv, p, out := setup(t)
	srv.FailCreate("blog-images", http.StatusBadRequest)

	ready, err := p.Ensure(context.Background(), provision.DefaultBuckets())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create bucket blog-images")
	assert.Equal(t, 1, ready)

	s := out.String()
	assert.Contains(t, s, "❌ Failed to create bucket 'blog-images': 400")
	assert.Contains(t, s, "cannot create bucket blog-images")
	assert.Contains(t, s, "⚠️  1/2 buckets are ready.")
	assert.Contains(t, s, "2. Create buckets: 'property-photos' and 'blog-images'")
}

func TestEnsure_CollectsEveryCreateFailure(t *testing.T) {
	srv, p, out := setup(t)
	srv.FailCreate("property-photos", http.StatusForbidden)
	srv.FailCreate("blog-images", http.StatusBadRequest)

	ready, err := p.Ensure(context.Background(), provision.DefaultBuckets())
	require.Error(t, err)
	assert.Equal(t, 0, ready)
	assert.Contains(t, err.Error(), "total 2 error(s)")
	assert.Contains(t, err.Error(), "failed to create bucket property-photos")
	assert.Contains(t, err.Error(), "failed to create bucket blog-images")
	assert.Empty(t, srv.Buckets())

	s := out.String()
	assert.Contains(t, s, "❌ Failed to create bucket 'property-photos': 403")
	assert.Contains(t, s, "❌ Failed to create bucket 'blog-images': 400")
	assert.Contains(t, s, "⚠️  0/2 buckets are ready.")
}

func TestEnsure_VisibilityFailureOnlyWarns(t *testing.T) {
	srv, p, out := setup(t)
	srv.FailUpdate("property-photos", http.StatusInternalServerError)

	ready, err := p.Ensure(context.Background(), provision.DefaultBuckets())
	require.NoError(t, err)
	assert.Equal(t, 2, ready)
	assert.Contains(t, out.String(), "   └── Warning: Could not set public access")
}

func TestEnsure_ListingFailureTreatedAsEmpty(t *testing.T) {
	srv, p, out := setup(t)
	srv.FailListBuckets(http.StatusInternalServerError)

	ready, err := p.Ensure(context.Background(), provision.DefaultBuckets())
	require.NoError(t, err)
	assert.Equal(t, 2, ready)
	assert.Contains(t, out.String(), "Could not retrieve existing buckets: 500")
}
