// Package verify holds the read-only checks run against a live project:
// table reads, column comparison, existence and access probes.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"condo-setup/internal/supabase"
)

// ErrFailed is returned when a check ran to completion but found problems.
// The details have already been printed.
var ErrFailed = errors.New("verification failed")

// RowReader reads rows and counts over the REST API.
type RowReader interface {
	Select(ctx context.Context, table string, q supabase.Query, out interface{}) error
	Count(ctx context.Context, table string) (int64, error)
}

// BucketLister reads storage buckets and their files.
type BucketLister interface {
	ListBuckets(ctx context.Context) ([]supabase.Bucket, error)
	ListObjects(ctx context.Context, bucket string, opts supabase.ListOptions) ([]supabase.Object, error)
}

// describe renders err as "<status> - <body>" for API errors and as the
// plain error text otherwise.
func describe(err error) string {
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%d - %s", apiErr.StatusCode, strings.TrimSpace(apiErr.Body))
	}
	return err.Error()
}

// message prefers the API message over the raw body.
func message(err error) string {
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return strings.TrimSpace(apiErr.Body)
	}
	return err.Error()
}

func formatList(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
