package supabase

import (
	"context"
	"net/http"
	"net/url"
)

// Bucket is a storage bucket as listed by the storage API.
type Bucket struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Public           bool     `json:"public"`
	FileSizeLimit    *int64   `json:"file_size_limit"`
	AllowedMimeTypes []string `json:"allowed_mime_types"`
	CreatedAt        string   `json:"created_at,omitempty"`
	UpdatedAt        string   `json:"updated_at,omitempty"`
}

// BucketSpec is the request body for creating a bucket.
type BucketSpec struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Public           bool     `json:"public"`
	FileSizeLimit    *int64   `json:"file_size_limit,omitempty"`
	AllowedMimeTypes []string `json:"allowed_mime_types,omitempty"`
}

// BucketUpdate is the request body for changing bucket visibility.
type BucketUpdate struct {
	Public bool `json:"public"`
}

// Object is an entry returned by the object list endpoint.
type Object struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	UpdatedAt string                 `json:"updated_at,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// ListOptions filters an object listing.
type ListOptions struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// ListBuckets returns every bucket in the project.
func (c *Client) ListBuckets(ctx context.Context) ([]Bucket, error) {
	resp, err := c.do(ctx, http.MethodGet, c.base+storagePrefix+"bucket", "storage", "bucket", nil, nil)
	if err != nil {
		return nil, err
	}
	var out []Bucket
	err = decode(resp, &out)
	return out, err
}

// CreateBucket creates a bucket. The storage API answers 200 or 201.
func (c *Client) CreateBucket(ctx context.Context, spec BucketSpec) error {
	resp, err := c.do(ctx, http.MethodPost, c.base+storagePrefix+"bucket", "storage", "bucket", spec, nil)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// UpdateBucket changes a bucket's visibility.
func (c *Client) UpdateBucket(ctx context.Context, id string, update BucketUpdate) error {
	u := c.base + storagePrefix + "bucket/" + url.PathEscape(id)
	resp, err := c.do(ctx, http.MethodPut, u, "storage", "bucket", update, nil)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// ListObjects lists files in a bucket.
func (c *Client) ListObjects(ctx context.Context, bucket string, opts ListOptions) ([]Object, error) {
	u := c.base + storagePrefix + "object/list/" + url.PathEscape(bucket)
	resp, err := c.do(ctx, http.MethodPost, u, "storage", "object_list", opts, nil)
	if err != nil {
		return nil, err
	}
	var out []Object
	err = decode(resp, &out)
	return out, err
}

// PublicURL returns the public download prefix of a bucket.
func (c *Client) PublicURL(bucket string) string {
	return c.base + storagePrefix + "object/public/" + bucket + "/"
}
