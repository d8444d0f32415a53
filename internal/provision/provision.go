// Package provision creates the storage buckets the site needs.
package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/fishy/errbatch"
	"github.com/rs/zerolog/log"

	"condo-setup/internal/manual"
	"condo-setup/internal/report"
	"condo-setup/internal/schema"
	"condo-setup/internal/supabase"
)

var imageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// DefaultBuckets returns the public image buckets.
func DefaultBuckets() []supabase.BucketSpec {
	specs := make([]supabase.BucketSpec, 0, len(schema.Buckets))
	for _, name := range schema.Buckets {
		specs = append(specs, supabase.BucketSpec{
			ID:               name,
			Name:             name,
			Public:           true,
			AllowedMimeTypes: append([]string(nil), imageTypes...),
		})
	}
	return specs
}

// Storage is the part of the storage API the provisioner needs.
type Storage interface {
	ListBuckets(ctx context.Context) ([]supabase.Bucket, error)
	CreateBucket(ctx context.Context, spec supabase.BucketSpec) error
	UpdateBucket(ctx context.Context, id string, update supabase.BucketUpdate) error
	PublicURL(bucket string) string
}

type Provisioner struct {
	storage Storage
	manual  manual.Instructions
	rep     *report.Reporter
}

func New(storage Storage, in manual.Instructions, rep *report.Reporter) *Provisioner {
	return &Provisioner{storage: storage, manual: in, rep: rep}
}

// Ensure creates every bucket in specs that does not exist yet and returns
// how many are ready. Create failures are collected into the returned error.
func (p *Provisioner) Ensure(ctx context.Context, specs []supabase.BucketSpec) (int, error) {
	rep := p.rep
	rep.Line("Setting up Supabase storage buckets...")
	rep.Line("%s", report.Ruler('=', 50))

	rep.Line("Checking existing buckets...")
	existing := make(map[string]bool)
	buckets, err := p.storage.ListBuckets(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("bucket listing failed")
		if code := supabase.StatusCode(err); code != 0 {
			rep.Line("Could not retrieve existing buckets: %d", code)
		} else {
			rep.Line("Error checking buckets: %v", err)
		}
	} else {
		names := make([]string, 0, len(buckets))
		for _, b := range buckets {
			names = append(names, b.Name)
			existing[b.Name] = true
			existing[b.ID] = true
		}
		rep.Line("Existing buckets: %v", names)
	}

	var batch errbatch.ErrBatch
	ready := 0
	for _, spec := range specs {
		rep.Blank()
		rep.Line("Creating bucket: %s", spec.ID)

		if existing[spec.ID] {
			rep.Pass("Bucket '%s' already exists", spec.ID)
			ready++
			continue
		}

		if err := p.storage.CreateBucket(ctx, spec); err != nil {
			p.reportCreateFailure(spec.ID, err)
			batch.Add(fmt.Errorf("failed to create bucket %s: %w", spec.ID, err))
			continue
		}
		rep.Pass("Successfully created bucket '%s'", spec.ID)
		ready++

		if !spec.Public {
			continue
		}
		if err := p.storage.UpdateBucket(ctx, spec.ID, supabase.BucketUpdate{Public: true}); err != nil {
			log.Warn().Err(err).Str("bucket", spec.ID).Msg("could not set public access")
			rep.Detail("Warning: Could not set public access")
		} else {
			rep.Detail("Set bucket to public access")
		}
	}

	rep.Blank()
	rep.Line("%s", report.Ruler('=', 50))

	if ready == len(specs) {
		rep.Celebrate("All storage buckets are ready!")
		rep.Blank()
		rep.Line("Bucket URLs:")
		for _, spec := range specs {
			rep.Line("- %s: %s", spec.ID, p.storage.PublicURL(spec.ID))
		}
		return ready, nil
	}

	rep.Warn("%d/%d buckets are ready.", ready, len(specs))
	rep.Blank()
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.ID)
	}
	p.manual.PrintBucketSteps(rep, names)
	return ready, batch.Compile()
}

func (p *Provisioner) reportCreateFailure(id string, err error) {
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) {
		p.rep.Fail("Failed to create bucket '%s': %d", id, apiErr.StatusCode)
		p.rep.Detail("Error: %s", apiErr.Body)
		return
	}
	p.rep.Fail("Exception creating bucket '%s': %v", id, err)
}
