// Package supabasetest provides an in-process fake of the hosted backend's
// REST and storage APIs for tests.
package supabasetest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"condo-setup/internal/supabase"
)

const (
	ServiceKey = "test-service-key"
	AnonKey    = "test-anon-key"
)

// Row is one REST row.
type Row = map[string]interface{}

// Request is a request the fake received.
type Request struct {
	Method string
	Path   string
	Query  string
	Key    string
	Prefer string
	Body   string
}

// Server is a fake backend. Tables that were never set answer 404 like a
// missing relation.
type Server struct {
	*httptest.Server

	mu             sync.Mutex
	tables         map[string][]Row
	anonDenied     map[string]bool
	buckets        []supabase.Bucket
	objects        map[string][]supabase.Object
	createFailures map[string]int
	updateFailures map[string]int
	listFailure    int
	requests       []Request
}

// New starts a fake server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		tables:         make(map[string][]Row),
		anonDenied:     make(map[string]bool),
		objects:        make(map[string][]supabase.Object),
		createFailures: make(map[string]int),
		updateFailures: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Get("/rest/v1/{table}", s.handleSelect)
	r.Route("/storage/v1", func(r chi.Router) {
		r.Use(s.requireServiceKey)
		r.Get("/bucket", s.handleListBuckets)
		r.Post("/bucket", s.handleCreateBucket)
		r.Put("/bucket/{id}", s.handleUpdateBucket)
		r.Post("/object/list/{bucket}", s.handleListObjects)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// SetTable creates (or replaces) a table with the given rows.
func (s *Server) SetTable(name string, rows ...Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = append([]Row{}, rows...)
}

// DropTable removes a table so requests for it answer 404.
func (s *Server) DropTable(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, name)
}

// DenyAnon makes anonymous reads of the tables answer 401.
func (s *Server) DenyAnon(tables ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tables {
		s.anonDenied[t] = true
	}
}

// AddBucket registers an existing bucket and its files.
func (s *Server) AddBucket(b supabase.Bucket, objects ...supabase.Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.Name == "" {
		b.Name = b.ID
	}
	s.buckets = append(s.buckets, b)
	s.objects[b.ID] = append(s.objects[b.ID], objects...)
}

// FailCreate makes creating bucket id answer status.
func (s *Server) FailCreate(id string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createFailures[id] = status
}

// FailUpdate makes updating bucket id answer status.
func (s *Server) FailUpdate(id string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateFailures[id] = status
}

// FailListBuckets makes bucket listing answer status.
func (s *Server) FailListBuckets(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listFailure = status
}

// Buckets returns the current buckets.
func (s *Server) Buckets() []supabase.Bucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]supabase.Bucket(nil), s.buckets...)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Seed fills the fake with a complete, healthy project: all five tables
// with sample rows and both public buckets.
func (s *Server) Seed() {
	s.SetTable("properties",
		Row{
			"id": "11111111-1111-1111-1111-111111111111", "name": "Sunset Condo", "slug": "sunset-condo",
			"description": "Bright two-bedroom unit with a sea view.", "short_description": "Sea view",
			"location": "Cebu City", "address": "1 Beach Rd", "map_url": "", "airbnb_url": "", "airbnb_ical_url": "",
			"amenities": []string{"wifi", "pool"}, "featured": true, "active": true, "display_order": 1,
			"created_at": "2025-01-01T00:00:00+00:00", "updated_at": "2025-01-01T00:00:00+00:00",
		},
		Row{
			"id": "22222222-2222-2222-2222-222222222222", "name": "Garden Studio", "slug": "garden-studio",
			"description": "Quiet studio facing the garden.", "short_description": "Garden",
			"location": "Mandaue", "address": "2 Garden St", "map_url": "", "airbnb_url": "", "airbnb_ical_url": "",
			"amenities": []string{"wifi"}, "featured": false, "active": true, "display_order": 2,
			"created_at": "2025-01-01T00:00:00+00:00", "updated_at": "2025-01-01T00:00:00+00:00",
		},
	)
	s.SetTable("property_photos", Row{
		"id": "33333333-3333-3333-3333-333333333333", "property_id": "11111111-1111-1111-1111-111111111111",
		"url": "https://cdn.example.com/sunset.jpg", "alt_text": "Living room", "display_order": 0, "is_primary": true,
		"created_at": "2025-01-01T00:00:00+00:00", "updated_at": "2025-01-01T00:00:00+00:00",
	})
	s.SetTable("calendar_events", Row{
		"id": "44444444-4444-4444-4444-444444444444", "property_id": "11111111-1111-1111-1111-111111111111",
		"event_date": "2025-02-14", "event_type": "booked", "price": 85.5, "notes": "",
		"created_at": "2025-01-01T00:00:00+00:00", "updated_at": "2025-01-01T00:00:00+00:00",
	})
	s.SetTable("blog_posts")
	s.SetTable("site_settings", Row{
		"id": "55555555-5555-5555-5555-555555555555", "site_name": "Cozy Condo", "tagline": "Your home away from home",
		"description": "Short-term rentals.", "phone": "+63 900 000 0000", "email": "hello@cozycondo.example",
		"facebook_url": "", "messenger_url": "", "address": "Cebu", "logo_url": "",
		"hero_title": "Stay cozy", "hero_subtitle": "Condos in Cebu", "about_title": "About", "about_content": "",
		"created_at": "2025-01-01T00:00:00+00:00", "updated_at": "2025-01-01T00:00:00+00:00",
	})
	s.AddBucket(supabase.Bucket{ID: "property-photos", Public: true}, supabase.Object{ID: "o1", Name: "sunset.jpg"})
	s.AddBucket(supabase.Bucket{ID: "blog-images", Public: true})
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(strings.NewReader(string(body)))
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Key:    r.Header.Get("apikey"),
			Prefer: r.Header.Get("Prefer"),
			Body:   string(body),
		})
		s.mu.Unlock()

		key := r.Header.Get("apikey")
		if key != ServiceKey && key != AnonKey {
			writeJSON(w, http.StatusUnauthorized, Row{"message": "Invalid API key"})
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+key {
			writeJSON(w, http.StatusUnauthorized, Row{"message": "Authorization header mismatch"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireServiceKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != ServiceKey {
			writeJSON(w, http.StatusForbidden, Row{"statusCode": "403", "error": "Unauthorized", "message": "new row violates row-level security policy"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	s.mu.Lock()
	rows, ok := s.tables[table]
	denied := s.anonDenied[table]
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, Row{
			"code":    "42P01",
			"message": fmt.Sprintf("relation \"public.%s\" does not exist", table),
		})
		return
	}
	if denied && r.Header.Get("apikey") == AnonKey {
		writeJSON(w, http.StatusUnauthorized, Row{"code": "42501", "message": "permission denied for table " + table})
		return
	}

	total := len(rows)
	out := rows
	if lim := r.URL.Query().Get("limit"); lim != "" {
		if n, err := strconv.Atoi(lim); err == nil && n < len(out) {
			out = out[:n]
		}
	}
	if sel := r.URL.Query().Get("select"); sel != "" && sel != "*" {
		out = project(out, strings.Split(sel, ","))
	}

	if strings.Contains(r.Header.Get("Prefer"), "count=exact") {
		if len(out) == 0 {
			w.Header().Set("Content-Range", fmt.Sprintf("*/%d", total))
		} else {
			w.Header().Set("Content-Range", fmt.Sprintf("0-%d/%d", len(out)-1, total))
		}
	}
	if out == nil {
		out = []Row{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListBuckets(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := s.listFailure
	buckets := append([]supabase.Bucket{}, s.buckets...)
	s.mu.Unlock()

	if status != 0 {
		writeJSON(w, status, Row{"error": http.StatusText(status), "message": "bucket listing failed"})
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

func (s *Server) handleCreateBucket(w http.ResponseWriter, r *http.Request) {
	var spec supabase.BucketSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil || spec.ID == "" {
		writeJSON(w, http.StatusBadRequest, Row{"error": "Bad Request", "message": "body must contain id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if status := s.createFailures[spec.ID]; status != 0 {
		writeJSON(w, status, Row{"error": http.StatusText(status), "message": "cannot create bucket " + spec.ID})
		return
	}
	for _, b := range s.buckets {
		if b.ID == spec.ID {
			writeJSON(w, http.StatusConflict, Row{"error": "Duplicate", "message": "The resource already exists"})
			return
		}
	}
	// the fake creates buckets private; visibility is applied by update
	s.buckets = append(s.buckets, supabase.Bucket{
		ID:               spec.ID,
		Name:             spec.Name,
		FileSizeLimit:    spec.FileSizeLimit,
		AllowedMimeTypes: spec.AllowedMimeTypes,
	})
	writeJSON(w, http.StatusOK, Row{"name": spec.Name})
}

func (s *Server) handleUpdateBucket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var update supabase.BucketUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, Row{"error": "Bad Request", "message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if status := s.updateFailures[id]; status != 0 {
		writeJSON(w, status, Row{"error": http.StatusText(status), "message": "cannot update bucket " + id})
		return
	}
	for i := range s.buckets {
		if s.buckets[i].ID == id {
			s.buckets[i].Public = update.Public
			writeJSON(w, http.StatusOK, Row{"message": "Successfully updated"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, Row{"error": "Not found", "message": "Bucket not found"})
}

func (s *Server) handleListObjects(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.buckets {
		if b.ID == bucket {
			objects := s.objects[bucket]
			if objects == nil {
				objects = []supabase.Object{}
			}
			writeJSON(w, http.StatusOK, objects)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, Row{"error": "Not found", "message": "Bucket not found"})
}

func project(rows []Row, cols []string) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		p := make(Row, len(cols))
		for _, c := range cols {
			c = strings.TrimSpace(c)
			if v, ok := row[c]; ok {
				p[c] = v
			}
		}
		out = append(out, p)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
