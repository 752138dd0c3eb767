// Package notiontest is an in-memory stand-in for the Notion API used in
// tests: database retrieval, date-window queries, and page
// create/update/retrieve. Pages are stored in write format and served in
// read format (text spans gain plain_text).
package notiontest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Page is a stored page. Props holds the write-format property values as
// they arrived.
type Page struct {
	ID         string
	DataSource string
	Props      map[string]any
}

// Server is the fake API. Every database resolves to a single data source
// named "ds-" plus the database ID.
type Server struct {
	mu          sync.Mutex
	nextID      int
	pages       map[string]*Page
	creates     int
	updates     int
	failCreates int

	srv *httptest.Server
}

// New starts a fake server. Callers own Close.
func New() *Server {
	s := &Server{pages: make(map[string]*Page)}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL is the base URL to point a client at.
func (s *Server) URL() string { return s.srv.URL }

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }

// Creates counts pages created through the API.
func (s *Server) Creates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates
}

// Updates counts page patches through the API.
func (s *Server) Updates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

// FailCreates makes the next n page creations return 429 rate_limited.
func (s *Server) FailCreates(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCreates = n
}

// Seed inserts a page directly, bypassing the API and its counters.
func (s *Server) Seed(dataSource string, props map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := fmt.Sprintf("page-%d", s.nextID)
	s.pages[id] = &Page{ID: id, DataSource: dataSource, Props: props}
	return id
}

// Page returns a stored page by ID, or nil.
func (s *Server) Page(id string) *Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages[id]
}

// PagesIn returns the IDs of all pages under a data source.
func (s *Server) PagesIn(dataSource string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id, p := range s.pages {
		if p.DataSource == dataSource {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path

	switch {
	case strings.HasPrefix(path, "/databases/"):
		dbID := strings.TrimPrefix(path, "/databases/")
		writeJSON(w, map[string]any{
			"id":           dbID,
			"data_sources": []any{map[string]any{"id": "ds-" + dbID, "name": dbID}},
		})

	case strings.HasPrefix(path, "/data_sources/") && strings.HasSuffix(path, "/query"):
		dsID := strings.TrimSuffix(strings.TrimPrefix(path, "/data_sources/"), "/query")
		s.handleQuery(w, r, dsID)

	case path == "/pages" && r.Method == http.MethodPost:
		var body struct {
			Parent struct {
				DataSourceID string `json:"data_source_id"`
			} `json:"parent"`
			Properties map[string]any `json:"properties"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		if s.failCreates > 0 {
			s.failCreates--
			s.mu.Unlock()
			w.WriteHeader(http.StatusTooManyRequests)
			writeJSON(w, map[string]any{"status": 429, "code": "rate_limited", "message": "rate limited"})
			return
		}
		s.nextID++
		s.creates++
		id := fmt.Sprintf("page-%d", s.nextID)
		page := &Page{ID: id, DataSource: body.Parent.DataSourceID, Props: body.Properties}
		s.pages[id] = page
		s.mu.Unlock()
		writeJSON(w, readView(page))

	case strings.HasPrefix(path, "/pages/"):
		id := strings.TrimPrefix(path, "/pages/")
		s.mu.Lock()
		page, ok := s.pages[id]
		if !ok {
			s.mu.Unlock()
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]any{"status": 404, "code": "object_not_found", "message": "page " + id})
			return
		}
		if r.Method == http.MethodPatch {
			var body struct {
				Properties map[string]any `json:"properties"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				s.mu.Unlock()
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			for k, v := range body.Properties {
				page.Props[k] = v
			}
			s.updates++
		}
		s.mu.Unlock()
		writeJSON(w, readView(page))

	default:
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]any{"status": 404, "code": "object_not_found", "message": path})
	}
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request, dsID string) {
	var q struct {
		Filter struct {
			And []struct {
				Property string         `json:"property"`
				Date     map[string]any `json:"date"`
			} `json:"and"`
		} `json:"filter"`
		PageSize int `json:"page_size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var prop, from, before string
	for _, cond := range q.Filter.And {
		prop = cond.Property
		if v, ok := cond.Date["on_or_after"].(string); ok {
			from = v
		}
		if v, ok := cond.Date["before"].(string); ok {
			before = v
		}
	}

	s.mu.Lock()
	var results []any
	for _, p := range s.pages {
		if p.DataSource != dsID {
			continue
		}
		// Datetime starts still compare correctly against date keys
		// because RFC 3339 orders lexicographically.
		start := p.DateStart(prop)
		if start == "" || start < from || start >= before {
			continue
		}
		results = append(results, readView(p))
		if q.PageSize > 0 && len(results) >= q.PageSize {
			break
		}
	}
	s.mu.Unlock()

	if results == nil {
		results = []any{}
	}
	writeJSON(w, map[string]any{"results": results, "has_more": false})
}

// Has reports whether the page carries the named property.
func (p *Page) Has(name string) bool {
	_, ok := p.Props[name]
	return ok
}

// DateStart returns the start of a stored date property, or "".
func (p *Page) DateStart(name string) string {
	m, ok := p.Props[name].(map[string]any)
	if !ok {
		return ""
	}
	d, ok := m["date"].(map[string]any)
	if !ok {
		return ""
	}
	start, _ := d["start"].(string)
	return start
}

// Text returns the content of a stored rich_text or title property.
func (p *Page) Text(name string) string {
	m, ok := p.Props[name].(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"rich_text", "title"} {
		spans, ok := m[key].([]any)
		if !ok {
			continue
		}
		var out string
		for _, s := range spans {
			sm, _ := s.(map[string]any)
			if txt, ok := sm["text"].(map[string]any); ok {
				out += txt["content"].(string)
			} else if pt, ok := sm["plain_text"].(string); ok {
				out += pt
			}
		}
		return out
	}
	return ""
}

// Number returns a stored number property and whether it is set.
func (p *Page) Number(name string) (float64, bool) {
	m, ok := p.Props[name].(map[string]any)
	if !ok {
		return 0, false
	}
	n, ok := m["number"].(float64)
	return n, ok
}

// Checkbox returns a stored checkbox property, false when absent.
func (p *Page) Checkbox(name string) bool {
	m, ok := p.Props[name].(map[string]any)
	if !ok {
		return false
	}
	b, _ := m["checkbox"].(bool)
	return b
}

// Select returns the name of a stored select property, "" when absent.
func (p *Page) Select(name string) string {
	m, ok := p.Props[name].(map[string]any)
	if !ok {
		return ""
	}
	sel, ok := m["select"].(map[string]any)
	if !ok {
		return ""
	}
	n, _ := sel["name"].(string)
	return n
}

// RelationIDs returns the page IDs of a stored relation property.
func (p *Page) RelationIDs(name string) []string {
	m, ok := p.Props[name].(map[string]any)
	if !ok {
		return nil
	}
	links, ok := m["relation"].([]any)
	if !ok {
		return nil
	}
	var ids []string
	for _, l := range links {
		lm, _ := l.(map[string]any)
		if id, ok := lm["id"].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// readView converts a stored page to the API read shape: write-format text
// spans ({"text":{"content":...}}) become read spans with plain_text.
func readView(p *Page) map[string]any {
	props := make(map[string]any, len(p.Props))
	for name, v := range p.Props {
		m, ok := v.(map[string]any)
		if !ok {
			props[name] = v
			continue
		}
		out := make(map[string]any, len(m))
		for k, inner := range m {
			if k == "rich_text" || k == "title" {
				out[k] = readSpans(inner)
			} else {
				out[k] = inner
			}
		}
		props[name] = out
	}
	return map[string]any{"id": p.ID, "properties": props}
}

func readSpans(v any) []any {
	spans, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []any
	for _, s := range spans {
		m, _ := s.(map[string]any)
		if txt, ok := m["text"].(map[string]any); ok {
			out = append(out, map[string]any{"plain_text": txt["content"]})
		} else if pt, ok := m["plain_text"]; ok {
			out = append(out, map[string]any{"plain_text": pt})
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	json.NewEncoder(w).Encode(v)
}
