package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/resource-api/internal/apperr"
	"github.com/starford/resource-api/internal/pagination"
	"github.com/starford/resource-api/internal/resourceservice"
	"github.com/starford/resource-api/internal/testutil"
)

const missingID = "0190b9a4-1d5e-7c3a-8f00-5b5e8c1f2a10"

// testEnv sets up a temp SQLite store, service, and router for testing.
func testEnv(t *testing.T, development bool) chi.Router {
	t.Helper()
	svc := resourceservice.NewService(testutil.TestStore(t))
	return NewRouter(svc, RouterConfig{
		APIPrefix:   "/api",
		CORSOrigins: []string{"http://localhost:3000"},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Development: development,
		Metrics:     NewMetrics(),
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return e
}

func createResource(t *testing.T, h http.Handler, name, typ string) ResourceDetailResponse {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/v1/resources", map[string]any{
		"name": name,
		"type": typ,
		"data": map[string]any{"url": "https://example.com/" + name},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var res ResourceDetailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	return res
}

func TestCreateAndGetResource(t *testing.T) {
	router := testEnv(t, false)

	created := createResource(t, router, "intro", "A")
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("server fields missing: %+v", created)
	}

	w := do(t, router, http.MethodGet, "/api/v1/resources/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", w.Code, w.Body.String())
	}
	var got map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got["_id"] != created.ID || got["name"] != "intro" || got["type"] != "A" {
		t.Errorf("got %v", got)
	}
	data, _ := got["data"].(map[string]any)
	if data["url"] != "https://example.com/intro" {
		t.Errorf("data = %v", got["data"])
	}
	for _, k := range []string{"createdAt", "updatedAt"} {
		if _, ok := got[k]; !ok {
			t.Errorf("missing %s in %v", k, got)
		}
	}
	if _, ok := got["is_deleted"]; ok {
		t.Error("internal fields leaked into response")
	}
}

func TestCreateResource_RejectsUndeclaredField(t *testing.T) {
	router := testEnv(t, false)

	w := do(t, router, http.MethodPost, "/api/v1/resources", map[string]any{
		"name":  "x",
		"type":  "A",
		"data":  map[string]any{},
		"owner": "root",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	e := decodeError(t, w)
	if e.Code != apperr.CodeValidationFailed || e.Message != "Validation failed" {
		t.Errorf("error = %+v", e)
	}
	if !strings.Contains(w.Body.String(), `"owner"`) {
		t.Errorf("violation for owner missing: %s", w.Body.String())
	}
}

func TestCreateResource_InvalidBody(t *testing.T) {
	router := testEnv(t, false)

	cases := map[string]string{
		"malformed": `{"name":`,
		"array":     `[1,2,3]`,
		"bad type":  `{"name":"x","type":"C","data":{}}`,
		"empty":     ``,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/v1/resources", body)
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			if e := decodeError(t, w); e.Code != apperr.CodeValidationFailed {
				t.Errorf("code = %s", e.Code)
			}
		})
	}
}

func TestListResources(t *testing.T) {
	router := testEnv(t, false)
	createResource(t, router, "Alpha", "A")
	createResource(t, router, "beta-alpha-x", "B")
	createResource(t, router, "gamma", "A")

	w := do(t, router, http.MethodGet, "/api/v1/resources?name=Alpha&limit=1&sort=name&order=ASC", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, body = %s", w.Code, w.Body.String())
	}
	var page pagination.Page[ResourceResponse]
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if len(page.Data) != 1 || page.Data[0].Name != "Alpha" {
		t.Errorf("data = %+v", page.Data)
	}
	p := page.Pagination
	if p.TotalRecords != 2 || p.TotalPages != 2 || p.CurrentPage != 1 || p.Limit != 1 {
		t.Errorf("pagination = %+v", p)
	}
	if p.NextPage == nil || *p.NextPage != 2 || p.PreviousPage != nil {
		t.Errorf("next/previous = %v/%v", p.NextPage, p.PreviousPage)
	}

	w = do(t, router, http.MethodGet, "/api/v1/resources?type=A", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &page)
	if page.Pagination.TotalRecords != 2 || page.Pagination.Limit != pagination.DefaultLimit {
		t.Errorf("type filter pagination = %+v", page.Pagination)
	}
	if strings.Contains(w.Body.String(), `"data":{`) || strings.Contains(w.Body.String(), "createdAt") {
		t.Errorf("list projection leaked detail fields: %s", w.Body.String())
	}
}

func TestListResources_InvalidQuery(t *testing.T) {
	router := testEnv(t, false)
	for _, q := range []string{"page=0", "limit=abc", "sort=id", "order=up", "type=Z", "unknown=1"} {
		w := do(t, router, http.MethodGet, "/api/v1/resources?"+q, nil)
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want 422", q, w.Code)
		}
	}
}

func TestListResources_NameFilterFoldsUnicode(t *testing.T) {
	router := testEnv(t, false)
	createResource(t, router, "ÉCOLE Straße", "A")
	createResource(t, router, "other", "B")

	w := do(t, router, http.MethodGet, "/api/v1/resources?name="+url.QueryEscape("école"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, body = %s", w.Code, w.Body.String())
	}
	var page pagination.Page[ResourceResponse]
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if len(page.Data) != 1 || page.Data[0].Name != "ÉCOLE Straße" || page.Pagination.TotalRecords != 1 {
		t.Errorf("page = %+v", page)
	}
}

func TestListResources_ExtremePaging(t *testing.T) {
	router := testEnv(t, false)
	createResource(t, router, "one", "A")
	createResource(t, router, "two", "B")

	list := func(q string) pagination.Page[ResourceResponse] {
		t.Helper()
		w := do(t, router, http.MethodGet, "/api/v1/resources?"+q, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, body = %s", q, w.Code, w.Body.String())
		}
		var page pagination.Page[ResourceResponse]
		if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
			t.Fatal(err)
		}
		return page
	}

	maxInt := strconv.Itoa(math.MaxInt)

	page := list("limit=" + maxInt)
	if len(page.Data) != 2 || page.Pagination.TotalPages != 1 {
		t.Errorf("max limit: data=%d pagination=%+v", len(page.Data), page.Pagination)
	}

	page = list("page=1000000000000000000&limit=10")
	if len(page.Data) != 0 || page.Pagination.TotalPages != 1 || page.Pagination.NextPage != nil {
		t.Errorf("huge page: data=%+v pagination=%+v", page.Data, page.Pagination)
	}

	page = list("page=" + maxInt + "&limit=" + maxInt)
	if len(page.Data) != 0 || page.Pagination.TotalPages != 1 {
		t.Errorf("max page and limit: data=%+v pagination=%+v", page.Data, page.Pagination)
	}
}

func TestGetResource_NotFound(t *testing.T) {
	router := testEnv(t, false)

	w := do(t, router, http.MethodGet, "/api/v1/resources/"+missingID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	e := decodeError(t, w)
	if e.Code != apperr.CodeResourceNotFound || e.Message != "Resource not found" {
		t.Errorf("error = %+v", e)
	}
	details, _ := e.Details.(map[string]any)
	if details["id"] != missingID {
		t.Errorf("details = %v", e.Details)
	}
	if e.Stack != "" {
		t.Error("stack leaked outside development")
	}

	w = do(t, router, http.MethodGet, "/api/v1/resources/not-a-uuid", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad id status = %d, want 422", w.Code)
	}
}

func TestUpdateResource(t *testing.T) {
	router := testEnv(t, false)
	created := createResource(t, router, "before", "A")

	w := do(t, router, http.MethodPut, "/api/v1/resources/"+created.ID, map[string]any{"name": "after"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	var updated ResourceDetailResponse
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Name != "after" || updated.Type != "A" || updated.Data["url"] != "https://example.com/before" {
		t.Errorf("updated = %+v", updated)
	}

	w = do(t, router, http.MethodPut, "/api/v1/resources/"+created.ID, map[string]any{"name": ""})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("empty name status = %d, want 422", w.Code)
	}

	w = do(t, router, http.MethodPut, "/api/v1/resources/"+missingID, map[string]any{"name": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", w.Code)
	}
}

func TestDeleteResource(t *testing.T) {
	router := testEnv(t, false)
	created := createResource(t, router, "gone", "B")

	w := do(t, router, http.MethodDelete, "/api/v1/resources/"+created.ID, nil)
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("delete status = %d, body = %q", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodDelete, "/api/v1/resources/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
	w = do(t, router, http.MethodGet, "/api/v1/resources/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestPanicBecomesInternalError(t *testing.T) {
	for _, dev := range []bool{false, true} {
		router := testEnv(t, dev)
		router.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

		w := do(t, router, http.MethodGet, "/boom", nil)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}
		e := decodeError(t, w)
		if e.Code != apperr.CodeInternalError || !strings.Contains(e.Message, "boom") {
			t.Errorf("error = %+v", e)
		}
		if dev != (e.Stack != "") {
			t.Errorf("development=%v but stack present=%v", dev, e.Stack != "")
		}
	}
}

func TestUnmatchedRoutes(t *testing.T) {
	router := testEnv(t, false)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodGet, "/api/v1/widgets"},
		{http.MethodPatch, "/api/v1/resources"},
	} {
		w := do(t, router, tc.method, tc.path, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s %s: status = %d, want 404", tc.method, tc.path, w.Code)
			continue
		}
		if e := decodeError(t, w); e.Code != apperr.CodeNotFound || e.Message != "API Not found" {
			t.Errorf("%s %s: error = %+v", tc.method, tc.path, e)
		}
	}
}

func TestStatusAndMetrics(t *testing.T) {
	router := testEnv(t, false)

	for _, m := range []string{http.MethodGet, http.MethodHead} {
		w := do(t, router, m, "/status", nil)
		if w.Code != http.StatusOK || w.Body.Len() != 0 {
			t.Errorf("%s /status = %d %q", m, w.Code, w.Body.String())
		}
	}

	do(t, router, http.MethodGet, "/api/v1/resources/"+missingID, nil)
	w := do(t, router, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `resource_api_http_requests_total{method="GET",route="/api/v1/resources/{id}",status="404"} 1`) {
		t.Errorf("request counter missing:\n%s", w.Body.String())
	}
}

func TestDocs(t *testing.T) {
	router := testEnv(t, false)
	w := do(t, router, http.MethodGet, "/docs/doc.json", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("doc.json status = %d", w.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc.json is not JSON: %v", err)
	}
	if doc["basePath"] != "/api" {
		t.Errorf("basePath = %v", doc["basePath"])
	}
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths["/v1/resources/{id}"]; !ok {
		t.Errorf("paths = %v", paths)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := testEnv(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/resources", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("allow credentials = %q", got)
	}
}

func TestCORSWildcardOmitsCredentials(t *testing.T) {
	svc := resourceservice.NewService(testutil.TestStore(t))
	router := NewRouter(svc, RouterConfig{
		APIPrefix:   "/api",
		CORSOrigins: []string{"*"},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/resources", nil)
	req.Header.Set("Origin", "http://anywhere.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("allow credentials = %q, want none", got)
	}
}
