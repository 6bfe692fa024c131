package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivajik/gmb-brifecase/internal/models"
	"github.com/shivajik/gmb-brifecase/internal/server/middleware"
	"github.com/shivajik/gmb-brifecase/internal/server/storage"
	"github.com/shivajik/gmb-brifecase/internal/server/token"
	"github.com/shivajik/gmb-brifecase/pkg/api"
)

// mockPageStorage — in-memory реализация storage.PageStorage
type mockPageStorage struct {
	mu    sync.Mutex
	pages map[string]*models.Page
}

func newMockPageStorage() *mockPageStorage {
	return &mockPageStorage{pages: make(map[string]*models.Page)}
}

func (m *mockPageStorage) CreatePage(_ context.Context, page *models.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pages {
		if p.Slug == page.Slug {
			return storage.ErrSlugExists
		}
	}
	clone := *page
	m.pages[page.ID] = &clone
	return nil
}

func (m *mockPageStorage) GetPageByID(_ context.Context, pageID string) (*models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pages[pageID]
	if !ok {
		return nil, storage.ErrPageNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *mockPageStorage) ListPages(_ context.Context, filter storage.PageFilter) ([]*models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Page
	for _, p := range m.pages {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockPageStorage) UpdatePage(_ context.Context, page *models.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pages[page.ID]; !ok {
		return storage.ErrPageNotFound
	}
	for id, p := range m.pages {
		if id != page.ID && p.Slug == page.Slug {
			return storage.ErrSlugExists
		}
	}
	clone := *page
	m.pages[page.ID] = &clone
	return nil
}

func (m *mockPageStorage) DeletePage(_ context.Context, pageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pages[pageID]; !ok {
		return storage.ErrPageNotFound
	}
	delete(m.pages, pageID)
	return nil
}

func testDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPagesTestRouter(t *testing.T) (*chi.Mux, *mockPageStorage) {
	t.Helper()

	store := newMockPageStorage()
	handler := NewPagesHandler(testDiscardLogger(), store)

	// Claims подставляются напрямую, без полного auth stack
	withClaims := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &token.Claims{
				Sub:   "author-1",
				Email: "author@example.com",
				Roles: []string{models.RoleEditor},
			}
			ctx := context.WithValue(r.Context(), middleware.ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	r := chi.NewRouter()
	r.Use(withClaims)
	r.Get("/pages", handler.List)
	r.Post("/pages", handler.Create)
	r.Get("/pages/{pageID}", handler.Get)
	r.Put("/pages/{pageID}", handler.Update)
	r.Delete("/pages/{pageID}", handler.Delete)

	return r, store
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPagesHandler_Create(t *testing.T) {
	router, _ := newPagesTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/pages", api.CreatePageRequest{
		Title:   "About Us",
		Content: json.RawMessage(`[{"type":"hero","heading":"About"}]`),
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp api.PageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "About Us", resp.Page.Title)
	// Slug сгенерирован из заголовка
	assert.Equal(t, "about-us", resp.Page.Slug)
	assert.Equal(t, models.PageStatusDraft, resp.Page.Status)
	assert.Equal(t, "author-1", resp.Page.AuthorID)
	assert.Empty(t, resp.Page.PublishedAt)
}

func TestPagesHandler_Create_PublishedStampsTime(t *testing.T) {
	router, _ := newPagesTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/pages", api.CreatePageRequest{
		Title:  "Launch",
		Status: models.PageStatusPublished,
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp api.PageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Page.PublishedAt)
}

func TestPagesHandler_Create_DuplicateSlug(t *testing.T) {
	router, _ := newPagesTestRouter(t)

	first := doRequest(t, router, http.MethodPost, "/pages", api.CreatePageRequest{Title: "About Us"})
	require.Equal(t, http.StatusCreated, first.Code)

	second := doRequest(t, router, http.MethodPost, "/pages", api.CreatePageRequest{
		Title: "Another",
		Slug:  "about-us",
	})
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestPagesHandler_Update_Partial(t *testing.T) {
	router, _ := newPagesTestRouter(t)

	created := doRequest(t, router, http.MethodPost, "/pages", api.CreatePageRequest{
		Title:     "Services",
		MetaTitle: "Our Services",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var createResp api.PageResponse
	require.NoError(t, json.NewDecoder(created.Body).Decode(&createResp))

	// Обновляется только статус; остальные поля не затронуты
	published := models.PageStatusPublished
	rec := doRequest(t, router, http.MethodPut, "/pages/"+createResp.Page.ID, api.UpdatePageRequest{
		Status: &published,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.PageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, models.PageStatusPublished, resp.Page.Status)
	assert.Equal(t, "Services", resp.Page.Title)
	assert.Equal(t, "Our Services", resp.Page.MetaTitle)
	assert.NotEmpty(t, resp.Page.PublishedAt)
}

func TestPagesHandler_Get_NotFound(t *testing.T) {
	router, _ := newPagesTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/pages/missing-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPagesHandler_Delete(t *testing.T) {
	router, _ := newPagesTestRouter(t)

	created := doRequest(t, router, http.MethodPost, "/pages", api.CreatePageRequest{Title: "Temp"})
	var createResp api.PageResponse
	require.NoError(t, json.NewDecoder(created.Body).Decode(&createResp))

	rec := doRequest(t, router, http.MethodDelete, "/pages/"+createResp.Page.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/pages/"+createResp.Page.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPagesHandler_List_StatusFilter(t *testing.T) {
	router, _ := newPagesTestRouter(t)

	doRequest(t, router, http.MethodPost, "/pages", api.CreatePageRequest{Title: "Draft One"})
	doRequest(t, router, http.MethodPost, "/pages", api.CreatePageRequest{
		Title:  "Live One",
		Status: models.PageStatusPublished,
	})

	rec := doRequest(t, router, http.MethodGet, "/pages?status=published", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.PageListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Pages, 1)
	assert.Equal(t, "Live One", resp.Pages[0].Title)
}

func TestPagesHandler_Create_MissingTitle(t *testing.T) {
	router, _ := newPagesTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/pages", api.CreatePageRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
