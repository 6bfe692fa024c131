package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/shivajik/gmb-brifecase/internal/models"
	"github.com/shivajik/gmb-brifecase/internal/server/middleware"
	"github.com/shivajik/gmb-brifecase/internal/server/storage"
	"github.com/shivajik/gmb-brifecase/pkg/api"
)

// PagesHandler обрабатывает CRUD операции над страницами CMS
type PagesHandler struct {
	logger *slog.Logger
	pages  storage.PageStorage
}

// NewPagesHandler создает новый handler для страниц
func NewPagesHandler(logger *slog.Logger, pages storage.PageStorage) *PagesHandler {
	return &PagesHandler{
		logger: logger,
		pages:  pages,
	}
}

// List обрабатывает GET /api/v1/pages
func (h *PagesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := storage.PageFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}

	pages, err := h.pages.ListPages(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list pages", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.PageListResponse{Pages: make([]api.Page, 0, len(pages))}
	for _, page := range pages {
		resp.Pages = append(resp.Pages, pageToAPI(page))
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// Get обрабатывает GET /api/v1/pages/{pageID}
func (h *PagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pageID := chi.URLParam(r, "pageID")

	page, err := h.pages.GetPageByID(ctx, pageID)
	if err != nil {
		if errors.Is(err, storage.ErrPageNotFound) {
			h.sendError(w, "page not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get page", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, api.PageResponse{Page: pageToAPI(page)}, http.StatusOK)
}

// Create обрабатывает POST /api/v1/pages
func (h *PagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok {
		h.sendError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var req api.CreatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		h.sendError(w, "title required", http.StatusBadRequest)
		return
	}

	status := req.Status
	if status == "" {
		status = models.PageStatusDraft
	}
	if status != models.PageStatusDraft && status != models.PageStatusPublished {
		h.sendError(w, "invalid status", http.StatusBadRequest)
		return
	}

	// Slug не передан — генерируем из заголовка
	pageSlug := req.Slug
	if pageSlug == "" {
		pageSlug = slug.Make(req.Title)
	}

	template := req.Template
	if template == "" {
		template = "default"
	}

	content := req.Content
	if len(content) == 0 {
		content = json.RawMessage("[]")
	}

	now := time.Now()
	page := &models.Page{
		ID:              uuid.New().String(),
		Title:           req.Title,
		Slug:            pageSlug,
		Content:         content,
		Status:          status,
		Template:        template,
		AuthorID:        claims.Sub,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if status == models.PageStatusPublished {
		page.PublishedAt = &now
	}

	if err := h.pages.CreatePage(ctx, page); err != nil {
		if errors.Is(err, storage.ErrSlugExists) {
			h.sendError(w, "slug already exists", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create page", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "page created",
		slog.String("page_id", page.ID),
		slog.String("slug", page.Slug),
		slog.String("author_id", claims.Sub))

	h.sendJSON(w, api.PageResponse{Page: pageToAPI(page)}, http.StatusCreated)
}

// Update обрабатывает PUT /api/v1/pages/{pageID}.
// Частичное обновление: nil-поля запроса сохраняют текущее значение.
func (h *PagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pageID := chi.URLParam(r, "pageID")

	var req api.UpdatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	page, err := h.pages.GetPageByID(ctx, pageID)
	if err != nil {
		if errors.Is(err, storage.ErrPageNotFound) {
			h.sendError(w, "page not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get page", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if req.Title != nil {
		page.Title = *req.Title
	}
	if req.Slug != nil {
		page.Slug = *req.Slug
	}
	if len(req.Content) > 0 {
		page.Content = req.Content
	}
	if req.Template != nil {
		page.Template = *req.Template
	}
	if req.MetaTitle != nil {
		page.MetaTitle = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		page.MetaDescription = *req.MetaDescription
	}
	if req.Status != nil {
		if *req.Status != models.PageStatusDraft && *req.Status != models.PageStatusPublished {
			h.sendError(w, "invalid status", http.StatusBadRequest)
			return
		}
		// Первая публикация фиксирует published_at; повторные не сдвигают
		if *req.Status == models.PageStatusPublished && page.PublishedAt == nil {
			now := time.Now()
			page.PublishedAt = &now
		}
		page.Status = *req.Status
	}
	page.UpdatedAt = time.Now()

	if err := h.pages.UpdatePage(ctx, page); err != nil {
		if errors.Is(err, storage.ErrSlugExists) {
			h.sendError(w, "slug already exists", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update page", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, api.PageResponse{Page: pageToAPI(page)}, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/pages/{pageID}
func (h *PagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pageID := chi.URLParam(r, "pageID")

	if err := h.pages.DeletePage(ctx, pageID); err != nil {
		if errors.Is(err, storage.ErrPageNotFound) {
			h.sendError(w, "page not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete page", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "page deleted", slog.String("page_id", pageID))

	w.WriteHeader(http.StatusNoContent)
}

func pageToAPI(page *models.Page) api.Page {
	out := api.Page{
		ID:              page.ID,
		Title:           page.Title,
		Slug:            page.Slug,
		Content:         json.RawMessage(page.Content),
		Status:          page.Status,
		Template:        page.Template,
		AuthorID:        page.AuthorID,
		MetaTitle:       page.MetaTitle,
		MetaDescription: page.MetaDescription,
		CreatedAt:       page.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       page.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if page.PublishedAt != nil {
		out.PublishedAt = page.PublishedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func (h *PagesHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	sendJSON(h.logger, w, data, statusCode)
}

func (h *PagesHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(h.logger, w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}
