package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shivajik/gmb-brifecase/internal/models"
	"github.com/shivajik/gmb-brifecase/internal/server/storage"
	"github.com/shivajik/gmb-brifecase/pkg/api"
)

// MenusHandler обрабатывает CRUD операции над навигационными меню
type MenusHandler struct {
	logger *slog.Logger
	menus  storage.MenuStorage
}

// NewMenusHandler создает новый handler для меню
func NewMenusHandler(logger *slog.Logger, menus storage.MenuStorage) *MenusHandler {
	return &MenusHandler{
		logger: logger,
		menus:  menus,
	}
}

// List обрабатывает GET /api/v1/menus
func (h *MenusHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	menus, err := h.menus.ListMenus(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list menus", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.MenuListResponse{Menus: make([]api.Menu, 0, len(menus))}
	for _, menu := range menus {
		resp.Menus = append(resp.Menus, menuToAPI(menu))
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// GetByLocation обрабатывает GET /api/v1/menus/{location}
func (h *MenusHandler) GetByLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	location := chi.URLParam(r, "location")

	menu, err := h.menus.GetMenuByLocation(ctx, location)
	if err != nil {
		if errors.Is(err, storage.ErrMenuNotFound) {
			h.sendError(w, "menu not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get menu", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, api.MenuResponse{Menu: menuToAPI(menu)}, http.StatusOK)
}

// Create обрабатывает POST /api/v1/menus.
// На каждый location возможно только одно меню.
func (h *MenusHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Location == "" {
		h.sendError(w, "name and location required", http.StatusBadRequest)
		return
	}

	items := req.Items
	if len(items) == 0 {
		items = json.RawMessage("[]")
	}

	now := time.Now()
	menu := &models.Menu{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Location:  req.Location,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.menus.CreateMenu(ctx, menu); err != nil {
		if errors.Is(err, storage.ErrLocationExists) {
			h.sendError(w, "menu already exists for this location", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create menu", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "menu created",
		slog.String("menu_id", menu.ID),
		slog.String("location", menu.Location))

	h.sendJSON(w, api.MenuResponse{Menu: menuToAPI(menu)}, http.StatusCreated)
}

// Update обрабатывает PUT /api/v1/menus/{location}
func (h *MenusHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	location := chi.URLParam(r, "location")

	var req api.UpdateMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	menu, err := h.menus.GetMenuByLocation(ctx, location)
	if err != nil {
		if errors.Is(err, storage.ErrMenuNotFound) {
			h.sendError(w, "menu not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get menu", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if req.Name != nil {
		menu.Name = *req.Name
	}
	if len(req.Items) > 0 {
		menu.Items = req.Items
	}
	menu.UpdatedAt = time.Now()

	if err := h.menus.UpdateMenu(ctx, menu); err != nil {
		h.logger.ErrorContext(ctx, "failed to update menu", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, api.MenuResponse{Menu: menuToAPI(menu)}, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/menus/{location}
func (h *MenusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	location := chi.URLParam(r, "location")

	menu, err := h.menus.GetMenuByLocation(ctx, location)
	if err != nil {
		if errors.Is(err, storage.ErrMenuNotFound) {
			h.sendError(w, "menu not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get menu", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.menus.DeleteMenu(ctx, menu.ID); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete menu", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "menu deleted", slog.String("location", location))

	w.WriteHeader(http.StatusNoContent)
}

func menuToAPI(menu *models.Menu) api.Menu {
	return api.Menu{
		ID:        menu.ID,
		Name:      menu.Name,
		Location:  menu.Location,
		Items:     json.RawMessage(menu.Items),
		CreatedAt: menu.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: menu.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *MenusHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	sendJSON(h.logger, w, data, statusCode)
}

func (h *MenusHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(h.logger, w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}
