package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/auth"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/service"
)

const maxItemNameLen = 200

type itemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	SKU         string    `json:"sku"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	DateAdded   time.Time `json:"dateAdded"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func toItemResponse(item *domain.Item) itemResponse {
	return itemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		SKU:         item.SKU,
		Quantity:    item.Quantity,
		Price:       item.Price,
		DateAdded:   item.DateAdded,
		LastUpdated: item.LastUpdated,
	}
}

func toItemResponses(items []*domain.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	items, err := s.inventory.ListItems(r.Context(), sess.UserID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to list items")
		s.logger.Error("list items failed", "user_id", sess.UserID, "error", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toItemResponses(items))
}

type createItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	SKU         string  `json:"sku"`
	Price       float64 `json:"price"`
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	var req createItemRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		s.respondError(w, http.StatusBadRequest, codeValidation, "item name required")
		return
	}
	if len(req.Name) > maxItemNameLen {
		s.respondError(w, http.StatusBadRequest, codeValidation, "item name too long")
		return
	}
	if req.Price < 0 {
		s.respondError(w, http.StatusBadRequest, codeValidation, "price must not be negative")
		return
	}

	item, err := s.inventory.CreateItem(r.Context(), sess.UserID, req.Name, req.Description, req.Category, req.SKU, req.Price)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to create item")
		s.logger.Error("create item failed", "user_id", sess.UserID, "error", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, toItemResponse(item))
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	item, err := s.inventory.GetItem(r.Context(), r.PathValue("id"), sess.UserID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to get item")
		s.logger.Error("get item failed", "user_id", sess.UserID, "error", err)
		return
	}
	if item == nil {
		s.respondError(w, http.StatusNotFound, codeNotFound, "item not found")
		return
	}
	s.respondJSON(w, http.StatusOK, toItemResponse(item))
}

type updateItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	SKU         *string  `json:"sku"`
	Quantity    *int     `json:"quantity"`
	Price       *float64 `json:"price"`
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	var req updateItemRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			s.respondError(w, http.StatusBadRequest, codeValidation, "item name required")
			return
		}
		req.Name = &trimmed
	}

	item, err := s.inventory.UpdateItem(r.Context(), r.PathValue("id"), sess.UserID, domain.ItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		SKU:         req.SKU,
		Quantity:    req.Quantity,
		Price:       req.Price,
	})
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		s.respondError(w, http.StatusNotFound, codeNotFound, "item not found")
		return
	case errors.Is(err, service.ErrInvalidPatch):
		s.respondError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to update item")
		s.logger.Error("update item failed", "user_id", sess.UserID, "error", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	err := s.inventory.DeleteItem(r.Context(), r.PathValue("id"), sess.UserID)
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		s.respondError(w, http.StatusNotFound, codeNotFound, "item not found")
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to delete item")
		s.logger.Error("delete item failed", "user_id", sess.UserID, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
