package web

import (
	"errors"
	"net/http"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/auth"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/service"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/stock"
)

type movementRequest struct {
	ItemID   string              `json:"itemId"`
	Type     domain.MovementKind `json:"type"`
	Quantity int                 `json:"quantity"`
	Reason   string              `json:"reason"`
}

type movementResponse struct {
	NewQuantity int                  `json:"newQuantity"`
	Transaction *transactionResponse `json:"transaction,omitempty"`
}

// handleApplyMovement records a stock add or take against an item.
func (s *Server) handleApplyMovement(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	var req movementRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.ItemID == "" {
		s.respondError(w, http.StatusBadRequest, codeValidation, "itemId required")
		return
	}

	res, err := s.inventory.ApplyMovement(r.Context(), sess.UserID, req.ItemID, req.Type, req.Quantity, req.Reason)

	var insufficientErr *stock.InsufficientStockError
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		s.respondError(w, http.StatusNotFound, codeNotFound, "item not found")
		return
	case errors.As(err, &insufficientErr):
		s.respondError(w, http.StatusConflict, codeInsufficientStock, insufficientErr.Error())
		return
	case errors.Is(err, stock.ErrInvalidQuantity), errors.Is(err, stock.ErrInvalidKind):
		s.respondError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to apply movement")
		s.logger.Error("apply movement failed", "user_id", sess.UserID, "item_id", req.ItemID, "error", err)
		return
	}

	resp := movementResponse{NewQuantity: res.NewQuantity}
	if res.Transaction != nil {
		tx := toTransactionResponse(res.Transaction)
		resp.Transaction = &tx
	}
	s.respondJSON(w, http.StatusCreated, resp)
}
