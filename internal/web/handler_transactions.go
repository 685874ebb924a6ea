package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/auth"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/service"
)

type transactionResponse struct {
	ID           string              `json:"id"`
	ItemID       string              `json:"itemId"`
	ItemName     string              `json:"itemName"`
	ItemSKU      string              `json:"sku"`
	ItemCategory string              `json:"category"`
	ItemPrice    float64             `json:"price"`
	Kind         domain.MovementKind `json:"type"`
	Quantity     int                 `json:"quantity"`
	Reason       string              `json:"reason"`
	Date         time.Time           `json:"date"`
}

func toTransactionResponse(tx *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:           tx.ID,
		ItemID:       tx.ItemID,
		ItemName:     tx.ItemName,
		ItemSKU:      tx.ItemSKU,
		ItemCategory: tx.ItemCategory,
		ItemPrice:    tx.ItemPrice,
		Kind:         tx.Kind,
		Quantity:     tx.Quantity,
		Reason:       tx.Reason,
		Date:         tx.Date,
	}
}

func toTransactionResponses(txs []*domain.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return out
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	txs, err := s.inventory.ListTransactions(r.Context(), sess.UserID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to list transactions")
		s.logger.Error("list transactions failed", "user_id", sess.UserID, "error", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toTransactionResponses(txs))
}

type updateTransactionRequest struct {
	ItemID       *string              `json:"itemId"`
	ItemName     *string              `json:"itemName"`
	ItemSKU      *string              `json:"sku"`
	ItemCategory *string              `json:"category"`
	ItemPrice    *float64             `json:"price"`
	Kind         *domain.MovementKind `json:"type"`
	Quantity     *int                 `json:"quantity"`
	Reason       *string              `json:"reason"`
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	var req updateTransactionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	tx, err := s.inventory.UpdateTransaction(r.Context(), r.PathValue("id"), sess.UserID, domain.TransactionPatch{
		ItemID:       req.ItemID,
		ItemName:     req.ItemName,
		ItemSKU:      req.ItemSKU,
		ItemCategory: req.ItemCategory,
		ItemPrice:    req.ItemPrice,
		Kind:         req.Kind,
		Quantity:     req.Quantity,
		Reason:       req.Reason,
	})
	switch {
	case errors.Is(err, service.ErrTransactionNotFound):
		s.respondError(w, http.StatusNotFound, codeNotFound, "transaction not found")
		return
	case errors.Is(err, service.ErrInvalidPatch):
		s.respondError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to update transaction")
		s.logger.Error("update transaction failed", "user_id", sess.UserID, "error", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	err := s.inventory.DeleteTransaction(r.Context(), r.PathValue("id"), sess.UserID)
	switch {
	case errors.Is(err, service.ErrTransactionNotFound):
		s.respondError(w, http.StatusNotFound, codeNotFound, "transaction not found")
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to delete transaction")
		s.logger.Error("delete transaction failed", "user_id", sess.UserID, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
