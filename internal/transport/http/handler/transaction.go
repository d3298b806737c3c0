package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/temirkhanov/fintrack/internal/domain"
	"github.com/temirkhanov/fintrack/internal/repository"
	"github.com/temirkhanov/fintrack/internal/transport/http/middleware"
	"github.com/temirkhanov/fintrack/internal/usecase"
)

type TransactionHandler struct {
	transactions *usecase.TransactionUsecase
	logger       *slog.Logger
}

func NewTransactionHandler(transactions *usecase.TransactionUsecase, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		logger:       logger.With("component", "transaction_handler"),
	}
}

type createTransactionRequest struct {
	Amount     int64     `json:"amount"      binding:"required"`
	Currency   string    `json:"currency"    binding:"required,iso4217"`
	Category   string    `json:"category"    binding:"required,max=64"`
	Note       *string   `json:"note"        binding:"omitempty,max=512"`
	OccurredAt time.Time `json:"occurred_at"`
}

type updateTransactionRequest struct {
	Amount     *int64     `json:"amount"`
	Currency   *string    `json:"currency"    binding:"omitempty,iso4217"`
	Category   *string    `json:"category"    binding:"omitempty,max=64"`
	Note       *string    `json:"note"        binding:"omitempty,max=512"`
	OccurredAt *time.Time `json:"occurred_at"`
}

type transactionResponse struct {
	ID         string    `json:"id"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	Category   string    `json:"category"`
	Note       *string   `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toResponse(tx *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:         tx.ID,
		Amount:     tx.Amount,
		Currency:   tx.Currency,
		Category:   tx.Category,
		Note:       tx.Note,
		OccurredAt: tx.OccurredAt,
		CreatedAt:  tx.CreatedAt,
		UpdatedAt:  tx.UpdatedAt,
	}
}

// POST /transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.transactions.Create(c.Request.Context(), usecase.CreateTransactionInput{
		UserID:     user.ID,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Category:   req.Category,
		Note:       req.Note,
		OccurredAt: req.OccurredAt,
	})
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "create transaction", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, toResponse(tx))
}

// GET /transactions?from=<rfc3339>&to=<rfc3339>&limit=<n>
func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	var query struct {
		From  time.Time `form:"from"  time_format:"2006-01-02T15:04:05Z07:00"`
		To    time.Time `form:"to"    time_format:"2006-01-02T15:04:05Z07:00"`
		Limit int       `form:"limit" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.transactions.List(c.Request.Context(), user.ID, repository.TransactionFilter{
		From:  query.From,
		To:    query.To,
		Limit: query.Limit,
	})
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list transactions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]transactionResponse, 0, len(list))
	for _, tx := range list {
		out = append(out, toResponse(tx))
	}
	c.JSON(http.StatusOK, gin.H{"transactions": out})
}

// GET /transactions/:id (behind the ownership gate)
func (h *TransactionHandler) GetByID(c *gin.Context) {
	tx, ok := middleware.TransactionFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, toResponse(tx))
}

// PATCH /transactions/:id (behind the ownership gate)
func (h *TransactionHandler) Update(c *gin.Context) {
	tx, ok := middleware.TransactionFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.transactions.Update(c.Request.Context(), tx, usecase.UpdateTransactionInput{
		Amount:     req.Amount,
		Currency:   req.Currency,
		Category:   req.Category,
		Note:       req.Note,
		OccurredAt: req.OccurredAt,
	})
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "update transaction", "transaction_id", tx.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, toResponse(updated))
}

// DELETE /transactions/:id (behind the ownership gate)
func (h *TransactionHandler) Delete(c *gin.Context) {
	tx, ok := middleware.TransactionFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	if err := h.transactions.Delete(c.Request.Context(), tx.ID); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errTransactionNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete transaction", "transaction_id", tx.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.Status(http.StatusNoContent)
}
