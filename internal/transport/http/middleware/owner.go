package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/temirkhanov/fintrack/internal/domain"
)

// transactionFinder is the subset of the transaction repository the gate needs.
type transactionFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
}

// TransactionOwner is the authorization gate for /transactions/:id routes.
// It runs after Auth, loads the target transaction, and rejects the request
// unless it belongs to the authenticated user. On success the transaction
// is attached to the context so the handler does not load it again.
func TransactionOwner(transactions transactionFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := UserFromContext(c)
		if !ok {
			// Routing must guarantee Auth ran first; this is a wiring bug,
			// not a client error.
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Internal server error"})
			return
		}

		tx, err := transactions.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrTransactionNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Internal server error"})
			return
		}

		if tx.UserID != user.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		c.Set(ContextTransactionKey, tx)
		c.Next()
	}
}

// TransactionFromContext returns the transaction attached by TransactionOwner.
func TransactionFromContext(c *gin.Context) (*domain.Transaction, bool) {
	v, ok := c.Get(ContextTransactionKey)
	if !ok {
		return nil, false
	}
	tx, ok := v.(*domain.Transaction)
	return tx, ok
}
