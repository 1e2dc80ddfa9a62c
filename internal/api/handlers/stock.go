package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juniorxam/Gestaodevendas/internal/service"
)

type stockMovementRequest struct {
	ProductID int64  `json:"productId" binding:"required"`
	Type      string `json:"type" binding:"required"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// HandleStockMovement applies an entry, exit, or adjustment to a product.
func HandleStockMovement(stock *service.StockService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in stockMovementRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		caller := CurrentIdentity(c)
		movement, err := stock.RegisterMovement(c.Request.Context(),
			in.ProductID, in.Type, in.Quantity, caller.Login, in.Reason, c.ClientIP())
		if err != nil {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		c.JSON(http.StatusOK, movement)
	}
}

// HandleStockReport summarizes the inventory.
func HandleStockReport(stock *service.StockService) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := stock.Report(c.Request.Context())
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// HandleStockLow lists products at or below minimum.
func HandleStockLow(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := products.LowStock(c.Request.Context(), 0)
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": results, "count": len(results)})
	}
}

// HandleStockReplenishment suggests purchase quantities for products below
// minimum.
func HandleStockReplenishment(stock *service.StockService) gin.HandlerFunc {
	return func(c *gin.Context) {
		suggestions, err := stock.ReplenishmentSuggestions(c.Request.Context())
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"suggestions": suggestions, "count": len(suggestions)})
	}
}
