package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juniorxam/Gestaodevendas/internal/service"
)

// periodQuery reads ?from= and ?to= (YYYY-MM-DD), defaulting to the last
// 30 days when absent.
func periodQuery(c *gin.Context) (string, string) {
	from := c.Query("from")
	to := c.Query("to")
	if to == "" {
		to = time.Now().Format("2006-01-02")
	}
	if from == "" {
		from = time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	}
	return from, to
}

// HandleSaleCreate registers a sale.
func HandleSaleCreate(sales *service.SaleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in service.SaleInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		caller := CurrentIdentity(c)
		id, err := sales.Register(c.Request.Context(), in, caller.Login, c.ClientIP())
		if err != nil {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

// HandleSaleList lists sales in a period, optionally filtered by customer
// and registering user.
func HandleSaleList(sales *service.SaleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to := periodQuery(c)
		customerID, _ := strconv.ParseInt(c.Query("customerId"), 10, 64)
		limit, _ := strconv.Atoi(c.Query("limit"))

		results, err := sales.ListByPeriod(c.Request.Context(), service.SaleFilter{
			From:       from,
			To:         to,
			CustomerID: customerID,
			User:       c.Query("user"),
			Limit:      limit,
		})
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sales": results, "count": len(results)})
	}
}

// HandleSaleGet fetches a sale with its lines.
func HandleSaleGet(sales *service.SaleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		details, err := sales.Details(c.Request.Context(), id)
		if err != nil {
			respondInternal(c, err)
			return
		}
		if details == nil {
			respondError(c, http.StatusNotFound, "sale not found")
			return
		}
		c.JSON(http.StatusOK, details)
	}
}

// HandleSaleVoid cancels a sale and restores the stock it consumed.
func HandleSaleVoid(sales *service.SaleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		var in struct {
			Reason string `json:"reason"`
		}
		_ = c.ShouldBindJSON(&in)

		caller := CurrentIdentity(c)
		if err := sales.Void(c.Request.Context(), id, caller.Login, in.Reason, c.ClientIP()); err != nil {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "voided"})
	}
}

// HandleSaleMetrics aggregates a period for the dashboard.
func HandleSaleMetrics(sales *service.SaleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to := periodQuery(c)
		metrics, err := sales.Metrics(c.Request.Context(), from, to)
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, metrics)
	}
}
