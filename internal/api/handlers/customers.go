package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/juniorxam/Gestaodevendas/internal/service"
)

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid id: "+c.Param("id"))
		return 0, false
	}
	return id, true
}

// HandleCustomerList searches customers. Without a term it returns the most
// recent registrations.
func HandleCustomerList(customers *service.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		results, err := customers.Search(c.Request.Context(), c.Query("q"), limit)
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customers": results, "count": len(results)})
	}
}

// HandleCustomerGet fetches one customer by numeric ID or by CPF via ?cpf=.
func HandleCustomerGet(customers *service.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		customer, err := customers.GetByID(c.Request.Context(), id)
		if err != nil {
			respondInternal(c, err)
			return
		}
		if customer == nil {
			respondError(c, http.StatusNotFound, "customer not found")
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

// HandleCustomerCreate registers a customer.
func HandleCustomerCreate(customers *service.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in service.CustomerInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		caller := CurrentIdentity(c)
		id, err := customers.Register(c.Request.Context(), in, caller.Login, c.ClientIP())
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

// HandleCustomerUpdate rewrites a customer's editable fields.
func HandleCustomerUpdate(customers *service.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		var in service.CustomerInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		caller := CurrentIdentity(c)
		if err := customers.Update(c.Request.Context(), id, in, caller.Login, c.ClientIP()); err != nil {
			respondBadRequest(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}

// HandleCustomerDelete removes a customer without sales.
func HandleCustomerDelete(customers *service.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		caller := CurrentIdentity(c)
		if err := customers.Delete(c.Request.Context(), id, caller.Login, c.ClientIP()); err != nil {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}

// HandleCustomerHistory lists a customer's purchases.
func HandleCustomerHistory(sales *service.SaleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		limit, _ := strconv.Atoi(c.Query("limit"))
		history, err := sales.CustomerHistory(c.Request.Context(), id, limit)
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sales": history, "count": len(history)})
	}
}

// HandleCustomerImport registers a batch of customers, reporting per-row
// failures without aborting the batch.
func HandleCustomerImport(customers *service.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Customers []service.CustomerInput `json:"customers" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		caller := CurrentIdentity(c)
		result := customers.ImportBatch(c.Request.Context(), in.Customers, caller.Login, c.ClientIP())
		c.JSON(http.StatusOK, result)
	}
}

// HandleCustomerStats returns the customer dashboard card.
func HandleCustomerStats(customers *service.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := customers.Stats(c.Request.Context())
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
