package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/juniorxam/Gestaodevendas/internal/service"
)

// HandleProductList returns the catalog, optionally including inactive
// products via ?all=true, or searched via ?q=.
func HandleProductList(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if term := c.Query("q"); term != "" {
			limit, _ := strconv.Atoi(c.Query("limit"))
			results, err := products.Search(ctx, term, limit)
			if err != nil {
				respondInternal(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"products": results, "count": len(results)})
			return
		}

		results, err := products.List(ctx, c.Query("all") == "true")
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": results, "count": len(results)})
	}
}

// HandleProductGet fetches a product by ID.
func HandleProductGet(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		product, err := products.GetByID(c.Request.Context(), id)
		if err != nil {
			respondInternal(c, err)
			return
		}
		if product == nil {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// HandleProductByBarcode fetches a product by barcode, the point-of-sale
// scanner path.
func HandleProductByBarcode(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		barcode := c.Param("barcode")
		product, err := products.GetByBarcode(c.Request.Context(), barcode)
		if err != nil {
			respondInternal(c, err)
			return
		}
		if product == nil {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// HandleProductStockCheck reports whether the requested quantity is in
// stock, the point-of-sale pre-check before composing a sale.
func HandleProductStockCheck(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		qty, err := strconv.Atoi(c.DefaultQuery("qty", "1"))
		if err != nil || qty <= 0 {
			respondError(c, http.StatusBadRequest, "qty must be a positive integer")
			return
		}
		available, current, err := products.CheckStock(c.Request.Context(), id, qty)
		if err != nil {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"productId": id,
			"requested": qty,
			"stock":     current,
			"available": available,
		})
	}
}

// HandleProductCreate registers a catalog product.
func HandleProductCreate(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in service.ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		caller := CurrentIdentity(c)
		id, err := products.Register(c.Request.Context(), in, caller.Login, c.ClientIP())
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

// HandleProductUpdate rewrites a product. Stock quantity is not writable
// here; use the stock movement endpoints.
func HandleProductUpdate(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		var in service.ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		caller := CurrentIdentity(c)
		if err := products.Update(c.Request.Context(), id, in, caller.Login, c.ClientIP()); err != nil {
			respondBadRequest(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}

// HandleProductSetActive activates or deactivates a product.
func HandleProductSetActive(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		var in struct {
			Active *bool `json:"active" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		caller := CurrentIdentity(c)
		if err := products.SetActive(c.Request.Context(), id, *in.Active, caller.Login, c.ClientIP()); err != nil {
			respondBadRequest(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}

// HandleProductStats returns catalog counters.
func HandleProductStats(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := products.Stats(c.Request.Context())
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// HandleCategoryList lists categories.
func HandleCategoryList(categories *service.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := categories.List(c.Request.Context(), c.Query("all") == "true")
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": results, "count": len(results)})
	}
}

// HandleCategoryCreate registers a category.
func HandleCategoryCreate(categories *service.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Name        string `json:"name" binding:"required"`
			Description string `json:"description"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		caller := CurrentIdentity(c)
		id, err := categories.Register(c.Request.Context(), in.Name, in.Description, caller.Login, c.ClientIP())
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

// HandleCategoryUpdate renames a category.
func HandleCategoryUpdate(categories *service.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		var in struct {
			Name        string `json:"name" binding:"required"`
			Description string `json:"description"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		caller := CurrentIdentity(c)
		if err := categories.Update(c.Request.Context(), id, in.Name, in.Description, caller.Login, c.ClientIP()); err != nil {
			respondBadRequest(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}

// HandleCategoryDeactivate deactivates a category without active products.
func HandleCategoryDeactivate(categories *service.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		caller := CurrentIdentity(c)
		if err := categories.Deactivate(c.Request.Context(), id, caller.Login, c.ClientIP()); err != nil {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
	}
}
