package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juniorxam/Gestaodevendas/internal/service"
)

// HandlePromotionList lists campaigns; ?active=true narrows to campaigns
// currently in their window.
func HandlePromotionList(promotions *service.PromotionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := promotions.List(c.Request.Context(), c.Query("active") == "true")
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"promotions": results, "count": len(results)})
	}
}

// HandlePromotionGet fetches a campaign.
func HandlePromotionGet(promotions *service.PromotionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		promo, err := promotions.GetByID(c.Request.Context(), id)
		if err != nil {
			respondInternal(c, err)
			return
		}
		if promo == nil {
			respondError(c, http.StatusNotFound, "promotion not found")
			return
		}
		c.JSON(http.StatusOK, promo)
	}
}

// HandlePromotionCreate registers a campaign.
func HandlePromotionCreate(promotions *service.PromotionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in service.PromotionInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		caller := CurrentIdentity(c)
		id, err := promotions.Create(c.Request.Context(), in, caller.Login, c.ClientIP())
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

// HandlePromotionUpdate rewrites a campaign.
func HandlePromotionUpdate(promotions *service.PromotionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		var in service.PromotionInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		caller := CurrentIdentity(c)
		if err := promotions.Update(c.Request.Context(), id, in, caller.Login, c.ClientIP()); err != nil {
			respondBadRequest(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}

// HandlePromotionCancel marks a campaign cancelled.
func HandlePromotionCancel(promotions *service.PromotionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		caller := CurrentIdentity(c)
		if err := promotions.Cancel(c.Request.Context(), id, caller.Login, c.ClientIP()); err != nil {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
	}
}
