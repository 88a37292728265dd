package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnabdutta04/estate-backend/internal/middleware"
	"github.com/arnabdutta04/estate-backend/internal/model"
	"github.com/arnabdutta04/estate-backend/internal/search"
	"github.com/arnabdutta04/estate-backend/internal/service"
)

// PropertyHandler управляет операциями над объявлениями.
type PropertyHandler struct {
	Properties *service.PropertyService
	Brokers    middleware.BrokerLoader
	Logger     *zap.Logger
}

// searchParams — параметры, которые понимает компилятор фильтров.
// Остальные query-параметры игнорируются.
var searchParams = []string{
	"propertyType", "listingType", "city", "keyword",
	"minPrice", "maxPrice", "minArea", "maxArea",
	"bedrooms", "bathrooms", "facilities", "status",
	"page", "limit",
}

// GET /api/properties — публичный поиск с фильтрами
func (h *PropertyHandler) Search(c *gin.Context) {
	params := map[string]string{}
	for _, p := range searchParams {
		if v := c.Query(p); v != "" {
			params[p] = v
		}
	}

	// Админ видит любые статусы; брокер — свои объявления через ?mine=1
	viewer := search.Viewer{}
	if claims, ok := middleware.Principal(c); ok {
		switch {
		case claims.Role == model.RoleAdmin:
			viewer.IsAdmin = true
		case claims.Role == model.RoleBroker && c.Query("mine") == "1":
			broker, err := h.Brokers.GetByUserID(c.Request.Context(), claims.UserID)
			if err != nil {
				respondError(c, h.Logger, err)
				return
			}
			viewer.BrokerID = broker.ID
		}
	}

	query, err := search.Compile(params, viewer)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	page, err := h.Properties.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"count":       len(page.Properties),
		"totalCount":  page.TotalCount,
		"currentPage": page.CurrentPage,
		"totalPages":  page.TotalPages,
		"properties":  page.Properties,
	})
}

// GET /api/properties/:id — отдаёт объект и накручивает просмотры
func (h *PropertyHandler) GetByID(c *gin.Context) {
	property, err := h.Properties.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "property": property})
}

// POST /api/properties — только верифицированный брокер
func (h *PropertyHandler) Create(c *gin.Context) {
	broker, ok := middleware.BrokerProfile(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied. Broker role required."})
		return
	}

	var in service.PropertyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	property, err := h.Properties.Create(c.Request.Context(), broker, in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Property created successfully",
		"property": property,
	})
}

// PUT /api/properties/:id — владелец или админ
func (h *PropertyHandler) Update(c *gin.Context) {
	claims, _ := middleware.Principal(c)

	var in service.PropertyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	property, err := h.Properties.Update(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"), in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Property updated successfully",
		"property": property,
	})
}

// DELETE /api/properties/:id — владелец или админ
func (h *PropertyHandler) Delete(c *gin.Context) {
	claims, _ := middleware.Principal(c)
	if err := h.Properties.Delete(c.Request.Context(), claims.UserID, claims.Role, c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Property deleted successfully"})
}

// GET /api/properties/broker/my-properties
func (h *PropertyHandler) MyProperties(c *gin.Context) {
	claims, _ := middleware.Principal(c)
	list, err := h.Properties.MyProperties(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(list), "data": list})
}

// POST /api/properties/:id/schedule-visit
func (h *PropertyHandler) ScheduleVisit(c *gin.Context) {
	claims, _ := middleware.Principal(c)

	var in service.VisitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	if err := h.Properties.ScheduleVisit(c.Request.Context(), claims.UserID, c.Param("id"), in); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Visit scheduled successfully"})
}

type featuredRequest struct {
	IsFeatured *bool `json:"isFeatured" binding:"required"`
}

// PUT /api/properties/:id/featured — только админ
func (h *PropertyHandler) SetFeatured(c *gin.Context) {
	var req featuredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	property, err := h.Properties.SetFeatured(c.Request.Context(), c.Param("id"), *req.IsFeatured)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	message := "Property unfeatured successfully"
	if *req.IsFeatured {
		message = "Property featured successfully"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "property": property})
}
