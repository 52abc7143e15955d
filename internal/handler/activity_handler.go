package handler

import (
	"net/http"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/middleware"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/repository"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/service"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/session"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/pagination"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityHandler exposes the admin audit trail, read-only.
type ActivityHandler struct {
	activityService service.ActivityService
	sessions        *session.Store
}

func NewActivityHandler(activityService service.ActivityService, sessions *session.Store) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, sessions: sessions}
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	activities := router.Group("/api/activities", middleware.RequireRole(h.sessions, model.RoleAdmin, model.RoleSuperadmin))
	{
		activities.GET("", h.GetActivities)
		activities.GET("/:id", h.GetActivity)
	}
}

// GetActivities lists audit entries
// @Summary      List activities
// @Tags         activities
// @Security     BearerAuth
// @Produce      json
// @Param        page         query     int     false  "Page number"
// @Param        limit        query     int     false  "Items per page"
// @Param        user_id      query     string  false  "Filter by acting user"
// @Param        action_type  query     string  false  "Filter by action type"
// @Param        entity_type  query     string  false  "Filter by entity type"
// @Success      200          {object}  response.Response
// @Router       /api/activities [get]
func (h *ActivityHandler) GetActivities(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.ActivityFilter{
		ActionType: c.Query("action_type"),
		EntityType: c.Query("entity_type"),
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid user_id filter: "+raw))
			return
		}
		filter.UserID = &id
	}

	entries, total, err := h.activityService.GetActivities(c.Request.Context(), params.Page, params.Limit, filter)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged(entries, total, params.Page, params.Limit)))
}

// GetActivity fetches one audit entry
// @Summary      Get activity
// @Tags         activities
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Activity ID"
// @Success      200  {object}  response.Response{data=service.ActivityResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/activities/{id} [get]
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	entry, err := h.activityService.GetActivity(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}
