// Copyright (c) 2025 Webrex Studio. All Rights Reserved.
// This is licensed software from Webrex Studio, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/common"
	"github.com/webrexstudio/review-engagement/pkg/dispatcher"
	"github.com/webrexstudio/review-engagement/pkg/scheduler"
	"github.com/webrexstudio/review-engagement/pkg/service"
	"github.com/webrexstudio/review-engagement/pkg/signal"
)

// InternalSessionHeader marks requests made by support staff browsing a
// merchant account. Prompts are suppressed for these sessions.
const InternalSessionHeader = "X-Internal-Session"

// Engagement exposes the engagement API: event ingestion, on-demand prompt
// evaluation, review submission and state inspection.
type Engagement struct {
	manager    *scheduler.Manager
	stateStore service.StateStore
	adoption   service.AdoptionTracker
}

// NewEngagement creates the engagement API handler.
func NewEngagement(manager *scheduler.Manager, stateStore service.StateStore, adoption service.AdoptionTracker) *Engagement {
	return &Engagement{
		manager:    manager,
		stateStore: stateStore,
		adoption:   adoption,
	}
}

// RegisterRoutes mounts the engagement API on the router.
func (h *Engagement) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/v1/tenants/:tenantID")
	v1.POST("/events", h.PostEvent)
	v1.POST("/prompt", h.RequestPrompt)
	v1.POST("/review", h.SubmitReview)
	v1.GET("/state", h.GetState)
}

// PostEvent ingests an engagement event and runs it through the pipeline.
func (h *Engagement) PostEvent(c *gin.Context) {
	scope := common.GetScopeFromContext(c.Request.Context(), "Engagement.PostEvent")
	defer scope.End()

	tenantID := c.Param("tenantID")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant ID is required"})
		return
	}

	var event signal.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload"})
		return
	}
	applySessionHeader(c, &event)

	results, err := h.manager.ProcessEvent(scope.Ctx, tenantID, event)
	if err != nil {
		scope.TraceError(err)
		logrus.Errorf("event processing failed for tenant %s: %v", tenantID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":   "processed",
		"surfaces": surfaceOutcomes(results),
	})
}

// RequestPrompt evaluates a surface on demand, without applying any event
// side effects. The app calls this when it wants to know whether to show a
// prompt right now.
func (h *Engagement) RequestPrompt(c *gin.Context) {
	scope := common.GetScopeFromContext(c.Request.Context(), "Engagement.RequestPrompt")
	defer scope.End()

	tenantID := c.Param("tenantID")

	var request struct {
		Surface  string `json:"surface" binding:"required"`
		DeviceID string `json:"device_id,omitempty"`
		PlanTier string `json:"plan_tier,omitempty"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	event := signal.Event{DeviceID: request.DeviceID, PlanTier: request.PlanTier}
	applySessionHeader(c, &event)

	res, err := h.manager.EvaluateSurface(scope.Ctx, tenantID, request.Surface, event)
	if err != nil {
		if _, known := h.manager.Surface(request.Surface); !known {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown surface"})
			return
		}
		scope.TraceError(err)
		logrus.Errorf("prompt evaluation failed for tenant %s: %v", tenantID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prompt evaluation failed"})
		return
	}

	response := gin.H{
		"eligible":      res.Eligible,
		"state_changed": res.StateChanged,
		"channel":       res.ChannelUsed,
		"gate":          res.DeniedBy,
	}
	if res.NewState != nil {
		response["request_count"] = res.NewState.RequestCount
	}
	c.JSON(http.StatusOK, response)
}

// SubmitReview records that the tenant left a review. The transition is
// terminal and idempotent.
func (h *Engagement) SubmitReview(c *gin.Context) {
	scope := common.GetScopeFromContext(c.Request.Context(), "Engagement.SubmitReview")
	defer scope.End()

	tenantID := c.Param("tenantID")

	if _, err := h.manager.ProcessEvent(scope.Ctx, tenantID, signal.Event{Type: signal.EventReviewSubmitted}); err != nil {
		scope.TraceError(err)
		logrus.Errorf("review submission failed for tenant %s: %v", tenantID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "review submission failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reviewed"})
}

// GetState returns the tenant's engagement state for debugging and support.
func (h *Engagement) GetState(c *gin.Context) {
	scope := common.GetScopeFromContext(c.Request.Context(), "Engagement.GetState")
	defer scope.End()

	tenantID := c.Param("tenantID")

	s, err := h.stateStore.GetReviewState(scope.Ctx, tenantID)
	if err != nil {
		scope.TraceError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load state"})
		return
	}

	response := gin.H{"state": s}
	if count, err := h.adoption.Count(scope.Ctx, tenantID); err == nil {
		response["adoption_count"] = count
	} else {
		logrus.Warnf("failed to load adoption count for tenant %s: %v", tenantID, err)
	}

	c.JSON(http.StatusOK, response)
}

func applySessionHeader(c *gin.Context, event *signal.Event) {
	if c.GetHeader(InternalSessionHeader) == "true" {
		event.PrivilegedSession = true
	}
}

func surfaceOutcomes(results []*dispatcher.Result) []gin.H {
	outcomes := make([]gin.H, 0, len(results))
	for _, res := range results {
		outcomes = append(outcomes, gin.H{
			"eligible": res.Eligible,
			"channel":  res.ChannelUsed,
			"gate":     res.DeniedBy,
		})
	}
	return outcomes
}
