package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/logger"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/graph"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/http/dto"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/http/middleware"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/service"
)

const defaultNeighborDepth = 1

type GraphHandler struct {
	graphService service.GraphService
}

func NewGraphHandler(graphService service.GraphService) *GraphHandler {
	return &GraphHandler{graphService: graphService}
}

// Get returns the projected graph for the requested filters.
func (h *GraphHandler) Get(c *gin.Context) {
	var q dto.GraphQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err, "query")
		return
	}
	opts, err := q.Options()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	projection, err := h.graphService.Projection(c.Request.Context(), middleware.ProjectID(c), opts, q.Refresh)
	if err != nil {
		respondError(c, err, "build graph")
		return
	}
	c.JSON(http.StatusOK, projection)
}

func (h *GraphHandler) Refresh(c *gin.Context) {
	res, err := h.graphService.Refresh(c.Request.Context(), middleware.ProjectID(c))
	if err != nil {
		respondError(c, err, "refresh graph")
		return
	}
	c.JSON(http.StatusOK, dto.RefreshResponse{
		Nodes:       res.Nodes,
		Edges:       res.Edges,
		Invalidated: res.Invalidated,
		BuiltAt:     res.BuiltAt,
	})
}

func (h *GraphHandler) Hubs(c *gin.Context) {
	var q dto.HubsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	hubs, err := h.graphService.Hubs(c.Request.Context(), middleware.ProjectID(c), q.Limit)
	if err != nil {
		respondError(c, err, "compute hubs")
		return
	}
	c.JSON(http.StatusOK, dto.HubsResponse{Hubs: dto.ToNodeResponses(hubs)})
}

func (h *GraphHandler) Isolated(c *gin.Context) {
	nodes, err := h.graphService.Isolated(c.Request.Context(), middleware.ProjectID(c))
	if err != nil {
		respondError(c, err, "list isolated actors")
		return
	}
	c.JSON(http.StatusOK, dto.IsolatedResponse{Isolated: dto.ToNodeResponses(nodes)})
}

// Path answers 200 with found=false when both actors exist but are not connected.
func (h *GraphHandler) Path(c *gin.Context) {
	var q dto.PathQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required actor ids"})
		return
	}

	path, err := h.graphService.ShortestPath(c.Request.Context(), middleware.ProjectID(c), q.From, q.To)
	if errors.Is(err, graph.ErrNoPath) {
		c.JSON(http.StatusOK, dto.NoPathResponse())
		return
	}
	if err != nil {
		respondError(c, err, "find path")
		return
	}
	c.JSON(http.StatusOK, dto.ToPathResponse(path))
}

func (h *GraphHandler) Neighbors(c *gin.Context) {
	actorID, err := strconv.ParseInt(c.Param("actor_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid actor_id"})
		return
	}

	var q dto.NeighborsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid depth"})
		return
	}
	depth := defaultNeighborDepth
	if q.Depth != nil {
		depth = *q.Depth
	}

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{ActorID: &actorID})
	sub, err := h.graphService.Neighbors(ctx, middleware.ProjectID(c), actorID, depth)
	if err != nil {
		respondError(c, err, "expand neighbors")
		return
	}
	c.JSON(http.StatusOK, dto.ToNeighborsResponse(sub))
}
