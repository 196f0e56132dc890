package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/graph"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/http/handler"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/http/middleware"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/http/router"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/service"
)

func node(id int64, name string, degree int) graph.Node {
	return graph.Node{
		Actor:  model.Actor{ID: id, Name: name, Type: model.ActorTypePerson},
		Degree: degree,
	}
}

func serve(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var _ = Describe("GraphHandler", func() {
	var (
		r   *gin.Engine
		svc *mockGraphService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		r = gin.New()
		svc = &mockGraphService{}
		projects := r.Group("/api/v1/projects/:project_id", middleware.ProjectScope())
		router.GraphRouter(projects.Group("/graph"), handler.NewGraphHandler(svc))
	})

	Describe("GET /graph", func() {
		It("translates query parameters into graph options", func() {
			var gotOpts graph.Options
			var gotRefresh bool
			svc.projectionFn = func(_ context.Context, pid int64, opts graph.Options, refresh bool) (graph.Projection, error) {
				Expect(pid).To(Equal(int64(7)))
				gotOpts, gotRefresh = opts, refresh
				return graph.Projection{ProjectID: pid, Nodes: []graph.ProjectedNode{{ID: "1", Label: "Ana"}}, Edges: []graph.ProjectedEdge{}}, nil
			}

			w := serve(r, http.MethodGet, "/api/v1/projects/7/graph?actor_types=person,%20system&edge_types=reports_to&min_confidence=0.4&include_implicit=false&group_by=team&refresh=true")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotOpts.ActorTypes).To(Equal([]model.ActorType{"person", "system"}))
			Expect(gotOpts.EdgeTypes).To(Equal([]string{"reports_to"}))
			Expect(gotOpts.MinConfidence).To(Equal(0.4))
			Expect(gotOpts.IncludeImplicit).To(BeFalse())
			Expect(gotOpts.GroupBy).To(Equal(graph.GroupByTeam))
			Expect(gotRefresh).To(BeTrue())

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["nodes"]).To(HaveLen(1))
		})

		It("includes implicit edges by default", func() {
			var gotOpts graph.Options
			svc.projectionFn = func(_ context.Context, pid int64, opts graph.Options, _ bool) (graph.Projection, error) {
				gotOpts = opts
				return graph.Projection{}, nil
			}

			w := serve(r, http.MethodGet, "/api/v1/projects/7/graph")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotOpts.IncludeImplicit).To(BeTrue())
			Expect(gotOpts.IncludeArchived).To(BeFalse())
		})

		It("rejects unknown group_by values", func() {
			w := serve(r, http.MethodGet, "/api/v1/projects/7/graph?group_by=colour")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects out-of-range confidence", func() {
			w := serve(r, http.MethodGet, "/api/v1/projects/7/graph?min_confidence=2")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects malformed project ids", func() {
			w := serve(r, http.MethodGet, "/api/v1/projects/abc/graph")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 503 when the stores are unavailable", func() {
			svc.projectionFn = func(context.Context, int64, graph.Options, bool) (graph.Projection, error) {
				return graph.Projection{}, fmt.Errorf("%w: listing actors: timeout", service.ErrUnavailable)
			}

			w := serve(r, http.MethodGet, "/api/v1/projects/7/graph")
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	It("reports refresh counts", func() {
		svc.refreshFn = func(_ context.Context, pid int64) (service.RefreshResult, error) {
			return service.RefreshResult{Nodes: 4, Edges: 3, Invalidated: 2}, nil
		}

		w := serve(r, http.MethodPost, "/api/v1/projects/7/graph/refresh")

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["nodes"]).To(BeEquivalentTo(4))
		Expect(resp["edges"]).To(BeEquivalentTo(3))
	})

	It("passes the hub limit through", func() {
		var gotLimit int
		svc.hubsFn = func(_ context.Context, _ int64, limit int) ([]graph.Node, error) {
			gotLimit = limit
			return []graph.Node{node(2, "Ben", 5), node(1, "Ana", 3)}, nil
		}

		w := serve(r, http.MethodGet, "/api/v1/projects/7/graph/hubs?limit=2")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(gotLimit).To(Equal(2))
		var resp struct {
			Hubs []struct {
				ID     string `json:"id"`
				Degree int    `json:"degree"`
			} `json:"hubs"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Hubs).To(HaveLen(2))
		Expect(resp.Hubs[0].ID).To(Equal("2"))
		Expect(resp.Hubs[0].Degree).To(Equal(5))
	})

	It("lists isolated actors", func() {
		svc.isolatedFn = func(context.Context, int64) ([]graph.Node, error) {
			return []graph.Node{node(9, "Zed", 0)}, nil
		}

		w := serve(r, http.MethodGet, "/api/v1/projects/7/graph/isolated")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"name":"Zed"`))
	})

	Describe("GET /graph/path", func() {
		It("returns the path when one exists", func() {
			svc.pathFn = func(_ context.Context, _ int64, from, to int64) (graph.Path, error) {
				return graph.Path{
					Nodes: []graph.Node{node(from, "Ana", 1), node(to, "Ben", 1)},
					Edges: []graph.Edge{{Source: from, Target: to, Type: "works_with", EdgeSource: graph.EdgeSourceExplicit}},
				}, nil
			}

			w := serve(r, http.MethodGet, "/api/v1/projects/7/graph/path?from=1&to=2")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["found"]).To(BeTrue())
			Expect(resp["length"]).To(BeEquivalentTo(1))
		})

		It("answers found=false when the actors are disconnected", func() {
			w := serve(r, http.MethodGet, "/api/v1/projects/7/graph/path?from=1&to=2")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"found":false`))
		})

		It("returns 404 for unknown actors", func() {
			svc.pathFn = func(_ context.Context, _ int64, from, to int64) (graph.Path, error) {
				return graph.Path{}, fmt.Errorf("%w: %d", graph.ErrNodeNotFound, to)
			}

			w := serve(r, http.MethodGet, "/api/v1/projects/7/graph/path?from=1&to=99")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("requires both endpoints", func() {
			w := serve(r, http.MethodGet, "/api/v1/projects/7/graph/path?from=1")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /graph/neighbors/:actor_id", func() {
		It("defaults depth to one hop", func() {
			gotDepth := -1
			svc.neighborsFn = func(_ context.Context, _ int64, actorID int64, depth int) (graph.Subgraph, error) {
				gotDepth = depth
				return graph.Subgraph{Center: actorID, Depth: depth, Nodes: []graph.Node{node(actorID, "Ana", 0)}}, nil
			}

			w := serve(r, http.MethodGet, "/api/v1/projects/7/graph/neighbors/1")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotDepth).To(Equal(1))
		})

		It("maps invalid depth to 400", func() {
			svc.neighborsFn = func(_ context.Context, _ int64, _ int64, depth int) (graph.Subgraph, error) {
				return graph.Subgraph{}, fmt.Errorf("%w: %d", graph.ErrInvalidDepth, depth)
			}

			w := serve(r, http.MethodGet, "/api/v1/projects/7/graph/neighbors/1?depth=9")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects non-numeric actor ids", func() {
			w := serve(r, http.MethodGet, "/api/v1/projects/7/graph/neighbors/ana")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 500 on unexpected errors", func() {
			svc.neighborsFn = func(context.Context, int64, int64, int) (graph.Subgraph, error) {
				return graph.Subgraph{}, errors.New("boom")
			}

			w := serve(r, http.MethodGet, "/api/v1/projects/7/graph/neighbors/1")
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})
})
