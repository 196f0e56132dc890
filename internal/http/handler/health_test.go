package handler_test

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/http/handler"
)

var _ = Describe("HealthHandler", func() {
	It("is ok when every dependency answers", func() {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.GET("/health", handler.NewHealthHandler(map[string]handler.Pinger{
			"database": func(context.Context) error { return nil },
		}).Health)

		w := serve(r, http.MethodGet, "/health")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"database":"ok"`))
	})

	It("degrades when a dependency fails", func() {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.GET("/health", handler.NewHealthHandler(map[string]handler.Pinger{
			"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
		}).Health)

		w := serve(r, http.MethodGet, "/health")

		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(w.Body.String()).To(ContainSubstring(`"status":"degraded"`))
	})
})
