package rest

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
	"github.com/Gunvolt24/rocketshoes_cart/internal/ports"
	"github.com/Gunvolt24/rocketshoes_cart/pkg/httpx"
)

const msgInternal = "internal server error"

type Handler struct {
	service ports.CartService
	log     ports.Logger
	timeout time.Duration
}

// NewHandler — handlerTimeout <= 0 отключает таймаут на обработку.
func NewHandler(service ports.CartService, log ports.Logger, handlerTimeout time.Duration) *Handler {
	return &Handler{service: service, log: log, timeout: handlerTimeout}
}

// NewRouter — gin-движок с middleware и маршрутами корзины.
// otelServiceName == "" — без otelgin (тесты, бенчмарки).
func NewRouter(h *Handler, staticDir, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	cart := r.Group("/cart")
	cart.GET("", h.getCart)
	cart.POST("/products/:id", h.addProduct)
	cart.DELETE("/products/:id", h.removeProduct)
	cart.PATCH("/products/:id", h.updateProductAmount)

	if staticDir != "" {
		r.Static("/static", staticDir)
		r.StaticFile("/", filepath.Join(staticDir, "index.html"))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	return r
}

func (h *Handler) getCart(c *gin.Context) {
	ctx, cancel := h.withTimeout(c)
	defer cancel()
	c.JSON(http.StatusOK, h.service.Cart(ctx))
}

func (h *Handler) addProduct(c *gin.Context) {
	id, err := httpx.ParseIDParam(c, "id")
	if err != nil {
		h.badRequest(c, err)
		return
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()
	h.respond(ctx, c, h.service.AddProduct(ctx, id))
}

func (h *Handler) removeProduct(c *gin.Context) {
	id, err := httpx.ParseIDParam(c, "id")
	if err != nil {
		h.badRequest(c, err)
		return
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()
	h.respond(ctx, c, h.service.RemoveProduct(ctx, id))
}

func (h *Handler) updateProductAmount(c *gin.Context) {
	id, err := httpx.ParseIDParam(c, "id")
	if err != nil {
		h.badRequest(c, err)
		return
	}
	amount, err := httpx.BindAmount(c)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()
	h.respond(ctx, c, h.service.UpdateProductAmount(ctx, id, amount))
}

// respond — успех: 200 и актуальная корзина; ошибка: статус по типу и текст уведомления.
func (h *Handler) respond(ctx context.Context, c *gin.Context, err error) {
	if err == nil {
		c.JSON(http.StatusOK, h.service.Cart(ctx))
		return
	}

	status := StatusFor(err)
	msg := msgInternal
	if notice, ok := domain.NoticeOf(err); ok {
		msg = notice.String()
	}
	if status >= http.StatusInternalServerError {
		h.log.Errorf(ctx, "%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": msg})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	h.log.Infof(c.Request.Context(), "bad request: %v", err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *Handler) withTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return c.Request.Context(), func() {}
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// StatusFor — HTTP-статус для ошибки операции корзины.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, httpx.ErrInvalidParam), errors.Is(err, domain.ErrInvalidCommand):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotInCart):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOutOfStock), errors.Is(err, domain.ErrStockUnavailable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInventoryLookup):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
