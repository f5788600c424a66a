package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
	"github.com/gin-gonic/gin"
)

// InventoryServer — фейковый сервис склада (json-server из фронтенда).
type InventoryServer struct {
	*httptest.Server

	mu       sync.Mutex
	stock    map[int64]int
	products map[int64]domain.Product

	// Requests — число обработанных запросов (любой эндпоинт).
	Requests atomic.Int64
	// FailWith — если не 0, все ответы отдаются с этим кодом.
	FailWith atomic.Int32
}

func NewInventoryServer() *InventoryServer {
	gin.SetMode(gin.TestMode)

	s := &InventoryServer{
		stock:    make(map[int64]int),
		products: make(map[int64]domain.Product),
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		s.Requests.Add(1)
		if code := s.FailWith.Load(); code != 0 {
			c.AbortWithStatusJSON(int(code), gin.H{"error": "forced failure"})
			return
		}
		c.Next()
	})
	r.GET("/stock/:id", func(c *gin.Context) {
		id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		s.mu.Lock()
		amount, ok := s.stock[id]
		s.mu.Unlock()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{})
			return
		}
		c.JSON(http.StatusOK, domain.Stock{ID: id, Amount: amount})
	})
	r.GET("/products/:id", func(c *gin.Context) {
		id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		s.mu.Lock()
		p, ok := s.products[id]
		s.mu.Unlock()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "title": p.Title, "price": p.Price, "image": p.Image})
	})

	s.Server = httptest.NewServer(r)
	return s
}

// Put — завести товар с остатком; метаданные генерируются.
func (s *InventoryServer) Put(id int64, stock int) domain.Product {
	p := MakeProduct(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[id] = stock
	s.products[id] = p
	return p
}

// SetStock — поменять остаток.
func (s *InventoryServer) SetStock(id int64, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[id] = stock
}
