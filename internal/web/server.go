package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"StockSentry/internal/store"
	"StockSentry/internal/strategy"
)

// Server exposes the dashboard API over HTTP. All endpoints delegate directly
// to the strategy manager; there is no auth layer.
type Server struct {
	router  *gin.Engine
	manager *strategy.Manager
	store   store.Store
}

// NewServer wires the routes around the manager and store.
func NewServer(mgr *strategy.Manager, st store.Store) *Server {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())

	s := &Server{router: r, manager: mgr, store: st}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/", s.index)
	s.router.GET("/healthz", s.health)

	api := s.router.Group("/api")
	{
		api.GET("/stats", s.getStats)
		api.GET("/strategies", s.getStrategies)
		api.GET("/notifications", s.getNotifications)
		api.POST("/trigger-check", s.triggerCheck)
	}
}

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router for embedding in other HTTP servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getStats(c *gin.Context) {
	status, err := s.manager.StatusSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":        status.Summary.Total,
		"active":       status.Summary.Active,
		"triggered":    status.Summary.Triggered,
		"symbols":      len(status.BySymbol),
		"last_updated": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) getStrategies(c *gin.Context) {
	strategies, err := s.manager.StrategiesWithCurrentPrices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, strategies)
}

func (s *Server) getNotifications(c *gin.Context) {
	notifications, err := s.store.RecentNotifications(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (s *Server) triggerCheck(c *gin.Context) {
	events, err := s.manager.EvaluateTriggers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	names := make([]string, 0, len(events))
	for _, ev := range events {
		names = append(names, ev.Strategy.Name)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"triggered_count":      len(events),
		"triggered_strategies": names,
		"timestamp":            time.Now().Format(time.RFC3339),
	})
}
