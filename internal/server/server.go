// Package server exposes the engine over HTTP.
package server

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShayCichocki/deepthink/internal/learning"
	"github.com/ShayCichocki/deepthink/pkg/models"
)

// Runner executes one pipeline run per request.
type Runner interface {
	Run(ctx context.Context, req *models.ThinkRequest) (*models.ThinkResponse, error)
}

// Server routes HTTP requests to the engine and the run store.
type Server struct {
	engine Runner
	store  *learning.Store
	router *gin.Engine
}

// New builds the HTTP server. The store may be nil; run lookups then
// return 404.
func New(eng Runner, store *learning.Store) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine: eng,
		store:  store,
		router: gin.New(),
	}
	s.router.Use(gin.Logger(), gin.Recovery())

	s.router.POST("/think", s.handleThink)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/runs/:id", s.handleGetRun)

	return s
}

// Run blocks serving HTTP on the given address.
func (s *Server) Run(addr string) error {
	log.Printf("[server] listening on %s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleThink(c *gin.Context) {
	var req models.ThinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	resp, err := s.engine.Run(c.Request.Context(), &req)
	if err != nil {
		log.Printf("[server] think failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run storage disabled"})
		return
	}

	rec, err := s.store.Get(c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		log.Printf("[server] run lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "run lookup failed"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
