// ABOUTME: HTTP eval API over the answering engine
// ABOUTME: Endpoints mirror the production eval server: /eval, /health, /knowledge
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nattapong/healthqa/internal/core"
	"github.com/nattapong/healthqa/internal/models"
)

// Server exposes the answerer and knowledge cache over HTTP
type Server struct {
	answerer *core.Answerer
	cache    *core.CacheManager
	engine   *gin.Engine
}

// NewServer builds the router
func NewServer(answerer *core.Answerer, cache *core.CacheManager) *Server {
	s := &Server{
		answerer: answerer,
		cache:    cache,
		engine:   gin.Default(),
	}

	s.engine.GET("/health", s.health)
	s.engine.POST("/eval", s.eval)
	s.engine.GET("/knowledge/search", s.searchKnowledge)
	s.engine.GET("/knowledge/stats", s.knowledgeStats)

	return s
}

// Run serves until the listener fails
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Handler returns the underlying handler, used by tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

type evalRequest struct {
	ID       string `json:"id"`
	Question string `json:"question" binding:"required"`
}

type evalResponse struct {
	ID         string  `json:"id,omitempty"`
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) eval(c *gin.Context) {
	var req evalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	id := req.ID
	if id == "" {
		id = "adhoc"
	}
	q, err := models.NewQuestion(id, req.Question)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer := s.answerer.Answer(requestContext(c), q)
	if answer.Failed() {
		c.JSON(http.StatusBadGateway, gin.H{"id": req.ID, "error": answer.Error})
		return
	}

	c.JSON(http.StatusOK, evalResponse{
		ID:         req.ID,
		Answer:     answer.Text,
		Confidence: answer.Confidence,
	})
}

func (s *Server) searchKnowledge(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter is required"})
		return
	}

	facts := s.cache.SearchKnowledge(query, 0)
	c.JSON(http.StatusOK, gin.H{"query": query, "facts": facts})
}

func (s *Server) knowledgeStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.cache.Summary())
}

func requestContext(c *gin.Context) context.Context {
	return c.Request.Context()
}
