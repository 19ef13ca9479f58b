package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"concierge/pkg/agent"
	"concierge/pkg/config"
	"concierge/pkg/plugins"
)

// Server is the web channel of the gateway: the JSON chat API, the
// capability listing, health, the websocket endpoint, and the optional
// static frontend.
type Server struct {
	engine     *agent.Engine
	registry   *plugins.Registry
	httpServer *http.Server
}

type chatRequest struct {
	Message  string `json:"message" binding:"required"`
	Username string `json:"username"`
}

type chatResponse struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

// capabilityGroup is the static catalog entry shown to frontends. Grouped
// by plugin family rather than individual functions.
type capabilityGroup struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

var capabilityGroups = []capabilityGroup{
	{Name: "Weather", Icon: "🌤️", Description: "Live weather data for any city worldwide"},
	{Name: "Currency", Icon: "💱", Description: "Real-time exchange rates"},
	{Name: "World Time", Icon: "🕐", Description: "Current time in major cities"},
	{Name: "Quotes", Icon: "💭", Description: "Inspirational quotes by category"},
	{Name: "Jokes", Icon: "😄", Description: "Random jokes and programming humor"},
	{Name: "Wikipedia", Icon: "📚", Description: "Quick facts about any topic"},
	{Name: "Finance", Icon: "💰", Description: "Loans, investments, tips, bill splitting"},
	{Name: "Tasks", Icon: "📋", Description: "Manage your todo list"},
}

// New builds the web server around the shared dispatch engine.
func New(engine *agent.Engine, registry *plugins.Registry, sysCfg *config.SystemConfig) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:   engine,
		registry: registry,
	}

	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())

	api := g.Group("/api")
	api.POST("/chat", s.handleChat)
	api.GET("/health", s.handleHealth)
	api.GET("/capabilities", s.handleCapabilities)

	g.GET("/ws", s.handleWebSocket)

	if dir := frontendDir(); dir != "" {
		g.Static("/static", dir)
		g.GET("/", func(c *gin.Context) {
			c.File(filepath.Join(dir, "index.html"))
		})
	}

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", sysCfg.HTTPPort),
		Handler:     g,
		ReadTimeout: 30 * time.Second,
	}
	return s
}

// Start blocks serving HTTP until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	slog.Info("Web channel listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	username := req.Username
	if username == "" {
		username = "web-user"
	}

	reply, err := s.engine.Respond(c.Request.Context(), "web", username, req.Message)
	if err != nil {
		slog.Error("Chat request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		Response:  reply,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleCapabilities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"capabilities": capabilityGroups,
		"functions":    s.registry.Descriptors(),
	})
}

// frontendDir returns the static frontend directory when present.
func frontendDir() string {
	dir := "frontend"
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}
