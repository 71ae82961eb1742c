package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/vyapardesk/vyapardesk/backend/go-services/handlers"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/conversation"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/docs"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/enrich"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/risk"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/session"
)

// Minimal memory-backed runner for local frontend development and demos: no
// Redis, no Mongo, no chat model, mock document extraction. The full service
// lives at the repository root.
func main() {
	port := os.Getenv("WIZARD_PORT")
	if port == "" {
		port = "5012"
	}

	r := gin.New()
	r.Use(gin.Recovery())

	h := handlers.NewHandler(
		session.NewService(session.NewMemoryRepository()),
		conversation.NewOrchestrator(nil),
		enrich.NewGateway(enrich.Config{}, nil),
		docs.NewProcessor(nil),
		nil,
		risk.DefaultWeights(),
	)
	h.Register(r)
	handlers.RegisterSwagger(r)

	log.Printf("onboarding wizard (memory mode) listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
