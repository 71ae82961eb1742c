package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the
// onboarding service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>vyapardesk-onboarding — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the onboarding wizard endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "vyapardesk-onboarding", "version": "v0.1.0" },
  "paths": {
    "/api/v1/sessions": {
      "post": { "summary": "Start a new onboarding session", "responses": { "201": { "description": "session created" } } }
    },
    "/api/v1/sessions/{id}/progress": {
      "get": { "summary": "Get wizard progress", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "progress payload" }, "404": { "description": "unknown session" } } }
    },
    "/api/v1/sessions/{id}/messages": {
      "post": { "summary": "Send a chat message to the assistant", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"text":{"type":"string"}},"required":["text"]}}}}, "responses": { "200": { "description": "assistant reply with extracted fields" } } }
    },
    "/api/v1/sessions/{id}/documents": {
      "post": { "summary": "Upload a KYC document", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","properties":{"file":{"type":"string","format":"binary"},"category":{"type":"string","enum":["business_proof","identity_proof","bank_proof","address_proof"]}},"required":["file","category"]}}}}, "responses": { "200": { "description": "processed document with extracted fields" } } }
    },
    "/api/v1/sessions/{id}/record": {
      "patch": { "summary": "Edit record fields directly", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"fields":{"type":"object","additionalProperties":{"type":"string"}}},"required":["fields"]}}}}, "responses": { "200": { "description": "updated record" } } }
    },
    "/api/v1/sessions/{id}/enrich": {
      "post": { "summary": "Pre-fill fields from public registries", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"gstin":{"type":"string"},"pincode":{"type":"string"},"ifsc":{"type":"string"}}}}}}, "responses": { "200": { "description": "applied enrichment patch" } } }
    },
    "/api/v1/sessions/{id}/submit": {
      "post": { "summary": "Submit the application", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"accept_terms":{"type":"boolean"}}}}}}, "responses": { "200": { "description": "submission verdict with outstanding issues" } } }
    },
    "/api/v1/sessions/{id}/pause": {
      "post": { "summary": "Pause the attempt to finish later", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "session status" }, "404": { "description": "unknown session" } } }
    },
    "/api/v1/sessions/{id}/activity": {
      "post": { "summary": "Report behavioral counters for drop-off scoring", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"step_seconds":{"type":"integer"},"session_seconds":{"type":"integer"},"fields_completed":{"type":"integer"},"fields_required":{"type":"integer"},"validation_failures":{"type":"integer"},"help_requests":{"type":"integer"},"tab_hidden_events":{"type":"integer"},"field_revisits":{"type":"integer"}}}}}}, "responses": { "200": { "description": "risk score and optional intervention" } } }
    },
    "/api/v1/validate": {
      "post": { "summary": "Validate a single field value", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"field":{"type":"string"},"value":{"type":"string"}},"required":["field"]}}}}, "responses": { "200": { "description": "validation outcome" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
