package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/conversation"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/docs"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/enrich"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/merchant"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/risk"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/session"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/storage"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/validate"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/wizard"
	"github.com/vyapardesk/vyapardesk/backend/go-services/pkg/logger"
	"github.com/vyapardesk/vyapardesk/backend/go-services/pkg/metrics"
)

const (
	maxUploadBytes    = 10 << 20
	downloadURLExpiry = 15 * time.Minute
)

// Handler carries the wired services for the onboarding API. uploads may be
// nil (no archive configured); the orchestrator handles its own nil model.
type Handler struct {
	sessions    *session.Service
	orch        *conversation.Orchestrator
	gateway     *enrich.Gateway
	processor   *docs.Processor
	uploads     *storage.UploadStore
	riskWeights risk.Weights
}

func NewHandler(
	sessions *session.Service,
	orch *conversation.Orchestrator,
	gateway *enrich.Gateway,
	processor *docs.Processor,
	uploads *storage.UploadStore,
	riskWeights risk.Weights,
) *Handler {
	return &Handler{
		sessions:    sessions,
		orch:        orch,
		gateway:     gateway,
		processor:   processor,
		uploads:     uploads,
		riskWeights: riskWeights,
	}
}

// Register mounts the onboarding routes under /api/v1.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api/v1")
	api.POST("/sessions", h.createSession)
	api.GET("/sessions/:id/progress", h.getProgress)
	api.POST("/sessions/:id/messages", h.postMessage)
	api.POST("/sessions/:id/documents", h.uploadDocument)
	api.PATCH("/sessions/:id/record", h.patchRecord)
	api.POST("/sessions/:id/enrich", h.enrichRecord)
	api.POST("/sessions/:id/submit", h.submitApplication)
	api.POST("/sessions/:id/pause", h.pauseSession)
	api.POST("/sessions/:id/activity", h.reportActivity)
	api.POST("/validate", h.validateField)
}

func (h *Handler) createSession(c *gin.Context) {
	sess, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		logger.Errorf("create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}
	metrics.SessionsCreated.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID,
		"step":       sess.Step,
		"record":     sess.Record,
	})
}

func (h *Handler) getProgress(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, wizard.Report(sess.Step, &sess.Record, sess.Documents))
}

type messageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) postMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	res := h.orch.Respond(c.Request.Context(), sess.Step, &sess.Record, req.Text)

	applied := sess.Record.Apply(res.Patch, merchant.SourceAssistant)
	now := time.Now().UTC()
	sess.Conversation = append(sess.Conversation,
		session.Turn{Role: "user", Text: req.Text, At: now},
		session.Turn{Role: "assistant", Text: res.Reply, At: now},
	)
	h.advance(sess)
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		logger.Errorf("save session %s: %v", sess.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reply":   res.Reply,
		"actions": res.Actions,
		"intent":  res.Intent,
		"patch":   applied,
		"issues":  res.Issues,
		"step":    sess.Step,
	})
}

func (h *Handler) uploadDocument(c *gin.Context) {
	cat := docs.Category(c.PostForm("category"))
	if !docs.ValidCategory(cat) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown document category"})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}

	doc, err := h.processor.Process(c.Request.Context(), cat, fileHeader.Filename, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	metrics.DocumentsProcessed.WithLabelValues(string(cat), string(doc.Status)).Inc()

	var downloadURL string
	if h.uploads != nil {
		contentType := fileHeader.Header.Get("Content-Type")
		key, err := h.uploads.Archive(c.Request.Context(), sess.ID, doc.ID, contentType, data)
		if err != nil {
			logger.Warnf("archive upload %s/%s: %v", sess.ID, doc.ID, err)
		} else {
			doc.ObjectKey = key
			if u, err := h.uploads.PresignedURL(c.Request.Context(), key, downloadURLExpiry); err != nil {
				logger.Warnf("presign upload %s/%s: %v", sess.ID, doc.ID, err)
			} else {
				downloadURL = u
			}
		}
	}

	applied := sess.Record.Apply(docs.MapFields(cat, doc.Fields), merchant.SourceDocument)
	sess.Documents = append(sess.Documents, doc)
	h.advance(sess)
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		logger.Errorf("save session %s: %v", sess.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
		return
	}

	resp := gin.H{
		"document": doc,
		"patch":    applied,
		"step":     sess.Step,
	}
	if downloadURL != "" {
		resp["download_url"] = downloadURL
	}
	c.JSON(http.StatusOK, resp)
}

type recordPatchRequest struct {
	Fields merchant.Patch `json:"fields" binding:"required"`
}

func (h *Handler) patchRecord(c *gin.Context) {
	var req recordPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fields is required"})
		return
	}
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	valid, issues := validate.Patch(req.Fields)
	for _, issue := range issues {
		metrics.ValidationFailures.WithLabelValues(issue.Field).Inc()
	}
	applied := sess.Record.Apply(valid, merchant.SourceUser)
	h.advance(sess)
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		logger.Errorf("save session %s: %v", sess.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record":  sess.Record,
		"applied": applied,
		"issues":  issues,
		"step":    sess.Step,
	})
}

func (h *Handler) enrichRecord(c *gin.Context) {
	var q enrich.Query
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	// default to the record's own identifiers when the caller sends none
	if q.GSTIN == "" && q.Pincode == "" && q.IFSC == "" {
		q.GSTIN = sess.Record.GSTIN
		q.Pincode = sess.Record.Pincode
		q.IFSC = sess.Record.IFSC
	}

	patch := h.gateway.Lookup(c.Request.Context(), q)
	applied := sess.Record.Apply(patch, merchant.SourceEnrichment)
	h.advance(sess)
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		logger.Errorf("save session %s: %v", sess.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"patch":  applied,
		"record": sess.Record,
		"step":   sess.Step,
	})
}

type validateRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func (h *Handler) validateField(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field is required"})
		return
	}
	out := validate.Field(req.Field, req.Value)
	if !out.Valid {
		metrics.ValidationFailures.WithLabelValues(out.Field).Inc()
	}
	c.JSON(http.StatusOK, out)
}

type submitRequest struct {
	AcceptTerms bool `json:"accept_terms"`
}

func (h *Handler) submitApplication(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	step, issues, accepted := wizard.Submit(sess.Step, &sess.Record, req.AcceptTerms)
	if accepted {
		sess.Step = step
		sess.Status = session.StatusCompleted
		metrics.StepAdvances.WithLabelValues(string(step)).Inc()
		if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
			logger.Errorf("save session %s: %v", sess.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
			return
		}
	}
	for _, issue := range issues {
		metrics.ValidationFailures.WithLabelValues(issue.Field).Inc()
	}

	c.JSON(http.StatusOK, gin.H{
		"accepted": accepted,
		"issues":   issues,
		"step":     sess.Step,
	})
}

// pauseSession parks an attempt for later (the "save_and_exit" intervention
// action). Any subsequent mutation resumes it; submitted attempts stay
// completed.
func (h *Handler) pauseSession(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	if sess.Status == session.StatusInProgress {
		sess.Status = session.StatusPaused
		if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
			logger.Errorf("save session %s: %v", sess.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": sess.Status,
		"step":   sess.Step,
	})
}

func (h *Handler) reportActivity(c *gin.Context) {
	var counters risk.Counters
	if err := c.ShouldBindJSON(&counters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		logger.Warnf("touch session %s: %v", sess.ID, err)
	}

	score := risk.Score(counters, h.riskWeights)
	c.JSON(http.StatusOK, gin.H{
		"risk_score":   score,
		"intervention": risk.Assess(score, h.riskWeights),
	})
}

// loadSession resolves the :id path parameter, writing the error response
// itself when the session cannot be loaded.
func (h *Handler) loadSession(c *gin.Context) (*session.Session, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
		return nil, false
	}
	sess, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		} else {
			logger.Errorf("load session %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load session"})
		}
		return nil, false
	}
	return sess, true
}

// advance runs the step gates after a mutation and records the transition.
// A mutation on a paused session resumes it.
func (h *Handler) advance(sess *session.Session) {
	if sess.Status == session.StatusPaused {
		sess.Status = session.StatusInProgress
	}
	next := wizard.Advance(sess.Step, &sess.Record, sess.Documents)
	if next != sess.Step {
		sess.Step = next
		metrics.StepAdvances.WithLabelValues(string(next)).Inc()
	}
}
