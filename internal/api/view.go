package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/mindmap/internal/models"
	"github.com/persistorai/mindmap/internal/service"
	"github.com/persistorai/mindmap/internal/state"
)

// ViewHandler turns renderer requests into view events.
type ViewHandler struct {
	session Session
	log     *logrus.Logger
}

// NewViewHandler creates a ViewHandler.
func NewViewHandler(session Session, log *logrus.Logger) *ViewHandler {
	return &ViewHandler{session: session, log: log}
}

type selectRequest struct {
	ID *int64 `json:"id" binding:"required"`
}

type keywordRequest struct {
	Text string `json:"text"`
}

type deleteRequest struct {
	Confirm bool `json:"confirm"`
}

// State handles GET /api/v1/state.
func (h *ViewHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.State())
}

// Select handles POST /api/v1/select. Clicking the selected node again
// deselects it; unknown ids leave the state unchanged.
func (h *ViewHandler) Select(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "id is required")
		return
	}
	if *req.ID <= 0 {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, models.ErrInvalidNodeID.Error())
		return
	}

	h.dispatch(c, state.NodeClicked{ID: models.NodeID(*req.ID)})
}

// SetKeyword handles PUT /api/v1/keyword, mirroring the input field.
func (h *ViewHandler) SetKeyword(c *gin.Context) {
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}
	if len(req.Text) > models.MaxKeywordLength {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError,
			models.ErrFieldTooLong("text", models.MaxKeywordLength).Error())
		return
	}

	h.dispatch(c, state.KeywordChanged{Text: req.Text})
}

// SubmitKeyword handles POST /api/v1/keyword. An empty body submits the
// keyword currently held in the view state.
func (h *ViewHandler) SubmitKeyword(c *gin.Context) {
	var req keywordRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
			return
		}
	}

	text := req.Text
	if text == "" {
		text = h.session.State().Keyword
	}

	err := models.ValidateKeyword(text)
	if err != nil && !errors.Is(err, models.ErrEmptyKeyword) {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	h.dispatch(c, state.KeywordSubmitted{Text: text})
}

// Export handles POST /api/v1/export for the selected node.
func (h *ViewHandler) Export(c *gin.Context) {
	h.dispatch(c, state.ExportRequested{})
}

// Delete handles POST /api/v1/delete for the selected node. The request
// must carry {"confirm": true}.
func (h *ViewHandler) Delete(c *gin.Context) {
	var req deleteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
			return
		}
	}

	h.dispatch(c, state.DeleteRequested{Confirmed: req.Confirm})
}

// Refresh handles POST /api/v1/refresh.
func (h *ViewHandler) Refresh(c *gin.Context) {
	h.dispatch(c, state.RefreshRequested{})
}

// dispatch applies evt and writes the resulting state: 202 when a command
// started, 200 otherwise.
func (h *ViewHandler) dispatch(c *gin.Context, evt state.Event) {
	s, started, err := h.session.Dispatch(c.Request.Context(), evt)
	if err != nil {
		if errors.Is(err, service.ErrStopped) {
			respondError(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "viewer is shutting down")
			return
		}

		h.log.WithError(err).Error("dispatching view event")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
		return
	}

	status := http.StatusOK
	if started {
		status = http.StatusAccepted
	}

	c.JSON(status, s)
}
