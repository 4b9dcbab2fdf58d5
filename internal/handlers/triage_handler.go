package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neurocare/triage-service/internal/services"
	"github.com/neurocare/triage-service/internal/utils"
)

type TriageHandler struct {
	BaseHandler
	triageService services.TriageService
}

func NewTriageHandler(triageService services.TriageService, logger utils.Logger) *TriageHandler {
	return &TriageHandler{
		BaseHandler:   NewBaseHandler(logger),
		triageService: triageService,
	}
}

// StartSession starts a new triage session
// @Summary Start triage session
// @Description Starts a new questionnaire run and returns the first question
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body services.StartSessionRequest true "Session data"
// @Success 201 {object} services.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions [post]
func (h *TriageHandler) StartSession(c *gin.Context) {
	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Starting triage session", "patient_ref", req.PatientRef)

	resp, err := h.triageService.Start(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetSession returns the current state of a session
// @Summary Get triage session
// @Description Returns the active question or the final result for a session
// @Tags sessions
// @Produce json
// @Param token path string true "Session token"
// @Success 200 {object} services.SessionResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{token} [get]
func (h *TriageHandler) GetSession(c *gin.Context) {
	token := ParseStringIDParam(c, "token")
	if token == "" {
		return
	}

	resp, err := h.triageService.Get(c.Request.Context(), token)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AnswerQuestion records an answer and advances the session
// @Summary Answer question
// @Description Records a value for the active question and returns the next question or the result
// @Tags sessions
// @Accept json
// @Produce json
// @Param token path string true "Session token"
// @Param answer body services.AnswerRequest true "Answer data"
// @Success 200 {object} services.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{token}/answer [post]
func (h *TriageHandler) AnswerQuestion(c *gin.Context) {
	token := ParseStringIDParam(c, "token")
	if token == "" {
		return
	}

	var req services.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Answering question", "question_id", req.QuestionID)

	resp, err := h.triageService.Answer(c.Request.Context(), token, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ToggleOption toggles a multi-select value without advancing
// @Summary Toggle multi-select option
// @Description Adds or removes one value on the active multi-select question
// @Tags sessions
// @Accept json
// @Produce json
// @Param token path string true "Session token"
// @Param toggle body services.ToggleRequest true "Toggle data"
// @Success 200 {object} services.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Router /sessions/{token}/toggle [post]
func (h *TriageHandler) ToggleOption(c *gin.Context) {
	token := ParseStringIDParam(c, "token")
	if token == "" {
		return
	}

	var req services.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.triageService.Toggle(c.Request.Context(), token, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ContinueSession advances past the active multi-select question
// @Summary Continue session
// @Description Advances past the active multi-select question with the values toggled so far
// @Tags sessions
// @Produce json
// @Param token path string true "Session token"
// @Success 200 {object} services.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Router /sessions/{token}/continue [post]
func (h *TriageHandler) ContinueSession(c *gin.Context) {
	token := ParseStringIDParam(c, "token")
	if token == "" {
		return
	}

	resp, err := h.triageService.Continue(c.Request.Context(), token)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GoBack returns to the previous question
// @Summary Go back
// @Description Returns to the previous question, discarding the answer being left
// @Tags sessions
// @Produce json
// @Param token path string true "Session token"
// @Success 200 {object} services.SessionResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{token}/back [post]
func (h *TriageHandler) GoBack(c *gin.Context) {
	token := ParseStringIDParam(c, "token")
	if token == "" {
		return
	}

	resp, err := h.triageService.Back(c.Request.Context(), token)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AbandonSession abandons an in-flight session
// @Summary Abandon session
// @Description Marks the session abandoned and evicts its cached state
// @Tags sessions
// @Produce json
// @Param token path string true "Session token"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{token} [delete]
func (h *TriageHandler) AbandonSession(c *gin.Context) {
	token := ParseStringIDParam(c, "token")
	if token == "" {
		return
	}

	h.LogRequest(c, "Abandoning triage session", "session_token", token)

	if err := h.triageService.Abandon(c.Request.Context(), token); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Session abandoned",
	})
}
