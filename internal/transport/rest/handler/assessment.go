package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"rspo-readiness/internal/model"
	"rspo-readiness/internal/service"
	"rspo-readiness/internal/transport/rest/middleware"
)

// AssessmentHandler handles the questionnaire endpoints of the logged-in user
type AssessmentHandler struct {
	svc *service.AssessmentService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(svc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{svc: svc}
}

// persistFailure is the 502 body: the state change happened, the record did not
type persistFailure struct {
	Error  string      `json:"error"`
	Result interface{} `json:"result"`
}

// Start handles POST /v1/assessment/start
// @Summary Start or resume the assessment
// @Tags assessment
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.AssessmentData
// @Router /assessment/start [post]
func (h *AssessmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, err := h.svc.Start(ctx, middleware.GetUserID(ctx), middleware.GetRole(ctx))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// Get handles GET /v1/assessment
// @Summary Assessment state with live stage scores
// @Tags assessment
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Progress
// @Router /assessment [get]
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	progress, err := h.svc.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// Stage handles GET /v1/assessment/stages/{stage}
// @Summary Visible questions of a stage
// @Tags assessment
// @Produce json
// @Security BearerAuth
// @Param stage path int true "Stage (1-3)"
// @Success 200 {object} model.StageView
// @Router /assessment/stages/{stage} [get]
func (h *AssessmentHandler) Stage(w http.ResponseWriter, r *http.Request) {
	stage, err := stageParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.svc.View(r.Context(), middleware.GetUserID(r.Context()), stage)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Answer handles PUT /v1/assessment/stages/{stage}/answers/{questionId}
// @Summary Answer one question
// @Tags assessment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param stage path int true "Stage (1-3)"
// @Param questionId path string true "Question id"
// @Param body body model.AnswerInput true "Selected option and sub-answers"
// @Success 200 {object} model.StageView
// @Router /assessment/stages/{stage}/answers/{questionId} [put]
func (h *AssessmentHandler) Answer(w http.ResponseWriter, r *http.Request) {
	stage, err := stageParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in model.AnswerInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in.QuestionID = mux.Vars(r)["questionId"]

	view, err := h.svc.Answer(r.Context(), middleware.GetUserID(r.Context()), stage, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetAnswers handles PUT /v1/assessment/stages/{stage}/answers
// @Summary Replace all answers of a stage
// @Tags assessment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param stage path int true "Stage (1-3)"
// @Param body body model.SetStageAnswersRequest true "Answers"
// @Success 200 {object} model.StageView
// @Router /assessment/stages/{stage}/answers [put]
func (h *AssessmentHandler) SetAnswers(w http.ResponseWriter, r *http.Request) {
	stage, err := stageParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req model.SetStageAnswersRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.svc.SetStageAnswers(r.Context(), middleware.GetUserID(r.Context()), stage, req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Complete handles POST /v1/assessment/stages/{stage}/complete
// @Summary Score a stage and unlock the next one when it passes
// @Tags assessment
// @Produce json
// @Security BearerAuth
// @Param stage path int true "Stage (1-3)"
// @Success 200 {object} model.StageResult
// @Failure 502 {object} persistFailure
// @Router /assessment/stages/{stage}/complete [post]
func (h *AssessmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	stage, err := stageParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.Complete(r.Context(), middleware.GetUserID(r.Context()), stage)
	if errors.Is(err, service.ErrPersistFailed) {
		writeJSON(w, http.StatusBadGateway, persistFailure{Error: service.ErrPersistFailed.Error(), Result: res})
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Save handles POST /v1/assessment/stages/{stage}/save
// @Summary Store the stage record again
// @Tags assessment
// @Produce json
// @Security BearerAuth
// @Param stage path int true "Stage (1-3)"
// @Success 200 {object} model.AssessmentRecord
// @Failure 409 {object} map[string]string
// @Failure 502 {object} persistFailure
// @Router /assessment/stages/{stage}/save [post]
func (h *AssessmentHandler) Save(w http.ResponseWriter, r *http.Request) {
	stage, err := stageParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	record, err := h.svc.SaveStage(r.Context(), middleware.GetUserID(r.Context()), stage)
	if errors.Is(err, service.ErrPersistFailed) {
		writeJSON(w, http.StatusBadGateway, persistFailure{Error: service.ErrPersistFailed.Error(), Result: record})
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Result handles GET /v1/assessment/result
// @Summary Overall result
// @Tags assessment
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.FinalResult
// @Router /assessment/result [get]
func (h *AssessmentHandler) Result(w http.ResponseWriter, r *http.Request) {
	final, err := h.svc.Final(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, final)
}

// Reset handles POST /v1/assessment/reset
// @Summary Discard all answers and start over
// @Tags assessment
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.AssessmentData
// @Failure 502 {object} persistFailure
// @Router /assessment/reset [post]
func (h *AssessmentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, err := h.svc.Reset(ctx, middleware.GetUserID(ctx), middleware.GetRole(ctx))
	if errors.Is(err, service.ErrPersistFailed) {
		writeJSON(w, http.StatusBadGateway, persistFailure{Error: service.ErrPersistFailed.Error(), Result: data})
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// History handles GET /v1/assessment/history
// @Summary Stored stage records
// @Tags assessment
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.AssessmentRecord
// @Router /assessment/history [get]
func (h *AssessmentHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.History(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
