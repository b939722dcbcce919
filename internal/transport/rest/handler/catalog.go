package handler

import (
	"net/http"

	"rspo-readiness/internal/assessment"
	"rspo-readiness/internal/catalog"
	"rspo-readiness/internal/model"
)

// CatalogHandler serves the static question catalog and tier tables
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

type catalogStage struct {
	Stage     model.Stage      `json:"stage"`
	Title     string           `json:"title"`
	Version   int              `json:"version"`
	Questions []model.Question `json:"questions"`
}

// Stage handles GET /v1/catalog/stages/{stage}?role=
// @Summary Catalog questions of a stage
// @Description With role, questions reserved for the other role are left out. Answer-dependent questions are always listed.
// @Tags catalog
// @Produce json
// @Param stage path int true "Stage (1-3)"
// @Param role query string false "petani or manajer"
// @Success 200 {object} catalogStage
// @Router /catalog/stages/{stage} [get]
func (h *CatalogHandler) Stage(w http.ResponseWriter, r *http.Request) {
	stage, err := stageParam(r)
	if err != nil || !stage.Valid() {
		writeError(w, http.StatusBadRequest, "invalid stage")
		return
	}
	def, ok := h.catalog.Stage(stage)
	if !ok {
		writeError(w, http.StatusNotFound, "stage not found")
		return
	}

	questions := def.Questions
	if raw := r.URL.Query().Get("role"); raw != "" {
		role := model.Role(raw)
		if !role.Valid() {
			writeError(w, http.StatusBadRequest, "invalid role")
			return
		}
		questions = make([]model.Question, 0, len(def.Questions))
		for _, q := range def.Questions {
			if q.RoleSpecific == "" || q.RoleSpecific == role {
				questions = append(questions, q)
			}
		}
	}

	writeJSON(w, http.StatusOK, catalogStage{
		Stage:     stage,
		Title:     def.Title,
		Version:   h.catalog.Version(),
		Questions: questions,
	})
}

// Tiers handles GET /v1/catalog/tiers
// @Summary Stage and overall tier tables
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string][]model.Tier
// @Router /catalog/tiers [get]
func (h *CatalogHandler) Tiers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]model.Tier{
		"stage":   assessment.StageTiers,
		"overall": assessment.OverallTiers,
	})
}
