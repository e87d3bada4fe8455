package api

import (
	"net/http"

	"github.com/okian/scholar/internal/domain/model"
)

// PreprocessHandler handles preprocessing requests.
type PreprocessHandler struct {
	deps Dependencies
}

// NewPreprocessHandler creates a new preprocess handler.
func NewPreprocessHandler(deps Dependencies) *PreprocessHandler {
	return &PreprocessHandler{deps: deps}
}

type featuresResponse struct {
	PerformanceIndex *float64 `json:"performance_index_normalized"`
	PreviousScores   *float64 `json:"previous_scores_normalized"`
	IncomeNeed       *float64 `json:"income_need_score"`
	ParentEducation  *float64 `json:"parent_education_score"`
	Attendance       *float64 `json:"attendance_percentage_normalized"`
	Extracurricular  *float64 `json:"extracurricular_score"`
	PracticePapers   *float64 `json:"practice_papers_normalized"`
}

type auxiliaryResponse struct {
	HoursStudied        *float64 `json:"hours_studied_normalized"`
	SleepHours          *float64 `json:"sleep_hours_normalized"`
	PreviousScholarship *float64 `json:"previous_scholarship_score"`
}

type preprocessedApplicant struct {
	ID        string            `json:"id,omitempty"`
	Features  featuresResponse  `json:"features"`
	Auxiliary auxiliaryResponse `json:"auxiliary"`
}

type preprocessResponse struct {
	Columns    []string                `json:"columns"`
	Applicants []preprocessedApplicant `json:"applicants"`
}

// HandlePreprocess handles POST /v1/preprocess.
func (h *PreprocessHandler) HandlePreprocess(w http.ResponseWriter, r *http.Request) {
	var req preprocessRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	apps, _, _, err := applicants(req.Applicants)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tbl, err := h.deps.Preprocess(r.Context(), apps)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := preprocessResponse{
		Columns:    []string{},
		Applicants: make([]preprocessedApplicant, len(tbl.Applicants)),
	}
	for _, f := range model.AllFeatures() {
		if tbl.Columns.Has(f) {
			resp.Columns = append(resp.Columns, f.String())
		}
	}
	for i, a := range tbl.Applicants {
		resp.Applicants[i] = preprocessedApplicant{
			ID: a.ID,
			Features: featuresResponse{
				PerformanceIndex: nullable(a.Features.PerformanceIndex),
				PreviousScores:   nullable(a.Features.PreviousScores),
				IncomeNeed:       nullable(a.Features.IncomeNeed),
				ParentEducation:  nullable(a.Features.ParentEducation),
				Attendance:       nullable(a.Features.Attendance),
				Extracurricular:  nullable(a.Features.Extracurricular),
				PracticePapers:   nullable(a.Features.PracticePapers),
			},
			Auxiliary: auxiliaryResponse{
				HoursStudied:        nullable(a.Auxiliary.HoursStudied),
				SleepHours:          nullable(a.Auxiliary.SleepHours),
				PreviousScholarship: nullable(a.Auxiliary.PreviousScholarship),
			},
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
