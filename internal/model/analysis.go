package model

import "time"

// AnalysisState is the lifecycle of a simulated analysis job.
type AnalysisState string

const (
	AnalysisIdle      AnalysisState = "idle"
	AnalysisRunning   AnalysisState = "running"
	AnalysisDone      AnalysisState = "done"
	AnalysisCancelled AnalysisState = "cancelled"
)

// AnalysisJob is a snapshot of a job's progress.
type AnalysisJob struct {
	ID        string          `json:"id"`
	URL       string          `json:"url"`
	State     AnalysisState   `json:"state"`
	Progress  int             `json:"progress"`
	Message   string          `json:"message,omitempty"`
	Result    *AnalysisResult `json:"result,omitempty"`
	StartedAt time.Time       `json:"startedAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// EcommerceScores are the per-area optimisation scores of an analysis.
type EcommerceScores struct {
	CTA          int `json:"cta"`
	ProductPages int `json:"productPages"`
	Checkout     int `json:"checkout"`
	Mobile       int `json:"mobile"`
}

// AnalysisResult is the static report produced when a job finishes.
type AnalysisResult struct {
	URL                   string          `json:"url"`
	Score                 int             `json:"score"`
	EcommerceOptimization EcommerceScores `json:"ecommerceOptimization"`
	Recommendations       []string        `json:"recommendations"`
	DesignSuggestions     []string        `json:"designSuggestions"`
}
