package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/validation"
)

type analysisStep struct {
	progress int
	message  string
}

var analysisSteps = []analysisStep{
	{20, "Fetching website data..."},
	{40, "Analyzing structure..."},
	{60, "Evaluating e-commerce features..."},
	{80, "Generating recommendations..."},
	{100, "Creating optimized design..."},
}

type analysisRun struct {
	job   model.AnalysisJob
	step  int
	timer *time.Timer
}

// AnalysisService runs simulated website analyses. Each job advances one step per delay
// and finishes with a static report. Finished and cancelled jobs are kept for the
// retention window, then dropped on the next Start.
type AnalysisService struct {
	delay     time.Duration
	retention time.Duration
	log       *zap.SugaredLogger
	now       func() time.Time

	mu     sync.Mutex
	jobs   map[string]*analysisRun
	closed bool
}

// NewAnalysisService creates an AnalysisService advancing one step every delay and
// keeping settled jobs for retention.
func NewAnalysisService(delay, retention time.Duration, log *zap.SugaredLogger) *AnalysisService {
	return &AnalysisService{
		delay:     delay,
		retention: retention,
		log:       log,
		now:       time.Now,
		jobs:      make(map[string]*analysisRun),
	}
}

// Start validates the URL and schedules a new job.
func (s *AnalysisService) Start(req request.AnalysisRequest) (model.AnalysisJob, error) {
	if err := validation.ValidateAnalysis(req); err != nil {
		return model.AnalysisJob{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	s.prune(now)

	run := &analysisRun{
		job: model.AnalysisJob{
			ID:        uuid.New().String(),
			URL:       req.URL,
			State:     model.AnalysisRunning,
			StartedAt: now,
			UpdatedAt: now,
		},
	}
	if s.closed {
		run.job.State = model.AnalysisCancelled
		return run.job, nil
	}
	s.jobs[run.job.ID] = run
	id := run.job.ID
	run.timer = time.AfterFunc(s.delay, func() { s.advance(id) })

	s.log.Infow("analysis started", "id", id, "url", req.URL)
	return run.job, nil
}

func (s *AnalysisService) advance(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.jobs[id]
	if !ok || run.job.State != model.AnalysisRunning {
		return
	}

	step := analysisSteps[run.step]
	run.step++
	run.job.Progress = step.progress
	run.job.Message = step.message
	run.job.UpdatedAt = s.now().UTC()

	if run.step == len(analysisSteps) {
		run.job.State = model.AnalysisDone
		result := mockAnalysisResult(run.job.URL)
		run.job.Result = &result
		s.log.Infow("analysis finished", "id", id, "score", result.Score)
		return
	}
	run.timer = time.AfterFunc(s.delay, func() { s.advance(id) })
}

// prune drops settled jobs whose last update is older than the retention window.
func (s *AnalysisService) prune(now time.Time) {
	cutoff := now.Add(-s.retention)
	for id, run := range s.jobs {
		if run.job.State != model.AnalysisRunning && run.job.UpdatedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
}

// Get returns a snapshot of the job.
func (s *AnalysisService) Get(id string) (model.AnalysisJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.jobs[id]
	if !ok {
		return model.AnalysisJob{}, apperrors.ErrAnalysisNotFound
	}
	return run.job, nil
}

// Cancel stops a running job at its current progress. Cancelling a cancelled job is a no-op.
func (s *AnalysisService) Cancel(id string) (model.AnalysisJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.jobs[id]
	if !ok {
		return model.AnalysisJob{}, apperrors.ErrAnalysisNotFound
	}
	switch run.job.State {
	case model.AnalysisDone:
		return run.job, apperrors.ErrAnalysisFinished
	case model.AnalysisRunning:
		s.cancel(run)
	}
	return run.job, nil
}

func (s *AnalysisService) cancel(run *analysisRun) {
	if run.timer != nil {
		run.timer.Stop()
	}
	run.job.State = model.AnalysisCancelled
	run.job.UpdatedAt = s.now().UTC()
}

// Close cancels every running job. Jobs started afterwards are cancelled immediately.
func (s *AnalysisService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for _, run := range s.jobs {
		if run.job.State == model.AnalysisRunning {
			s.cancel(run)
		}
	}
}

func mockAnalysisResult(url string) model.AnalysisResult {
	return model.AnalysisResult{
		URL:   url,
		Score: 85,
		EcommerceOptimization: model.EcommerceScores{
			CTA:          78,
			ProductPages: 92,
			Checkout:     67,
			Mobile:       89,
		},
		Recommendations: []string{
			"Implement sticky CTA buttons for better conversion",
			"Add trust badges near checkout button",
			"Optimize product images with zoom functionality",
			"Implement urgency indicators (stock levels, limited time)",
			"Add customer reviews section",
			"Improve mobile checkout flow",
			"Implement exit-intent popups",
			"Add abandoned cart recovery",
		},
		DesignSuggestions: []string{
			"Use dark theme with neon accents for modern appeal",
			"Implement gradient backgrounds for visual hierarchy",
			"Add micro-animations for better user engagement",
			"Use consistent spacing and typography",
			"Implement progressive disclosure for complex forms",
		},
	}
}
