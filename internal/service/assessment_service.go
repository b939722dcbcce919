package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"rspo-readiness/internal/assessment"
	"rspo-readiness/internal/cache"
	"rspo-readiness/internal/catalog"
	"rspo-readiness/internal/model"
	"rspo-readiness/internal/repository"
)

var (
	ErrNotFound      = errors.New("assessment not started")
	ErrPersistFailed = errors.New("failed to persist assessment result")
)

// AssessmentService runs the questionnaire for authenticated users.
// In-progress state lives in the progress cache; completed stages are
// written to the result repository.
type AssessmentService struct {
	catalog     *catalog.Catalog
	progress    cache.ProgressCache
	results     repository.ResultRepo
	policy      assessment.Policy
	broadcaster Broadcaster
	now         func() time.Time
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(
	cat *catalog.Catalog,
	progress cache.ProgressCache,
	results repository.ResultRepo,
	policy assessment.Policy,
) *AssessmentService {
	return &AssessmentService{
		catalog:  cat,
		progress: progress,
		results:  results,
		policy:   policy,
		now:      time.Now,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *AssessmentService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Catalog returns the question catalog in use
func (s *AssessmentService) Catalog() *catalog.Catalog {
	return s.catalog
}

// Start returns the user's assessment, creating it at stage 1 if needed
func (s *AssessmentService) Start(ctx context.Context, userID string, role model.Role) (*model.AssessmentData, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidInput, role)
	}
	data, err := s.progress.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if data != nil {
		return data, nil
	}

	data = model.NewAssessmentData(userID, role, s.now().UTC())
	if err := s.progress.Set(ctx, data); err != nil {
		return nil, err
	}
	log.Printf("Assessment started: user=%s role=%s", userID, role)
	return data, nil
}

// Get returns the stored state with a live score of each stage
func (s *AssessmentService) Get(ctx context.Context, userID string) (*model.Progress, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &model.Progress{Assessment: session.Data()}
	for _, stage := range model.Stages {
		res, _ := session.Result(stage)
		out.Stages = append(out.Stages, res)
	}
	return out, nil
}

// View renders one stage
func (s *AssessmentService) View(ctx context.Context, userID string, stage model.Stage) (*model.StageView, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return session.View(stage)
}

// Answer records one answer and pushes the new stage view to the user
func (s *AssessmentService) Answer(ctx context.Context, userID string, stage model.Stage, in model.AnswerInput) (*model.StageView, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	view, err := session.Answer(stage, in)
	if err != nil {
		return nil, err
	}
	if err := s.progress.Set(ctx, session.Data()); err != nil {
		return nil, err
	}
	s.broadcast(userID, EventProgressUpdate, view)
	return view, nil
}

// SetStageAnswers replaces every answer of a stage
func (s *AssessmentService) SetStageAnswers(ctx context.Context, userID string, stage model.Stage, inputs []model.AnswerInput) (*model.StageView, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	view, err := session.SetStageAnswers(stage, inputs)
	if err != nil {
		return nil, err
	}
	if err := s.progress.Set(ctx, session.Data()); err != nil {
		return nil, err
	}
	s.broadcast(userID, EventProgressUpdate, view)
	return view, nil
}

// Complete scores a stage, advances the user when it passes and stores the
// stage record. When only the record write fails the result is still
// returned together with ErrPersistFailed.
func (s *AssessmentService) Complete(ctx context.Context, userID string, stage model.Stage) (model.StageResult, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return model.StageResult{}, err
	}
	res, err := session.CompleteStage(stage)
	if err != nil {
		return model.StageResult{}, err
	}
	if err := s.progress.Set(ctx, session.Data()); err != nil {
		return model.StageResult{}, err
	}
	s.broadcast(userID, EventStageCompleted, res)

	if _, err := s.persist(ctx, session, stage); err != nil {
		return res, err
	}
	return res, nil
}

// SaveStage writes the record of a completed stage again, for retrying a
// failed save
func (s *AssessmentService) SaveStage(ctx context.Context, userID string, stage model.Stage) (*model.AssessmentRecord, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !stage.Valid() {
		return nil, assessment.ErrInvalidStage
	}
	if !session.Data().Unlocked(stage) {
		return nil, fmt.Errorf("%w: %s", assessment.ErrStageLocked, stage)
	}
	if !session.Data().HasCompleted(stage) {
		return nil, fmt.Errorf("%w: %s", assessment.ErrStageNotCompleted, stage)
	}
	return s.persist(ctx, session, stage)
}

// Final aggregates every stage
func (s *AssessmentService) Final(ctx context.Context, userID string) (*model.FinalResult, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	final := session.Final()
	return &final, nil
}

// Reset discards the user's answers and stored records and starts over at
// stage 1. When only the record deletion fails the fresh state is still
// returned together with ErrPersistFailed.
func (s *AssessmentService) Reset(ctx context.Context, userID string, role model.Role) (*model.AssessmentData, error) {
	session, err := s.load(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return s.Start(ctx, userID, role)
	}
	if err != nil {
		return nil, err
	}
	session.Reset()
	if err := s.progress.Set(ctx, session.Data()); err != nil {
		return nil, err
	}
	s.broadcast(userID, EventAssessmentReset, session.Data())
	if err := s.results.DeleteByUser(ctx, userID); err != nil {
		log.Printf("Failed to delete records of user %s: %v", userID, err)
		return session.Data(), fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return session.Data(), nil
}

// History returns the stored stage records of the user
func (s *AssessmentService) History(ctx context.Context, userID string) ([]*model.AssessmentRecord, error) {
	return s.results.GetByUser(ctx, userID)
}

func (s *AssessmentService) load(ctx context.Context, userID string) (*assessment.Session, error) {
	data, err := s.progress.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNotFound
	}
	return assessment.NewSession(data, s.catalog, s.policy).WithClock(s.now), nil
}

func (s *AssessmentService) persist(ctx context.Context, session *assessment.Session, stage model.Stage) (*model.AssessmentRecord, error) {
	record, err := session.Record(stage)
	if err != nil {
		return nil, err
	}
	if err := s.results.Save(ctx, record); err != nil {
		log.Printf("Failed to save stage %s record for user %s: %v", stage, record.UserID, err)
		return record, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return record, nil
}

func (s *AssessmentService) broadcast(userID, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToUser(userID, msgType, payload)
	}
}
