package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"verdict/contexts/judging/certification-service/domain/entities"
	domainerrors "verdict/contexts/judging/certification-service/domain/errors"
	"verdict/contexts/judging/certification-service/domain/services"
	"verdict/contexts/judging/certification-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

type categoryRole struct {
	categoryID string
	role       entities.Role
}

type categoryJudge struct {
	categoryID string
	judgeID    string
}

type scoreIdentity struct {
	judgeID      string
	contestantID string
	criterionID  string
}

// Store is the in-memory adapter used by tests and local runs. Each method
// holds the lock for its whole duration, which gives every multi-step write
// the same all-or-nothing behaviour as the postgres transactions.
type Store struct {
	mu sync.RWMutex

	events     map[string]entities.Event
	contests   map[string]entities.Contest
	categories map[string]entities.Category
	criteria   map[string][]entities.Criterion
	judges     map[string]entities.Judge

	scores     []entities.Score
	deductions []entities.OverallDeduction

	certifications      []entities.CategoryCertification
	certificationByRole map[categoryRole]int
	judgeCertifications []entities.JudgeCertification
	judgeCertified      map[categoryJudge]struct{}
	workflows           map[string]entities.CategoryWorkflow

	requests     map[string]entities.QuorumRequest
	requestOrder []string

	outbox      []outboxRecord
	outboxIndex map[string]int
}

func NewStore() *Store {
	return &Store{
		events:              make(map[string]entities.Event),
		contests:            make(map[string]entities.Contest),
		categories:          make(map[string]entities.Category),
		criteria:            make(map[string][]entities.Criterion),
		judges:              make(map[string]entities.Judge),
		certificationByRole: make(map[categoryRole]int),
		judgeCertified:      make(map[categoryJudge]struct{}),
		workflows:           make(map[string]entities.CategoryWorkflow),
		requests:            make(map[string]entities.QuorumRequest),
		outboxIndex:         make(map[string]int),
	}
}

func (s *Store) SetEvent(event entities.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[strings.TrimSpace(event.EventID)] = event
}

func (s *Store) SetContest(contest entities.Contest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contests[strings.TrimSpace(contest.ContestID)] = contest
}

func (s *Store) SetCategory(category entities.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[strings.TrimSpace(category.CategoryID)] = category
}

func (s *Store) SetCriterion(criterion entities.Criterion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	categoryID := strings.TrimSpace(criterion.CategoryID)
	items := s.criteria[categoryID]
	for i := range items {
		if items[i].CriterionID == criterion.CriterionID {
			items[i] = criterion
			return
		}
	}
	s.criteria[categoryID] = append(items, criterion)
}

func (s *Store) SetJudge(judge entities.Judge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.judges[strings.TrimSpace(judge.JudgeID)] = judge
}

func (s *Store) GetEvent(_ context.Context, eventID string) (entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[strings.TrimSpace(eventID)]
	if !ok {
		return entities.Event{}, domainerrors.ErrEventNotFound
	}
	return event, nil
}

func (s *Store) GetContest(_ context.Context, contestID string) (entities.Contest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contest, ok := s.contests[strings.TrimSpace(contestID)]
	if !ok {
		return entities.Contest{}, domainerrors.ErrContestNotFound
	}
	return contest, nil
}

func (s *Store) ListContestsByEvent(_ context.Context, eventID string) ([]entities.Contest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Contest, 0)
	for _, contest := range s.contests {
		if contest.EventID == strings.TrimSpace(eventID) {
			items = append(items, contest)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ContestID < items[j].ContestID
	})
	return items, nil
}

func (s *Store) GetCategory(_ context.Context, categoryID string) (entities.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	category, ok := s.categories[strings.TrimSpace(categoryID)]
	if !ok {
		return entities.Category{}, domainerrors.ErrCategoryNotFound
	}
	return category, nil
}

func (s *Store) ListCategoriesByContest(_ context.Context, contestID string) ([]entities.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Category, 0)
	for _, category := range s.categories {
		if category.ContestID == strings.TrimSpace(contestID) {
			items = append(items, category)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CategoryID < items[j].CategoryID
	})
	return items, nil
}

func (s *Store) ListCriteria(_ context.Context, categoryID string) ([]entities.Criterion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := append([]entities.Criterion(nil), s.criteria[strings.TrimSpace(categoryID)]...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SortOrder < items[j].SortOrder
	})
	return items, nil
}

func (s *Store) GetJudge(_ context.Context, judgeID string) (entities.Judge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	judge, ok := s.judges[strings.TrimSpace(judgeID)]
	if !ok {
		return entities.Judge{}, domainerrors.ErrJudgeNotFound
	}
	return judge, nil
}

func (s *Store) ListScores(_ context.Context, categoryID string) ([]entities.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Score, 0)
	for _, score := range s.scores {
		if score.CategoryID == strings.TrimSpace(categoryID) {
			items = append(items, cloneScore(score))
		}
	}
	return items, nil
}

func (s *Store) ListDeductions(_ context.Context, categoryID string) ([]entities.OverallDeduction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.OverallDeduction, 0)
	for _, deduction := range s.deductions {
		if deduction.CategoryID == strings.TrimSpace(categoryID) {
			items = append(items, deduction)
		}
	}
	return items, nil
}

func (s *Store) CreateScore(_ context.Context, score entities.Score, events []ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity := scoreIdentity{judgeID: score.JudgeID, contestantID: score.ContestantID, criterionID: score.CriterionID}
	for _, existing := range s.scores {
		if (scoreIdentity{judgeID: existing.JudgeID, contestantID: existing.ContestantID, criterionID: existing.CriterionID}) == identity {
			return domainerrors.ErrDuplicateScore
		}
	}
	if err := s.appendOutboxLocked(events); err != nil {
		return err
	}
	s.scores = append(s.scores, cloneScore(score))
	return nil
}

func (s *Store) CreateDeduction(_ context.Context, deduction entities.OverallDeduction, events []ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.appendOutboxLocked(events); err != nil {
		return err
	}
	s.deductions = append(s.deductions, deduction)
	return nil
}

func (s *Store) InsertCategoryCertification(
	_ context.Context,
	write ports.CertificationWrite,
) (entities.CategoryCertification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	certification := write.Certification
	key := categoryRole{categoryID: certification.CategoryID, role: certification.Role}
	if index, exists := s.certificationByRole[key]; exists {
		existing := s.certifications[index]
		return entities.CategoryCertification{}, &domainerrors.CertificationConflictError{
			CategoryID:     existing.CategoryID,
			Role:           string(existing.Role),
			ExistingUserID: existing.UserID,
			CertifiedAt:    existing.CertifiedAt,
		}
	}
	if err := s.appendOutboxLocked(write.Events); err != nil {
		return entities.CategoryCertification{}, err
	}

	if workflow, ok := s.workflows[certification.CategoryID]; ok && write.Advance != nil {
		s.workflows[certification.CategoryID] = write.Advance(workflow)
	}
	if write.MarkTallyTotals {
		if category, ok := s.categories[certification.CategoryID]; ok {
			category.TallyTotalsCertified = true
			category.UpdatedAt = certification.CertifiedAt
			s.categories[certification.CategoryID] = category
		}
	}
	s.certifications = append(s.certifications, certification)
	s.certificationByRole[key] = len(s.certifications) - 1
	return certification, nil
}

func (s *Store) ListCategoryCertifications(_ context.Context, categoryID string) ([]entities.CategoryCertification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.CategoryCertification, 0)
	for _, certification := range s.certifications {
		if certification.CategoryID == strings.TrimSpace(categoryID) {
			items = append(items, certification)
		}
	}
	return items, nil
}

func (s *Store) InsertJudgeCertification(
	_ context.Context,
	write ports.JudgeCertificationWrite,
) (entities.JudgeCertification, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	certification := write.Certification
	key := categoryJudge{categoryID: certification.CategoryID, judgeID: certification.JudgeID}
	if _, exists := s.judgeCertified[key]; exists {
		return entities.JudgeCertification{}, 0, domainerrors.ErrJudgeAlreadyCertified
	}
	if err := s.appendOutboxLocked(write.Events); err != nil {
		return entities.JudgeCertification{}, 0, err
	}

	affected := 0
	certifiedAt := certification.CertifiedAt.UTC()
	for i := range s.scores {
		score := &s.scores[i]
		if score.CategoryID != certification.CategoryID || score.JudgeID != certification.JudgeID || score.IsCertified {
			continue
		}
		score.IsCertified = true
		score.CertifiedBy = certification.UserID
		score.CertifiedAt = &certifiedAt
		affected++
	}
	if write.Workflow != nil {
		existing, found := s.workflows[certification.CategoryID]
		s.workflows[certification.CategoryID] = write.Workflow(existing, found)
	}
	s.judgeCertifications = append(s.judgeCertifications, certification)
	s.judgeCertified[key] = struct{}{}
	return certification, affected, nil
}

func (s *Store) ListJudgeCertifications(_ context.Context, categoryID string) ([]entities.JudgeCertification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.JudgeCertification, 0)
	for _, certification := range s.judgeCertifications {
		if certification.CategoryID == strings.TrimSpace(categoryID) {
			items = append(items, certification)
		}
	}
	return items, nil
}

func (s *Store) GetWorkflow(_ context.Context, categoryID string) (entities.CategoryWorkflow, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	workflow, ok := s.workflows[strings.TrimSpace(categoryID)]
	return workflow, ok, nil
}

func (s *Store) CreateRequest(_ context.Context, request entities.QuorumRequest, events []ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[request.RequestID]; exists {
		return domainerrors.ErrConflict
	}
	if err := s.appendOutboxLocked(events); err != nil {
		return err
	}
	s.requests[request.RequestID] = cloneRequest(request)
	s.requestOrder = append(s.requestOrder, request.RequestID)
	return nil
}

func (s *Store) GetRequest(_ context.Context, requestID string) (entities.QuorumRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	request, ok := s.requests[strings.TrimSpace(requestID)]
	if !ok {
		return entities.QuorumRequest{}, domainerrors.ErrRequestNotFound
	}
	return cloneRequest(request), nil
}

func (s *Store) ListRequests(_ context.Context, filter entities.RequestFilter) ([]entities.QuorumRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.QuorumRequest, 0)
	for _, requestID := range s.requestOrder {
		request := s.requests[requestID]
		if filter.Matches(request) {
			items = append(items, cloneRequest(request))
		}
	}
	return items, nil
}

func (s *Store) UpdateRequest(
	_ context.Context,
	requestID string,
	mutate ports.RequestMutation,
) (entities.QuorumRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.requests[strings.TrimSpace(requestID)]
	if !ok {
		return entities.QuorumRequest{}, domainerrors.ErrRequestNotFound
	}
	next, events, err := mutate(cloneRequest(current))
	if err != nil {
		return entities.QuorumRequest{}, err
	}
	if err := s.appendOutboxLocked(events); err != nil {
		return entities.QuorumRequest{}, err
	}
	s.requests[current.RequestID] = cloneRequest(next)
	return cloneRequest(next), nil
}

func (s *Store) ExecuteRequest(
	_ context.Context,
	requestID string,
	guard func(entities.QuorumRequest) error,
	finalize ports.ExecutionFinalizer,
) (entities.QuorumRequest, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.requests[strings.TrimSpace(requestID)]
	if !ok {
		return entities.QuorumRequest{}, 0, domainerrors.ErrRequestNotFound
	}
	if err := guard(cloneRequest(current)); err != nil {
		return entities.QuorumRequest{}, 0, err
	}

	scope := current.Scope()
	affected := 0
	remaining := s.scores
	revoke := false
	switch current.Kind {
	case entities.RequestKindScoreRemoval:
		if current.ExecutionCount > 0 {
			break
		}
		remaining = make([]entities.Score, 0, len(s.scores))
		for _, score := range s.scores {
			if scope.Matches(score) {
				affected++
				continue
			}
			remaining = append(remaining, score)
		}
	case entities.RequestKindJudgeUncertification:
		if current.ExecutionCount > 0 {
			break
		}
		revoke = true
		remaining = make([]entities.Score, len(s.scores))
		copy(remaining, s.scores)
		for i := range remaining {
			if scope.Matches(remaining[i]) && remaining[i].IsCertified {
				remaining[i].IsCertified = false
				remaining[i].CertifiedBy = ""
				remaining[i].CertifiedAt = nil
				affected++
			}
		}
	default:
		return entities.QuorumRequest{}, 0, domainerrors.ErrInvalidInput
	}

	next, events, err := finalize(cloneRequest(current), affected)
	if err != nil {
		return entities.QuorumRequest{}, 0, err
	}
	if err := s.appendOutboxLocked(events); err != nil {
		return entities.QuorumRequest{}, 0, err
	}
	s.scores = remaining
	if revoke {
		s.revokeJudgeLocked(current, next.UpdatedAt)
	}
	s.requests[current.RequestID] = cloneRequest(next)
	return cloneRequest(next), affected, nil
}

func (s *Store) revokeJudgeLocked(request entities.QuorumRequest, revokedAt time.Time) {
	revokedAt = revokedAt.UTC()
	active := 0
	for i := range s.judgeCertifications {
		certification := &s.judgeCertifications[i]
		if certification.CategoryID != request.CategoryID || !certification.Active() {
			continue
		}
		if certification.JudgeID != request.JudgeID {
			active++
			continue
		}
		at := revokedAt
		certification.RevokedAt = &at
		certification.RevokedBy = request.RequestID
	}
	delete(s.judgeCertified, categoryJudge{categoryID: request.CategoryID, judgeID: request.JudgeID})
	if workflow, ok := s.workflows[request.CategoryID]; ok {
		s.workflows[request.CategoryID] = services.RevokeJudges(workflow, active, revokedAt)
	}
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, limit)
	for _, record := range s.outbox {
		if record.published {
			continue
		}
		items = append(items, record.message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.outboxIndex[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrOutboxNotFound
	}
	s.outbox[index].published = true
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// appendOutboxLocked validates every envelope before storing any, so a failed
// write leaves no partial outbox behind.
func (s *Store) appendOutboxLocked(events []ports.EventEnvelope) error {
	records := make([]outboxRecord, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		outboxID := strings.TrimSpace(event.EventID)
		if outboxID == "" {
			outboxID = uuid.NewString()
		}
		if _, exists := s.outboxIndex[outboxID]; exists {
			return domainerrors.ErrOutboxConflict
		}
		records = append(records, outboxRecord{message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      payload,
			CreatedAt:    event.OccurredAt.UTC(),
		}})
	}
	for _, record := range records {
		s.outbox = append(s.outbox, record)
		s.outboxIndex[record.message.OutboxID] = len(s.outbox) - 1
	}
	return nil
}

func cloneScore(score entities.Score) entities.Score {
	if score.Value != nil {
		value := *score.Value
		score.Value = &value
	}
	if score.CertifiedAt != nil {
		certifiedAt := *score.CertifiedAt
		score.CertifiedAt = &certifiedAt
	}
	return score
}

func cloneRequest(request entities.QuorumRequest) entities.QuorumRequest {
	request.AuditorSignature = cloneSignature(request.AuditorSignature)
	request.TallySignature = cloneSignature(request.TallySignature)
	request.BoardSignature = cloneSignature(request.BoardSignature)
	if request.RejectedAt != nil {
		rejectedAt := *request.RejectedAt
		request.RejectedAt = &rejectedAt
	}
	if request.ExecutedAt != nil {
		executedAt := *request.ExecutedAt
		request.ExecutedAt = &executedAt
	}
	return request
}

func cloneSignature(signature *entities.QuorumSignature) *entities.QuorumSignature {
	if signature == nil {
		return nil
	}
	copied := *signature
	return &copied
}

var _ ports.CatalogReader = (*Store)(nil)
var _ ports.ScoreRepository = (*Store)(nil)
var _ ports.CertificationLedger = (*Store)(nil)
var _ ports.QuorumRepository = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
