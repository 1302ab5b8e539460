package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "verdict/contexts/judging/certification-service/application"
	"verdict/contexts/judging/certification-service/domain/entities"
	domainerrors "verdict/contexts/judging/certification-service/domain/errors"
	"verdict/contexts/judging/certification-service/domain/services"
	"verdict/contexts/judging/certification-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	constraintScoreIdentity       = "scores_unique_judge_contestant_criterion"
	constraintCategoryRole        = "category_certifications_unique_category_role"
	constraintJudgeCertification  = "judge_certifications_active_category_judge"
	constraintOutboxPrimaryKey    = "judging_outbox_pkey"
	constraintQuorumRequestPKey   = "judging_quorum_requests_pkey"
	constraintCertificationIDPKey = "judging_category_certifications_pkey"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetEvent(ctx context.Context, eventID string) (entities.Event, error) {
	var row eventModel
	err := r.db.WithContext(ctx).Where("event_id = ?", strings.TrimSpace(eventID)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Event{}, domainerrors.ErrEventNotFound
	}
	if err != nil {
		return entities.Event{}, r.logError("judging_repo_get_event_failed", err, "event_id", eventID)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetContest(ctx context.Context, contestID string) (entities.Contest, error) {
	var row contestModel
	err := r.db.WithContext(ctx).Where("contest_id = ?", strings.TrimSpace(contestID)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Contest{}, domainerrors.ErrContestNotFound
	}
	if err != nil {
		return entities.Contest{}, r.logError("judging_repo_get_contest_failed", err, "contest_id", contestID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListContestsByEvent(ctx context.Context, eventID string) ([]entities.Contest, error) {
	var rows []contestModel
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Order("contest_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("judging_repo_list_contests_failed", err, "event_id", eventID)
	}
	items := make([]entities.Contest, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetCategory(ctx context.Context, categoryID string) (entities.Category, error) {
	var row categoryModel
	err := r.db.WithContext(ctx).Where("category_id = ?", strings.TrimSpace(categoryID)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Category{}, domainerrors.ErrCategoryNotFound
	}
	if err != nil {
		return entities.Category{}, r.logError("judging_repo_get_category_failed", err, "category_id", categoryID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCategoriesByContest(ctx context.Context, contestID string) ([]entities.Category, error) {
	var rows []categoryModel
	if err := r.db.WithContext(ctx).
		Where("contest_id = ?", strings.TrimSpace(contestID)).
		Order("category_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("judging_repo_list_categories_failed", err, "contest_id", contestID)
	}
	items := make([]entities.Category, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListCriteria(ctx context.Context, categoryID string) ([]entities.Criterion, error) {
	var rows []criterionModel
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", strings.TrimSpace(categoryID)).
		Order("sort_order ASC, criterion_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("judging_repo_list_criteria_failed", err, "category_id", categoryID)
	}
	items := make([]entities.Criterion, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetJudge(ctx context.Context, judgeID string) (entities.Judge, error) {
	var row judgeModel
	err := r.db.WithContext(ctx).Where("judge_id = ?", strings.TrimSpace(judgeID)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Judge{}, domainerrors.ErrJudgeNotFound
	}
	if err != nil {
		return entities.Judge{}, r.logError("judging_repo_get_judge_failed", err, "judge_id", judgeID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListScores(ctx context.Context, categoryID string) ([]entities.Score, error) {
	var rows []scoreModel
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", strings.TrimSpace(categoryID)).
		Order("created_at ASC, score_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("judging_repo_list_scores_failed", err, "category_id", categoryID)
	}
	items := make([]entities.Score, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListDeductions(ctx context.Context, categoryID string) ([]entities.OverallDeduction, error) {
	var rows []deductionModel
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", strings.TrimSpace(categoryID)).
		Order("created_at ASC, deduction_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("judging_repo_list_deductions_failed", err, "category_id", categoryID)
	}
	items := make([]entities.OverallDeduction, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateScore(ctx context.Context, score entities.Score, events []ports.EventEnvelope) error {
	row := scoreModelFromEntity(score)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return translateUniqueViolation(err)
		}
		return appendOutbox(tx, events)
	})
	if err != nil {
		return r.logError("judging_repo_create_score_failed", err,
			"score_id", row.ScoreID,
			"category_id", row.CategoryID,
			"judge_id", row.JudgeID,
		)
	}
	return nil
}

func (r *Repository) CreateDeduction(
	ctx context.Context,
	deduction entities.OverallDeduction,
	events []ports.EventEnvelope,
) error {
	row := deductionModelFromEntity(deduction)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return translateUniqueViolation(err)
		}
		return appendOutbox(tx, events)
	})
	if err != nil {
		return r.logError("judging_repo_create_deduction_failed", err,
			"deduction_id", row.DeductionID,
			"category_id", row.CategoryID,
		)
	}
	return nil
}

// InsertCategoryCertification claims the (category, role) slot. ON CONFLICT DO
// NOTHING keeps the transaction usable so the holder can be read back for the
// conflict error.
func (r *Repository) InsertCategoryCertification(
	ctx context.Context,
	write ports.CertificationWrite,
) (entities.CategoryCertification, error) {
	row := categoryCertificationModelFromEntity(write.Certification)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		create := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category_id"}, {Name: "role"}},
			DoNothing: true,
		}).Create(&row)
		if create.Error != nil {
			return translateUniqueViolation(create.Error)
		}
		if create.RowsAffected == 0 {
			var existing categoryCertificationModel
			if err := tx.Where("category_id = ? AND role = ?", row.CategoryID, row.Role).
				First(&existing).Error; err != nil {
				return err
			}
			return &domainerrors.CertificationConflictError{
				CategoryID:     existing.CategoryID,
				Role:           existing.Role,
				ExistingUserID: existing.UserID,
				CertifiedAt:    existing.CertifiedAt.UTC(),
			}
		}

		if write.Advance != nil {
			var workflow workflowModel
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("category_id = ?", row.CategoryID).
				First(&workflow).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
			case err != nil:
				return err
			default:
				next := workflowModelFromEntity(write.Advance(workflow.toEntity()))
				if err := tx.Save(&next).Error; err != nil {
					return err
				}
			}
		}

		if write.MarkTallyTotals {
			if err := tx.Model(&categoryModel{}).
				Where("category_id = ?", row.CategoryID).
				Updates(map[string]any{
					"tally_totals_certified": true,
					"updated_at":             row.CertifiedAt,
				}).Error; err != nil {
				return err
			}
		}
		return appendOutbox(tx, write.Events)
	})
	if err != nil {
		return entities.CategoryCertification{}, r.logError("judging_repo_insert_category_certification_failed", err,
			"category_id", row.CategoryID,
			"role", row.Role,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCategoryCertifications(
	ctx context.Context,
	categoryID string,
) ([]entities.CategoryCertification, error) {
	var rows []categoryCertificationModel
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", strings.TrimSpace(categoryID)).
		Order("certified_at ASC, certification_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("judging_repo_list_category_certifications_failed", err, "category_id", categoryID)
	}
	items := make([]entities.CategoryCertification, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) InsertJudgeCertification(
	ctx context.Context,
	write ports.JudgeCertificationWrite,
) (entities.JudgeCertification, int, error) {
	certification := write.Certification
	row := judgeCertificationModel{
		CertificationID: strings.TrimSpace(certification.CertificationID),
		CategoryID:      strings.TrimSpace(certification.CategoryID),
		JudgeID:         strings.TrimSpace(certification.JudgeID),
		UserID:          strings.TrimSpace(certification.UserID),
		SignatureName:   certification.SignatureName,
		CertifiedAt:     certification.CertifiedAt.UTC(),
	}

	affected := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		create := tx.Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "category_id"}, {Name: "judge_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Eq{Column: clause.Column{Name: "revoked_at"}, Value: nil}}},
			DoNothing:   true,
		}).Create(&row)
		if create.Error != nil {
			return translateUniqueViolation(create.Error)
		}
		if create.RowsAffected == 0 {
			return domainerrors.ErrJudgeAlreadyCertified
		}

		update := tx.Model(&scoreModel{}).
			Where("category_id = ? AND judge_id = ? AND is_certified = ?", row.CategoryID, row.JudgeID, false).
			Updates(map[string]any{
				"is_certified": true,
				"certified_by": row.UserID,
				"certified_at": row.CertifiedAt,
			})
		if update.Error != nil {
			return update.Error
		}
		affected = int(update.RowsAffected)

		if write.Workflow != nil {
			var existing workflowModel
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("category_id = ?", row.CategoryID).
				First(&existing).Error
			found := true
			if errors.Is(err, gorm.ErrRecordNotFound) {
				found = false
			} else if err != nil {
				return err
			}
			var current entities.CategoryWorkflow
			if found {
				current = existing.toEntity()
			}
			next := workflowModelFromEntity(write.Workflow(current, found))
			if err := tx.Save(&next).Error; err != nil {
				return err
			}
		}
		return appendOutbox(tx, write.Events)
	})
	if err != nil {
		return entities.JudgeCertification{}, 0, r.logError("judging_repo_insert_judge_certification_failed", err,
			"category_id", row.CategoryID,
			"judge_id", row.JudgeID,
		)
	}
	return row.toEntity(), affected, nil
}

func (r *Repository) ListJudgeCertifications(ctx context.Context, categoryID string) ([]entities.JudgeCertification, error) {
	var rows []judgeCertificationModel
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", strings.TrimSpace(categoryID)).
		Order("certified_at ASC, certification_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("judging_repo_list_judge_certifications_failed", err, "category_id", categoryID)
	}
	items := make([]entities.JudgeCertification, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetWorkflow(ctx context.Context, categoryID string) (entities.CategoryWorkflow, bool, error) {
	var row workflowModel
	err := r.db.WithContext(ctx).Where("category_id = ?", strings.TrimSpace(categoryID)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.CategoryWorkflow{}, false, nil
	}
	if err != nil {
		return entities.CategoryWorkflow{}, false, r.logError("judging_repo_get_workflow_failed", err,
			"category_id", categoryID,
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CreateRequest(
	ctx context.Context,
	request entities.QuorumRequest,
	events []ports.EventEnvelope,
) error {
	row := quorumRequestModelFromEntity(request)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return translateUniqueViolation(err)
		}
		return appendOutbox(tx, events)
	})
	if err != nil {
		return r.logError("judging_repo_create_request_failed", err, "request_id", row.RequestID)
	}
	return nil
}

func (r *Repository) GetRequest(ctx context.Context, requestID string) (entities.QuorumRequest, error) {
	var row quorumRequestModel
	err := r.db.WithContext(ctx).Where("request_id = ?", strings.TrimSpace(requestID)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.QuorumRequest{}, domainerrors.ErrRequestNotFound
	}
	if err != nil {
		return entities.QuorumRequest{}, r.logError("judging_repo_get_request_failed", err, "request_id", requestID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListRequests(ctx context.Context, filter entities.RequestFilter) ([]entities.QuorumRequest, error) {
	query := r.db.WithContext(ctx).
		Model(&quorumRequestModel{}).
		Where("tenant_id = ?", strings.TrimSpace(filter.TenantID))
	if filter.Kind != "" {
		query = query.Where("kind = ?", string(filter.Kind))
	}
	if categoryID := strings.TrimSpace(filter.CategoryID); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var rows []quorumRequestModel
	if err := query.Order("created_at ASC, request_id ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("judging_repo_list_requests_failed", err, "tenant_id", filter.TenantID)
	}
	items := make([]entities.QuorumRequest, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateRequest(
	ctx context.Context,
	requestID string,
	mutate ports.RequestMutation,
) (entities.QuorumRequest, error) {
	var updated entities.QuorumRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockRequest(tx, requestID)
		if err != nil {
			return err
		}
		next, events, err := mutate(current)
		if err != nil {
			return err
		}
		row := quorumRequestModelFromEntity(next)
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		if err := appendOutbox(tx, events); err != nil {
			return err
		}
		updated = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.QuorumRequest{}, r.logError("judging_repo_update_request_failed", err, "request_id", requestID)
	}
	return updated, nil
}

// ExecuteRequest applies the request's score predicate inside the request's
// row lock. Uncertification only touches certified rows, so a repeated pass
// affects nothing.
func (r *Repository) ExecuteRequest(
	ctx context.Context,
	requestID string,
	guard func(entities.QuorumRequest) error,
	finalize ports.ExecutionFinalizer,
) (entities.QuorumRequest, int, error) {
	var (
		updated  entities.QuorumRequest
		affected int
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockRequest(tx, requestID)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(current); err != nil {
				return err
			}
		}

		if !current.Kind.Valid() {
			return domainerrors.ErrInvalidInput
		}
		// Later passes only book the retry.
		if current.ExecutionCount == 0 {
			result := applyRequestScope(tx, current)
			if result.Error != nil {
				return result.Error
			}
			affected = int(result.RowsAffected)
		}

		next, events, err := finalize(current, affected)
		if err != nil {
			return err
		}
		if current.Kind == entities.RequestKindJudgeUncertification && current.ExecutionCount == 0 {
			if err := revokeJudgeCertification(tx, current, next.UpdatedAt); err != nil {
				return err
			}
		}
		row := quorumRequestModelFromEntity(next)
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		if err := appendOutbox(tx, events); err != nil {
			return err
		}
		updated = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.QuorumRequest{}, 0, r.logError("judging_repo_execute_request_failed", err,
			"request_id", requestID,
		)
	}
	return updated, affected, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC, outbox_id ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, r.logError("judging_repo_list_pending_outbox_failed", err, "limit", limit)
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      []byte(row.Payload),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("judging_repo_mark_outbox_published_failed", result.Error, "outbox_id", outboxID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOutboxNotFound
	}
	return nil
}

// applyRequestScope deletes or uncertifies the scores a request covers.
func applyRequestScope(tx *gorm.DB, request entities.QuorumRequest) *gorm.DB {
	scope := tx.Model(&scoreModel{}).
		Where("category_id = ? AND judge_id = ?", request.CategoryID, request.JudgeID)
	if contestantID := strings.TrimSpace(request.ContestantID); contestantID != "" {
		scope = scope.Where("contestant_id = ?", contestantID)
	}
	if request.Kind == entities.RequestKindScoreRemoval {
		return scope.Delete(&scoreModel{})
	}
	return scope.Where("is_certified = ?", true).Updates(map[string]any{
		"is_certified": false,
		"certified_by": nil,
		"certified_at": nil,
	})
}

// revokeJudgeCertification retires the judge's active attestation and keeps
// the workflow's judges flag in line with what remains active.
func revokeJudgeCertification(tx *gorm.DB, request entities.QuorumRequest, revokedAt time.Time) error {
	revokedAt = revokedAt.UTC()
	if err := tx.Model(&judgeCertificationModel{}).
		Where("category_id = ? AND judge_id = ? AND revoked_at IS NULL", request.CategoryID, request.JudgeID).
		Updates(map[string]any{
			"revoked_at": revokedAt,
			"revoked_by": request.RequestID,
		}).Error; err != nil {
		return err
	}

	var existing workflowModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("category_id = ?", request.CategoryID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var active int64
	if err := tx.Model(&judgeCertificationModel{}).
		Where("category_id = ? AND revoked_at IS NULL", request.CategoryID).
		Count(&active).Error; err != nil {
		return err
	}
	next := workflowModelFromEntity(services.RevokeJudges(existing.toEntity(), int(active), revokedAt))
	return tx.Save(&next).Error
}

func lockRequest(tx *gorm.DB, requestID string) (entities.QuorumRequest, error) {
	var row quorumRequestModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_id = ?", strings.TrimSpace(requestID)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.QuorumRequest{}, domainerrors.ErrRequestNotFound
	}
	if err != nil {
		return entities.QuorumRequest{}, err
	}
	return row.toEntity(), nil
}

// appendOutbox writes every envelope in the caller's transaction, so events
// commit or roll back with the change they describe.
func appendOutbox(tx *gorm.DB, events []ports.EventEnvelope) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]outboxModel, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		outboxID := strings.TrimSpace(event.EventID)
		if outboxID == "" {
			outboxID = uuid.NewString()
		}
		rows = append(rows, outboxModel{
			OutboxID:     outboxID,
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      datatypes.JSON(payload),
			Status:       outboxStatusPending,
			CreatedAt:    event.OccurredAt.UTC(),
		})
	}
	create := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&rows)
	if create.Error != nil {
		return create.Error
	}
	if create.RowsAffected != int64(len(rows)) {
		return domainerrors.ErrOutboxConflict
	}
	return nil
}

// translateUniqueViolation maps named unique constraints to domain conflicts
// and passes every other error through.
func translateUniqueViolation(err error) error {
	if !isUniqueViolation(err) {
		return err
	}
	switch constraintName(err) {
	case constraintScoreIdentity:
		return domainerrors.ErrDuplicateScore
	case constraintCategoryRole:
		return domainerrors.ErrAlreadyCertified
	case constraintJudgeCertification:
		return domainerrors.ErrJudgeAlreadyCertified
	case constraintOutboxPrimaryKey:
		return domainerrors.ErrOutboxConflict
	case constraintQuorumRequestPKey, constraintCertificationIDPKey:
		return domainerrors.ErrInvalidInput
	default:
		return err
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// logError only records infrastructure failures; domain errors are returned
// untouched.
func (r *Repository) logError(event string, err error, attrs ...any) error {
	if domainerrors.KindOf(err) != nil {
		return err
	}
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", application.ModuleName,
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("judging repository operation failed", fields...)
	return err
}

var _ ports.CatalogReader = (*Repository)(nil)
var _ ports.ScoreRepository = (*Repository)(nil)
var _ ports.CertificationLedger = (*Repository)(nil)
var _ ports.QuorumRepository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
