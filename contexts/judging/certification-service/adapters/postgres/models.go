package postgresadapter

import (
	"strings"
	"time"

	"verdict/contexts/judging/certification-service/domain/entities"

	"gorm.io/datatypes"
)

type eventModel struct {
	EventID  string `gorm:"column:event_id;primaryKey"`
	TenantID string `gorm:"column:tenant_id"`
	Name     string `gorm:"column:name"`
}

func (eventModel) TableName() string {
	return "judging_events"
}

func (m eventModel) toEntity() entities.Event {
	return entities.Event{EventID: m.EventID, TenantID: m.TenantID, Name: m.Name}
}

type contestModel struct {
	ContestID string `gorm:"column:contest_id;primaryKey"`
	EventID   string `gorm:"column:event_id"`
	TenantID  string `gorm:"column:tenant_id"`
	Name      string `gorm:"column:name"`
}

func (contestModel) TableName() string {
	return "judging_contests"
}

func (m contestModel) toEntity() entities.Contest {
	return entities.Contest{ContestID: m.ContestID, EventID: m.EventID, TenantID: m.TenantID, Name: m.Name}
}

type categoryModel struct {
	CategoryID           string    `gorm:"column:category_id;primaryKey"`
	ContestID            string    `gorm:"column:contest_id"`
	TenantID             string    `gorm:"column:tenant_id"`
	Name                 string    `gorm:"column:name"`
	ScoreCap             float64   `gorm:"column:score_cap"`
	TallyTotalsCertified bool      `gorm:"column:tally_totals_certified"`
	UpdatedAt            time.Time `gorm:"column:updated_at"`
}

func (categoryModel) TableName() string {
	return "judging_categories"
}

func (m categoryModel) toEntity() entities.Category {
	return entities.Category{
		CategoryID:           m.CategoryID,
		ContestID:            m.ContestID,
		TenantID:             m.TenantID,
		Name:                 m.Name,
		ScoreCap:             m.ScoreCap,
		TallyTotalsCertified: m.TallyTotalsCertified,
		UpdatedAt:            m.UpdatedAt.UTC(),
	}
}

type criterionModel struct {
	CriterionID string `gorm:"column:criterion_id;primaryKey"`
	CategoryID  string `gorm:"column:category_id"`
	Name        string `gorm:"column:name"`
	MaxScore    int    `gorm:"column:max_score"`
	SortOrder   int    `gorm:"column:sort_order"`
}

func (criterionModel) TableName() string {
	return "judging_criteria"
}

func (m criterionModel) toEntity() entities.Criterion {
	return entities.Criterion{
		CriterionID: m.CriterionID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		MaxScore:    m.MaxScore,
		SortOrder:   m.SortOrder,
	}
}

type judgeModel struct {
	JudgeID  string `gorm:"column:judge_id;primaryKey"`
	TenantID string `gorm:"column:tenant_id"`
	UserID   string `gorm:"column:user_id"`
	Name     string `gorm:"column:name"`
}

func (judgeModel) TableName() string {
	return "judging_judges"
}

func (m judgeModel) toEntity() entities.Judge {
	return entities.Judge{JudgeID: m.JudgeID, TenantID: m.TenantID, UserID: m.UserID, Name: m.Name}
}

type scoreModel struct {
	ScoreID      string     `gorm:"column:score_id;primaryKey"`
	JudgeID      string     `gorm:"column:judge_id"`
	ContestantID string     `gorm:"column:contestant_id"`
	CategoryID   string     `gorm:"column:category_id"`
	CriterionID  string     `gorm:"column:criterion_id"`
	Value        *float64   `gorm:"column:value"`
	Comment      string     `gorm:"column:comment"`
	IsCertified  bool       `gorm:"column:is_certified"`
	CertifiedBy  *string    `gorm:"column:certified_by"`
	CertifiedAt  *time.Time `gorm:"column:certified_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
}

func (scoreModel) TableName() string {
	return "judging_scores"
}

func scoreModelFromEntity(score entities.Score) scoreModel {
	row := scoreModel{
		ScoreID:      strings.TrimSpace(score.ScoreID),
		JudgeID:      strings.TrimSpace(score.JudgeID),
		ContestantID: strings.TrimSpace(score.ContestantID),
		CategoryID:   strings.TrimSpace(score.CategoryID),
		CriterionID:  strings.TrimSpace(score.CriterionID),
		Value:        score.Value,
		Comment:      score.Comment,
		IsCertified:  score.IsCertified,
		CertifiedBy:  optionalString(score.CertifiedBy),
		CertifiedAt:  normalizeOptionalTime(score.CertifiedAt),
		CreatedAt:    score.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m scoreModel) toEntity() entities.Score {
	certifiedBy := ""
	if m.CertifiedBy != nil {
		certifiedBy = *m.CertifiedBy
	}
	return entities.Score{
		ScoreID:      m.ScoreID,
		JudgeID:      m.JudgeID,
		ContestantID: m.ContestantID,
		CategoryID:   m.CategoryID,
		CriterionID:  m.CriterionID,
		Value:        m.Value,
		Comment:      m.Comment,
		IsCertified:  m.IsCertified,
		CertifiedBy:  certifiedBy,
		CertifiedAt:  normalizeOptionalTime(m.CertifiedAt),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type deductionModel struct {
	DeductionID  string    `gorm:"column:deduction_id;primaryKey"`
	ContestantID string    `gorm:"column:contestant_id"`
	CategoryID   string    `gorm:"column:category_id"`
	Amount       float64   `gorm:"column:amount"`
	Reason       string    `gorm:"column:reason"`
	RecordedBy   string    `gorm:"column:recorded_by"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (deductionModel) TableName() string {
	return "judging_overall_deductions"
}

func deductionModelFromEntity(deduction entities.OverallDeduction) deductionModel {
	return deductionModel{
		DeductionID:  strings.TrimSpace(deduction.DeductionID),
		ContestantID: strings.TrimSpace(deduction.ContestantID),
		CategoryID:   strings.TrimSpace(deduction.CategoryID),
		Amount:       deduction.Amount,
		Reason:       deduction.Reason,
		RecordedBy:   strings.TrimSpace(deduction.RecordedBy),
		CreatedAt:    deduction.CreatedAt.UTC(),
	}
}

func (m deductionModel) toEntity() entities.OverallDeduction {
	return entities.OverallDeduction{
		DeductionID:  m.DeductionID,
		ContestantID: m.ContestantID,
		CategoryID:   m.CategoryID,
		Amount:       m.Amount,
		Reason:       m.Reason,
		RecordedBy:   m.RecordedBy,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type categoryCertificationModel struct {
	CertificationID string    `gorm:"column:certification_id;primaryKey"`
	CategoryID      string    `gorm:"column:category_id"`
	Role            string    `gorm:"column:role"`
	UserID          string    `gorm:"column:user_id"`
	SignatureName   string    `gorm:"column:signature_name"`
	Signature       string    `gorm:"column:signature"`
	IPAddress       string    `gorm:"column:ip_address"`
	UserAgent       string    `gorm:"column:user_agent"`
	Comments        string    `gorm:"column:comments"`
	CertifiedAt     time.Time `gorm:"column:certified_at"`
}

func (categoryCertificationModel) TableName() string {
	return "judging_category_certifications"
}

func categoryCertificationModelFromEntity(item entities.CategoryCertification) categoryCertificationModel {
	return categoryCertificationModel{
		CertificationID: strings.TrimSpace(item.CertificationID),
		CategoryID:      strings.TrimSpace(item.CategoryID),
		Role:            string(item.Role),
		UserID:          strings.TrimSpace(item.UserID),
		SignatureName:   item.SignatureName,
		Signature:       item.Signature,
		IPAddress:       item.IPAddress,
		UserAgent:       item.UserAgent,
		Comments:        item.Comments,
		CertifiedAt:     item.CertifiedAt.UTC(),
	}
}

func (m categoryCertificationModel) toEntity() entities.CategoryCertification {
	return entities.CategoryCertification{
		CertificationID: m.CertificationID,
		CategoryID:      m.CategoryID,
		Role:            entities.Role(m.Role),
		UserID:          m.UserID,
		SignatureName:   m.SignatureName,
		Signature:       m.Signature,
		IPAddress:       m.IPAddress,
		UserAgent:       m.UserAgent,
		Comments:        m.Comments,
		CertifiedAt:     m.CertifiedAt.UTC(),
	}
}

type judgeCertificationModel struct {
	CertificationID string    `gorm:"column:certification_id;primaryKey"`
	CategoryID      string    `gorm:"column:category_id"`
	JudgeID         string    `gorm:"column:judge_id"`
	UserID          string    `gorm:"column:user_id"`
	SignatureName   string     `gorm:"column:signature_name"`
	CertifiedAt     time.Time  `gorm:"column:certified_at"`
	RevokedAt       *time.Time `gorm:"column:revoked_at"`
	RevokedBy       *string    `gorm:"column:revoked_by"`
}

func (judgeCertificationModel) TableName() string {
	return "judging_judge_certifications"
}

func (m judgeCertificationModel) toEntity() entities.JudgeCertification {
	return entities.JudgeCertification{
		CertificationID: m.CertificationID,
		CategoryID:      m.CategoryID,
		JudgeID:         m.JudgeID,
		UserID:          m.UserID,
		SignatureName:   m.SignatureName,
		CertifiedAt:     m.CertifiedAt.UTC(),
		RevokedAt:       normalizeOptionalTime(m.RevokedAt),
		RevokedBy:       derefString(m.RevokedBy),
	}
}

type workflowModel struct {
	CategoryID       string    `gorm:"column:category_id;primaryKey"`
	CurrentStep      int       `gorm:"column:current_step"`
	JudgesCertified  bool      `gorm:"column:judges_certified"`
	TallyCertified   bool      `gorm:"column:tally_certified"`
	AuditorCertified bool      `gorm:"column:auditor_certified"`
	BoardCertified   bool      `gorm:"column:board_certified"`
	Status           string    `gorm:"column:status"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (workflowModel) TableName() string {
	return "judging_category_workflows"
}

func workflowModelFromEntity(workflow entities.CategoryWorkflow) workflowModel {
	row := workflowModel{
		CategoryID:       strings.TrimSpace(workflow.CategoryID),
		CurrentStep:      workflow.CurrentStep,
		JudgesCertified:  workflow.JudgesCertified,
		TallyCertified:   workflow.TallyCertified,
		AuditorCertified: workflow.AuditorCertified,
		BoardCertified:   workflow.BoardCertified,
		Status:           string(workflow.Status),
		CreatedAt:        workflow.CreatedAt.UTC(),
		UpdatedAt:        workflow.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = row.UpdatedAt
	}
	return row
}

func (m workflowModel) toEntity() entities.CategoryWorkflow {
	return entities.CategoryWorkflow{
		CategoryID:       m.CategoryID,
		CurrentStep:      m.CurrentStep,
		JudgesCertified:  m.JudgesCertified,
		TallyCertified:   m.TallyCertified,
		AuditorCertified: m.AuditorCertified,
		BoardCertified:   m.BoardCertified,
		Status:           entities.WorkflowStatus(m.Status),
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

type signatureRecord struct {
	SignerID      string    `json:"signer_id"`
	SignatureName string    `json:"signature_name"`
	Fingerprint   string    `json:"fingerprint"`
	SignedAt      time.Time `json:"signed_at"`
}

// signatureSlots is stored as one jsonb document per request.
type signatureSlots struct {
	Auditor *signatureRecord `json:"auditor,omitempty"`
	Tally   *signatureRecord `json:"tally_master,omitempty"`
	Board   *signatureRecord `json:"board,omitempty"`
}

type quorumRequestModel struct {
	RequestID       string                             `gorm:"column:request_id;primaryKey"`
	Kind            string                             `gorm:"column:kind"`
	TenantID        string                             `gorm:"column:tenant_id"`
	JudgeID         string                             `gorm:"column:judge_id"`
	CategoryID      string                             `gorm:"column:category_id"`
	ContestantID    *string                            `gorm:"column:contestant_id"`
	Reason          string                             `gorm:"column:reason"`
	RequestedBy     string                             `gorm:"column:requested_by"`
	RequestedByRole string                             `gorm:"column:requested_by_role"`
	Status          string                             `gorm:"column:status"`
	Signatures      datatypes.JSONType[signatureSlots] `gorm:"column:signatures"`
	RejectedBy      *string                            `gorm:"column:rejected_by"`
	RejectedReason  *string                            `gorm:"column:rejected_reason"`
	RejectedAt      *time.Time                         `gorm:"column:rejected_at"`
	ExecutedAt      *time.Time                         `gorm:"column:executed_at"`
	ExecutionCount  int                                `gorm:"column:execution_count"`
	AffectedTotal   int                                `gorm:"column:affected_total"`
	CreatedAt       time.Time                          `gorm:"column:created_at"`
	UpdatedAt       time.Time                          `gorm:"column:updated_at"`
}

func (quorumRequestModel) TableName() string {
	return "judging_quorum_requests"
}

func quorumRequestModelFromEntity(request entities.QuorumRequest) quorumRequestModel {
	row := quorumRequestModel{
		RequestID:       strings.TrimSpace(request.RequestID),
		Kind:            string(request.Kind),
		TenantID:        strings.TrimSpace(request.TenantID),
		JudgeID:         strings.TrimSpace(request.JudgeID),
		CategoryID:      strings.TrimSpace(request.CategoryID),
		ContestantID:    optionalString(request.ContestantID),
		Reason:          request.Reason,
		RequestedBy:     strings.TrimSpace(request.RequestedBy),
		RequestedByRole: string(request.RequestedByRole),
		Status:          string(request.Status),
		Signatures: datatypes.NewJSONType(signatureSlots{
			Auditor: signatureRecordFromEntity(request.AuditorSignature),
			Tally:   signatureRecordFromEntity(request.TallySignature),
			Board:   signatureRecordFromEntity(request.BoardSignature),
		}),
		RejectedBy:     optionalString(request.RejectedBy),
		RejectedReason: optionalString(request.RejectedReason),
		RejectedAt:     normalizeOptionalTime(request.RejectedAt),
		ExecutedAt:     normalizeOptionalTime(request.ExecutedAt),
		ExecutionCount: request.ExecutionCount,
		AffectedTotal:  request.AffectedTotal,
		CreatedAt:      request.CreatedAt.UTC(),
		UpdatedAt:      request.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m quorumRequestModel) toEntity() entities.QuorumRequest {
	slots := m.Signatures.Data()
	return entities.QuorumRequest{
		RequestID:        m.RequestID,
		Kind:             entities.RequestKind(m.Kind),
		TenantID:         m.TenantID,
		JudgeID:          m.JudgeID,
		CategoryID:       m.CategoryID,
		ContestantID:     derefString(m.ContestantID),
		Reason:           m.Reason,
		RequestedBy:      m.RequestedBy,
		RequestedByRole:  entities.Role(m.RequestedByRole),
		Status:           entities.RequestStatus(m.Status),
		AuditorSignature: slots.Auditor.toEntity(),
		TallySignature:   slots.Tally.toEntity(),
		BoardSignature:   slots.Board.toEntity(),
		RejectedBy:       derefString(m.RejectedBy),
		RejectedReason:   derefString(m.RejectedReason),
		RejectedAt:       normalizeOptionalTime(m.RejectedAt),
		ExecutedAt:       normalizeOptionalTime(m.ExecutedAt),
		ExecutionCount:   m.ExecutionCount,
		AffectedTotal:    m.AffectedTotal,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

func signatureRecordFromEntity(signature *entities.QuorumSignature) *signatureRecord {
	if signature == nil {
		return nil
	}
	return &signatureRecord{
		SignerID:      signature.SignerID,
		SignatureName: signature.SignatureName,
		Fingerprint:   signature.Fingerprint,
		SignedAt:      signature.SignedAt.UTC(),
	}
}

func (r *signatureRecord) toEntity() *entities.QuorumSignature {
	if r == nil {
		return nil
	}
	return &entities.QuorumSignature{
		SignerID:      r.SignerID,
		SignatureName: r.SignatureName,
		Fingerprint:   r.Fingerprint,
		SignedAt:      r.SignedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string         `gorm:"column:outbox_id;primaryKey"`
	EventType    string         `gorm:"column:event_type"`
	PartitionKey string         `gorm:"column:partition_key"`
	Payload      datatypes.JSON `gorm:"column:payload"`
	Status       string         `gorm:"column:status"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	PublishedAt  *time.Time     `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "judging_outbox"
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}
