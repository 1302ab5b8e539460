package httptransport

type SubmitScoreRequest struct {
	JudgeID      string   `json:"judge_id"`
	ContestantID string   `json:"contestant_id"`
	CriterionID  string   `json:"criterion_id"`
	Value        *float64 `json:"value"`
	Comment      string   `json:"comment,omitempty"`
}

type ScoreDTO struct {
	ScoreID      string   `json:"score_id"`
	JudgeID      string   `json:"judge_id"`
	ContestantID string   `json:"contestant_id"`
	CategoryID   string   `json:"category_id"`
	CriterionID  string   `json:"criterion_id"`
	Value        *float64 `json:"value"`
	Comment      string   `json:"comment,omitempty"`
	IsCertified  bool     `json:"is_certified"`
	CreatedAt    string   `json:"created_at"`
}

type SubmitScoreResponse struct {
	Item ScoreDTO `json:"item"`
}

type RecordDeductionRequest struct {
	ContestantID string  `json:"contestant_id"`
	Amount       float64 `json:"amount"`
	Reason       string  `json:"reason"`
}

type DeductionDTO struct {
	DeductionID  string  `json:"deduction_id"`
	ContestantID string  `json:"contestant_id"`
	CategoryID   string  `json:"category_id"`
	Amount       float64 `json:"amount"`
	Reason       string  `json:"reason"`
	RecordedBy   string  `json:"recorded_by"`
	CreatedAt    string  `json:"created_at"`
}

type RecordDeductionResponse struct {
	Item DeductionDTO `json:"item"`
}

type CertifyCategoryRequest struct {
	SignatureName string `json:"signature_name"`
	Comments      string `json:"comments,omitempty"`
}

type CategoryCertificationDTO struct {
	CertificationID string `json:"certification_id"`
	CategoryID      string `json:"category_id"`
	Role            string `json:"role"`
	UserID          string `json:"user_id"`
	SignatureName   string `json:"signature_name"`
	Signature       string `json:"signature"`
	IPAddress       string `json:"ip_address,omitempty"`
	UserAgent       string `json:"user_agent,omitempty"`
	Comments        string `json:"comments,omitempty"`
	CertifiedAt     string `json:"certified_at"`
}

type ProgressDTO struct {
	CategoryID           string   `json:"category_id"`
	RolesCertified       []string `json:"roles_certified"`
	RolesRemaining       []string `json:"roles_remaining"`
	Percent              int      `json:"percent"`
	FullyCertified       bool     `json:"fully_certified"`
	TallyTotalsCertified bool     `json:"tally_totals_certified"`
	State                string   `json:"state"`
	CurrentStep          int      `json:"current_step"`
}

type CertifyCategoryResponse struct {
	Certification CategoryCertificationDTO `json:"certification"`
	Progress      ProgressDTO              `json:"progress"`
}

type SignWinnersRequest struct {
	SignatureName string `json:"signature_name"`
}

type SignWinnersResponse struct {
	Signature       string                   `json:"signature"`
	CertificationID string                   `json:"certification_id"`
	Certification   CategoryCertificationDTO `json:"certification"`
}

type CertifyJudgeScoresRequest struct {
	SignatureName string `json:"signature_name"`
}

type JudgeCertificationDTO struct {
	CertificationID string `json:"certification_id"`
	CategoryID      string `json:"category_id"`
	JudgeID         string `json:"judge_id"`
	UserID          string `json:"user_id"`
	SignatureName   string `json:"signature_name"`
	CertifiedAt     string `json:"certified_at"`
	RevokedAt       string `json:"revoked_at,omitempty"`
	RevokedBy       string `json:"revoked_by,omitempty"`
}

type CertifyJudgeScoresResponse struct {
	Certification   JudgeCertificationDTO `json:"certification"`
	ScoresCertified int                   `json:"scores_certified"`
}

type ProgressResponse struct {
	Progress ProgressDTO `json:"progress"`
}

type ListCertificationsResponse struct {
	CategoryCertifications []CategoryCertificationDTO `json:"category_certifications"`
	JudgeCertifications    []JudgeCertificationDTO    `json:"judge_certifications"`
}

type ContestantStandingDTO struct {
	ContestantID string   `json:"contestant_id"`
	RawTotal     float64  `json:"raw_total"`
	Deduction    float64  `json:"deduction"`
	TotalScore   float64  `json:"total_score"`
	JudgeIDs     []string `json:"judge_ids"`
	Rank         int      `json:"rank"`
}

type CategoryStandingsResponse struct {
	CategoryID         string                  `json:"category_id"`
	ContestID          string                  `json:"contest_id"`
	CategoryName       string                  `json:"category_name"`
	Contestants        []ContestantStandingDTO `json:"contestants"`
	TotalPossibleScore *float64                `json:"total_possible_score"`
	CanShowWinners     bool                    `json:"can_show_winners"`
	AllSigned          bool                    `json:"all_signed"`
	BoardSigned        bool                    `json:"board_signed"`
	Redacted           bool                    `json:"redacted,omitempty"`
}

type CategoryBreakdownDTO struct {
	CategoryID         string  `json:"category_id"`
	CategoryName       string  `json:"category_name"`
	TotalScore         float64 `json:"total_score"`
	TotalPossibleScore float64 `json:"total_possible_score"`
}

type ContestantTotalDTO struct {
	ContestantID           string                 `json:"contestant_id"`
	TotalScore             float64                `json:"total_score"`
	TotalPossibleScore     float64                `json:"total_possible_score"`
	CategoriesParticipated int                    `json:"categories_participated"`
	Rank                   int                    `json:"rank"`
	Breakdown              []CategoryBreakdownDTO `json:"breakdown,omitempty"`
}

type SkippedDTO struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type ContestStandingsResponse struct {
	ContestID          string               `json:"contest_id"`
	EventID            string               `json:"event_id"`
	ContestName        string               `json:"contest_name"`
	Contestants        []ContestantTotalDTO `json:"contestants"`
	CategoriesIncluded []string             `json:"categories_included"`
	CategoriesHidden   []string             `json:"categories_hidden"`
	CategoriesSkipped  []SkippedDTO         `json:"categories_skipped"`
}

type EventStandingsResponse struct {
	EventID         string                     `json:"event_id"`
	Contests        []ContestStandingsResponse `json:"contests"`
	ContestsSkipped []SkippedDTO               `json:"contests_skipped"`
}

type CreateRequestRequest struct {
	Kind         string `json:"kind"`
	JudgeID      string `json:"judge_id"`
	CategoryID   string `json:"category_id"`
	ContestantID string `json:"contestant_id,omitempty"`
	Reason       string `json:"reason"`
}

type SignRequestRequest struct {
	SignatureName string `json:"signature_name"`
}

type RejectRequestRequest struct {
	Reason string `json:"reason"`
}

type QuorumSignatureDTO struct {
	SignerID      string `json:"signer_id"`
	SignatureName string `json:"signature_name"`
	Fingerprint   string `json:"fingerprint"`
	SignedAt      string `json:"signed_at"`
}

type QuorumRequestDTO struct {
	RequestID        string              `json:"request_id"`
	Kind             string              `json:"kind"`
	JudgeID          string              `json:"judge_id"`
	CategoryID       string              `json:"category_id"`
	ContestantID     string              `json:"contestant_id,omitempty"`
	Reason           string              `json:"reason"`
	RequestedBy      string              `json:"requested_by"`
	RequestedByRole  string              `json:"requested_by_role"`
	Status           string              `json:"status"`
	AuditorSignature *QuorumSignatureDTO `json:"auditor_signature,omitempty"`
	TallySignature   *QuorumSignatureDTO `json:"tally_signature,omitempty"`
	BoardSignature   *QuorumSignatureDTO `json:"board_signature,omitempty"`
	RejectedBy       string              `json:"rejected_by,omitempty"`
	RejectedReason   string              `json:"rejected_reason,omitempty"`
	RejectedAt       string              `json:"rejected_at,omitempty"`
	ExecutedAt       string              `json:"executed_at,omitempty"`
	ExecutionCount   int                 `json:"execution_count"`
	AffectedTotal    int                 `json:"affected_total"`
	CreatedAt        string              `json:"created_at"`
	UpdatedAt        string              `json:"updated_at"`
}

type RequestResponse struct {
	Item QuorumRequestDTO `json:"item"`
}

type SignRequestResponse struct {
	Item      QuorumRequestDTO `json:"item"`
	AllSigned bool             `json:"all_signed"`
}

type ListRequestsResponse struct {
	Items []QuorumRequestDTO `json:"items"`
}

type ExecuteRequestResponse struct {
	Item     QuorumRequestDTO `json:"item"`
	Affected int              `json:"affected"`
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
