package services

import "verdict/contexts/judging/certification-service/domain/entities"

// Action names a role-gated operation of the judging workflow.
type Action string

const (
	ActionSubmitScore         Action = "submit_score"
	ActionRecordDeduction     Action = "record_deduction"
	ActionCertifyJudgeScores  Action = "certify_judge_scores"
	ActionCertifyCategory     Action = "certify_category"
	ActionSignWinners         Action = "sign_winners"
	ActionViewHiddenStandings Action = "view_hidden_standings"
	ActionCreateQuorumRequest Action = "create_quorum_request"
	ActionRejectQuorumRequest Action = "reject_quorum_request"
)

var policy = map[Action][]entities.Role{
	ActionSubmitScore:        {entities.RoleJudge, entities.RoleAdmin},
	ActionRecordDeduction:    {entities.RoleTallyMaster, entities.RoleAdmin, entities.RoleBoard},
	ActionCertifyJudgeScores: {entities.RoleJudge, entities.RoleAdmin},
	ActionCertifyCategory: {
		entities.RoleAdmin,
		entities.RoleTallyMaster,
		entities.RoleAuditor,
		entities.RoleBoard,
		entities.RoleOrganizer,
	},
	ActionSignWinners: {
		entities.RoleAdmin,
		entities.RoleOrganizer,
		entities.RoleBoard,
		entities.RoleJudge,
		entities.RoleTallyMaster,
		entities.RoleAuditor,
	},
	ActionViewHiddenStandings: {entities.RoleAdmin, entities.RoleBoard},
	ActionCreateQuorumRequest: {entities.RoleBoard, entities.RoleAdmin},
	ActionRejectQuorumRequest: {
		entities.RoleAuditor,
		entities.RoleTallyMaster,
		entities.RoleBoard,
		entities.RoleAdmin,
	},
}

// IsAuthorizedFor is the single role policy of the certification workflow.
// Unknown actions deny.
func IsAuthorizedFor(action Action, role entities.Role) bool {
	for _, allowed := range policy[action] {
		if allowed == role {
			return true
		}
	}
	return false
}
