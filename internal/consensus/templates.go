package consensus

import "github.com/rmedved/concord/internal/model"

// framing returns the level-keyed framing sentence. Strong and moderate
// consensus invert their framing when the agreement runs against the claim.
func framing(level model.ConsensusLevel, ratio float64) string {
	switch level {
	case model.LevelStrongConsensus:
		if ratio >= 0.5 {
			return "Experts broadly agree: the weight of high-quality evidence supports this claim."
		}
		return "Experts broadly agree: the weight of high-quality evidence contradicts this claim."
	case model.LevelModerateConsensus:
		if ratio >= 0.5 {
			return "Most high-quality evidence supports this claim, though some qualified dissent exists."
		}
		return "Most high-quality evidence contradicts this claim, though some qualified dissent exists."
	case model.LevelActiveDebate:
		return "Qualified experts are actively divided on this claim; the evidence does not settle it."
	case model.LevelEmergingResearch:
		return "Research on this question is new and still accumulating; no settled view exists yet."
	case model.LevelInsufficientResearch:
		return "There is not enough high-quality research to assess this claim either way."
	case model.LevelValuesQuestion:
		return "This is a question of values, not one that evidence can settle."
	case model.LevelMethodologicallyBlocked:
		return "This claim cannot currently be studied directly; only indirect evidence exists."
	default:
		return "The state of evidence for this claim could not be determined."
	}
}

// levelCaveats are the caveats every claim at a given level earns,
// before domain-specific caveats are layered on.
var levelCaveats = map[model.ConsensusLevel][]string{
	model.LevelStrongConsensus: nil,
	model.LevelModerateConsensus: {
		"A minority of quality studies disagree; the majority view could shift with new evidence.",
	},
	model.LevelActiveDebate: {
		"Experts disagree on this question; presenting either side as settled would be misleading.",
	},
	model.LevelEmergingResearch: {
		"Early findings often change as larger and longer studies appear.",
	},
	model.LevelInsufficientResearch: {
		"Absence of evidence is not evidence of absence; the question may simply be understudied.",
	},
	model.LevelValuesQuestion: nil,
	model.LevelMethodologicallyBlocked: {
		"Direct study is not currently feasible; any available evidence is indirect.",
	},
}
