package services

import "leadforge/internal/models"

// LeadTransitions lists status changes allowed through a plain update.
// Converted is reached only through ConvertToOpportunity and never left.
var LeadTransitions = map[models.LeadStatus]map[models.LeadStatus]bool{
	models.StatusNew:       {models.StatusQualified: true, models.StatusHot: true},
	models.StatusQualified: {models.StatusNew: true, models.StatusHot: true},
	models.StatusHot:       {models.StatusNew: true, models.StatusQualified: true},
	models.StatusConverted: {},
}

// StageTransitions: open stages move freely, closed ones are final.
var StageTransitions = map[models.OpportunityStage]map[models.OpportunityStage]bool{
	models.StageProspecting:   openStageTargets(models.StageProspecting),
	models.StageQualification: openStageTargets(models.StageQualification),
	models.StageProposal:      openStageTargets(models.StageProposal),
	models.StageNegotiation:   openStageTargets(models.StageNegotiation),
	models.StageClosedWon:     {},
	models.StageClosedLost:    {},
}

func openStageTargets(from models.OpportunityStage) map[models.OpportunityStage]bool {
	out := make(map[models.OpportunityStage]bool, len(models.OpportunityStages))
	for _, s := range models.OpportunityStages {
		if s != from {
			out[s] = true
		}
	}
	return out
}

func canTransition[S comparable](current, to S, table map[S]map[S]bool) bool {
	if current == to {
		return true
	}
	var zero S
	if current == zero {
		return true
	}
	nexts, ok := table[current]
	if !ok {
		return false
	}
	return nexts[to]
}
