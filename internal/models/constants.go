package models

type LeadSource string

const (
	SourceWebsite   LeadSource = "Website"
	SourceLinkedIn  LeadSource = "LinkedIn"
	SourceReferral  LeadSource = "Referral"
	SourceColdCall  LeadSource = "Cold Call"
	SourceTradeShow LeadSource = "Trade Show"
)

type LeadStatus string

const (
	StatusNew       LeadStatus = "New"
	StatusQualified LeadStatus = "Qualified"
	StatusHot       LeadStatus = "Hot"
	StatusConverted LeadStatus = "Converted"
)

type OpportunityStage string

const (
	StageProspecting   OpportunityStage = "Prospecting"
	StageQualification OpportunityStage = "Qualification"
	StageProposal      OpportunityStage = "Proposal"
	StageNegotiation   OpportunityStage = "Negotiation"
	StageClosedWon     OpportunityStage = "Closed Won"
	StageClosedLost    OpportunityStage = "Closed Lost"
)

// Declaration order is the display order used by analytics and the seeder.
var (
	LeadSources       = []LeadSource{SourceWebsite, SourceLinkedIn, SourceReferral, SourceColdCall, SourceTradeShow}
	LeadStatuses      = []LeadStatus{StatusNew, StatusQualified, StatusHot, StatusConverted}
	OpportunityStages = []OpportunityStage{StageProspecting, StageQualification, StageProposal, StageNegotiation, StageClosedWon, StageClosedLost}
)

func (s LeadSource) Valid() bool {
	for _, v := range LeadSources {
		if v == s {
			return true
		}
	}
	return false
}

func (s LeadStatus) Valid() bool {
	for _, v := range LeadStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s OpportunityStage) Valid() bool {
	for _, v := range OpportunityStages {
		if v == s {
			return true
		}
	}
	return false
}

func (s OpportunityStage) Closed() bool {
	return s == StageClosedWon || s == StageClosedLost
}
