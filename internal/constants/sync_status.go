package constants

// SyncStatus is the lifecycle status of a sync definition
type SyncStatus string

const (
	SyncStatusActive   SyncStatus = "Active"
	SyncStatusInactive SyncStatus = "Inactive"
)

func (s SyncStatus) IsValid() bool {
	return s == SyncStatusActive || s == SyncStatusInactive
}

// LogStatus is the resolved outcome written to the sync log
type LogStatus string

const (
	LogStatusSuccess LogStatus = "Success"
	LogStatusFailed  LogStatus = "Failed"
)

// Entity types with a dedicated relation column on the sync log
const (
	EntityLead        = "Lead"
	EntityContact     = "Contact"
	EntityAccount     = "Account"
	EntityOpportunity = "Opportunity"
)

// Terminal states of one record inside a dispatch
type RecordOutcome string

const (
	OutcomeSkipped RecordOutcome = "Skipped"
	OutcomeSuccess RecordOutcome = "Success"
	OutcomeFailed  RecordOutcome = "Failed"
)
