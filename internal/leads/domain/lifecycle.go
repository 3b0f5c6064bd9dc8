package domain

// Stage is the lead's position in the fixed five-step pipeline.
type Stage string

const (
	StageNew        Stage = "new"
	StageContacted  Stage = "contacted"
	StageInProgress Stage = "in_progress"
	StageFollowedUp Stage = "followed_up"
	StageClosed     Stage = "closed"
)

// Stages lists the pipeline in order. Position in this slice is the stage index.
var Stages = []Stage{StageNew, StageContacted, StageInProgress, StageFollowedUp, StageClosed}

// Index returns the stage's pipeline position, or -1 for an unknown stage.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether s is one of the pipeline stages.
func (s Stage) IsValid() bool {
	return s.Index() >= 0
}

// Status is the coarse outcome label. It is tracked independently of Stage.
type Status string

const (
	StatusNew          Status = "New"
	StatusContacted    Status = "Contacted"
	StatusDocCollected Status = "Doc Collected"
	StatusApplied      Status = "Applied"
	StatusClosed       Status = "Closed"
)

// Statuses lists every known status label.
var Statuses = []Status{StatusNew, StatusContacted, StatusDocCollected, StatusApplied, StatusClosed}

// IsValid reports whether s is a known status label.
func (s Status) IsValid() bool {
	for _, st := range Statuses {
		if st == s {
			return true
		}
	}
	return false
}

// ContactMethod is the lead's preferred follow-up channel.
type ContactMethod string

const (
	ContactPhone    ContactMethod = "phone"
	ContactWhatsApp ContactMethod = "whatsapp"
	ContactEmail    ContactMethod = "email"
	ContactInPerson ContactMethod = "in_person"
)

// ContactMethods lists every known contact method.
var ContactMethods = []ContactMethod{ContactPhone, ContactWhatsApp, ContactEmail, ContactInPerson}

// IsValid reports whether m is a known contact method.
func (m ContactMethod) IsValid() bool {
	for _, cm := range ContactMethods {
		if cm == m {
			return true
		}
	}
	return false
}
