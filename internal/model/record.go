package model

import "strings"

const Unknown = "unknown"

// Goal status as answered by the model.
const (
	GoalYes      = "Yes"
	GoalNo       = "No"
	GoalNotFound = "Not Found"
)

type OrganizationQuery struct {
	Name string
}

type ExtractionRecord struct {
	Organization    string
	GoalDescription string
	TargetYear      string
	BaselineYear    string
	Scope           string
	SourceURLs      []string
	RawModelOutput  string

	GoalStatus       string
	ModelUsed        string
	SearchFailed     bool
	ExtractionFailed bool
}

// NewUnknownRecord returns a record for org with every extracted field unknown.
func NewUnknownRecord(org string) ExtractionRecord {
	return ExtractionRecord{
		Organization:    org,
		GoalDescription: Unknown,
		TargetYear:      Unknown,
		BaselineYear:    Unknown,
		Scope:           Unknown,
		GoalStatus:      GoalNotFound,
	}
}

// HasGoal reports the model's explicit answer when it gave one and falls
// back to whether a goal description was found.
func (r ExtractionRecord) HasGoal() bool {
	switch r.GoalStatus {
	case GoalYes:
		return true
	case GoalNo:
		return false
	}
	return !IsUnknown(r.GoalDescription)
}

// DeclaresNoGoal is true when the sources state the organization has no goal,
// as opposed to nothing being found.
func (r ExtractionRecord) DeclaresNoGoal() bool {
	return r.GoalStatus == GoalNo
}

func (r ExtractionRecord) JoinedURLs() string {
	return strings.Join(r.SourceURLs, ";")
}

func IsUnknown(v string) bool {
	return v == "" || v == Unknown
}
