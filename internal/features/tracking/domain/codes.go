package domain

import "strings"

// CodeSet matches a raw carrier status by exact code or by status category.
type CodeSet struct {
	Codes      []string `yaml:"codes" json:"codes,omitempty"`
	Categories []string `yaml:"categories" json:"categories,omitempty"`
}

// Contains reports whether code or category is a member of the set.
// Categories are compared case-insensitively; codes are compared exactly.
func (s CodeSet) Contains(code, category string) bool {
	for _, c := range s.Codes {
		if c == code {
			return true
		}
	}
	if category == "" {
		return false
	}
	for _, c := range s.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// CarrierCodes is one carrier's classification tables.
//
// A delay code only produces a delay outcome when it is also a problem code, so
// delay codes are normally listed under both.
type CarrierCodes struct {
	Aliases         []string          `yaml:"aliases"`
	Delivered       CodeSet           `yaml:"delivered"`
	Problem         CodeSet           `yaml:"problem"`
	Delay           CodeSet           `yaml:"delay"`
	AwaitingPickup  CodeSet           `yaml:"awaiting_pickup"`
	Alert           CodeSet           `yaml:"alert"`
	ActionableAlert CodeSet           `yaml:"actionable_alert"`
	IssueSubjects   map[string]string `yaml:"issue_subjects"`
}

// Classify sets the snapshot's classification flags from its code and category.
// Codes absent from every table leave all flags false.
func (c CarrierCodes) Classify(s *TrackingSnapshot) {
	s.IsDelivered = c.Delivered.Contains(s.StatusCode, s.Category)
	s.IsProblem = c.Problem.Contains(s.StatusCode, s.Category)
	s.IsDelayed = c.Delay.Contains(s.StatusCode, s.Category)
	s.IsAwaitingPickup = c.AwaitingPickup.Contains(s.StatusCode, s.Category)
	s.IsAlert = c.Alert.Contains(s.StatusCode, s.Category)
	s.IsActionableAlert = s.IsAlert && c.ActionableAlert.Contains(s.StatusCode, s.Category)
	s.Issue = c.IssueSubject(s.StatusCode, s.Description)
}

// IssueSubject returns the configured alert subject for code, falling back to the description.
func (c CarrierCodes) IssueSubject(code, description string) string {
	if subject, ok := c.IssueSubjects[code]; ok && subject != "" {
		return subject
	}
	return strings.ToUpper(description)
}
