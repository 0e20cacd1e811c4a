package types

import "time"

// Role distinguishes the two account kinds.
type Role string

const (
	RolePatient      Role = "PATIENT"
	RoleProfessional Role = "PROFESSIONAL"
)

// User is a session-lifetime identity; nothing is persisted.
type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
	Specialty     string `json:"specialty,omitempty"`
	Verified      bool   `json:"verified"`
}

// VerdictStatus is the fixed enumeration the analysis provider must use.
type VerdictStatus string

const (
	StatusTrue       VerdictStatus = "TRUE"
	StatusFalse      VerdictStatus = "FALSE"
	StatusPartial    VerdictStatus = "PARTIAL"
	StatusMisleading VerdictStatus = "MISLEADING"
	StatusUnverified VerdictStatus = "UNVERIFIED"
)

// Valid reports whether s is one of the allowed verdict statuses.
func (s VerdictStatus) Valid() bool {
	switch s {
	case StatusTrue, StatusFalse, StatusPartial, StatusMisleading, StatusUnverified:
		return true
	}
	return false
}

// Source is a citation backing a verdict.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Definition explains one medical term referenced in a verdict summary.
type Definition struct {
	Term        string `json:"term"`
	Explanation string `json:"explanation"`
}

// Verdict is the result of one claim analysis. Claim always equals the
// input text that produced it. DoctorComment is the only field amended
// after creation.
type Verdict struct {
	Claim           string        `json:"claim"`
	Summary         string        `json:"summary"`
	ConfidenceScore float64       `json:"confidenceScore"`
	Status          VerdictStatus `json:"status"`
	EvidenceCount   int           `json:"evidenceCount"`
	Sources         []Source      `json:"sources"`
	Definitions     []Definition  `json:"definitions"`
	RelatedClaims   []string      `json:"relatedClaims"`
	DoctorComment   string        `json:"doctorComment,omitempty"`
	AnalyzedAt      time.Time     `json:"analyzedAt"`
}

// QuestionStatus tracks clinician review of a patient question.
type QuestionStatus string

const (
	QuestionOpen     QuestionStatus = "OPEN"
	QuestionAnswered QuestionStatus = "ANSWERED"
)

// PatientQuestion wraps a patient-submitted claim for clinician review.
// Status is ANSWERED exactly when DoctorResponse is non-empty.
type PatientQuestion struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	UserName       string         `json:"userName"`
	Text           string         `json:"text"`
	CreatedAt      time.Time      `json:"createdAt"`
	Verdict        *Verdict       `json:"verdict,omitempty"`
	DoctorResponse string         `json:"doctorResponse,omitempty"`
	Status         QuestionStatus `json:"status"`
}

// PostComment is one comment on a community post.
type PostComment struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CommunityPost is a free-text wellness experience shared to the feed.
// Posts are never edited or deleted; comments only append.
type CommunityPost struct {
	ID           string        `json:"id"`
	AuthorID     string        `json:"authorId"`
	AuthorName   string        `json:"authorName"`
	Professional bool          `json:"isProfessional"`
	Content      string        `json:"content"`
	Likes        int           `json:"likes"`
	CreatedAt    time.Time     `json:"createdAt"`
	Comments     []PostComment `json:"comments"`
}

// TopicType categorizes a trending topic.
type TopicType string

const (
	TopicIngredient TopicType = "INGREDIENT"
	TopicClaim      TopicType = "CLAIM"
)

// TrendingTopic is read-only seed data shown alongside the analyzer.
type TrendingTopic struct {
	ID    string    `json:"id"`
	Topic string    `json:"topic"`
	Count int       `json:"count"`
	Type  TopicType `json:"type"`
}
