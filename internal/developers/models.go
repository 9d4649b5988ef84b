package developers

import (
	"strings"
	"time"
)

// Grade is the final certification grade of a record
type Grade string

const (
	GradePass    Grade = "Pass"
	GradePending Grade = "Pending"
)

// ParseGrade maps free text to a Grade. Anything other than "pass"
// (case-insensitive) is Pending.
func ParseGrade(s string) Grade {
	if strings.EqualFold(strings.TrimSpace(s), string(GradePass)) {
		return GradePass
	}
	return GradePending
}

// UnknownPartnerCode is assigned when a record carries no partner information
const UnknownPartnerCode = "UNKNOWN"

// DeveloperRecord is one enrollment/certification attempt
type DeveloperRecord struct {
	ID                  string     `json:"id,omitempty" firestore:"-"`
	Email               string     `json:"email" firestore:"email"`
	FirstName           string     `json:"first_name" firestore:"firstName"`
	LastName            string     `json:"last_name" firestore:"lastName"`
	PhoneNumber         string     `json:"phone_number" firestore:"phone"`
	Country             string     `json:"country" firestore:"country"`
	WalletAddress       string     `json:"wallet_address" firestore:"walletAddress"`
	PartnerCode         string     `json:"partner_code" firestore:"partnerCode"`
	AcceptedMembership  bool       `json:"accepted_membership" firestore:"acceptedMembership"`
	AcceptedMarketing   bool       `json:"accepted_marketing" firestore:"acceptedMarketing"`
	PercentageCompleted int        `json:"percentage_completed" firestore:"percentageCompleted"`
	CreatedAt           time.Time  `json:"created_at" firestore:"createdAt"`
	CompletedAt         *time.Time `json:"completed_at,omitempty" firestore:"completedAt"`
	FinalScore          int        `json:"final_score" firestore:"finalScore"`
	FinalGrade          Grade      `json:"final_grade" firestore:"finalGrade"`
	CAStatus            string     `json:"ca_status" firestore:"caStatus"`

	// Fraud assessment, derived from the fields above
	IsSuspicious    bool     `json:"is_suspicious" firestore:"isSuspicious"`
	SuspicionReason string   `json:"suspicion_reason,omitempty" firestore:"suspicionReason"`
	RiskScore       int      `json:"risk_score" firestore:"riskScore"`
	FraudSignals    []string `json:"fraud_signals,omitempty" firestore:"fraudSignals"`
}

// IsCertified reports whether the record passed
func (r *DeveloperRecord) IsCertified() bool {
	return r.FinalGrade == GradePass
}

// CompletionHours returns the hours between creation and completion. ok is
// false when either timestamp is missing.
func (r *DeveloperRecord) CompletionHours() (hours float64, ok bool) {
	if r.CompletedAt == nil || r.CreatedAt.IsZero() {
		return 0, false
	}
	return r.CompletedAt.Sub(r.CreatedAt).Hours(), true
}

// IsRapidCertification reports a certified record completed in under 5 hours
func (r *DeveloperRecord) IsRapidCertification() bool {
	if !r.IsCertified() {
		return false
	}
	hours, ok := r.CompletionHours()
	return ok && hours < 5
}

// HasFlaggedCAStatus reports whether the community administrator flagged the record
func (r *DeveloperRecord) HasFlaggedCAStatus() bool {
	return strings.Contains(strings.ToLower(r.CAStatus), "flag")
}

// NormalizedWallet returns the wallet address used for duplicate detection
func (r *DeveloperRecord) NormalizedWallet() string {
	return strings.ToLower(strings.TrimSpace(r.WalletAddress))
}

// SameAssessment reports whether two records carry identical fraud fields
func (r *DeveloperRecord) SameAssessment(other *DeveloperRecord) bool {
	if r.IsSuspicious != other.IsSuspicious || r.SuspicionReason != other.SuspicionReason || r.RiskScore != other.RiskScore {
		return false
	}
	if len(r.FraudSignals) != len(other.FraudSignals) {
		return false
	}
	for i := range r.FraudSignals {
		if r.FraudSignals[i] != other.FraudSignals[i] {
			return false
		}
	}
	return true
}

// UpsertStatus is the per-record result of a bulk upsert
type UpsertStatus string

const (
	UpsertCreated UpsertStatus = "created"
	UpsertUpdated UpsertStatus = "updated"
	UpsertFailed  UpsertStatus = "failed"
)

// UpsertOutcome reports what happened to one record in a bulk upsert
type UpsertOutcome struct {
	Email  string       `json:"email"`
	ID     string       `json:"id,omitempty"`
	Status UpsertStatus `json:"status"`
	Error  string       `json:"error,omitempty"`
}

// CreateDeveloperRequest is the request body for creating a developer record
type CreateDeveloperRequest struct {
	Email               string     `json:"email" validate:"required,email"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	PhoneNumber         string     `json:"phone_number"`
	Country             string     `json:"country"`
	WalletAddress       string     `json:"wallet_address"`
	PartnerCode         string     `json:"partner_code" validate:"omitempty,partner_code"`
	AcceptedMembership  bool       `json:"accepted_membership"`
	AcceptedMarketing   bool       `json:"accepted_marketing"`
	PercentageCompleted int        `json:"percentage_completed" validate:"gte=0,lte=100"`
	CreatedAt           *time.Time `json:"created_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	FinalScore          int        `json:"final_score" validate:"gte=0"`
	FinalGrade          string     `json:"final_grade" validate:"omitempty,grade"`
	CAStatus            string     `json:"ca_status"`
}

// ToRecord builds a record from the request, applying defaults
func (req *CreateDeveloperRequest) ToRecord(now time.Time) DeveloperRecord {
	rec := DeveloperRecord{
		Email:               strings.TrimSpace(req.Email),
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		PhoneNumber:         req.PhoneNumber,
		Country:             req.Country,
		WalletAddress:       req.WalletAddress,
		PartnerCode:         strings.TrimSpace(req.PartnerCode),
		AcceptedMembership:  req.AcceptedMembership,
		AcceptedMarketing:   req.AcceptedMarketing,
		PercentageCompleted: req.PercentageCompleted,
		CreatedAt:           now,
		CompletedAt:         req.CompletedAt,
		FinalScore:          req.FinalScore,
		FinalGrade:          ParseGrade(req.FinalGrade),
		CAStatus:            req.CAStatus,
	}
	if req.CreatedAt != nil {
		rec.CreatedAt = *req.CreatedAt
	}
	if rec.PartnerCode == "" {
		rec.PartnerCode = UnknownPartnerCode
	}
	return rec
}

// UpdateDeveloperRequest is the request body for a partial update
type UpdateDeveloperRequest struct {
	Email               *string    `json:"email,omitempty" validate:"omitempty,email"`
	FirstName           *string    `json:"first_name,omitempty"`
	LastName            *string    `json:"last_name,omitempty"`
	PhoneNumber         *string    `json:"phone_number,omitempty"`
	Country             *string    `json:"country,omitempty"`
	WalletAddress       *string    `json:"wallet_address,omitempty"`
	PartnerCode         *string    `json:"partner_code,omitempty" validate:"omitempty,partner_code"`
	AcceptedMembership  *bool      `json:"accepted_membership,omitempty"`
	AcceptedMarketing   *bool      `json:"accepted_marketing,omitempty"`
	PercentageCompleted *int       `json:"percentage_completed,omitempty" validate:"omitempty,gte=0,lte=100"`
	CreatedAt           *time.Time `json:"created_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	FinalScore          *int       `json:"final_score,omitempty" validate:"omitempty,gte=0"`
	FinalGrade          *string    `json:"final_grade,omitempty" validate:"omitempty,grade"`
	CAStatus            *string    `json:"ca_status,omitempty"`
}

// Apply merges the non-nil request fields into rec
func (req *UpdateDeveloperRequest) Apply(rec *DeveloperRecord) {
	if req.Email != nil {
		rec.Email = strings.TrimSpace(*req.Email)
	}
	if req.FirstName != nil {
		rec.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		rec.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		rec.PhoneNumber = *req.PhoneNumber
	}
	if req.Country != nil {
		rec.Country = *req.Country
	}
	if req.WalletAddress != nil {
		rec.WalletAddress = *req.WalletAddress
	}
	if req.PartnerCode != nil {
		rec.PartnerCode = strings.TrimSpace(*req.PartnerCode)
	}
	if req.AcceptedMembership != nil {
		rec.AcceptedMembership = *req.AcceptedMembership
	}
	if req.AcceptedMarketing != nil {
		rec.AcceptedMarketing = *req.AcceptedMarketing
	}
	if req.PercentageCompleted != nil {
		rec.PercentageCompleted = *req.PercentageCompleted
	}
	if req.CreatedAt != nil {
		rec.CreatedAt = *req.CreatedAt
	}
	if req.CompletedAt != nil {
		rec.CompletedAt = req.CompletedAt
	}
	if req.FinalScore != nil {
		rec.FinalScore = *req.FinalScore
	}
	if req.FinalGrade != nil {
		rec.FinalGrade = ParseGrade(*req.FinalGrade)
	}
	if req.CAStatus != nil {
		rec.CAStatus = *req.CAStatus
	}
}
