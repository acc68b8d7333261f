package models

import "time"

// ContractorRequestStatus defines lifecycle states for contractor requests.
type ContractorRequestStatus string

const (
	// ContractorRequestStatusPending indicates the request is awaiting review.
	ContractorRequestStatusPending ContractorRequestStatus = "pending"
	// ContractorRequestStatusApproved indicates the company accepted the applicant.
	ContractorRequestStatusApproved ContractorRequestStatus = "approved"
	// ContractorRequestStatusRejected indicates the company declined the applicant.
	ContractorRequestStatusRejected ContractorRequestStatus = "rejected"
)

// ContractorRequest is one applicant's request to join one company.
// An applicant may request several companies but never the same company twice;
// the composite unique index is the authoritative backstop for that rule.
type ContractorRequest struct {
	ID            uint                    `gorm:"primaryKey" json:"id"`
	ApplicantID   uint                    `gorm:"not null;uniqueIndex:idx_request_applicant_company" json:"applicant_id"`
	Applicant     *Applicant              `gorm:"foreignKey:ApplicantID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"applicant,omitempty"`
	CompanySlug   string                  `gorm:"size:64;not null;uniqueIndex:idx_request_applicant_company" json:"company_slug"`
	CompanyName   string                  `gorm:"size:120;not null" json:"company_name"`
	Status        ContractorRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	JoinedChannel bool                    `gorm:"not null;default:false" json:"joined_channel"`
	MayBeginWork  bool                    `gorm:"not null;default:false" json:"may_begin_work"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}
