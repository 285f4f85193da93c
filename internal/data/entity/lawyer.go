package entity

import (
	"time"

	"github.com/google/uuid"
)

type LawyerStatus string

const (
	LawyerPending   LawyerStatus = "pending"
	LawyerApproved  LawyerStatus = "approved"
	LawyerRejected  LawyerStatus = "rejected"
	LawyerSuspended LawyerStatus = "suspended"
)

// verification decisions only leave pending; suspension is a separate admin action
var lawyerTransitions = map[LawyerStatus][]LawyerStatus{
	LawyerPending:   {LawyerApproved, LawyerRejected},
	LawyerApproved:  {LawyerSuspended},
	LawyerSuspended: {LawyerApproved},
}

func (s LawyerStatus) CanTransitionTo(next LawyerStatus) bool {
	for _, allowed := range lawyerTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type LawyerProfile struct {
	BaseNoDelete
	UserID                uuid.UUID    `db:"user_id"`
	BarCouncilID          string       `db:"bar_council_id"`
	BarCouncilCertificate *string      `db:"bar_council_certificate"`
	Specializations       []string     `db:"specializations"`
	YearsOfExperience     int          `db:"years_of_experience"`
	Education             string       `db:"education"`
	LawFirmName           *string      `db:"law_firm_name"`
	OfficeAddress         string       `db:"office_address"`
	ConsultationFee       *float64     `db:"consultation_fee"`
	LanguagesSpoken       []string     `db:"languages_spoken"`
	Bio                   string       `db:"bio"`
	Status                LawyerStatus `db:"status"`
	AvailableDays         []string     `db:"available_days"`
	AvailableTimeStart    *Clock       `db:"available_time_start"`
	AvailableTimeEnd      *Clock       `db:"available_time_end"`
	IdentityProof         *string      `db:"identity_proof"`
	DegreeCertificate     *string      `db:"degree_certificate"`
	AverageRating         float64      `db:"average_rating"`
	TotalReviews          int          `db:"total_reviews"`
	TotalConsultations    int          `db:"total_consultations"`
	VerifiedBy            *uuid.UUID   `db:"verified_by"`
	VerificationDate      *time.Time   `db:"verification_date"`
	RejectionReason       *string      `db:"rejection_reason"`
}

// LawyerListing is a profile joined with the owning account for directory pages
type LawyerListing struct {
	Profile LawyerProfile
	User    User
}

type LawyerRating struct {
	Base
	LawyerID uuid.UUID `db:"lawyer_id"`
	UserID   uuid.UUID `db:"user_id"`
	Rating   int       `db:"rating"`
	Review   *string   `db:"review"`
}

// RatingSummary is the denormalized aggregate kept on the lawyer profile
type RatingSummary struct {
	AverageRating float64
	TotalReviews  int
}

type DocumentKind string

const (
	UploadBarCouncilCertificate DocumentKind = "bar_council_certificate"
	UploadIdentityProof         DocumentKind = "identity_proof"
	UploadDegreeCertificate     DocumentKind = "degree_certificate"
)

func (k DocumentKind) IsValid() bool {
	switch k {
	case UploadBarCouncilCertificate, UploadIdentityProof, UploadDegreeCertificate:
		return true
	}
	return false
}

type Specialization struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var Specializations = []Specialization{
	{"family", "Family Law"},
	{"criminal", "Criminal Law"},
	{"civil", "Civil Law"},
	{"corporate", "Corporate Law"},
	{"property", "Property Law"},
	{"labour", "Labour Law"},
	{"tax", "Tax Law"},
	{"consumer", "Consumer Protection"},
	{"cyber", "Cyber Law"},
	{"immigration", "Immigration Law"},
	{"environmental", "Environmental Law"},
	{"intellectual", "Intellectual Property"},
	{"constitutional", "Constitutional Law"},
	{"other", "Other"},
}

func IsSpecialization(value string) bool {
	for _, s := range Specializations {
		if s.Value == value {
			return true
		}
	}
	return false
}
