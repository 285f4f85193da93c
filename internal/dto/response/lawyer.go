package response

import (
	"time"

	"legal-marketplace/internal/data/entity"
)

type LawyerResponse struct {
	ID                 string              `json:"id"`
	User               *PublicUser         `json:"user,omitempty"`
	City               *string             `json:"city,omitempty"`
	State              *string             `json:"state,omitempty"`
	BarCouncilID       string              `json:"bar_council_id"`
	Specializations    []string            `json:"specializations"`
	YearsOfExperience  int                 `json:"years_of_experience"`
	Education          string              `json:"education"`
	LawFirmName        *string             `json:"law_firm_name,omitempty"`
	OfficeAddress      string              `json:"office_address"`
	ConsultationFee    *float64            `json:"consultation_fee,omitempty"`
	LanguagesSpoken    []string            `json:"languages_spoken"`
	Bio                string              `json:"bio"`
	AvailableDays      []string            `json:"available_days"`
	AvailableTimeStart *entity.Clock       `json:"available_time_start,omitempty"`
	AvailableTimeEnd   *entity.Clock       `json:"available_time_end,omitempty"`
	AverageRating      float64             `json:"average_rating"`
	TotalReviews       int                 `json:"total_reviews"`
	TotalConsultations int                 `json:"total_consultations"`
	Status             entity.LawyerStatus `json:"status"`
	CreatedAt          time.Time           `json:"created_at"`

	// owner and admin only
	Private *LawyerPrivateFields `json:"verification,omitempty"`
}

type LawyerPrivateFields struct {
	BarCouncilCertificate *string    `json:"bar_council_certificate,omitempty"`
	IdentityProof         *string    `json:"identity_proof,omitempty"`
	DegreeCertificate     *string    `json:"degree_certificate,omitempty"`
	VerifiedBy            *string    `json:"verified_by,omitempty"`
	VerificationDate      *time.Time `json:"verification_date,omitempty"`
	RejectionReason       *string    `json:"rejection_reason,omitempty"`
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// LawyerToResponse converts a profile; user may be nil, private adds verification details
func LawyerToResponse(p *entity.LawyerProfile, user *entity.User, private bool) LawyerResponse {
	resp := LawyerResponse{
		ID:                 p.ID.String(),
		User:               ToPublicUser(user),
		BarCouncilID:       p.BarCouncilID,
		Specializations:    nonNil(p.Specializations),
		YearsOfExperience:  p.YearsOfExperience,
		Education:          p.Education,
		LawFirmName:        p.LawFirmName,
		OfficeAddress:      p.OfficeAddress,
		ConsultationFee:    p.ConsultationFee,
		LanguagesSpoken:    nonNil(p.LanguagesSpoken),
		Bio:                p.Bio,
		AvailableDays:      nonNil(p.AvailableDays),
		AvailableTimeStart: p.AvailableTimeStart,
		AvailableTimeEnd:   p.AvailableTimeEnd,
		AverageRating:      p.AverageRating,
		TotalReviews:       p.TotalReviews,
		TotalConsultations: p.TotalConsultations,
		Status:             p.Status,
		CreatedAt:          p.CreatedAt,
	}
	if user != nil {
		resp.City = user.City
		resp.State = user.State
	}

	if private {
		priv := &LawyerPrivateFields{
			BarCouncilCertificate: p.BarCouncilCertificate,
			IdentityProof:         p.IdentityProof,
			DegreeCertificate:     p.DegreeCertificate,
			VerificationDate:      p.VerificationDate,
			RejectionReason:       p.RejectionReason,
		}
		if p.VerifiedBy != nil {
			id := p.VerifiedBy.String()
			priv.VerifiedBy = &id
		}
		resp.Private = priv
	}
	return resp
}

func ListingToResponse(l *entity.LawyerListing, private bool) LawyerResponse {
	return LawyerToResponse(&l.Profile, &l.User, private)
}

type RatingResponse struct {
	ID        string      `json:"id"`
	LawyerID  string      `json:"lawyer_id"`
	User      *PublicUser `json:"user,omitempty"`
	Rating    int         `json:"rating"`
	Review    *string     `json:"review,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RatingResultResponse is returned by rating writes together with the refreshed aggregate
type RatingResultResponse struct {
	Rating        *RatingResponse `json:"rating,omitempty"`
	AverageRating float64         `json:"average_rating"`
	TotalReviews  int             `json:"total_reviews"`
}

func RatingToResponse(r *entity.LawyerRating, user *entity.User) RatingResponse {
	return RatingResponse{
		ID:        r.ID.String(),
		LawyerID:  r.LawyerID.String(),
		User:      ToPublicUser(user),
		Rating:    r.Rating,
		Review:    r.Review,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
