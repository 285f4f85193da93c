package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"legal-marketplace/internal/data/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestLawyerOrderClause(t *testing.T) {
	tests := []struct {
		name     string
		ordering []string
		want     string
	}{
		{
			name: "default",
			want: "lp.average_rating DESC, lp.total_reviews DESC, lp.created_at DESC",
		},
		{
			name:     "ascending fee keeps nulls last",
			ordering: []string{"consultation_fee"},
			want:     "lp.consultation_fee ASC NULLS LAST, lp.created_at DESC",
		},
		{
			name:     "unknown keys dropped",
			ordering: []string{"password_hash", " -years_of_experience"},
			want:     "lp.years_of_experience DESC, lp.created_at DESC",
		},
		{
			name:     "only unknown keys falls back",
			ordering: []string{"1; DROP TABLE users"},
			want:     "lp.average_rating DESC, lp.total_reviews DESC, lp.created_at DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LawyerOrderClause(tt.ordering); got != tt.want {
				t.Errorf("LawyerOrderClause() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPublicLawyerWhere(t *testing.T) {
	years, fee := 5, 2000.0
	w := publicLawyerWhere(LawyerFilter{
		Specialization: "family_law",
		MinExperience:  &years,
		MaxFee:         &fee,
		Search:         "sharma",
	})

	sql := w.sql()
	for _, want := range []string{
		"lp.status = $1",
		"u.deleted_at IS NULL",
		"$2 = ANY(lp.specializations)",
		"lp.years_of_experience >= $3",
		"lp.consultation_fee <= $4",
		`u.first_name ILIKE $5 ESCAPE '\' OR u.last_name ILIKE $5 ESCAPE '\'`,
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("where clause missing %q:\n%s", want, sql)
		}
	}

	want := []any{entity.LawyerApproved, "family_law", 5, 2000.0, "%sharma%"}
	if fmt.Sprint(w.args) != fmt.Sprint(want) {
		t.Errorf("args = %v, want %v", w.args, want)
	}
}

func TestPublicLawyerWhereMatchesWildcardsLiterally(t *testing.T) {
	w := publicLawyerWhere(LawyerFilter{
		Language: "Hindi_",
		City:     "100%",
		Search:   `o\'brien`,
	})

	sql := w.sql()
	for _, want := range []string{
		`lang ILIKE $2 ESCAPE '\'`,
		`u.city ILIKE $3 ESCAPE '\'`,
		`lp.bio ILIKE $4 ESCAPE '\'`,
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("where clause missing %q:\n%s", want, sql)
		}
	}

	want := []any{entity.LawyerApproved, `Hindi\_`, `%100\%%`, `%o\\'brien%`}
	if fmt.Sprint(w.args) != fmt.Sprint(want) {
		t.Errorf("args = %v, want %v", w.args, want)
	}
}

func TestWhereBuilderEmpty(t *testing.T) {
	if got := (&whereBuilder{}).sql(); got != "" {
		t.Errorf("sql() = %q, want empty", got)
	}
}

func TestErrorClassification(t *testing.T) {
	if !isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})) {
		t.Error("wrapped 23505 not recognised as unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation reported as unique")
	}
	if !isNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)) {
		t.Error("wrapped ErrNoRows not recognised")
	}
	if isNoRows(errors.New("boom")) {
		t.Error("plain error reported as no rows")
	}
}
