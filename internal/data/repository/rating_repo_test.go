package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// testDB connects to TEST_DATABASE_URL and applies the schema, skipping when unset
func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool, role entity.UserRole) uuid.UUID {
	t.Helper()
	id := uuid.New()
	tag := id.String()[:8]
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, username, email, password, role) VALUES ($1, $2, $3, 'x', $4)`,
		id, "user-"+tag, tag+"@test.local", role)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func seedLawyer(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	userID := seedUser(t, pool, entity.RoleLawyer)
	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO lawyer_profiles (id, user_id, bar_council_id, years_of_experience, education, office_address, bio, status)
		VALUES ($1, $2, $3, 5, 'LLB', 'Court Road', 'bio', 'approved')
	`, id, userID, "BAR-"+id.String()[:8])
	if err != nil {
		t.Fatalf("seed lawyer: %v", err)
	}
	return id
}

func newRating(lawyerID, userID uuid.UUID, value int) *entity.LawyerRating {
	return &entity.LawyerRating{
		Base:     entity.NewBase(time.Now()),
		LawyerID: lawyerID,
		UserID:   userID,
		Rating:   value,
	}
}

func assertSummary(t *testing.T, step string, got *entity.RatingSummary, avg float64, total int) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s: summary is nil", step)
	}
	if got.AverageRating != avg || got.TotalReviews != total {
		t.Errorf("%s: summary = %.2f/%d, want %.2f/%d", step, got.AverageRating, got.TotalReviews, avg, total)
	}
}

func TestRatingAggregateFollowsLiveRatings(t *testing.T) {
	pool := testDB(t)
	repo := NewRatingRepository(pool, zap.NewNop())
	ctx := context.Background()

	lawyerID := seedLawyer(t, pool)
	first := newRating(lawyerID, seedUser(t, pool, entity.RoleUser), 4)
	second := newRating(lawyerID, seedUser(t, pool, entity.RoleUser), 2)
	third := newRating(lawyerID, seedUser(t, pool, entity.RoleUser), 5)

	summary, err := repo.Create(ctx, first)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	assertSummary(t, "after 4", summary, 4, 1)

	summary, err = repo.Create(ctx, second)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	assertSummary(t, "after 4 and 2", summary, 3, 2)

	// 11/3 rounds to 3.67
	summary, err = repo.Create(ctx, third)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	assertSummary(t, "after 4, 2 and 5", summary, 3.67, 3)

	second.Rating = 3
	summary, err = repo.Update(ctx, second)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	assertSummary(t, "after editing 2 to 3", summary, 4, 3)

	for _, step := range []struct {
		rating *entity.LawyerRating
		avg    float64
		total  int
	}{
		{third, 3.5, 2},
		{first, 3, 1},
		{second, 0, 0},
	} {
		summary, err = repo.Delete(ctx, step.rating)
		if           err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		assertSummary(t, "after delete", summary, step.avg, step.total)
	}

	if _, err := repo.Delete(ctx, first); err == nil {
		t.Error("deleting an already deleted rating succeeded")
	}
}
