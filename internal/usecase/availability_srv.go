package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityService interface {
	ListOwn(ctx context.Context, lawyerID uuid.UUID) ([]response.AvailabilityResponse, error)
	Create(ctx context.Context, lawyerID uuid.UUID, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
	Update(ctx context.Context, lawyerID, id uuid.UUID, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
	Delete(ctx context.Context, lawyerID, id uuid.UUID) error

	ListForLawyer(ctx context.Context, lawyerID uuid.UUID) ([]response.AvailabilityResponse, error)
	Slots(ctx context.Context, lawyerID uuid.UUID, req *request.SlotsRequest) (*response.SlotsResponse, error)
}

type availabilityService struct {
	repo *repository.Repository
	loc  *time.Location
	log  *zap.Logger
	now  func() time.Time
}

func NewAvailabilityService(repo *repository.Repository, loc *time.Location, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo: repo,
		loc:  loc,
		log:  log.With(zap.String("service", "availability")),
		now:  time.Now,
	}
}

func (s *availabilityService) list(ctx context.Context, lawyerID uuid.UUID) ([]response.AvailabilityResponse, error) {
	rows, err := s.repo.Availability.ListByLawyer(ctx, lawyerID)
	if err != nil {
		s.log.Error("Failed to list availability", zap.Error(err), zap.String("lawyer_id", lawyerID.String()))
		return nil, fmt.Errorf("list availability: %w", err)
	}

	out := make([]response.AvailabilityResponse, len(rows))
	for i, row := range rows {
		out[i] = response.AvailabilityToResponse(row)
	}
	return out, nil
}

func (s *availabilityService) ListOwn(ctx context.Context, lawyerID uuid.UUID) ([]response.AvailabilityResponse, error) {
	return s.list(ctx, lawyerID)
}

func (s *availabilityService) ListForLawyer(ctx context.Context, lawyerID uuid.UUID) ([]response.AvailabilityResponse, error) {
	user, err := s.repo.User.FindByID(ctx, lawyerID)
	if err != nil {
		return nil, fmt.Errorf("find lawyer: %w", err)
	}
	if user == nil || !user.IsLawyer() {
		return nil, notFound("lawyer")
	}
	return s.list(ctx, lawyerID)
}

// applyAvailability copies req onto row and checks the resulting window
func applyAvailability(row *entity.Availability, req *request.AvailabilityRequest) error {
	start, err := entity.ParseClock(req.StartTime)
	if err != nil {
		return invalid("invalid start_time")
	}
	end, err := entity.ParseClock(req.EndTime)
	if err != nil {
		return invalid("invalid end_time")
	}
	breakStart, err := parseClockPtr(req.BreakStartTime, "break_start_time")
	if err != nil {
		return err
	}
	breakEnd, err := parseClockPtr(req.BreakEndTime, "break_end_time")
	if err != nil {
		return err
	}

	row.Weekday = req.Weekday
	row.StartTime = start
	row.EndTime = end
	row.BreakStartTime = breakStart
	row.BreakEndTime = breakEnd
	row.IsHoliday = req.IsHoliday
	row.IsAvailable = true
	if req.IsAvailable != nil {
		row.IsAvailable = *req.IsAvailable
	}
	row.SpecialDate = nil
	if req.SpecialDate != nil {
		date, err := parseDate(*req.SpecialDate)
		if err != nil {
			return invalid("invalid special_date")
		}
		row.SpecialDate = &date
		row.Weekday = entity.MondayWeekday(date)
	}

	if !row.Valid() {
		return invalid("start_time must be before end_time and breaks must fall inside the window")
	}
	return nil
}

func (s *availabilityService) Create(ctx context.Context, lawyerID uuid.UUID, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	now := s.now()
	row := &entity.Availability{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		LawyerID:     lawyerID,
	}
	if err := applyAvailability(row, req); err != nil {
		return nil, err
	}

	if err := s.repo.Availability.Create(ctx, row); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("an availability window already starts at %s on that day", row.StartTime)
		}
		return nil, fmt.Errorf("create availability: %w", err)
	}

	s.log.Info("Availability created",
		zap.String("availability_id", row.ID.String()),
		zap.String("lawyer_id", lawyerID.String()),
		zap.Int("weekday", row.Weekday),
	)

	resp := response.AvailabilityToResponse(row)
	return &resp, nil
}

func (s *availabilityService) own(ctx context.Context, lawyerID, id uuid.UUID) (*entity.Availability, error) {
	row, err := s.repo.Availability.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find availability: %w", err)
	}
	if row == nil {
		return nil, notFound("availability")
	}
	if row.LawyerID != lawyerID {
		return nil, forbidden("you can only manage your own availability")
	}
	return row, nil
}

func (s *availabilityService) Update(ctx context.Context, lawyerID, id uuid.UUID, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	row, err := s.own(ctx, lawyerID, id)
	if err != nil {
		return nil, err
	}
	if err := applyAvailability(row, req); err != nil {
		return nil, err
	}
	row.Touch(s.now())

	if err := s.repo.Availability.Update(ctx, row); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, conflict("an availability window already starts at %s on that day", row.StartTime)
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("availability")
		}
		return nil, fmt.Errorf("update availability: %w", err)
	}

	resp := response.AvailabilityToResponse(row)
	return &resp, nil
}

func (s *availabilityService) Delete(ctx context.Context, lawyerID, id uuid.UUID) error {
	if _, err := s.own(ctx, lawyerID, id); err != nil {
		return err
	}
	if err := s.repo.Availability.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("availability")
		}
		return fmt.Errorf("delete availability: %w", err)
	}

	s.log.Info("Availability deleted", zap.String("availability_id", id.String()))
	return nil
}

func (s *availabilityService) Slots(ctx context.Context, lawyerID uuid.UUID, req *request.SlotsRequest) (*response.SlotsResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, invalid("invalid date")
	}
	duration := req.Duration
	if duration <= 0 {
		duration = defaultDurationMinutes
	}

	user, err := s.repo.User.FindByID(ctx, lawyerID)
	if err != nil {
		return nil, fmt.Errorf("find lawyer: %w", err)
	}
	if user == nil || !user.IsLawyer() {
		return nil, notFound("lawyer")
	}

	out := &response.SlotsResponse{
		LawyerID: lawyerID.String(),
		Date:     req.Date,
		Duration: duration,
		Slots:    []response.SlotResponse{},
	}

	now := s.now()
	day := today(now, s.loc)
	if date.Before(day) {
		return out, nil
	}

	rows, err := s.repo.Availability.ListForDate(ctx, lawyerID, date)
	if err != nil {
		s.log.Error("Failed to load availability", zap.Error(err), zap.String("lawyer_id", lawyerID.String()))
		return nil, fmt.Errorf("load availability: %w", err)
	}
	busy, err := s.repo.Appointment.ListBusy(ctx, lawyerID, date)
	if err != nil {
		s.log.Error("Failed to load booked appointments", zap.Error(err), zap.String("lawyer_id", lawyerID.String()))
		return nil, fmt.Errorf("load booked appointments: %w", err)
	}

	for _, slot := range computeSlots(rows, busy, date, duration) {
		// slots already started today are not bookable
		if date.Equal(day) && slot.Start <= entity.ClockOf(now.In(s.loc)) {
			continue
		}
		out.Slots = append(out.Slots, slot)
	}
	return out, nil
}

type window struct {
	start, end entity.Clock
}

// computeSlots splits the free time of date into duration-minute slots.
// Rows dated for the day replace the weekly rows; a holiday blanks the day.
func computeSlots(rows []*entity.Availability, busy []*entity.Appointment, date time.Time, duration int) []response.SlotResponse {
	if duration <= 0 {
		return nil
	}

	var weekly, special []*entity.Availability
	for _, row := range rows {
		switch {
		case row.SpecialDate == nil:
			if row.Weekday == entity.MondayWeekday(date) {
				weekly = append(weekly, row)
			}
		case sameDate(*row.SpecialDate, date):
			special = append(special, row)
		}
	}
	active := weekly
	if len(special) > 0 {
		active = special
	}

	var free []window
	for _, row := range active {
		if row.IsHoliday {
			return nil
		}
		if !row.IsAvailable {
			continue
		}
		w := []window{{row.StartTime, row.EndTime}}
		if row.HasBreak() {
			w = subtract(w, window{*row.BreakStartTime, *row.BreakEndTime})
		}
		free = append(free, w...)
	}
	free = merge(free)

	for _, appt := range busy {
		if !sameDate(appt.ScheduledDate(), date) {
			continue
		}
		start := appt.ScheduledTime()
		free = subtract(free, window{start, start.Add(time.Duration(appt.DurationMinutes) * time.Minute)})
	}

	step := time.Duration(duration) * time.Minute
	var slots []response.SlotResponse
	for _, w := range free {
		for start := w.start; start.Add(step) <= w.end; start = start.Add(step) {
			end := start.Add(step)
			slots = append(slots, response.SlotResponse{Start: start, End: end})
			if end == start {
				break
			}
		}
	}
	return slots
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// subtract removes cut from every window
func subtract(windows []window, cut window) []window {
	var out []window
	for _, w := range windows {
		if cut.end <= w.start || cut.start >= w.end {
			out = append(out, w)
			continue
		}
		if cut.start > w.start {
			out = append(out, window{w.start, cut.start})
		}
		if cut.end < w.end {
			out = append(out, window{cut.end, w.end})
		}
	}
	return out
}

// merge sorts windows and joins the overlapping ones
func merge(windows []window) []window {
	if len(windows) == 0 {
		return nil
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].start < windows[j].start })

	out := []window{windows[0]}
	for _, w := range windows[1:] {
		last := &out[len(out)-1]
		if w.start <= last.end {
			if w.end > last.end {
				last.end = w.end
			}
			continue
		}
		out = append(out, w)
	}
	return out
}
