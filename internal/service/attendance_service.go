package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"undangan/rsvphub/internal/model"
	"undangan/rsvphub/internal/repository"
	"undangan/rsvphub/pkg/phone"
)

// ListFilter narrows the admin report. Zero values match everything.
type ListFilter struct {
	Search    string
	Status    string
	Komunitas string
	CheckedIn *bool
	SortBy    string
	SortDir   string // "asc" | "desc"
}

type Stats struct {
	Total      int      `json:"total"`
	Hadir      int      `json:"hadir"`
	TidakHadir int      `json:"tidak_hadir"`
	Checkin    int      `json:"checkin"`
	Komunitas  []string `json:"komunitas"`
}

// AttendanceUpdate is an admin edit. Nil fields are left alone.
type AttendanceUpdate struct {
	CheckinAt    *time.Time
	ClearCheckin bool
	WASent       *bool
}

type UpdateResult struct {
	Record           *model.Attendance
	AlreadyCheckedIn bool
}

type ResendInput struct {
	ID          uint
	WhatsApp    string
	Nama        string
	Komunitas   string
	Status      string
	InviteToken string
	Origin      string
}

type AttendanceService interface {
	List(ctx context.Context, f ListFilter) ([]model.Attendance, error)
	Stats(ctx context.Context) (*Stats, error)
	Counter(ctx context.Context) (repository.Counter, error)
	Update(ctx context.Context, id uint, u AttendanceUpdate) (*UpdateResult, error)
	Delete(ctx context.Context, id uint) error
	Resend(ctx context.Context, in ResendInput) error
}

type attendanceService struct {
	repo        repository.AttendanceRepository
	sender      MessageSender
	invitations *Invitations
	counter     *CounterCache
	logger      *zap.Logger
}

func NewAttendanceService(
	repo repository.AttendanceRepository,
	sender MessageSender,
	invitations *Invitations,
	counter *CounterCache,
	logger *zap.Logger,
) AttendanceService {
	return &attendanceService{
		repo:        repo,
		sender:      sender,
		invitations: invitations,
		counter:     counter,
		logger:      logger,
	}
}

func (s *attendanceService) List(ctx context.Context, f ListFilter) ([]model.Attendance, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	out := make([]model.Attendance, 0, len(rows))
	for _, r := range rows {
		if f.matches(&r) {
			out = append(out, r)
		}
	}

	if cmpFn, ok := sortColumns[f.SortBy]; ok {
		desc := strings.EqualFold(f.SortDir, "desc")
		slices.SortStableFunc(out, func(a, b model.Attendance) int {
			if desc {
				return cmpFn(&b, &a)
			}
			return cmpFn(&a, &b)
		})
	}
	return out, nil
}

func (f ListFilter) matches(r *model.Attendance) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(r.Nama), q) &&
			!strings.Contains(strings.ToLower(r.Komunitas), q) &&
			!strings.Contains(r.WhatsApp, q) {
			return false
		}
	}
	if f.Status != "" && string(r.Status) != f.Status {
		return false
	}
	if f.Komunitas != "" && r.Komunitas != f.Komunitas {
		return false
	}
	if f.CheckedIn != nil && r.CheckedIn() != *f.CheckedIn {
		return false
	}
	return true
}

var sortColumns = map[string]func(a, b *model.Attendance) int{
	"id":        func(a, b *model.Attendance) int { return cmp.Compare(a.ID, b.ID) },
	"nama":      func(a, b *model.Attendance) int { return cmp.Compare(strings.ToLower(a.Nama), strings.ToLower(b.Nama)) },
	"komunitas": func(a, b *model.Attendance) int { return cmp.Compare(strings.ToLower(a.Komunitas), strings.ToLower(b.Komunitas)) },
	"whatsapp":  func(a, b *model.Attendance) int { return cmp.Compare(a.WhatsApp, b.WhatsApp) },
	"status":    func(a, b *model.Attendance) int { return cmp.Compare(a.Status, b.Status) },
	"created_at": func(a, b *model.Attendance) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	},
	// rows without a check-in sort before any timestamp
	"checkin_at": func(a, b *model.Attendance) int {
		switch {
		case a.CheckinAt == nil && b.CheckinAt == nil:
			return 0
		case a.CheckinAt == nil:
			return -1
		case b.CheckinAt == nil:
			return 1
		}
		return a.CheckinAt.Compare(*b.CheckinAt)
	},
}

func (s *attendanceService) Stats(ctx context.Context) (*Stats, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	st := &Stats{Total: len(rows), Komunitas: []string{}}
	for _, r := range rows {
		switch r.Status {
		case model.StatusHadir:
			st.Hadir++
		case model.StatusTidakHadir:
			st.TidakHadir++
		}
		if r.CheckedIn() {
			st.Checkin++
		}
		if r.Komunitas != "" && !slices.Contains(st.Komunitas, r.Komunitas) {
			st.Komunitas = append(st.Komunitas, r.Komunitas)
		}
	}
	slices.Sort(st.Komunitas)
	return st, nil
}

func (s *attendanceService) Counter(ctx context.Context) (repository.Counter, error) {
	c, err := s.counter.Get(ctx)
	if err != nil {
		return repository.Counter{}, fmt.Errorf("count attendance: %w", err)
	}
	return c, nil
}

func (s *attendanceService) get(ctx context.Context, id uint) (*model.Attendance, error) {
	record, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "Data tidak ditemukan")
	}
	if err != nil {
		return nil, fmt.Errorf("get attendance %d: %w", id, err)
	}
	return record, nil
}

func (s *attendanceService) Update(ctx context.Context, id uint, u AttendanceUpdate) (*UpdateResult, error) {
	if u.ClearCheckin {
		return nil, newError(ErrValidation, "Check-in tidak dapat dibatalkan")
	}
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}

	res := &UpdateResult{}
	if u.CheckinAt != nil {
		ok, err := s.repo.CheckInByID(ctx, id, checkinTime(*u.CheckinAt))
		if err != nil {
			return nil, fmt.Errorf("check in %d: %w", id, err)
		}
		res.AlreadyCheckedIn = !ok
	}
	if u.WASent != nil {
		if err := s.repo.UpdateByID(ctx, id, map[string]any{"wa_sent": *u.WASent}); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, newError(ErrNotFound, "Data tidak ditemukan")
			}
			return nil, fmt.Errorf("update attendance %d: %w", id, err)
		}
	}

	record, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	res.Record = record
	return res, nil
}

func (s *attendanceService) Delete(ctx context.Context, id uint) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete attendance %d: %w", id, err)
	}
	if !ok {
		return newError(ErrNotFound, "Data tidak ditemukan")
	}
	s.counter.Invalidate(ctx)
	s.logger.Info("attendance deleted", zap.Uint("id", id))
	return nil
}

func (s *attendanceService) Resend(ctx context.Context, in ResendInput) error {
	wa := phone.Normalize(in.WhatsApp)
	nama := strings.TrimSpace(in.Nama)
	status := model.RSVPStatus(strings.TrimSpace(in.Status))
	if wa == "" || nama == "" || status == "" {
		return newError(ErrValidation, "Field wajib kurang")
	}

	var inviteURL string
	if token := strings.TrimSpace(in.InviteToken); token != "" {
		inviteURL = s.invitations.URL(in.Origin, token)
	}
	msg, err := s.invitations.Message(nama, strings.TrimSpace(in.Komunitas), status, inviteURL)
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, wa, msg); err != nil {
		return err
	}

	if in.ID != 0 {
		if err := s.repo.UpdateByID(ctx, in.ID, map[string]any{"wa_sent": true}); err != nil {
			// the message already went out
			s.logger.Error("mark wa_sent after resend", zap.Uint("id", in.ID), zap.Error(err))
		}
	}
	return nil
}
