package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"undangan/rsvphub/internal/metrics"
	"undangan/rsvphub/internal/model"
	"undangan/rsvphub/internal/repository"
)

var errTokenNotFound = newError(ErrNotFound, "Token tidak ditemukan")

// checkinTime drops precision below what every supported driver stores
// (MySQL datetime(3) keeps milliseconds).
func checkinTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

type CheckInResult struct {
	Record           *model.Attendance
	CheckedIn        bool
	AlreadyCheckedIn bool
	CheckinAt        time.Time
}

type CheckInService interface {
	Lookup(ctx context.Context, token string) (*model.Attendance, error)
	CheckIn(ctx context.Context, token string) (*CheckInResult, error)
}

type checkInService struct {
	repo      repository.AttendanceRepository
	hadirOnly bool
	logger    *zap.Logger
	now       func() time.Time
}

// NewCheckInService marks guests present by invitation token. With hadirOnly,
// guests who answered Tidak Hadir are turned away.
func NewCheckInService(repo repository.AttendanceRepository, hadirOnly bool, logger *zap.Logger) CheckInService {
	return &checkInService{repo: repo, hadirOnly: hadirOnly, logger: logger, now: time.Now}
}

func (s *checkInService) Lookup(ctx context.Context, token string) (*model.Attendance, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errTokenNotFound
	}
	record, err := s.repo.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get attendance by token: %w", err)
	}
	return record, nil
}

func (s *checkInService) CheckIn(ctx context.Context, token string) (*CheckInResult, error) {
	record, err := s.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.CheckIns.WithLabelValues(metrics.ResultNotFound).Inc()
		}
		return nil, err
	}

	if record.CheckedIn() {
		metrics.CheckIns.WithLabelValues(metrics.ResultAlready).Inc()
		return &CheckInResult{Record: record, AlreadyCheckedIn: true, CheckinAt: *record.CheckinAt}, nil
	}
	if s.hadirOnly && record.Status != model.StatusHadir {
		metrics.CheckIns.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, newError(ErrNotAttending, fmt.Sprintf("%s terdaftar tidak hadir", record.Nama))
	}

	at := checkinTime(s.now())
	ok, err := s.repo.CheckInByToken(ctx, record.Token(), at)
	if err != nil {
		metrics.CheckIns.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("check in: %w", err)
	}
	if ok {
		// Report what the database kept so a repeat scan answers the same time.
		stored, err := s.Lookup(ctx, record.Token())
		if err != nil {
			return nil, err
		}
		if stored.CheckinAt == nil {
			return nil, fmt.Errorf("check in %d: checkin_at not persisted", record.ID)
		}
		metrics.CheckIns.WithLabelValues(metrics.ResultOK).Inc()
		s.logger.Info("guest checked in", zap.Uint("id", stored.ID), zap.String("nama", stored.Nama))
		return &CheckInResult{Record: stored, CheckedIn: true, CheckinAt: *stored.CheckinAt}, nil
	}

	// Another scan won between the read and the update.
	winner, err := s.Lookup(ctx, record.Token())
	if err != nil {
		return nil, err
	}
	if !winner.CheckedIn() {
		return nil, fmt.Errorf("check in %d: row unchanged", record.ID)
	}
	metrics.CheckIns.WithLabelValues(metrics.ResultAlready).Inc()
	return &CheckInResult{Record: winner, AlreadyCheckedIn: true, CheckinAt: *winner.CheckinAt}, nil
}
