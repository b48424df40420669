package repository

import (
	"context"
	"errors"
	"time"

	"undangan/rsvphub/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Counter is the public headcount.
type Counter struct {
	Total int64 `json:"total"`
	Hadir int64 `json:"hadir"`
}

type AttendanceRepository interface {
	Create(ctx context.Context, a *model.Attendance) error
	GetByID(ctx context.Context, id uint) (*model.Attendance, error)
	GetByToken(ctx context.Context, token string) (*model.Attendance, error)
	GetByWhatsApp(ctx context.Context, whatsapp string) (*model.Attendance, error)
	// List returns every row, newest first.
	List(ctx context.Context) ([]model.Attendance, error)
	UpdateByID(ctx context.Context, id uint, fields map[string]any) error
	UpdateByToken(ctx context.Context, token string, fields map[string]any) error
	// CheckInByID and CheckInByToken set checkin_at only while it is still NULL.
	// They report whether this call made the transition.
	CheckInByID(ctx context.Context, id uint, at time.Time) (bool, error)
	CheckInByToken(ctx context.Context, token string, at time.Time) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
	Counter(ctx context.Context) (Counter, error)
	ListWithoutToken(ctx context.Context) ([]model.Attendance, error)
}
