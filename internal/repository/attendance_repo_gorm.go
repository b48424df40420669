package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"undangan/rsvphub/internal/model"
)

type gormAttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &gormAttendanceRepository{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return ErrDuplicate
	}
	return err
}

// isUniqueViolation catches drivers that do not implement gorm's error translator.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

func (r *gormAttendanceRepository) Create(ctx context.Context, a *model.Attendance) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *gormAttendanceRepository) first(ctx context.Context, query string, arg any) (*model.Attendance, error) {
	var a model.Attendance
	if err := r.db.WithContext(ctx).Where(query, arg).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *gormAttendanceRepository) GetByID(ctx context.Context, id uint) (*model.Attendance, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *gormAttendanceRepository) GetByToken(ctx context.Context, token string) (*model.Attendance, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return r.first(ctx, "invite_token = ?", token)
}

func (r *gormAttendanceRepository) GetByWhatsApp(ctx context.Context, whatsapp string) (*model.Attendance, error) {
	return r.first(ctx, "whatsapp = ?", whatsapp)
}

func (r *gormAttendanceRepository) List(ctx context.Context) ([]model.Attendance, error) {
	var rows []model.Attendance
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormAttendanceRepository) update(ctx context.Context, query string, arg any, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&model.Attendance{}).Where(query, arg).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// MySQL reports zero affected rows when the values did not change.
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Attendance{}).Where(query, arg).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormAttendanceRepository) UpdateByID(ctx context.Context, id uint, fields map[string]any) error {
	return r.update(ctx, "id = ?", id, fields)
}

func (r *gormAttendanceRepository) UpdateByToken(ctx context.Context, token string, fields map[string]any) error {
	if token == "" {
		return ErrNotFound
	}
	return r.update(ctx, "invite_token = ?", token, fields)
}

func (r *gormAttendanceRepository) checkIn(ctx context.Context, query string, arg any, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where(query+" AND checkin_at IS NULL", arg).
		UpdateColumn("checkin_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *gormAttendanceRepository) CheckInByID(ctx context.Context, id uint, at time.Time) (bool, error) {
	return r.checkIn(ctx, "id = ?", id, at)
}

func (r *gormAttendanceRepository) CheckInByToken(ctx context.Context, token string, at time.Time) (bool, error) {
	if token == "" {
		return false, nil
	}
	return r.checkIn(ctx, "invite_token = ?", token, at)
}

func (r *gormAttendanceRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Attendance{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormAttendanceRepository) Counter(ctx context.Context) (Counter, error) {
	var c Counter
	err := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS hadir", model.StatusHadir).
		Scan(&c).Error
	return c, err
}

func (r *gormAttendanceRepository) ListWithoutToken(ctx context.Context) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.db.WithContext(ctx).
		Where("invite_token IS NULL OR invite_token = ''").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
