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
	"undangan/rsvphub/pkg/crypto"
	"undangan/rsvphub/pkg/phone"
)

type RSVPInput struct {
	Nama      string
	Komunitas string
	WhatsApp  string
	Status    string
	Alasan    *string
	// Origin is the scheme+host the guest submitted from; used for the invite link.
	Origin string
}

// RSVPResult reports a persisted RSVP. Delivery may have failed independently.
type RSVPResult struct {
	Record        *model.Attendance
	Token         string
	InviteURL     string
	Persisted     bool
	Delivered     bool
	DeliveryError string
}

type RSVPService interface {
	Submit(ctx context.Context, in RSVPInput) (*RSVPResult, error)
}

type rsvpService struct {
	repo        repository.AttendanceRepository
	sender      MessageSender
	invitations *Invitations
	counter     *CounterCache
	logger      *zap.Logger
	now         func() time.Time
}

func NewRSVPService(
	repo repository.AttendanceRepository,
	sender MessageSender,
	invitations *Invitations,
	counter *CounterCache,
	logger *zap.Logger,
) RSVPService {
	return &rsvpService{
		repo:        repo,
		sender:      sender,
		invitations: invitations,
		counter:     counter,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *rsvpService) validate(in RSVPInput) (*model.Attendance, error) {
	nama := strings.TrimSpace(in.Nama)
	komunitas := strings.TrimSpace(in.Komunitas)
	wa := phone.Normalize(in.WhatsApp)
	status := model.RSVPStatus(strings.TrimSpace(in.Status))

	if nama == "" || komunitas == "" || wa == "" || status == "" {
		return nil, newError(ErrValidation, "Field wajib tidak boleh kosong")
	}
	if !phone.Valid(wa) {
		return nil, newError(ErrValidation, "Format nomor WhatsApp tidak valid")
	}
	if !status.Valid() {
		return nil, newError(ErrValidation, "Status harus Hadir atau Tidak Hadir")
	}

	var alasan *string
	if in.Alasan != nil {
		if a := strings.TrimSpace(*in.Alasan); a != "" {
			alasan = &a
		}
	}
	return &model.Attendance{
		Nama:      nama,
		Komunitas: komunitas,
		WhatsApp:  wa,
		Status:    status,
		Alasan:    alasan,
	}, nil
}

func duplicatePhone(wa string) error {
	return newError(ErrConflict, fmt.Sprintf("Nomor WhatsApp %s sudah terdaftar", wa))
}

func (s *rsvpService) Submit(ctx context.Context, in RSVPInput) (*RSVPResult, error) {
	record, err := s.validate(in)
	if err != nil {
		metrics.Submissions.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, err
	}

	_, err = s.repo.GetByWhatsApp(ctx, record.WhatsApp)
	switch {
	case err == nil:
		metrics.Submissions.WithLabelValues(metrics.ResultDuplicate).Inc()
		return nil, duplicatePhone(record.WhatsApp)
	case !errors.Is(err, repository.ErrNotFound):
		metrics.Submissions.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("lookup whatsapp: %w", err)
	}

	token := crypto.GenerateInviteToken()
	record.InviteToken = &token
	record.CreatedAt = s.now()
	if err := s.repo.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.Submissions.WithLabelValues(metrics.ResultDuplicate).Inc()
			return nil, duplicatePhone(record.WhatsApp)
		}
		metrics.Submissions.WithLabelValues(metrics.ResultError).Inc()
		s.logger.Error("create attendance", zap.String("whatsapp", record.WhatsApp), zap.Error(err))
		return nil, fmt.Errorf("create attendance: %w", err)
	}
	metrics.Submissions.WithLabelValues(metrics.ResultOK).Inc()
	s.counter.Invalidate(ctx)

	result := &RSVPResult{
		Record:    record,
		Token:     token,
		InviteURL: s.invitations.URL(in.Origin, token),
		Persisted: true,
	}

	if err := s.deliver(ctx, record, result.InviteURL); err != nil {
		result.DeliveryError = err.Error()
		return result, nil
	}
	result.Delivered = true

	if err := s.repo.UpdateByToken(ctx, token, map[string]any{"wa_sent": true}); err != nil {
		s.logger.Error("mark wa_sent", zap.Uint("id", record.ID), zap.Error(err))
		return result, nil
	}
	record.WASent = true
	return result, nil
}

func (s *rsvpService) deliver(ctx context.Context, record *model.Attendance, inviteURL string) error {
	msg, err := s.invitations.Message(record.Nama, record.Komunitas, record.Status, inviteURL)
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, record.WhatsApp, msg)
}
