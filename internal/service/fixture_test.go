package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"undangan/rsvphub/internal/config"
	"undangan/rsvphub/internal/repository"
	"undangan/rsvphub/internal/testutil"
)

type sentMessage struct {
	Phone   string
	Message string
}

type fakeSender struct {
	mu   sync.Mutex
	err  error
	sent []sentMessage
}

func (f *fakeSender) Send(_ context.Context, phone, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{Phone: phone, Message: message})
	return nil
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type fixture struct {
	repo       repository.AttendanceRepository
	state      repository.StateStore
	sender     *fakeSender
	counter    *CounterCache
	rsvp       RSVPService
	checkin    CheckInService
	attendance AttendanceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	repo := repository.NewAttendanceRepository(testutil.NewDB(t))
	state := repository.NewMemoryStateStore()
	sender := &fakeSender{}
	inv := NewInvitations(testEvent(), config.InviteConfig{})
	counter := NewCounterCache(repo, state, time.Minute, logger)

	return &fixture{
		repo:       repo,
		state:      state,
		sender:     sender,
		counter:    counter,
		rsvp:       NewRSVPService(repo, sender, inv, counter, logger),
		checkin:    NewCheckInService(repo, false, logger),
		attendance: NewAttendanceService(repo, sender, inv, counter, logger),
	}
}

func (f *fixture) submit(t *testing.T, nama, wa, status string) *RSVPResult {
	t.Helper()
	res, err := f.rsvp.Submit(context.Background(), RSVPInput{
		Nama: nama, Komunitas: "HIPMI", WhatsApp: wa, Status: status, Origin: "https://ex.com",
	})
	if err != nil {
		t.Fatalf("submit %s: %v", nama, err)
	}
	return res
}
