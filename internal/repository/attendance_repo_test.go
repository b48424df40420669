package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"undangan/rsvphub/internal/model"
	"undangan/rsvphub/internal/repository"
	"undangan/rsvphub/internal/testutil"
)

func strPtr(s string) *string { return &s }

func newRepo(t *testing.T) repository.AttendanceRepository {
	return repository.NewAttendanceRepository(testutil.NewDB(t))
}

func seed(t *testing.T, repo repository.AttendanceRepository, nama, wa string, status model.RSVPStatus, token string) *model.Attendance {
	t.Helper()
	a := &model.Attendance{Nama: nama, Komunitas: "HIPMI", WhatsApp: wa, Status: status}
	if token != "" {
		a.InviteToken = strPtr(token)
	}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	a := seed(t, repo, "Budi", "6281234567890", model.StatusHadir, "tok-1")
	require.NotZero(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi", byID.Nama)
	assert.False(t, byID.WASent)
	assert.Nil(t, byID.CheckinAt)

	byToken, err := repo.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byToken.ID)

	byWA, err := repo.GetByWhatsApp(ctx, "6281234567890")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byWA.ID)
}

func TestGet_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	_, err := repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByToken(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByToken(ctx, "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByWhatsApp(ctx, "628000000000")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreate_DuplicateWhatsApp(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, "Budi", "6281234567890", model.StatusHadir, "tok-1")

	err := repo.Create(context.Background(), &model.Attendance{
		Nama: "Budi lagi", Komunitas: "X", WhatsApp: "6281234567890",
		Status: model.StatusHadir, InviteToken: strPtr("tok-2"),
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestCreate_DuplicateToken(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, "Budi", "6281234567890", model.StatusHadir, "tok-1")

	err := repo.Create(context.Background(), &model.Attendance{
		Nama: "Sari", Komunitas: "X", WhatsApp: "6281111111111",
		Status: model.StatusHadir, InviteToken: strPtr("tok-1"),
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestCreate_SeveralLegacyRowsWithoutToken(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, "A", "6281111111111", model.StatusHadir, "")
	seed(t, repo, "B", "6282222222222", model.StatusHadir, "")

	rows, err := repo.ListWithoutToken(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Nama)
}

func TestList_NewestFirst(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, "A", "6281111111111", model.StatusHadir, "t1")
	seed(t, repo, "B", "6282222222222", model.StatusTidakHadir, "t2")
	seed(t, repo, "C", "6283333333333", model.StatusHadir, "t3")

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{rows[0].Nama, rows[1].Nama, rows[2].Nama})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	a := seed(t, repo, "A", "6281111111111", model.StatusHadir, "t1")

	require.NoError(t, repo.UpdateByToken(ctx, "t1", map[string]any{"wa_sent": true}))
	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.WASent)

	// same value again is still a hit
	require.NoError(t, repo.UpdateByID(ctx, a.ID, map[string]any{"wa_sent": true}))

	assert.ErrorIs(t, repo.UpdateByID(ctx, 999, map[string]any{"wa_sent": true}), repository.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateByToken(ctx, "", map[string]any{"wa_sent": true}), repository.ErrNotFound)
}

func TestCheckInByToken_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	a := seed(t, repo, "A", "6281111111111", model.StatusHadir, "t1")

	first := time.Now().Add(-time.Minute)
	ok, err := repo.CheckInByToken(ctx, "t1", first)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.CheckInByToken(ctx, "t1", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CheckinAt)
	assert.WithinDuration(t, first, *got.CheckinAt, time.Millisecond)

	ok, err = repo.CheckInByID(ctx, a.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckIn_UnknownRow(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	ok, err := repo.CheckInByToken(ctx, "missing", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.CheckInByID(ctx, 7, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckInByToken_ConcurrentScansHaveOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	seed(t, repo, "A", "6281111111111", model.StatusHadir, "t1")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.CheckInByToken(ctx, "t1", time.Now())
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	a := seed(t, repo, "A", "6281111111111", model.StatusHadir, "t1")

	ok, err := repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.GetByToken(ctx, "t1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCounter(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	c, err := repo.Counter(ctx)
	require.NoError(t, err)
	assert.Equal(t, repository.Counter{}, c)

	seed(t, repo, "A", "6281111111111", model.StatusHadir, "t1")
	seed(t, repo, "B", "6282222222222", model.StatusTidakHadir, "t2")
	seed(t, repo, "C", "6283333333333", model.StatusHadir, "t3")

	c, err = repo.Counter(ctx)
	require.NoError(t, err)
	assert.Equal(t, repository.Counter{Total: 3, Hadir: 2}, c)
}
