package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"undangan/rsvphub/internal/repository"
	"undangan/rsvphub/pkg/crypto"
)

// BackfillInviteTokens gives every legacy row without a token a fresh one.
// It is safe to run repeatedly; rows that already have a token are untouched.
func BackfillInviteTokens(ctx context.Context, repo repository.AttendanceRepository, logger *zap.Logger) (int, error) {
	rows, err := repo.ListWithoutToken(ctx)
	if err != nil {
		return 0, fmt.Errorf("list rows without token: %w", err)
	}

	n := 0
	for _, r := range rows {
		token := crypto.GenerateInviteToken()
		err := repo.UpdateByID(ctx, r.ID, map[string]any{"invite_token": token})
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return n, fmt.Errorf("backfill token for %d: %w", r.ID, err)
		}
		n++
	}
	if n > 0 {
		logger.Info("invite tokens backfilled", zap.Int("rows", n))
	}
	return n, nil
}
