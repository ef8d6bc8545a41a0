package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/studyhub/studyhub-backend/internal/model"
)

// LinkGoogleCalendar exchanges the sign-in code and stores the resulting
// credential. When a credential is already linked the flow falls back to
// re-authenticating: the fresh token replaces the stored one instead of
// the link being treated as a hard failure.
func (s *Service) LinkGoogleCalendar(ctx context.Context, userID string, authCode string) error {
	token, err := s.calendar.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("exchange auth code: %w", err)
	}

	if err := s.googleTokens.Add(ctx, userID, token); err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			s.logger.Infow("google calendar already linked, refreshing credential", "user_id", userID)
			return s.googleTokens.Set(ctx, userID, token)
		}
		return fmt.Errorf("store google token: %w", err)
	}

	return nil
}
