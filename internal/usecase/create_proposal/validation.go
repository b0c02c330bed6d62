package create_proposal

import (
	"fmt"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ThreadID <= 0 {
		return fmt.Errorf("%w: threadID must be positive", ErrInvalidInput)
	}

	if req.ProposedStart.IsZero() {
		return fmt.Errorf("%w: proposedStart is required", ErrInvalidInput)
	}

	if req.DurationMinutes != nil {
		if *req.DurationMinutes < domain.MinDurationMinutes || *req.DurationMinutes > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: durationMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
		}
	}

	if req.Location != nil && len(*req.Location) > domain.MaxLocationLength {
		return fmt.Errorf("%w: location is too long", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	if req.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	if len(req.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter ISO 4217 code", ErrInvalidInput)
	}

	if req.QuoteMessage != nil && len(*req.QuoteMessage) > domain.MaxResponseMessageLength {
		return fmt.Errorf("%w: quote message is too long", ErrInvalidInput)
	}

	return nil
}
