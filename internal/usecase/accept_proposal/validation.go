package accept_proposal

import (
	"fmt"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ProposalID <= 0 {
		return fmt.Errorf("%w: proposalID must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ResponseMessage != nil && len(*req.ResponseMessage) > domain.MaxResponseMessageLength {
		return fmt.Errorf("%w: response message is too long", ErrInvalidInput)
	}

	return nil
}
