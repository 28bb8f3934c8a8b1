package vendors

import (
	"fmt"
	"strings"

	"github.com/aaditya574/ledgelogger/internal/shared"
)

func (s *Service) validate(v Vendor) error {
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("%w: vendor name is required", shared.ErrValidation)
	}
	if v.EmailID != "" && !strings.Contains(v.EmailID, "@") {
		return fmt.Errorf("%w: vendor email is malformed", shared.ErrValidation)
	}
	return nil
}
