package vendors

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aaditya574/ledgelogger/internal/shared"
)

func TestValidateVendor(t *testing.T) {
	svc := NewService(nil)

	require.ErrorIs(t, svc.validate(Vendor{Name: ""}), shared.ErrValidation)
	require.ErrorIs(t, svc.validate(Vendor{Name: "Acme", EmailID: "not-an-email"}), shared.ErrValidation)
	require.NoError(t, svc.validate(Vendor{Name: "Acme", EmailID: "sales@acme.test"}))
	require.NoError(t, svc.validate(Vendor{Name: "Acme"}))
}
