package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/credit-service/pkg/util"
)

func TestDebitTargetFollowsRoute(t *testing.T) {
	cases := []struct {
		name    string
		routeID string
		bodyID  string
		want    string
	}{
		{name: "body omitted", routeID: "b1", bodyID: "", want: "b1"},
		{name: "body restates route", routeID: "b1", bodyID: "b1", want: "b1"},
		{name: "body whitespace only", routeID: "b1", bodyID: "   ", want: "b1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := debitTarget(tc.routeID, tc.bodyID)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDebitTargetRejectsRedirectedBeneficiary(t *testing.T) {
	// An account holder who owns b1 must not be able to drain b2 by
	// posting to /beneficiaries/b1/debit with a different body id.
	_, err := debitTarget("b1", "b2")
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	require.Equal(t, "O beneficiário informado não corresponde ao da rota", domainErr.Message)
}
