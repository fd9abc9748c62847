package domain

import "testing"

func TestTransactionStatusTerminal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status TransactionStatus
		want   bool
	}{
		{StatusWaitingForPayment, false},
		{StatusWaitingForConfirmation, false},
		{StatusDone, true},
		{StatusRejected, true},
	}
	for _, tc := range cases {
		if got := tc.status.Terminal(); got != tc.want {
			t.Errorf("%s.Terminal() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestRoleValid(t *testing.T) {
	t.Parallel()

	if !RoleCustomer.Valid() || !RoleOrganizer.Valid() {
		t.Errorf("expected built-in roles to be valid")
	}
	for _, role := range []Role{"", "ADMIN", "customer"} {
		if role.Valid() {
			t.Errorf("expected role %q to be invalid", role)
		}
	}
}
