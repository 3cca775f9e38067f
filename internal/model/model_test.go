package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for in, want := range map[string]Role{
		"":        RoleBuyer, // default
		"buyer":   RoleBuyer,
		"seller":  RoleSeller,
		"admin":   RoleAdmin,
		" Admin ": RoleAdmin,
		"SELLER":  RoleSeller,
	} {
		got, err := ParseRole(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	for _, in := range []string{"root", "superuser", "buyerr", "admin,seller"} {
		_, err := ParseRole(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseOrderStatus(t *testing.T) {
	for in, want := range map[string]OrderStatus{
		"pending":   OrderPending,
		"PAID":      OrderPaid,
		" shipped ": OrderShipped,
		"delivered": OrderDelivered,
		"cancelled": OrderCancelled,
	} {
		got, err := ParseOrderStatus(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	for _, in := range []string{"", "canceled", "done", "refunded"} {
		_, err := ParseOrderStatus(in)
		assert.Error(t, err, "input %q", in)
	}
}
