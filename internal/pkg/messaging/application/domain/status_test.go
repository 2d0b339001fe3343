package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryStatusCanAdvanceTo(t *testing.T) {
	cases := []struct {
		from, to DeliveryStatus
		want     bool
	}{
		{StatusSending, StatusSent, true},
		{StatusSending, StatusDelivered, true},
		{StatusSending, StatusRead, true},
		{StatusSending, StatusFailed, true},
		{StatusSent, StatusDelivered, true},
		{StatusSent, StatusRead, true},
		{StatusSent, StatusFailed, true},
		{StatusDelivered, StatusRead, true},

		// no backward moves
		{StatusSent, StatusSending, false},
		{StatusDelivered, StatusSent, false},
		{StatusRead, StatusDelivered, false},
		{StatusRead, StatusSending, false},

		// failed is unreachable past sent, and terminal
		{StatusDelivered, StatusFailed, false},
		{StatusRead, StatusFailed, false},
		{StatusFailed, StatusSent, false},
		{StatusFailed, StatusRead, false},
		{StatusFailed, StatusFailed, false},

		// self-transitions are not advances
		{StatusSent, StatusSent, false},
		{StatusRead, StatusRead, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, tc.from.CanAdvanceTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestDeliveryStatusString(t *testing.T) {
	assert.Equal(t, "sending", StatusSending.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", DeliveryStatus(42).String())
}
