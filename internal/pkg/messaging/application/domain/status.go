package messaging

// DeliveryStatus tracks the per-recipient lifecycle of a message
// 0=sending, 1=sent, 2=delivered, 3=read, 4=failed
type DeliveryStatus int16

const (
	StatusSending   DeliveryStatus = 0
	StatusSent      DeliveryStatus = 1
	StatusDelivered DeliveryStatus = 2
	StatusRead      DeliveryStatus = 3
	StatusFailed    DeliveryStatus = 4
)

// CanAdvanceTo reports whether moving from s to next is a legal transition.
// The ordering sending < sent < delivered < read is strictly monotonic;
// failed is reachable only from sending/sent and is terminal.
func (s DeliveryStatus) CanAdvanceTo(next DeliveryStatus) bool {
	if s == StatusFailed {
		return false
	}
	if next == StatusFailed {
		return s == StatusSending || s == StatusSent
	}
	return next > s && next <= StatusRead
}

func (s DeliveryStatus) String() string {
	switch s {
	case StatusSending:
		return "sending"
	case StatusSent:
		return "sent"
	case StatusDelivered:
		return "delivered"
	case StatusRead:
		return "read"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
