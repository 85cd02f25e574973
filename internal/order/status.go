package order

// Status is the order lifecycle state. Only canonical English values are
// stored; legacy Ukrainian forms are translated at the HTTP boundary.
type Status string

// Allowed order statuses.
const (
	StatusNew        Status = "new"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists the allowed statuses in lifecycle order.
var Statuses = []Status{StatusNew, StatusProcessing, StatusReady, StatusDelivered, StatusCancelled}

// Valid reports whether the status is a member of the allowed set.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusProcessing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// legacyStatuses maps status values from the previous system to canonical ones.
var legacyStatuses = map[string]Status{
	"нове":      StatusNew,
	"в обробці": StatusProcessing,
	"готове":    StatusReady,
	"видане":    StatusDelivered,
	"скасоване": StatusCancelled,
}

// NormalizeStatus translates a raw status value to its canonical form. It
// accepts canonical values as-is and legacy Ukrainian values by lookup; the
// boolean reports whether the input was recognised.
func NormalizeStatus(raw string) (Status, bool) {
	if s := Status(raw); s.Valid() {
		return s, true
	}
	if s, ok := legacyStatuses[raw]; ok {
		return s, true
	}
	return "", false
}
