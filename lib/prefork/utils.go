package prefork

import (
	"strings"
	"unsafe"

	"github.com/google/uuid"
)

// newSubscriptionID returns a time-ordered identifier used to name a
// callback in log lines and error reports, since function values have
// no printable identity.
func newSubscriptionID() string {
	id := uuid.Must(uuid.NewV7())
	return strings.Replace(id.String(), "-", "", -1)
}

// hookKey returns the callback's reference identity. A func value is a
// pointer to its function object, so the same named function or the
// same stored closure keys identically, while separate closures built
// from one literal stay distinct. Keys stay unique among live
// subscriptions because every subscribed hook is retained.
func hookKey(hook Hook) uintptr {
	return uintptr(*(*unsafe.Pointer)(unsafe.Pointer(&hook)))
}
