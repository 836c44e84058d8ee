package conformance

import (
	"github.com/Query-farm/arrowconv/arrowconv"
)

// Status is a string-backed enum. It is bound through its underlying kind.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusActive  Status = "ACTIVE"
	StatusClosed  Status = "CLOSED"
)

// Celsius is a named float bound through its underlying kind.
type Celsius float64

// Tag is a single label.
type Tag string

// Tags is a named slice of named strings; it is bound as list<string>.
type Tags []Tag

// Payload is an opaque blob stored with 64-bit offsets through an explicit
// registration rather than the default binary binding.
type Payload []byte

func init() {
	arrowconv.Register[Payload](arrowconv.Retype[Payload](arrowconv.LargeBinary()))
}
