package types

// FailureKind classifies errors coming back from the backend.
type FailureKind uint8

const (
	// Transport means no usable response: network fault, timeout, non-2xx.
	Transport FailureKind = iota + 1
	// BackendRejected means a response arrived with an error message tag.
	BackendRejected
	// Unauthorized is a role or permission mismatch.
	Unauthorized
)

func (k FailureKind) String() string {
	switch k {
	case Transport:
		return "transport"
	case BackendRejected:
		return "rejected"
	case Unauthorized:
		return "unauthorized"
	}
	return "unknown"
}

type BrowseEvent struct {
	UserName   string         `json:"user,omitempty"`
	Role       Role           `json:"role"`
	Criteria   FilterCriteria `json:"criteria"`
	Results    int            `json:"noi"`
	Page       int            `json:"page"`
	RemoteCall bool           `json:"remote"`
}

type Tracking interface {
	TrackBrowse(event BrowseEvent)
	TrackAddToCart(entry CartEntry)
	Close() error
}
