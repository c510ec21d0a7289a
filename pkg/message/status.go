package message

import "net/http"

// Status is the terminal outcome of a resolution. The values mirror
// HTTP status codes so the transport can write them directly, but each
// value also names a distinct failure category: "doesn't exist" is not
// "exists but forbidden" is not "temporarily unavailable".
type Status int

const (
	StatusOK               Status = http.StatusOK
	StatusCreated          Status = http.StatusCreated
	StatusNoContent        Status = http.StatusNoContent
	StatusNotFound         Status = http.StatusNotFound
	StatusMethodNotAllowed Status = http.StatusMethodNotAllowed
	StatusNotAcceptable    Status = http.StatusNotAcceptable
	StatusUnavailable      Status = http.StatusServiceUnavailable
)

// String returns the standard reason phrase for the status.
func (s Status) String() string {
	if t := http.StatusText(int(s)); t != "" {
		return t
	}
	return "Unknown"
}

// Success reports whether the status is a 2xx outcome.
func (s Status) Success() bool {
	return s >= 200 && s < 300
}
