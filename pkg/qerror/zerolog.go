package qerror

import (
	"encoding/json"
	"net"
	"time"

	"github.com/rs/zerolog"
)

// MarshalZerologObject provides a strongly-typed and encoding-agnostic interface
// to be implemented by types used with Event/Context's Object methods.
func (e *Error) MarshalZerologObject(evt *zerolog.Event) {
	evt.Str("module", e.Module).Str("message", e.Message)
	LogWithMeta(evt, e)
}

// LogWithMeta merges in the metadata from the errors into the log context
func LogWithMeta(evt *zerolog.Event, err error) *zerolog.Event {
	if err == nil {
		return evt
	}

	meta := MetaFrom(err)
	for key, value := range meta {
		switch value := value.(type) {
		case json.RawMessage:
			evt = evt.RawJSON(key, value)
		case error:
			evt = evt.AnErr(key, value)
		case time.Time:
			evt = evt.Time(key, value)
		case time.Duration:
			evt = evt.Dur(key, value)
		case net.IP:
			evt = evt.IPAddr(key, value)
		case string:
			evt = evt.Str(key, value)
		case int:
			evt = evt.Int(key, value)
		case int64:
			evt = evt.Int64(key, value)
		case uint64:
			evt = evt.Uint64(key, value)
		case float64:
			evt = evt.Float64(key, value)
		case bool:
			evt = evt.Bool(key, value)
		case []string:
			evt = evt.Strs(key, value)
		case []byte:
			evt = evt.Bytes(key, value)
		case []error:
			evt = evt.Errs(key, value)
		default:
			evt = evt.Interface(key, value)
		}
	}
	return evt
}
