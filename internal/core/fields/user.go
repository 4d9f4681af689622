package fields

import (
	"crashrelay/internal/core/event"
	"crashrelay/internal/core/report"
)

// User derives the identity: the user name falls back to <Undefined>,
// and a non-empty data separation tag is appended to form the id
func User(r report.Report) (event.UserIdentity, error) {
	sep, err := r.Value(PathDataSep)
	if err != nil {
		return event.UserIdentity{}, err
	}

	name := event.Undefined
	if v, ok := r.Lookup(PathUserName); ok && report.Truthy(v) {
		name = report.Text(v)
	}

	id := name
	if report.Truthy(sep) {
		id += report.Text(sep)
	}
	return event.UserIdentity{ID: id, Username: name}, nil
}
