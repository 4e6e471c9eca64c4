// Package uuid wraps google/uuid with the interfaces gin needs to bind
// UUIDs from URIs and query strings.
package uuid

import (
	"errors"

	google_uuid "github.com/google/uuid"
)

var ErrNotAUUID = errors.New("the specified resource ID is not a valid UUID")

// UUID embeds google/uuid so that all of its methods stay available.
type UUID struct {
	google_uuid.UUID
}

var Nil UUID

// UnmarshalParam implements gin's BindUnmarshaler. An empty parameter
// binds to Nil so that optional query filters can be left out.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, err := google_uuid.Parse(p)
	if err != nil {
		return ErrNotAUUID
	}

	*u = UUID{parsed}
	return nil
}
