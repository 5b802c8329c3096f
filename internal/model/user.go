package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// User is an identity held by the auth provider. Profile data lives in the
// key-value store under user:<id>; Metadata only seeds it at signup.
//
// Unlike the other records, User is encoded in the auth provider's user shape
// (user_metadata, created_at) so existing clients can keep reading it.
type User struct {
	ID           string       `db:"id" json:"id"`
	Email        string       `db:"email" json:"email"`
	PasswordHash string       `db:"password_hash" json:"-"`
	Metadata     UserMetadata `db:"metadata" json:"user_metadata"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

type UserMetadata struct {
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Skills []string `json:"skills"`
}

// Value stores metadata as a JSON text column.
func (m UserMetadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *UserMetadata) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = UserMetadata{}
		return nil
	case string:
		return json.Unmarshal([]byte(v), m)
	case []byte:
		return json.Unmarshal(v, m)
	default:
		return fmt.Errorf("unsupported metadata type %T", src)
	}
}
