// internal/models/common.go
package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Entity identifiers are opaque strings; the prefix keeps them readable in
// logs and matches the ids produced by the studio publish path.
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}

func NewProductID() string { return NewID("prod") }
func NewVoteID() string    { return NewID("vote") }
func NewUserID() string    { return NewID("user") }
func NewProjectID() string { return NewID("proj") }
