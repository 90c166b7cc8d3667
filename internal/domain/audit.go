package domain

import "github.com/google/uuid"

// Audit entry types. The permissions store records user-targeted entries as "U".
const AuditTypeUser = "U"

// SystemActorUUID identifies this service in audit entries it writes.
var SystemActorUUID = uuid.Nil.String()

// AuditEntry is an immutable record of a single membership mutation in the
// permissions store's action log.
type AuditEntry struct {
	Time      int64 // seconds since epoch
	ActorUUID string
	ActorName string
	Type      string
	ActedUUID string
	ActedName string
	Action    string // e.g. "parent add mods"
}
