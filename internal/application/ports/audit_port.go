package ports

// AuditRecorder appends an audit entry for a completed action. Implementations
// must not block the caller and must never surface failures to it.
type AuditRecorder interface {
	Record(actorID, action, entityType, entityID string, metadata map[string]string)
}
