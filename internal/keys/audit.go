package keys

import (
	"sync"
	"time"
)

// AuditRecord captures one key-access event: which operation touched the
// operator key, whether it succeeded, and a short free-form detail. This is
// the in-memory analogue of universalClient/keys/security.go's audit log,
// minus the on-disk-keyring validation that log exists to support — this
// Manager never writes the key to disk.
type AuditRecord struct {
	Operation string
	Timestamp time.Time
	Success   bool
	Detail    string
}

// auditLog is a bounded, append-only, mutex-guarded ring of AuditRecords.
type auditLog struct {
	mu      sync.Mutex
	records []AuditRecord
	cap     int
}

const defaultAuditCap = 256

func newAuditLog() *auditLog {
	return &auditLog{cap: defaultAuditCap}
}

func (a *auditLog) append(op string, success bool, detail string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, AuditRecord{
		Operation: op,
		Timestamp: time.Now(),
		Success:   success,
		Detail:    detail,
	})
	if len(a.records) > a.cap {
		a.records = a.records[len(a.records)-a.cap:]
	}
}

func (a *auditLog) snapshot() []AuditRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]AuditRecord, len(a.records))
	copy(out, a.records)
	return out
}
