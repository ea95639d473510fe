package biz

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kart-io/logger"
	"github.com/oklog/ulid/v2"

	"github.com/kart-io/recordguard/internal/model"
	"github.com/kart-io/recordguard/internal/recordguard/store"
	"github.com/kart-io/recordguard/pkg/observability/metrics"
	"github.com/kart-io/recordguard/pkg/utils/errors"
	"github.com/kart-io/recordguard/pkg/utils/requestutil"
)

// DefaultFormat is the output format recorded when the caller supplies none.
const DefaultFormat = "pdf"

// DefaultSections is the full record section set, recorded when the caller
// does not narrow the access.
var DefaultSections = []string{
	"demographics",
	"consultations",
	"prescriptions",
	"lab_results",
	"billing",
}

var auditWriteFailures = metrics.NewCounter(
	"recordguard_audit_write_failures_total",
	"Audit trail writes that failed and were escalated",
)

func init() {
	metrics.Register(auditWriteFailures)
}

// AuditRecord is one auditable event, assembled by the caller. The caller
// resolves the client context and role; the logger never re-derives them.
type AuditRecord struct {
	StaffID   uint64
	PatientID uint64
	Action    model.Action
	Outcome   model.Outcome
	Reason    string
	Client    requestutil.ClientContext
	SessionID string
	Role      model.Role
	Metadata  map[string]interface{}
}

// AuditService writes the append-only audit trail and its legacy access-log
// projection.
type AuditService struct {
	store store.Factory

	// now is injectable for tests.
	now func() time.Time
}

// NewAuditService creates a new AuditService.
func NewAuditService(store store.Factory) *AuditService {
	return &AuditService{store: store, now: time.Now}
}

// Record appends one audit entry for the event, whatever its outcome, and
// projects an access-log row when the action is preview, generate, or
// download. A write failure is escalated as an operational event and
// returned; callers must not roll back the business action because of it.
func (s *AuditService) Record(ctx context.Context, rec AuditRecord) error {
	entry := &model.AuditEntry{
		ID:        ulid.Make().String(),
		StaffID:   rec.StaffID,
		PatientID: rec.PatientID,
		Action:    rec.Action,
		Outcome:   rec.Outcome,
		Reason:    rec.Reason,
		ClientIP:  rec.Client.IP,
		UserAgent: rec.Client.UserAgent,
		SessionID: rec.SessionID,
		Role:      rec.Role,
		Metadata:  marshalMetadata(rec.Metadata),
	}

	if err := s.store.Audit().Create(ctx, entry); err != nil {
		s.escalate("audit entry write failed", rec, err)
		return errors.ErrAuditWriteFailed.WithCause(err)
	}

	if !projectsAccessLog(rec.Action) {
		return nil
	}

	accessLog := &model.RecordAccessLog{
		PatientID:  rec.PatientID,
		StaffID:    rec.StaffID,
		AccessKind: string(rec.Action),
		Sections:   marshalSections(rec.Metadata),
		Format:     metadataFormat(rec.Metadata),
	}
	if err := s.store.Audit().CreateAccessLog(ctx, accessLog); err != nil {
		s.escalate("access log write failed", rec, err)
		return errors.ErrAuditWriteFailed.WithCause(err)
	}
	return nil
}

// List lists audit entries for reporting.
func (s *AuditService) List(ctx context.Context, opts store.ListOptions) (int64, []*model.AuditEntry, error) {
	return s.store.Audit().List(ctx, opts)
}

func (s *AuditService) escalate(msg string, rec AuditRecord, err error) {
	auditWriteFailures.Inc()
	logger.Errorw(msg,
		"staff_id", rec.StaffID,
		"patient_id", rec.PatientID,
		"action", rec.Action,
		"outcome", rec.Outcome,
		"error", err,
	)
}

// projectsAccessLog reports whether the action also writes the legacy
// access-log table.
func projectsAccessLog(action model.Action) bool {
	switch action {
	case model.ActionPreview, model.ActionGenerate, model.ActionDownload:
		return true
	default:
		return false
	}
}

func marshalMetadata(metadata map[string]interface{}) string {
	if len(metadata) == 0 {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}

func marshalSections(metadata map[string]interface{}) string {
	sections := DefaultSections
	if list := metadataSections(metadata["sections"]); len(list) > 0 {
		sections = list
	}
	b, _ := json.Marshal(sections)
	return string(b)
}

// metadataSections normalizes the sections value, which arrives as []string
// from handlers but as []interface{} when the metadata has been through a
// JSON round trip.
func metadataSections(v interface{}) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func metadataFormat(metadata map[string]interface{}) string {
	if v, ok := metadata["format"]; ok {
		if format, ok := v.(string); ok && format != "" {
			return format
		}
	}
	return DefaultFormat
}
