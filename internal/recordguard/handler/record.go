package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/kart-io/recordguard/internal/model"
	"github.com/kart-io/recordguard/internal/recordguard/biz"
	"github.com/kart-io/recordguard/pkg/middleware"
	"github.com/kart-io/recordguard/pkg/security/csrf"
	"github.com/kart-io/recordguard/pkg/utils/errors"
	"github.com/kart-io/recordguard/pkg/utils/requestutil"
	"github.com/kart-io/recordguard/pkg/utils/response"
)

// CSRF token header for state-changing record operations.
const HeaderCSRFToken = "X-CSRF-Token"

// RecordHandler serves the medical-record access endpoints. Every request
// runs the same pipeline: resolve identity, decide access, check the
// capability, rate-limit and CSRF-check where required, then execute and
// audit the outcome. Exactly one audit entry is written per request.
type RecordHandler struct {
	identity  *biz.IdentityService
	decision  *biz.AccessDecisionService
	ratelimit *biz.RateLimitService
	audit     *biz.AuditService
	csrf      *csrf.Manager
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(
	identity *biz.IdentityService,
	decision *biz.AccessDecisionService,
	ratelimit *biz.RateLimitService,
	audit *biz.AuditService,
	csrfMgr *csrf.Manager,
) *RecordHandler {
	return &RecordHandler{
		identity:  identity,
		decision:  decision,
		ratelimit: ratelimit,
		audit:     audit,
		csrf:      csrfMgr,
	}
}

// RecordRequest narrows a preview or export to specific record sections and
// an output format. Both fields are optional.
type RecordRequest struct {
	Sections []string `json:"sections"`
	Format   string   `json:"format"`
}

// accessContext carries the per-request state assembled by the pipeline.
type accessContext struct {
	requester *biz.Requester
	patientID uint64
	client    requestutil.ClientContext
	metadata  map[string]interface{}
}

// View handles GET /v1/patients/:id/record.
func (h *RecordHandler) View(c *gin.Context) {
	ac, ok := h.authorize(c, model.ActionView, model.CapabilityView)
	if !ok {
		return
	}

	h.recordOutcome(c, ac, model.ActionView, model.OutcomeCompleted, "")
	response.Write(c, nil, gin.H{
		"patient_id": ac.patientID,
		"sections":   biz.DefaultSections,
	})
}

// Preview handles POST /v1/patients/:id/record/preview.
func (h *RecordHandler) Preview(c *gin.Context) {
	var req RecordRequest
	_ = c.ShouldBindJSON(&req)

	ac, ok := h.authorize(c, model.ActionPreview, model.CapabilityView)
	if !ok {
		return
	}
	ac.metadata = req.metadata()

	h.recordOutcome(c, ac, model.ActionPreview, model.OutcomeCompleted, "")
	response.Write(c, nil, gin.H{
		"patient_id": ac.patientID,
		"sections":   req.sections(),
		"format":     req.format(),
	})
}

// Export handles POST /v1/patients/:id/record/export. The generate action is
// rate-limited and CSRF-protected on top of the access decision.
func (h *RecordHandler) Export(c *gin.Context) {
	var req RecordRequest
	_ = c.ShouldBindJSON(&req)

	ac, ok := h.authorize(c, model.ActionGenerate, model.CapabilityExport)
	if !ok {
		return
	}
	ac.metadata = req.metadata()

	rate := h.ratelimit.CheckAndCount(c.Request.Context(), ac.requester.ID, model.ActionGenerate)
	if rate.Outcome == biz.Throttled {
		h.recordOutcome(c, ac, model.ActionGenerate, model.OutcomeThrottled, "")
		response.Write(c, errors.ErrRateLimited, nil)
		return
	}

	token := c.GetHeader(HeaderCSRFToken)
	if err := h.csrf.Validate(c.Request.Context(), ac.requester.SessionID, token); err != nil {
		h.recordOutcome(c, ac, model.ActionGenerate, model.OutcomeFailure, "csrf_invalid")
		response.Write(c, errors.ErrCSRFTokenInvalid, nil)
		return
	}

	// The document itself is produced by the records subsystem; this
	// endpoint only authorizes the generation and hands back a reference.
	documentID := ulid.Make().String()
	ac.metadata["document_id"] = documentID

	h.recordOutcome(c, ac, model.ActionGenerate, model.OutcomeCompleted, "")
	response.Write(c, nil, gin.H{
		"document_id": documentID,
		"patient_id":  ac.patientID,
		"format":      req.format(),
	})
}

// Download handles GET /v1/patients/:id/record/download.
func (h *RecordHandler) Download(c *gin.Context) {
	ac, ok := h.authorize(c, model.ActionDownload, model.CapabilityExport)
	if !ok {
		return
	}

	h.recordOutcome(c, ac, model.ActionDownload, model.OutcomeCompleted, "")
	response.Write(c, nil, gin.H{
		"patient_id": ac.patientID,
		"format":     biz.DefaultFormat,
	})
}

// authorize runs the shared front of the pipeline. On any rejection it
// writes the audit entry and the generic error response itself and returns
// ok=false; callers just return.
func (h *RecordHandler) authorize(c *gin.Context, action model.Action, capability model.Capability) (*accessContext, bool) {
	patientID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Write(c, errors.ErrInvalidParam.WithMessage("invalid patient id"), nil)
		return nil, false
	}

	ac := &accessContext{
		patientID: patientID,
		client:    requestutil.FromRequest(c.Request),
		metadata:  map[string]interface{}{},
	}

	claims, _ := middleware.GetSessionClaims(c)
	requester, err := h.identity.Resolve(c.Request.Context(), claims)
	if err != nil {
		response.Write(c, errors.ErrIdentityUnresolved, nil)
		return nil, false
	}
	ac.requester = requester

	decision := h.decision.Decide(c.Request.Context(), requester, patientID)
	if !decision.Allowed() {
		h.recordOutcome(c, ac, action, model.OutcomeDeny, decision.Reason)
		response.Write(c, errors.ErrAccessDenied, nil)
		return nil, false
	}

	if !biz.HasPermission(requester.Role, capability) {
		h.recordOutcome(c, ac, action, model.OutcomeDeny, biz.ReasonNoCapability)
		response.Write(c, errors.ErrAccessDenied, nil)
		return nil, false
	}

	return ac, true
}

// recordOutcome appends the single audit entry for this request. Audit
// failures are escalated inside the service and never affect the response.
func (h *RecordHandler) recordOutcome(c *gin.Context, ac *accessContext, action model.Action, outcome model.Outcome, reason string) {
	_ = h.audit.Record(c.Request.Context(), biz.AuditRecord{
		StaffID:   ac.requester.ID,
		PatientID: ac.patientID,
		Action:    action,
		Outcome:   outcome,
		Reason:    reason,
		Client:    ac.client,
		SessionID: ac.requester.SessionID,
		Role:      ac.requester.Role,
		Metadata:  ac.metadata,
	})
}

func (r *RecordRequest) sections() []string {
	if len(r.Sections) > 0 {
		return r.Sections
	}
	return biz.DefaultSections
}

func (r *RecordRequest) format() string {
	if r.Format != "" {
		return r.Format
	}
	return biz.DefaultFormat
}

func (r *RecordRequest) metadata() map[string]interface{} {
	m := map[string]interface{}{
		"format": r.format(),
	}
	if len(r.Sections) > 0 {
		m["sections"] = r.Sections
	}
	return m
}
