package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/recordguard/internal/model"
	"github.com/kart-io/recordguard/internal/recordguard/biz"
	"github.com/kart-io/recordguard/internal/recordguard/store"
	"github.com/kart-io/recordguard/pkg/middleware"
	"github.com/kart-io/recordguard/pkg/utils/errors"
	"github.com/kart-io/recordguard/pkg/utils/requestutil"
	"github.com/kart-io/recordguard/pkg/utils/response"
)

// AuditHandler serves the audit trail for roles holding the audit capability.
type AuditHandler struct {
	identity *biz.IdentityService
	audit    *biz.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(identity *biz.IdentityService, audit *biz.AuditService) *AuditHandler {
	return &AuditHandler{identity: identity, audit: audit}
}

// List handles GET /v1/audit/entries. Reviewing the trail is itself an
// audited action.
func (h *AuditHandler) List(c *gin.Context) {
	claims, _ := middleware.GetSessionClaims(c)
	requester, err := h.identity.Resolve(c.Request.Context(), claims)
	if err != nil {
		response.Write(c, errors.ErrIdentityUnresolved, nil)
		return
	}

	client := requestutil.FromRequest(c.Request)

	if !biz.HasPermission(requester.Role, model.CapabilityAudit) {
		_ = h.audit.Record(c.Request.Context(), biz.AuditRecord{
			StaffID:   requester.ID,
			Action:    model.ActionAudit,
			Outcome:   model.OutcomeDeny,
			Reason:    biz.ReasonNoCapability,
			Client:    client,
			SessionID: requester.SessionID,
			Role:      requester.Role,
		})
		response.Write(c, errors.ErrAccessDenied, nil)
		return
	}

	opts := store.ListOptions{
		StaffID:   parseUintQuery(c, "staff_id"),
		PatientID: parseUintQuery(c, "patient_id"),
		Action:    model.Action(c.Query("action")),
		Offset:    int(parseUintQuery(c, "offset")),
		Limit:     int(parseUintQuery(c, "limit")),
	}

	total, entries, err := h.audit.List(c.Request.Context(), opts)
	if err != nil {
		response.Write(c, errors.ErrDatabase.WithCause(err), nil)
		return
	}

	_ = h.audit.Record(c.Request.Context(), biz.AuditRecord{
		StaffID:   requester.ID,
		Action:    model.ActionAudit,
		Outcome:   model.OutcomeCompleted,
		Client:    client,
		SessionID: requester.SessionID,
		Role:      requester.Role,
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	response.Write(c, nil, &response.PageData{
		List:     entries,
		Total:    total,
		Page:     opts.Offset/limit + 1,
		PageSize: limit,
	})
}

func parseUintQuery(c *gin.Context, name string) uint64 {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
