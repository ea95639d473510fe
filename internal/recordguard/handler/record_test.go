package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kart-io/recordguard/internal/model"
	"github.com/kart-io/recordguard/internal/recordguard/biz"
	"github.com/kart-io/recordguard/internal/recordguard/handler"
	"github.com/kart-io/recordguard/internal/recordguard/router"
	"github.com/kart-io/recordguard/internal/recordguard/store"
	"github.com/kart-io/recordguard/pkg/security/csrf"
	"github.com/kart-io/recordguard/pkg/security/session"
)

const testSessionKey = "0123456789abcdef0123456789abcdef"

type testServer struct {
	engine     *gin.Engine
	db         *gorm.DB
	sessionMgr *session.Manager
}

// newTestServer wires the whole pipeline against an in-memory database,
// with a rate cap of 2 generations per hour to keep throttle tests short.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))
	factory := store.NewFactory(db)

	sessionMgr, err := session.New(session.WithKey(testSessionKey))
	require.NoError(t, err)

	csrfStore := csrf.NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = csrfStore.Close() })
	csrfMgr, err := csrf.New(csrf.NewOptions(), csrfStore)
	require.NoError(t, err)

	identity := biz.NewIdentityService(factory)
	decision := biz.NewAccessDecisionService(factory)
	ratelimit := biz.NewRateLimitService(factory, 2, 50)
	audit := biz.NewAuditService(factory)

	engine := gin.New()
	router.Register(engine, sessionMgr, router.Handlers{
		Record: handler.NewRecordHandler(identity, decision, ratelimit, audit, csrfMgr),
		CSRF:   handler.NewCSRFHandler(identity, csrfMgr),
		Audit:  handler.NewAuditHandler(identity, audit),
	})

	return &testServer{engine: engine, db: db, sessionMgr: sessionMgr}
}

func (ts *testServer) seedStaff(t *testing.T, id uint64, role model.Role) string {
	t.Helper()
	require.NoError(t, ts.db.Create(&model.Staff{
		ID:     id,
		Name:   "staff",
		Role:   role,
		Status: model.StatusEnabled,
	}).Error)

	token, err := ts.sessionMgr.Sign(t.Context(), id, role.String())
	require.NoError(t, err)
	return token
}

func (ts *testServer) seedPatient(t *testing.T, id uint64, area string) {
	t.Helper()
	require.NoError(t, ts.db.Create(&model.Patient{
		ID:            id,
		Name:          "patient",
		CatchmentArea: area,
		Status:        model.StatusEnabled,
	}).Error)
}

func (ts *testServer) do(t *testing.T, method, path, sessionToken, csrfToken, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "198.51.100.7:8080"
	req.Header.Set("User-Agent", "pipeline-test")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+sessionToken)
	}
	if csrfToken != "" {
		req.Header.Set(handler.HeaderCSRFToken, csrfToken)
	}

	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func (ts *testServer) issueCSRF(t *testing.T, sessionToken string) string {
	t.Helper()

	w := ts.do(t, http.MethodGet, "/v1/csrf/token", sessionToken, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			CSRFToken string `json:"csrf_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.CSRFToken)
	return resp.Data.CSRFToken
}

func countOutcome(entries []model.AuditEntry, outcome model.Outcome) int {
	n := 0
	for _, e := range entries {
		if e.Outcome == outcome {
			n++
		}
	}
	return n
}

func (ts *testServer) auditEntries(t *testing.T) []model.AuditEntry {
	t.Helper()
	var entries []model.AuditEntry
	require.NoError(t, ts.db.Order("created_at").Find(&entries).Error)
	return entries
}

func TestPipeline_ViewAllowed(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedStaff(t, 1, model.RolePhysician)
	ts.seedPatient(t, 100, "A-01")

	w := ts.do(t, http.MethodGet, "/v1/patients/100/record", token, "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	entries := ts.auditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionView, entries[0].Action)
	assert.Equal(t, model.OutcomeCompleted, entries[0].Outcome)
	assert.Equal(t, "198.51.100.7", entries[0].ClientIP)
	assert.Equal(t, "pipeline-test", entries[0].UserAgent)
	assert.Equal(t, model.RolePhysician, entries[0].Role)
}

func TestPipeline_ViewDeniedIsGenericAndAudited(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedStaff(t, 7, model.RoleCashier)
	ts.seedPatient(t, 300, "A-01")

	w := ts.do(t, http.MethodGet, "/v1/patients/300/record", token, "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The body never names the rule that denied.
	body := w.Body.String()
	assert.NotContains(t, body, "no_interaction")
	assert.NotContains(t, body, "interaction")
	assert.Contains(t, body, "Access not permitted")

	// Exactly one audit entry, with the reason recorded internally.
	entries := ts.auditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, model.OutcomeDeny, entries[0].Outcome)
	assert.Equal(t, biz.ReasonNoInteraction, entries[0].Reason)
}

func TestPipeline_MissingCapabilityDenied(t *testing.T) {
	ts := newTestServer(t)
	// Nurse may view but not export.
	token := ts.seedStaff(t, 2, model.RoleNurse)
	ts.seedPatient(t, 100, "A-01")

	w := ts.do(t, http.MethodGet, "/v1/patients/100/record/download", token, "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	entries := ts.auditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, model.OutcomeDeny, entries[0].Outcome)
	assert.Equal(t, biz.ReasonNoCapability, entries[0].Reason)
}

func TestPipeline_ExportHappyPath(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedStaff(t, 1, model.RolePhysician)
	ts.seedPatient(t, 100, "A-01")

	csrfToken := ts.issueCSRF(t, token)
	w := ts.do(t, http.MethodPost, "/v1/patients/100/record/export", token, csrfToken,
		`{"sections":["prescriptions"],"format":"csv"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			DocumentID string `json:"document_id"`
			Format     string `json:"format"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.DocumentID, 26)
	assert.Equal(t, "csv", resp.Data.Format)

	entries := ts.auditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionGenerate, entries[0].Action)
	assert.Equal(t, model.OutcomeCompleted, entries[0].Outcome)

	var logs []model.RecordAccessLog
	require.NoError(t, ts.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "generate", logs[0].AccessKind)
	assert.Equal(t, "csv", logs[0].Format)
}

func TestPipeline_ExportRejectsReusedCSRFToken(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedStaff(t, 1, model.RolePhysician)
	ts.seedPatient(t, 100, "A-01")

	csrfToken := ts.issueCSRF(t, token)

	w := ts.do(t, http.MethodPost, "/v1/patients/100/record/export", token, csrfToken, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/v1/patients/100/record/export", token, csrfToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	entries := ts.auditEntries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, countOutcome(entries, model.OutcomeCompleted))
	assert.Equal(t, 1, countOutcome(entries, model.OutcomeFailure))
	for _, e := range entries {
		if e.Outcome == model.OutcomeFailure {
			assert.Equal(t, "csrf_invalid", e.Reason)
		}
	}
}

func TestPipeline_ExportMissingCSRFToken(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedStaff(t, 1, model.RolePhysician)
	ts.seedPatient(t, 100, "A-01")

	w := ts.do(t, http.MethodPost, "/v1/patients/100/record/export", token, "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPipeline_ExportThrottled(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedStaff(t, 1, model.RolePhysician)
	ts.seedPatient(t, 100, "A-01")

	// Cap is 2 per hour in the test server.
	for i := 0; i < 2; i++ {
		csrfToken := ts.issueCSRF(t, token)
		w := ts.do(t, http.MethodPost, "/v1/patients/100/record/export", token, csrfToken, "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	csrfToken := ts.issueCSRF(t, token)
	w := ts.do(t, http.MethodPost, "/v1/patients/100/record/export", token, csrfToken, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	entries := ts.auditEntries(t)
	require.Len(t, entries, 3)
	assert.Equal(t, 2, countOutcome(entries, model.OutcomeCompleted))
	assert.Equal(t, 1, countOutcome(entries, model.OutcomeThrottled))

	// The throttled attempt never burned its CSRF token or generated a
	// document: only two access-log rows exist.
	var logs []model.RecordAccessLog
	require.NoError(t, ts.db.Find(&logs).Error)
	assert.Len(t, logs, 2)
}

func TestPipeline_Unauthenticated(t *testing.T) {
	ts := newTestServer(t)
	ts.seedPatient(t, 100, "A-01")

	w := ts.do(t, http.MethodGet, "/v1/patients/100/record", "", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodGet, "/v1/patients/100/record", "garbage-token", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Nothing reached the audit trail.
	assert.Empty(t, ts.auditEntries(t))
}

func TestPipeline_SessionCookieFallback(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedStaff(t, 1, model.RolePhysician)
	ts.seedPatient(t, 100, "A-01")

	withCookie := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/patients/100/record", nil)
		req.RemoteAddr = "198.51.100.7:8080"
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		req.AddCookie(&http.Cookie{Name: "rg_session", Value: token})

		w := httptest.NewRecorder()
		ts.engine.ServeHTTP(w, req)
		return w
	}

	// Cookie alone authenticates.
	assert.Equal(t, http.StatusOK, withCookie("").Code)

	// A malformed Authorization header does not shadow a valid cookie.
	assert.Equal(t, http.StatusOK, withCookie("garbage").Code)
	assert.Equal(t, http.StatusOK, withCookie("Basic dXNlcjpwdw==").Code)
	assert.Equal(t, http.StatusOK, withCookie("Bearer ").Code)

	// A well-formed Bearer token still wins over the cookie: a bad one
	// is rejected outright.
	assert.Equal(t, http.StatusUnauthorized, withCookie("Bearer not-a-jwt").Code)
}

func TestPipeline_InvalidPatientID(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedStaff(t, 1, model.RolePhysician)

	w := ts.do(t, http.MethodGet, "/v1/patients/abc/record", token, "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPipeline_AuditListing(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.seedStaff(t, 1, model.RoleAdministrator)
	nurseToken := ts.seedStaff(t, 2, model.RoleNurse)
	ts.seedPatient(t, 100, "A-01")

	w := ts.do(t, http.MethodGet, "/v1/patients/100/record", nurseToken, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	// Nurses lack the audit capability.
	w = ts.do(t, http.MethodGet, "/v1/audit/entries", nurseToken, "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodGet, "/v1/audit/entries", adminToken, "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Total int64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// The nurse's view, plus the denied and completed audit listings.
	assert.GreaterOrEqual(t, resp.Data.Total, int64(2))
}
