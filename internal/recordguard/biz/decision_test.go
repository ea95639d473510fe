package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/recordguard/internal/model"
)

func TestDecide_RoleWideAllow(t *testing.T) {
	factory, db := newTestFactory(t)
	seedPatient(t, db, 100, "A-01", model.StatusEnabled)
	svc := NewAccessDecisionService(factory)

	roles := []model.Role{
		model.RoleAdministrator,
		model.RolePhysician,
		model.RoleNurse,
		model.RoleRecordsOfficer,
		model.RoleDistrictHealthOfficer,
	}
	for _, role := range roles {
		d := svc.Decide(context.Background(), activeRequester(1, role), 100)
		assert.Equal(t, Allow, d.Outcome, role)
		assert.Equal(t, ReasonRoleWide, d.Reason, role)
	}
}

func TestDecide_InactivePatientDeniesEveryRole(t *testing.T) {
	factory, db := newTestFactory(t)
	seedPatient(t, db, 100, "A-01", model.StatusDisabled)
	svc := NewAccessDecisionService(factory)

	for role := range Matrix {
		d := svc.Decide(context.Background(), activeRequester(1, role), 100)
		assert.Equal(t, Deny, d.Outcome, role)
		assert.Equal(t, ReasonPatientInactive, d.Reason, role)
	}
}

func TestDecide_UnknownPatient(t *testing.T) {
	factory, _ := newTestFactory(t)
	svc := NewAccessDecisionService(factory)

	d := svc.Decide(context.Background(), activeRequester(1, model.RoleAdministrator), 404)
	assert.Equal(t, Deny, d.Outcome)
	assert.Equal(t, ReasonPatientUnknown, d.Reason)
}

func TestDecide_InactiveRequester(t *testing.T) {
	factory, db := newTestFactory(t)
	seedPatient(t, db, 100, "A-01", model.StatusEnabled)
	svc := NewAccessDecisionService(factory)

	inactive := &Requester{ID: 1, Role: model.RoleAdministrator, Active: false}
	d := svc.Decide(context.Background(), inactive, 100)
	assert.Equal(t, Deny, d.Outcome)
	assert.Equal(t, ReasonRequesterInactive, d.Reason)

	d = svc.Decide(context.Background(), nil, 100)
	assert.Equal(t, Deny, d.Outcome)
	assert.Equal(t, ReasonRequesterInactive, d.Reason)
}

func TestDecide_UnknownRole(t *testing.T) {
	factory, db := newTestFactory(t)
	seedPatient(t, db, 100, "A-01", model.StatusEnabled)
	svc := NewAccessDecisionService(factory)

	d := svc.Decide(context.Background(), activeRequester(1, model.Role("superuser")), 100)
	assert.Equal(t, Deny, d.Outcome)
	assert.Equal(t, ReasonUnknownRole, d.Reason)
}

// Community health worker 42 has no assignment for area B-07, so patient 901
// is denied; inserting the assignment flips the next decision to allow, and
// deactivating it flips back. No result is cached across calls.
func TestDecide_CatchmentScoped(t *testing.T) {
	factory, db := newTestFactory(t)
	seedPatient(t, db, 901, "B-07", model.StatusEnabled)
	svc := NewAccessDecisionService(factory)
	worker := activeRequester(42, model.RoleCommunityHealthWorker)

	d := svc.Decide(context.Background(), worker, 901)
	assert.Equal(t, Deny, d.Outcome)
	assert.Equal(t, ReasonNoCatchment, d.Reason)

	require.NoError(t, factory.Catchments().Create(context.Background(), &model.CatchmentAssignment{
		StaffID:       42,
		CatchmentArea: "B-07",
		Status:        model.StatusEnabled,
	}))

	d = svc.Decide(context.Background(), worker, 901)
	assert.Equal(t, Allow, d.Outcome)
	assert.Equal(t, ReasonCatchmentMatch, d.Reason)

	require.NoError(t, factory.Catchments().Deactivate(context.Background(), 42, "B-07"))

	d = svc.Decide(context.Background(), worker, 901)
	assert.Equal(t, Deny, d.Outcome)
	assert.Equal(t, ReasonNoCatchment, d.Reason)

	// Assignment for a different area does not help.
	require.NoError(t, factory.Catchments().Create(context.Background(), &model.CatchmentAssignment{
		StaffID:       42,
		CatchmentArea: "C-01",
		Status:        model.StatusEnabled,
	}))
	d = svc.Decide(context.Background(), worker, 901)
	assert.Equal(t, Deny, d.Outcome)
}

// Cashier 7 with one invoice for patient 300 is allowed; deleting that
// invoice removes the only interaction and the next decision denies.
func TestDecide_InteractionScoped(t *testing.T) {
	factory, db := newTestFactory(t)
	seedPatient(t, db, 300, "A-01", model.StatusEnabled)
	svc := NewAccessDecisionService(factory)
	cashier := activeRequester(7, model.RoleCashier)

	d := svc.Decide(context.Background(), cashier, 300)
	assert.Equal(t, Deny, d.Outcome)
	assert.Equal(t, ReasonNoInteraction, d.Reason)

	invoice := &model.Invoice{PatientID: 300, CashierID: 7, AmountCents: 1500}
	require.NoError(t, db.Create(invoice).Error)

	d = svc.Decide(context.Background(), cashier, 300)
	assert.Equal(t, Allow, d.Outcome)
	assert.Equal(t, ReasonInteraction, d.Reason)

	require.NoError(t, db.Delete(invoice).Error)

	d = svc.Decide(context.Background(), cashier, 300)
	assert.Equal(t, Deny, d.Outcome)
	assert.Equal(t, ReasonNoInteraction, d.Reason)
}

func TestDecide_InteractionUnion(t *testing.T) {
	factory, db := newTestFactory(t)
	seedPatient(t, db, 300, "A-01", model.StatusEnabled)
	svc := NewAccessDecisionService(factory)

	// Each interaction table on its own satisfies the rule.
	require.NoError(t, db.Create(&model.Prescription{PatientID: 300, DispensedBy: 8, Medication: "amoxicillin"}).Error)
	d := svc.Decide(context.Background(), activeRequester(8, model.RolePharmacist), 300)
	assert.Equal(t, Allow, d.Outcome)

	require.NoError(t, db.Create(&model.LabOrder{PatientID: 300, PerformedBy: 9, TestName: "cbc"}).Error)
	d = svc.Decide(context.Background(), activeRequester(9, model.RoleLabTechnician), 300)
	assert.Equal(t, Allow, d.Outcome)

	require.NoError(t, db.Create(&model.Consultation{PatientID: 300, AttendingID: 10}).Error)
	d = svc.Decide(context.Background(), activeRequester(10, model.RolePharmacist), 300)
	assert.Equal(t, Allow, d.Outcome)

	// Another staff member's interaction does not transfer.
	d = svc.Decide(context.Background(), activeRequester(99, model.RolePharmacist), 300)
	assert.Equal(t, Deny, d.Outcome)
}

// A failing lookup denies instead of propagating the storage error.
func TestDecide_FailsClosed(t *testing.T) {
	factory := brokenFactory(t)
	svc := NewAccessDecisionService(factory)

	d := svc.Decide(context.Background(), activeRequester(1, model.RoleAdministrator), 100)
	assert.Equal(t, Deny, d.Outcome)
	assert.Equal(t, ReasonLookupFailure, d.Reason)
}
