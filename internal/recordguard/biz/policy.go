package biz

import "github.com/kart-io/recordguard/internal/model"

// Matrix is the static permission matrix mapping each role to its capability
// set. The matrix is closed: a role absent from it holds no capabilities.
var Matrix = map[model.Role]map[model.Capability]bool{
	model.RoleAdministrator: {
		model.CapabilityView:   true,
		model.CapabilityPrint:  true,
		model.CapabilityExport: true,
		model.CapabilityAudit:  true,
	},
	model.RolePhysician: {
		model.CapabilityView:   true,
		model.CapabilityPrint:  true,
		model.CapabilityExport: true,
	},
	model.RoleNurse: {
		model.CapabilityView:  true,
		model.CapabilityPrint: true,
	},
	model.RoleRecordsOfficer: {
		model.CapabilityView:   true,
		model.CapabilityPrint:  true,
		model.CapabilityExport: true,
		model.CapabilityAudit:  true,
	},
	model.RoleDistrictHealthOfficer: {
		model.CapabilityView:   true,
		model.CapabilityPrint:  true,
		model.CapabilityExport: true,
		model.CapabilityAudit:  true,
	},
	model.RoleCommunityHealthWorker: {
		model.CapabilityView:  true,
		model.CapabilityPrint: true,
	},
	model.RolePharmacist: {
		model.CapabilityView: true,
	},
	model.RoleCashier: {
		model.CapabilityView: true,
	},
	model.RoleLabTechnician: {
		model.CapabilityView: true,
	},
}

// HasPermission reports whether the role holds the capability. Roles outside
// the matrix, including RoleUnknown, hold nothing.
func HasPermission(role model.Role, capability model.Capability) bool {
	caps, ok := Matrix[role]
	if !ok {
		return false
	}
	return caps[capability]
}
