package authz

// ===============================
// Roles
// ===============================

type Role string

const (
	RoleOwner   Role = "owner"
	RoleDentist Role = "dentist"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleDentist, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// ===============================
// Capabilities
// ===============================

type Capability string

const (
	CapViewPatients          Capability = "view_patients"
	CapEditMedicalFields     Capability = "edit_medical_fields"
	CapDeletePatientDirectly Capability = "delete_patient_directly"
	CapRequestDeletion       Capability = "request_deletion"
	CapManageStaff           Capability = "manage_staff"
	CapApproveOrDenyDeletion Capability = "approve_or_deny_deletion"
	CapManageBackups         Capability = "manage_backups"
	CapViewAllAuditLogs      Capability = "view_all_audit_logs"
)

// grants is the single source of truth for role authorization. A missing
// entry means denied.
var grants = map[Capability]map[Role]bool{
	CapViewPatients: {
		RoleOwner:   true,
		RoleDentist: true,
		RoleStaff:   true,
		RoleAdmin:   true,
	},
	CapEditMedicalFields: {
		RoleOwner:   true,
		RoleDentist: true,
		RoleAdmin:   true,
	},
	CapDeletePatientDirectly: {
		RoleOwner:   true,
		RoleDentist: true,
	},
	CapRequestDeletion: {
		RoleStaff: true,
	},
	CapManageStaff: {
		RoleOwner: true,
	},
	CapApproveOrDenyDeletion: {
		RoleOwner: true,
	},
	CapManageBackups: {
		RoleOwner: true,
	},
	CapViewAllAuditLogs: {
		RoleOwner: true,
	},
}

// Can reports whether the role holds the capability. Unknown roles and
// unknown capabilities are always denied.
func (r Role) Can(c Capability) bool {
	return grants[c][r]
}
