package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role       Role
		capability Capability
		want       bool
	}{
		{RoleOwner, CapViewPatients, true},
		{RoleDentist, CapViewPatients, true},
		{RoleStaff, CapViewPatients, true},
		{RoleAdmin, CapViewPatients, true},

		{RoleOwner, CapEditMedicalFields, true},
		{RoleDentist, CapEditMedicalFields, true},
		{RoleAdmin, CapEditMedicalFields, true},
		{RoleStaff, CapEditMedicalFields, false},

		{RoleOwner, CapDeletePatientDirectly, true},
		{RoleDentist, CapDeletePatientDirectly, true},
		{RoleStaff, CapDeletePatientDirectly, false},
		{RoleAdmin, CapDeletePatientDirectly, false},

		{RoleStaff, CapRequestDeletion, true},
		{RoleOwner, CapRequestDeletion, false},
		{RoleDentist, CapRequestDeletion, false},
		{RoleAdmin, CapRequestDeletion, false},

		{RoleOwner, CapManageStaff, true},
		{RoleOwner, CapApproveOrDenyDeletion, true},
		{RoleOwner, CapManageBackups, true},
		{RoleOwner, CapViewAllAuditLogs, true},
		{RoleDentist, CapApproveOrDenyDeletion, false},
		{RoleStaff, CapManageBackups, false},
		{RoleAdmin, CapViewAllAuditLogs, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.capability), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Can(tt.capability))
		})
	}
}

func TestUnknownRoleIsDenied(t *testing.T) {
	r := Role("superuser")
	assert.False(t, r.Valid())
	assert.False(t, r.Can(CapViewPatients))
	assert.False(t, r.Can(CapManageBackups))
}

func TestActorDisplayName(t *testing.T) {
	a := Actor{Username: "jane_staff", Role: RoleStaff}
	assert.Equal(t, "jane_staff", a.DisplayName())

	a.FullName = "Jane Doe"
	assert.Equal(t, "Jane Doe", a.DisplayName())
}
