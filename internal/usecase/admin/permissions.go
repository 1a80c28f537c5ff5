package admin

import "github.com/balzampsilo-sys/tg-bot-10-02/internal/models"

// Permissions gate admin operations by role.
const (
	PermBlockSlots      = "block_slots"
	PermForceCancel     = "force_cancel"
	PermViewHistory     = "view_history"
	PermManageAdmins    = "manage_admins"
	PermRunHousekeeping = "run_housekeeping"
)

var rolePermissions = map[string][]string{
	models.RoleSuperAdmin: {
		PermBlockSlots,
		PermForceCancel,
		PermViewHistory,
		PermManageAdmins,
		PermRunHousekeeping,
	},
	models.RoleModerator: {
		PermBlockSlots,
		PermForceCancel,
		PermViewHistory,
	},
}

func HasPermission(role, perm string) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}
