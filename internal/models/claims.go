package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionBundleGenerate = "bundle:generate"
	PermissionBundleAssign   = "bundle:assign"
	PermissionBundleTransfer = "bundle:transfer"
	PermissionTicketResolve  = "ticket:resolve"
	PermissionExportRead     = "export:read"

	// Salesperson permissions
	PermissionTicketCreate = "ticket:create"
	PermissionQRSell       = "qr:sell"
	PermissionStatsRead    = "stats:read"

	// Customer permissions
	PermissionQRActivate = "qr:activate"
	PermissionQRManage   = "qr:manage"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission.
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role.
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionBundleGenerate,
			PermissionBundleAssign,
			PermissionBundleTransfer,
			PermissionTicketResolve,
			PermissionExportRead,
			PermissionStatsRead,
			PermissionQRSell,
		}
	case RoleSalesperson:
		return []string{
			PermissionTicketCreate,
			PermissionQRSell,
			PermissionStatsRead,
		}
	case RoleCustomer:
		return []string{
			PermissionQRActivate,
			PermissionQRManage,
		}
	default:
		return []string{}
	}
}
