package domain

import (
	"time"
)

type AdminPermission string

const (
	PermManageUsers         AdminPermission = "manage_users"
	PermManageJobs          AdminPermission = "manage_jobs"
	PermManageContent       AdminPermission = "manage_content"
	PermManageTrades        AdminPermission = "manage_trades"
	PermManageQuizzes       AdminPermission = "manage_quizzes"
	PermManageWallets       AdminPermission = "manage_wallets"
	PermViewStats           AdminPermission = "view_stats"
	PermManageNotifications AdminPermission = "manage_notifications"
)

type AdminRole string

const (
	AdminRoleSuper          AdminRole = "super_admin"
	AdminRoleContentManager AdminRole = "content_manager"
	AdminRoleUserManager    AdminRole = "user_manager"
	AdminRoleFinanceManager AdminRole = "finance_manager"
	AdminRoleSupport        AdminRole = "support"
)

var adminRolePermissions = map[AdminRole]map[AdminPermission]bool{
	AdminRoleContentManager: {
		PermManageContent: true,
		PermManageTrades:  true,
		PermManageQuizzes: true,
		PermViewStats:     true,
	},
	AdminRoleUserManager: {
		PermManageUsers: true,
		PermManageJobs:  true,
		PermViewStats:   true,
	},
	AdminRoleFinanceManager: {
		PermManageWallets: true,
		PermViewStats:     true,
	},
	AdminRoleSupport: {
		PermManageJobs:          true,
		PermManageNotifications: true,
		PermViewStats:           true,
	},
}

func (r AdminRole) IsValid() bool {
	if r == AdminRoleSuper {
		return true
	}
	_, ok := adminRolePermissions[r]
	return ok
}

func (r AdminRole) Grants(perm AdminPermission) bool {
	if r == AdminRoleSuper {
		return true
	}
	return adminRolePermissions[r][perm]
}

type UpdateUserStatusInput struct {
	Status UserStatus `json:"status"`
	Reason string     `json:"reason"`
}

type AdminUserDetail struct {
	User          *User         `json:"user"`
	WalletBalance int64         `json:"wallet_balance_coins"`
	JobsPosted    int64         `json:"jobs_posted"`
	Interests     int64         `json:"interests"`
	QuizAttempts  []QuizAttempt `json:"quiz_attempts"`
}

type DashboardStats struct {
	UsersByRole          map[string]int64 `json:"users_by_role"`
	UsersByStatus        map[string]int64 `json:"users_by_status"`
	JobsByStatus         map[string]int64 `json:"jobs_by_status"`
	InterestsByStatus    map[string]int64 `json:"interests_by_status"`
	ContentByStatus      map[string]int64 `json:"content_by_status"`
	PendingFunding       int64            `json:"pending_funding_requests"`
	AccessFeeRevenueCoin int64            `json:"access_fee_revenue_coins"`
	GeneratedAt          time.Time        `json:"generated_at"`
}

// CascadeReport counts the rows removed by an admin user deletion, keyed by table.
type CascadeReport map[string]int64
