package tenant

import "saasgrid-backend/shared/database/models"

// Quota is the resolved limit set for one tenant.
type Quota struct {
	MaxUsers          int      `json:"max_users"`
	MaxStorageMB      int64    `json:"max_storage_mb"`
	MaxAPICallsPerDay int64    `json:"max_api_calls_per_day"`
	Features          []string `json:"features"`
}

// Fixed per-plan limits. CUSTOM starts from ENTERPRISE limits and is then
// overridden by the tenant's settings.
var planQuotas = map[string]Quota{
	models.TenantTypeFree: {
		MaxUsers:          5,
		MaxStorageMB:      512,
		MaxAPICallsPerDay: 1_000,
		Features:          []string{"core"},
	},
	models.TenantTypeBasic: {
		MaxUsers:          25,
		MaxStorageMB:      5_120,
		MaxAPICallsPerDay: 10_000,
		Features:          []string{"core", "notifications"},
	},
	models.TenantTypeProfessional: {
		MaxUsers:          100,
		MaxStorageMB:      51_200,
		MaxAPICallsPerDay: 100_000,
		Features:          []string{"core", "notifications", "exports"},
	},
	models.TenantTypeEnterprise: {
		MaxUsers:          1_000,
		MaxStorageMB:      512_000,
		MaxAPICallsPerDay: 1_000_000,
		Features:          []string{"core", "notifications", "exports", "audit"},
	},
	models.TenantTypeCustom: {
		MaxUsers:          1_000,
		MaxStorageMB:      512_000,
		MaxAPICallsPerDay: 1_000_000,
		Features:          []string{"core", "notifications", "exports", "audit"},
	},
}

// QuotaForPlan returns the fixed quota table entry for a plan type.
func QuotaForPlan(planType string) (Quota, bool) {
	q, ok := planQuotas[planType]
	if !ok {
		return Quota{}, false
	}
	q.Features = append([]string(nil), q.Features...)
	return q, true
}

// KnownPlan reports whether the plan type exists in the quota table.
func KnownPlan(planType string) bool {
	_, ok := planQuotas[planType]
	return ok
}

// ResolveQuota merges CUSTOM overrides from tenant settings onto the plan
// baseline. Overrides on non-CUSTOM plans are ignored.
func ResolveQuota(planType string, maxUsers *int, maxStorageMB, maxAPICallsPerDay *int64) (Quota, bool) {
	q, ok := QuotaForPlan(planType)
	if !ok {
		return Quota{}, false
	}

	if planType != models.TenantTypeCustom {
		return q, true
	}

	if maxUsers != nil && *maxUsers > 0 {
		q.MaxUsers = *maxUsers
	}
	if maxStorageMB != nil && *maxStorageMB > 0 {
		q.MaxStorageMB = *maxStorageMB
	}
	if maxAPICallsPerDay != nil && *maxAPICallsPerDay > 0 {
		q.MaxAPICallsPerDay = *maxAPICallsPerDay
	}
	return q, true
}
