package tracking

import "trac/internal/database/mongodb/model"

// ResolveOrganization ownedOrgId 優先，其次 orgId；都沒有回傳空字串
func ResolveOrganization(profile *model.User) string {
	if profile == nil {
		return ""
	}
	if profile.OwnedOrgID != "" {
		return profile.OwnedOrgID
	}
	return profile.OrgID
}
