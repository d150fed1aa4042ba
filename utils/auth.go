package utils

// HasAnyRole reports whether the member holds at least one of the allowed
// roles. An empty allowed list means the check is not configured and every
// member passes.
func HasAnyRole(memberRoles, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, roleID := range memberRoles {
		for _, want := range allowed {
			if roleID == want {
				return true
			}
		}
	}
	return false
}
