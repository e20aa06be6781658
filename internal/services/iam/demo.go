package iam

import (
	"crypto/subtle"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/auth"
)

// demoPassword is the shared secret for the built-in demo accounts. These
// accounts exist so the dashboard stays usable without a credential store;
// disable them with AUTH_DEMO_FALLBACK=false.
const demoPassword = "password123"

// demoIdentities mirrors the seeded demo accounts. Logins match on
// username or email, like the store tier.
var demoIdentities = []Identity{
	{ID: 1, Username: "admin", Email: "admin@helpdesk.com", FullName: "System Admin", Department: "IT", Role: auth.RoleAdmin, Demo: true},
	{ID: 2, Username: "it_support1", Email: "raj@helpdesk.com", FullName: "Raj Kumar", Department: "IT Support", Role: auth.RoleITSupport, Demo: true},
	{ID: 3, Username: "it_support2", Email: "priya@helpdesk.com", FullName: "Priya Sharma", Department: "IT Support", Role: auth.RoleITSupport, Demo: true},
	{ID: 4, Username: "employee1", Email: "john@company.com", FullName: "John Doe", Department: "Operations", Role: auth.RoleEmployee, Demo: true},
	{ID: 5, Username: "employee2", Email: "sarah@company.com", FullName: "Sarah Wilson", Department: "Finance", Role: auth.RoleEmployee, Demo: true},
}

// lookupDemoIdentity scans the whole demo set with constant-time compares
// so the match position does not show up in response timing.
func (s *Service) lookupDemoIdentity(login string) *Identity {
	var found *Identity
	loginBytes := []byte(login)
	for i := range demoIdentities {
		candidate := &demoIdentities[i]
		usernameMatch := subtle.ConstantTimeCompare(loginBytes, []byte(candidate.Username)) == 1
		emailMatch := subtle.ConstantTimeCompare(loginBytes, []byte(candidate.Email)) == 1
		if usernameMatch || emailMatch {
			copied := *candidate
			found = &copied
		}
	}
	return found
}

// demoIdentityList returns a copy of the demo account set.
func demoIdentityList() []Identity {
	out := make([]Identity, len(demoIdentities))
	copy(out, demoIdentities)
	return out
}
