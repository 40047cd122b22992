package contractor

import (
	"contractor/internal/core/security"
)

// SearchPolicy gates and narrows search criteria by caller role.
//
// Superuser roles search without restriction. Country-scoped roles may only
// search by their own country, and an empty request is narrowed to it. Every
// other combination is rejected, which callers render as an empty result.
type SearchPolicy struct {
	superusers    []security.Role
	countryScopes map[security.Role]string
}

// NewSearchPolicy builds a policy from superuser roles and role-to-country scopes.
func NewSearchPolicy(superusers []security.Role, countryScopes map[security.Role]string) *SearchPolicy {
	return &SearchPolicy{
		superusers:    superusers,
		countryScopes: countryScopes,
	}
}

// DefaultSearchPolicy is the production role mapping: SUPERUSER and
// CONTRACTOR_SUPERUSER are unrestricted, CONTRACTOR_RUS sees the domestic country.
func DefaultSearchPolicy(domesticCountry string) *SearchPolicy {
	return NewSearchPolicy(
		[]security.Role{security.RoleSuperuser, security.RoleContractorSuperuser},
		map[security.Role]string{security.RoleContractorRUS: domesticCountry},
	)
}

// Authorize returns the effective criteria and true when the search may run.
func (p *SearchPolicy) Authorize(roles security.RoleSet, c SearchCriteria) (SearchCriteria, bool) {
	if roles.HasAny(p.superusers...) {
		return c, true
	}

	scopes := p.scopesOf(roles)

	if c.IsEmpty() {
		if len(scopes) == 0 {
			return SearchCriteria{}, false
		}
		return CountryOnly(scopes[0]), true
	}

	if !c.IsEmptyExceptCountry() {
		return SearchCriteria{}, false
	}

	for _, code := range scopes {
		if *c.Country == code {
			return CountryOnly(code), true
		}
	}
	return SearchCriteria{}, false
}

// scopesOf returns the country codes granted to roles, in role order.
func (p *SearchPolicy) scopesOf(roles security.RoleSet) []string {
	var scopes []string
	for _, r := range roles.Sorted() {
		if code, ok := p.countryScopes[r]; ok {
			scopes = append(scopes, code)
		}
	}
	return scopes
}
