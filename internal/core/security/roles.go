// Package security provides the role vocabulary and caller identity helpers.
package security

import (
	"slices"
	"strings"
)

// Role is a role label carried in the caller's access token.
type Role string

const (
	RoleSuperuser           Role = "SUPERUSER"
	RoleContractorSuperuser Role = "CONTRACTOR_SUPERUSER"
	RoleContractorRUS       Role = "CONTRACTOR_RUS"
	RoleDealSuperuser       Role = "DEAL_SUPERUSER"
	RoleUser                Role = "USER"
	RoleCreditUser          Role = "CREDIT_USER"
	RoleOverdraftUser       Role = "OVERDRAFT_USER"
)

// Role groups used by route guards.
var (
	// ContractorWriters may mutate contractors and lookup catalogs.
	ContractorWriters = []Role{RoleSuperuser, RoleContractorSuperuser}

	// ContractorSearchers may call the search endpoints.
	ContractorSearchers = []Role{RoleSuperuser, RoleContractorSuperuser, RoleContractorRUS}

	// ContractorReaders may read a single contractor.
	ContractorReaders = []Role{
		RoleSuperuser, RoleContractorSuperuser, RoleContractorRUS,
		RoleUser, RoleCreditUser, RoleOverdraftUser, RoleDealSuperuser,
	}
)

// RoleSet is an unordered set of role labels held by one caller for one request.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from raw labels. Labels are trimmed; empty ones are skipped.
func NewRoleSet(labels ...string) RoleSet {
	set := make(RoleSet, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		set[Role(l)] = struct{}{}
	}
	return set
}

// Has reports whether the set contains role.
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// HasAny reports whether the set contains at least one of roles.
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// Sorted returns the roles in lexical order.
func (s RoleSet) Sorted() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// Strings returns the labels as plain strings, sorted.
func (s RoleSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, r := range sorted {
		out[i] = string(r)
	}
	return out
}
