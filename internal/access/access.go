// Package access decides whether a principal may reach a route or action.
//
// Permissions are opaque "<module>:<action>" tokens (e.g. "billing:export").
// Every function here is pure and total: a missing or malformed input yields
// false, never an error.
package access

import "strings"

// PermissionSet is the set of permission codes held by a principal.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from codes. Order and duplicates are irrelevant.
func NewPermissionSet(codes ...string) PermissionSet {
	set := make(PermissionSet, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// Codes returns the members of the set in no particular order.
func (s PermissionSet) Codes() []string {
	codes := make([]string, 0, len(s))
	for c := range s {
		codes = append(codes, c)
	}
	return codes
}

// HasPermission reports whether required is literally present in held.
// No prefix, wildcard or case folding is applied.
func HasPermission(held PermissionSet, required string) bool {
	if required == "" {
		return false
	}
	_, ok := held[required]
	return ok
}

// CanAccessModule reports whether held contains at least one permission of module,
// i.e. a code starting with "<module>:". The module string is matched literally.
func CanAccessModule(held PermissionSet, module string) bool {
	prefix := module + ":"
	for code := range held {
		if strings.HasPrefix(code, prefix) {
			return true
		}
	}
	return false
}

// ModuleGroup is one module with its permission codes in first-seen order.
type ModuleGroup struct {
	Module      string   `json:"module"`
	Permissions []string `json:"permissions"`
}

// GroupPermissionsByModule splits every code on its first ':' and groups by the
// left-hand side. Group order and order within a group follow first appearance.
// A code without ':' is its own module.
func GroupPermissionsByModule(all []string) []ModuleGroup {
	groups := make([]ModuleGroup, 0)
	index := make(map[string]int)

	for _, code := range all {
		module, _, _ := strings.Cut(code, ":")
		i, ok := index[module]
		if !ok {
			i = len(groups)
			index[module] = i
			groups = append(groups, ModuleGroup{Module: module})
		}
		groups[i].Permissions = append(groups[i].Permissions, code)
	}
	return groups
}

// IsModuleFullySelected reports whether every code of modulePermissions is in
// selected. It is vacuously true for an empty module.
func IsModuleFullySelected(selected PermissionSet, modulePermissions []string) bool {
	for _, code := range modulePermissions {
		if _, ok := selected[code]; !ok {
			return false
		}
	}
	return true
}

// SelectionState is the tri-state of a "select whole module" checkbox.
type SelectionState string

const (
	SelectionNone    SelectionState = "none"
	SelectionPartial SelectionState = "partial"
	SelectionFull    SelectionState = "full"
)

// ModuleSelection derives the checkbox state of a module for the selected set.
func ModuleSelection(selected PermissionSet, modulePermissions []string) SelectionState {
	if IsModuleFullySelected(selected, modulePermissions) {
		return SelectionFull
	}
	for _, code := range modulePermissions {
		if _, ok := selected[code]; ok {
			return SelectionPartial
		}
	}
	return SelectionNone
}
