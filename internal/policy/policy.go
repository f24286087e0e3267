// Package policy is the authorization matrix for the tracker. It is a
// pure predicate over (role, action); it never touches storage and never
// mutates anything. Callers translate a denial into a Forbidden outcome.
package policy

import "issuedesk/internal/model"

// Action enumerates the privileged operations gated by role.
type Action string

const (
	ActionCreateProject Action = "create_project"
	ActionCreateIssue   Action = "create_issue"
	ActionChangeStatus  Action = "change_status"
	ActionAddComment    Action = "add_comment"
)

// Allows reports whether a user holding role may perform action.
// Anonymous actors (RoleNone) are denied everything; any persisted role
// may create issues; the rest require admin or assignee.
func Allows(role model.Role, action Action) bool {
	switch action {
	case ActionCreateProject:
		return role == model.RoleAdmin
	case ActionCreateIssue:
		return role.Valid()
	case ActionChangeStatus, ActionAddComment:
		return role == model.RoleAdmin || role == model.RoleAssignee
	}
	return false
}

// CanComment is a convenience for read paths that render a comment form
// only when the viewer would be allowed to submit it.
func CanComment(role model.Role) bool {
	return Allows(role, ActionAddComment)
}
