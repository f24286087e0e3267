package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issuedesk/internal/model"
	"issuedesk/internal/repository"
)

// AssignmentSelector chooses the assignee for a newly created issue.
//
// Admins may name a candidate directly; everyone else gets the
// least-loaded active assignee, with ties broken uniformly at random so
// equally loaded assignees share new work over time. The selector only
// reads; the caller persists the chosen assignee.
type AssignmentSelector interface {
	Select(ctx context.Context, actor *model.User, requestedAssigneeID *uuid.UUID) (*uuid.UUID, error)
}

type assignmentSelector struct {
	userRepo repository.UserRepository
	// pick returns a uniform index in [0,n). Injected for tests.
	pick func(n int) int
}

// NewAssignmentSelector creates a selector backed by the user repository.
func NewAssignmentSelector(userRepo repository.UserRepository) AssignmentSelector {
	return &assignmentSelector{
		userRepo: userRepo,
		pick:     rand.Intn,
	}
}

// Select returns the assignee ID for a new issue, or nil when no active
// assignee-role user exists. It never returns a user whose role is not
// assignee.
func (s *assignmentSelector) Select(ctx context.Context, actor *model.User, requestedAssigneeID *uuid.UUID) (*uuid.UUID, error) {
	// Manual override: an admin may hand the issue to a specific
	// assignee. An invalid or non-assignee candidate falls through to
	// load balancing instead of erroring.
	if actor != nil && actor.Role == model.RoleAdmin && requestedAssigneeID != nil {
		candidate, err := s.userRepo.FindByID(ctx, *requestedAssigneeID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("resolve requested assignee: %w", err)
		}
		if err == nil && candidate.Role == model.RoleAssignee && candidate.Active {
			id := candidate.ID
			return &id, nil
		}
	}

	// Loads are recomputed on every call; two concurrent creations can
	// both observe the same minimum and double up on one assignee. That
	// skew is accepted and self-corrects on subsequent assignments.
	loads, err := s.userRepo.ListAssigneeLoads(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assignee loads: %w", err)
	}
	if len(loads) == 0 {
		return nil, nil
	}

	minCount := loads[0].AssignedIssues
	for _, l := range loads[1:] {
		if l.AssignedIssues < minCount {
			minCount = l.AssignedIssues
		}
	}

	candidates := make([]repository.AssigneeLoad, 0, len(loads))
	for _, l := range loads {
		if l.AssignedIssues == minCount {
			candidates = append(candidates, l)
		}
	}

	id := candidates[s.pick(len(candidates))].ID
	return &id, nil
}
