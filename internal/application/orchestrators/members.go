package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"autokudos/internal/adapters/storage"
	domain "autokudos/internal/domain/member"
)

// ErrMemberExists is returned when a name is already registered.
var ErrMemberExists = errors.New("a member with this name already exists")

// RegisterMemberInput carries input for registering a member.
type RegisterMemberInput struct {
	Name   string
	Gender string
	DOB    string
}

// MemberDeps holds dependencies for member administration.
type MemberDeps struct {
	Members    MemberStore
	GenerateID func() string
}

// ExecuteRegisterMember validates and appends a new Active member.
// PRE: Name is unique among existing members
// POST: member is stored with a fresh id and status Active
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps MemberDeps) (domain.Member, error) {
	m := domain.Member{
		ID:     deps.GenerateID(),
		Name:   strings.TrimSpace(input.Name),
		Gender: domain.NormalizeGender(input.Gender),
		DOB:    strings.TrimSpace(input.DOB),
		Status: domain.StatusActive,
	}
	if err := m.Validate(); err != nil {
		return domain.Member{}, err
	}
	existing, err := deps.Members.List(ctx)
	if err != nil {
		return domain.Member{}, fmt.Errorf("list members: %w", err)
	}
	if _, ok := domain.FindByName(existing, m.Name); ok {
		return domain.Member{}, ErrMemberExists
	}
	if err := deps.Members.Append(ctx, m); err != nil {
		return domain.Member{}, fmt.Errorf("save member: %w", err)
	}
	slog.Info("member_registered", "member_id", m.ID, "name", m.Name)
	return m, nil
}

// UpdateMemberInput carries the full edited member.
type UpdateMemberInput struct {
	ID     string
	Name   string
	Gender string
	DOB    string
	Status string
}

// ExecuteUpdateMember overwrites an existing member's details.
// Existing results keep the name and date of birth they were approved with.
// POST: returns storage.ErrNotFound when the id is unknown
func ExecuteUpdateMember(ctx context.Context, input UpdateMemberInput, deps MemberDeps) (domain.Member, error) {
	members, err := deps.Members.List(ctx)
	if err != nil {
		return domain.Member{}, fmt.Errorf("list members: %w", err)
	}
	current, ok := findMember(members, input.ID)
	if !ok {
		return domain.Member{}, storage.ErrNotFound
	}

	updated := domain.Member{
		ID:     current.ID,
		Name:   strings.TrimSpace(input.Name),
		Gender: domain.NormalizeGender(input.Gender),
		DOB:    strings.TrimSpace(input.DOB),
		Status: input.Status,
	}
	if updated.Status == "" {
		updated.Status = current.Status
	}
	if err := updated.Validate(); err != nil {
		return domain.Member{}, err
	}
	if other, ok := domain.FindByName(members, updated.Name); ok && other.ID != updated.ID {
		return domain.Member{}, ErrMemberExists
	}
	if err := deps.Members.Replace(ctx, updated); err != nil {
		return domain.Member{}, err
	}
	slog.Info("member_updated", "member_id", updated.ID)
	return updated, nil
}

// ExecuteToggleMemberStatus flips a member between Active and Left.
// Left members stay on the leaderboard, rendered as ghosted.
func ExecuteToggleMemberStatus(ctx context.Context, id string, deps MemberDeps) (domain.Member, error) {
	members, err := deps.Members.List(ctx)
	if err != nil {
		return domain.Member{}, fmt.Errorf("list members: %w", err)
	}
	m, ok := findMember(members, id)
	if !ok {
		return domain.Member{}, storage.ErrNotFound
	}
	m.ToggleStatus()
	if err := deps.Members.Replace(ctx, m); err != nil {
		return domain.Member{}, err
	}
	slog.Info("member_status_toggled", "member_id", m.ID, "status", m.Status)
	return m, nil
}

// ExecuteDeleteMember removes a member. Their results remain.
func ExecuteDeleteMember(ctx context.Context, id string, deps MemberDeps) error {
	if err := deps.Members.Remove(ctx, id); err != nil {
		return err
	}
	slog.Info("member_deleted", "member_id", id)
	return nil
}

func findMember(members []domain.Member, id string) (domain.Member, bool) {
	for _, m := range members {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Member{}, false
}
