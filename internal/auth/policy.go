// Package auth evaluates the three-tier permission model. Every route
// handler calls into this one component instead of carrying its own role
// check.
package auth

import (
	"fmt"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/models"
)

// Tier is an ordered permission level. Each tier grants everything the
// tiers below it grant.
type Tier int

const (
	TierPublic Tier = iota
	TierReader
	TierMember
	TierAdmin
)

func (t Tier) String() string {
	switch t {
	case TierReader:
		return "reader"
	case TierMember:
		return "member"
	case TierAdmin:
		return "admin"
	default:
		return "public"
	}
}

// TierForRole maps a stored account role to its tier. Unknown roles get
// the lowest authenticated tier.
func TierForRole(role string) Tier {
	switch role {
	case models.RoleAdmin:
		return TierAdmin
	case models.RoleMember:
		return TierMember
	default:
		return TierReader
	}
}

func ValidRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleMember, models.RoleReader:
		return true
	}
	return false
}

// Caller identifies the current requester. The zero value is anonymous.
type Caller struct {
	UserID   string
	Username string
	Role     string
}

func (c Caller) Anonymous() bool {
	return c.UserID == ""
}

func (c Caller) Tier() Tier {
	if c.Anonymous() {
		return TierPublic
	}
	return TierForRole(c.Role)
}

type Policy struct{}

func NewPolicy() *Policy {
	return &Policy{}
}

// Require allows the caller when their tier is at least min. Anonymous
// callers below a public requirement get ErrUnauthenticated (recoverable
// by logging in); authenticated callers below min get ErrForbidden.
func (p *Policy) Require(c Caller, min Tier) error {
	if min == TierPublic {
		return nil
	}
	if c.Anonymous() {
		return apperr.ErrUnauthenticated
	}
	if c.Tier() >= min {
		return nil
	}
	return fmt.Errorf("%w: requires %s role", apperr.ErrForbidden, min)
}

// RequireOwnerOrAdmin gates destructive actions on owned resources.
func (p *Policy) RequireOwnerOrAdmin(c Caller, ownerID string) error {
	if c.Anonymous() {
		return apperr.ErrUnauthenticated
	}
	if c.Tier() == TierAdmin || c.UserID == ownerID {
		return nil
	}
	return fmt.Errorf("%w: not the owner", apperr.ErrForbidden)
}

// AllowDownload gates library document downloads: member tier normally,
// reader tier when the document is public. Anonymous callers are always
// sent to login.
func (p *Policy) AllowDownload(c Caller, isPublic bool) error {
	if c.Anonymous() {
		return apperr.ErrUnauthenticated
	}
	if isPublic {
		return p.Require(c, TierReader)
	}
	return p.Require(c, TierMember)
}

// AllowAccountDelete gates account deletion: admin only, and never one's
// own account, so the last administrator cannot remove itself.
func (p *Policy) AllowAccountDelete(c Caller, targetID string) error {
	if err := p.Require(c, TierAdmin); err != nil {
		return err
	}
	if c.UserID == targetID {
		return fmt.Errorf("%w: cannot delete your own account", apperr.ErrForbidden)
	}
	return nil
}
