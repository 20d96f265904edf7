package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/models"
)

func TestTierOrdering(t *testing.T) {
	assert.True(t, TierPublic < TierReader)
	assert.True(t, TierReader < TierMember)
	assert.True(t, TierMember < TierAdmin)
}

func TestTierForRole(t *testing.T) {
	assert.Equal(t, TierAdmin, TierForRole(models.RoleAdmin))
	assert.Equal(t, TierMember, TierForRole(models.RoleMember))
	assert.Equal(t, TierReader, TierForRole(models.RoleReader))
	assert.Equal(t, TierReader, TierForRole("something-else"))
}

func TestPolicy_Require(t *testing.T) {
	policy := NewPolicy()

	anonymous := Caller{}
	reader := Caller{UserID: "u1", Role: models.RoleReader}
	member := Caller{UserID: "u2", Role: models.RoleMember}
	admin := Caller{UserID: "u3", Role: models.RoleAdmin}

	t.Run("public requirement passes for everyone", func(t *testing.T) {
		assert.NoError(t, policy.Require(anonymous, TierPublic))
		assert.NoError(t, policy.Require(reader, TierPublic))
	})

	t.Run("anonymous gets unauthenticated, not forbidden", func(t *testing.T) {
		err := policy.Require(anonymous, TierMember)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
		assert.False(t, errors.Is(err, apperr.ErrForbidden))
	})

	t.Run("lower tier gets forbidden", func(t *testing.T) {
		assert.ErrorIs(t, policy.Require(reader, TierMember), apperr.ErrForbidden)
		assert.ErrorIs(t, policy.Require(member, TierAdmin), apperr.ErrForbidden)
	})

	t.Run("higher tier always passes lower requirements", func(t *testing.T) {
		for _, c := range []Caller{member, admin} {
			assert.NoError(t, policy.Require(c, TierReader))
			assert.NoError(t, policy.Require(c, TierMember))
		}
		assert.NoError(t, policy.Require(admin, TierAdmin))
	})
}

func TestPolicy_RequireOwnerOrAdmin(t *testing.T) {
	policy := NewPolicy()

	owner := Caller{UserID: "owner", Role: models.RoleMember}
	other := Caller{UserID: "other", Role: models.RoleMember}
	admin := Caller{UserID: "root", Role: models.RoleAdmin}

	assert.NoError(t, policy.RequireOwnerOrAdmin(owner, "owner"))
	assert.NoError(t, policy.RequireOwnerOrAdmin(admin, "owner"))
	assert.ErrorIs(t, policy.RequireOwnerOrAdmin(other, "owner"), apperr.ErrForbidden)
	assert.ErrorIs(t, policy.RequireOwnerOrAdmin(Caller{}, "owner"), apperr.ErrUnauthenticated)
}

func TestPolicy_AllowDownload(t *testing.T) {
	policy := NewPolicy()

	anonymous := Caller{}
	reader := Caller{UserID: "u1", Role: models.RoleReader}
	member := Caller{UserID: "u2", Role: models.RoleMember}

	t.Run("anonymous is sent to login even for public documents", func(t *testing.T) {
		assert.ErrorIs(t, policy.AllowDownload(anonymous, true), apperr.ErrUnauthenticated)
		assert.ErrorIs(t, policy.AllowDownload(anonymous, false), apperr.ErrUnauthenticated)
	})

	t.Run("reader can fetch public but not private", func(t *testing.T) {
		assert.NoError(t, policy.AllowDownload(reader, true))
		assert.ErrorIs(t, policy.AllowDownload(reader, false), apperr.ErrForbidden)
	})

	t.Run("member can fetch both", func(t *testing.T) {
		assert.NoError(t, policy.AllowDownload(member, true))
		assert.NoError(t, policy.AllowDownload(member, false))
	})
}

func TestPolicy_AllowAccountDelete(t *testing.T) {
	policy := NewPolicy()

	admin := Caller{UserID: "root", Role: models.RoleAdmin}
	member := Caller{UserID: "u1", Role: models.RoleMember}

	assert.NoError(t, policy.AllowAccountDelete(admin, "u1"))
	assert.ErrorIs(t, policy.AllowAccountDelete(member, "u2"), apperr.ErrForbidden)

	t.Run("admin cannot delete itself", func(t *testing.T) {
		assert.ErrorIs(t, policy.AllowAccountDelete(admin, "root"), apperr.ErrForbidden)
	})
}
