package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/snowpadi/community-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsure_CreatesOnceWithWelcomeBadge(t *testing.T) {
	f := newFixture(t)
	svc := NewProfileService(f.db)
	ctx := context.Background()
	id := uuid.New()

	p, err := svc.Ensure(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Regexp(t, regexp.MustCompile(`^padi-[0-9a-f]{8}$`), p.Username)
	assert.NotEmpty(t, p.AvatarSeed)
	assert.Zero(t, p.Reputation)
	assert.False(t, p.IsBanned)

	again, err := svc.Ensure(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, p.Username, again.Username)
	assert.Equal(t, p.AvatarSeed, again.AvatarSeed)

	badges, err := NewBadgeService(f.db).ListBadges(ctx, id, 10)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, BadgeFreshPadi, badges[0].Name)
}

func TestEnsure_UsernameClashGetsRandomSuffix(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.profile(t, anonymousUsername(id), 0)

	p, err := NewProfileService(f.db).Ensure(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.NotEqual(t, anonymousUsername(id), p.Username)
}

func TestEnsure_RejectsNilID(t *testing.T) {
	f := newFixture(t)
	_, err := NewProfileService(f.db).Ensure(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestIsAdmin(t *testing.T) {
	f := newFixture(t)
	svc := NewProfileService(f.db)
	ctx := context.Background()
	u := f.profile(t, "ada", 0)

	ok, err := svc.IsAdmin(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.db.Create(&models.UserRole{UserID: u.ID, Role: "moderator"}).Error)
	ok, err = svc.IsAdmin(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.db.Create(&models.UserRole{UserID: u.ID, Role: models.RoleAdmin}).Error)

	ok, err = svc.IsAdmin(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGet_TierAndBadges(t *testing.T) {
	f := newFixture(t)
	svc := NewProfileService(f.db)
	ctx := context.Background()
	u := f.profile(t, "ada", 25)
	_, err := awardBadge(f.db, u.ID, BadgeStoryteller)
	require.NoError(t, err)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Profile.Username)
	assert.Equal(t, "Active Padi", got.Tier.Name)
	assert.Equal(t, 2, got.Tier.Rank)
	require.Len(t, got.Badges, 1)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
