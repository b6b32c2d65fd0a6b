package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/noyes-server/models"
)

func TestCanPlayMatrix(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	invited := seedUser(t, db, "bob")
	stranger := seedUser(t, db, "carol")
	q := seedQuestionnaire(t, db, owner, "Quiz")

	_, err := CreateInvite(db, q, invited)
	require.NoError(t, err)

	tests := []struct {
		name       string
		accessType models.AccessType
		user       *models.User
		want       bool
	}{
		{"draft denies anonymous", models.AccessDraft, nil, false},
		{"draft denies others", models.AccessDraft, stranger, false},
		{"draft allows owner", models.AccessDraft, owner, true},
		{"public allows anonymous", models.AccessPublic, nil, true},
		{"public allows anyone", models.AccessPublic, stranger, true},
		{"private denies anonymous", models.AccessPrivate, nil, false},
		{"private denies others", models.AccessPrivate, stranger, false},
		{"private denies invited", models.AccessPrivate, invited, false},
		{"private allows owner", models.AccessPrivate, owner, true},
		{"invite_only denies anonymous", models.AccessInviteOnly, nil, false},
		{"invite_only denies uninvited", models.AccessInviteOnly, stranger, false},
		{"invite_only allows invited", models.AccessInviteOnly, invited, true},
		{"invite_only allows owner", models.AccessInviteOnly, owner, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q.AccessType = tt.accessType
			got, err := CanPlay(db, q, tt.user)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanPlayUnknownAccessTypeDenies(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	stranger := seedUser(t, db, "bob")
	q := seedQuestionnaire(t, db, owner, "Quiz")
	q.AccessType = models.AccessType("mystery")

	got, err := CanPlay(db, q, stranger)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCanPlayRevokedInvite(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	q := seedQuestionnaire(t, db, owner, "Quiz")
	q.AccessType = models.AccessInviteOnly

	invite, err := CreateInvite(db, q, bob)
	require.NoError(t, err)

	got, err := CanPlay(db, q, bob)
	require.NoError(t, err)
	assert.True(t, got)

	require.NoError(t, RevokeInvite(db, invite))
	got, err = CanPlay(db, q, bob)
	require.NoError(t, err)
	assert.False(t, got)
}
