package scanner

import (
	"testing"
	"time"

	"moderation-bot/model"
	"moderation-bot/utils"
	"moderation-bot/utils/database/sanctions"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLadderCleaner struct {
	stripped []string
}

func (f *fakeLadderCleaner) RemoveEscalationRoles(userID string) {
	f.stripped = append(f.stripped, userID)
}

func sweeperDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := utils.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sanctions.Init(db))
	return db
}

func TestSweepOnceExpiresAndStripsRoles(t *testing.T) {
	db := sweeperDB(t)
	roles := &fakeLadderCleaner{}

	expired, err := sanctions.AddSanction(db, model.Sanction{
		CaseRef:     "case-1",
		UserID:      "user-1",
		ModeratorID: "mod-1",
		Category:    model.CategoryEscalating,
		Reason:      "first offense",
		ExpiresAt:   time.Now().Add(-time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, err = sanctions.AddSanction(db, model.Sanction{
		CaseRef:     "case-2",
		UserID:      "user-2",
		ModeratorID: "mod-1",
		Category:    model.CategoryGeneral,
		Reason:      "still running",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	sweepOnce(db, roles)

	record, err := sanctions.GetSanctionByID(db, expired.SanctionID)
	require.NoError(t, err)
	assert.Equal(t, model.SanctionStatusExpired, record.Status)

	// Only escalating sanctions carry ladder roles to clean up.
	assert.Equal(t, []string{"user-1"}, roles.stripped)

	active, err := sanctions.GetActiveSanctionsByUserID(db, "user-2")
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestSweepOnceArchivesOldExpired(t *testing.T) {
	db := sweeperDB(t)

	old, err := sanctions.AddSanction(db, model.Sanction{
		CaseRef:     "case-old",
		UserID:      "user-1",
		ModeratorID: "mod-1",
		Category:    model.CategoryGeneral,
		Reason:      "long gone",
		Status:      model.SanctionStatusExpired,
	})
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE sanctions SET created_at = ? WHERE sanction_id = ?`,
		time.Now().Add(-2*archiveRetention).Unix(), old.SanctionID)
	require.NoError(t, err)

	sweepOnce(db, &fakeLadderCleaner{})

	record, err := sanctions.GetSanctionByID(db, old.SanctionID)
	require.NoError(t, err)
	assert.Equal(t, model.SanctionStatusArchived, record.Status)
}
