// file: internals/lifecycle/lifecycle_test.go
package lifecycle_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	childModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&childModel.ChildModel{}))
	return db
}

func TestSoftDeleteHidesRowAndStampsActor(t *testing.T) {
	db := openTestDB(t)
	actor := uuid.New()

	m := &childModel.ChildModel{
		ChildSchoolID:   uuid.New(),
		ChildFirstName:  "Awa",
		ChildLastName:   "Diabate",
		ChildSchoolYear: "2026-2027",
	}
	require.NoError(t, db.Create(m).Error)

	require.NoError(t, lifecycle.SoftDelete(db, m, actor))

	// invisible to ordinary queries
	var n int64
	require.NoError(t, db.Model(&childModel.ChildModel{}).
		Where("child_id = ?", m.ChildID).Count(&n).Error)
	assert.Zero(t, n)

	// still on disk, with the deleter recorded
	var raw childModel.ChildModel
	require.NoError(t, db.Unscoped().
		Where("child_id = ?", m.ChildID).First(&raw).Error)
	require.NotNil(t, raw.DeletedBy)
	assert.Equal(t, actor, *raw.DeletedBy)
	assert.True(t, raw.DeletedAt.Valid)
}

// Alive-scoped uniqueness: once the holder is soft-deleted, a new row may
// take the same natural key.
func TestSoftDeleteFreesNaturalKey(t *testing.T) {
	db := openTestDB(t)
	schoolID := uuid.New()
	actor := uuid.New()

	aliveCount := func(first, last string) int64 {
		var n int64
		require.NoError(t, db.Model(&childModel.ChildModel{}).
			Where("child_school_id = ? AND child_first_name = ? AND child_last_name = ?",
				schoolID, first, last).
			Count(&n).Error)
		return n
	}

	first := &childModel.ChildModel{
		ChildSchoolID:   schoolID,
		ChildFirstName:  "Issa",
		ChildLastName:   "Toure",
		ChildSchoolYear: "2026-2027",
	}
	require.NoError(t, db.Create(first).Error)
	require.EqualValues(t, 1, aliveCount("Issa", "Toure"))

	require.NoError(t, lifecycle.SoftDelete(db, first, actor))
	require.Zero(t, aliveCount("Issa", "Toure"))

	second := &childModel.ChildModel{
		ChildSchoolID:   schoolID,
		ChildFirstName:  "Issa",
		ChildLastName:   "Toure",
		ChildSchoolYear: "2026-2027",
	}
	require.NoError(t, db.Create(second).Error)
	assert.EqualValues(t, 1, aliveCount("Issa", "Toure"))
	assert.NotEqual(t, first.ChildID, second.ChildID)
}

func TestStampUpdateRecordsActor(t *testing.T) {
	actor := uuid.New()
	var a lifecycle.Audit
	lifecycle.StampUpdate(&a, actor)
	require.NotNil(t, a.UpdatedBy)
	assert.Equal(t, actor, *a.UpdatedBy)
}
