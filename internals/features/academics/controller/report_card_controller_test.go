// file: internals/features/academics/controller/report_card_controller_test.go
package controller

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	academicModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/academics/model"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&academicModel.ReportCardModel{}))
	return db
}

func seedCard(t *testing.T, db *gorm.DB, childID uuid.UUID, term, year string) *academicModel.ReportCardModel {
	t.Helper()
	m := &academicModel.ReportCardModel{
		ReportCardSchoolID:     uuid.New(),
		ReportCardChildID:      childID,
		ReportCardTerm:         term,
		ReportCardSchoolYear:   year,
		ReportCardFileName:     "bulletin.pdf",
		ReportCardFileLocation: "report_cards/x/bulletin.pdf",
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func TestReportCardSlotConflictAmongAliveRows(t *testing.T) {
	db := openTestDB(t)
	childID := uuid.New()
	card := seedCard(t, db, childID, "T1", "2026-2027")

	err := ensureCardSlotFree(db, childID, "T1", "2026-2027", uuid.Nil)
	assert.Equal(t, helper.KindConflict, helper.KindOf(err))

	// the row being updated does not conflict with itself
	require.NoError(t, ensureCardSlotFree(db, childID, "T1", "2026-2027", card.ReportCardID))

	// a different term or child is free
	require.NoError(t, ensureCardSlotFree(db, childID, "T2", "2026-2027", uuid.Nil))
	require.NoError(t, ensureCardSlotFree(db, uuid.New(), "T1", "2026-2027", uuid.Nil))
}

func TestReportCardSlotFreedBySoftDelete(t *testing.T) {
	db := openTestDB(t)
	childID := uuid.New()
	actor := uuid.New()
	card := seedCard(t, db, childID, "T1", "2026-2027")

	require.NoError(t, lifecycle.SoftDelete(db, card, actor))
	require.NoError(t, ensureCardSlotFree(db, childID, "T1", "2026-2027", uuid.Nil))
}
