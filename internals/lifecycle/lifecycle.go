// file: internals/lifecycle/lifecycle.go
package lifecycle

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit is the shared column block every tenant-scoped row embeds (with a
// per-entity column prefix). Rows are never physically removed: Delete
// flips DeletedAt and GORM keeps the row out of every query from then on.
type Audit struct {
	CreatedBy uuid.UUID      `gorm:"type:uuid;<-:create" json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy *uuid.UUID     `gorm:"type:uuid" json:"updated_by,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedBy *uuid.UUID     `gorm:"type:uuid" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Auditable is implemented by every soft-deletable model.
type Auditable interface {
	AuditBlock() *Audit
}

// StampCreate records the creator. The tenant id itself is immutable by
// construction: every *_school_id column carries `<-:create`.
func StampCreate(a *Audit, actor uuid.UUID) {
	a.CreatedBy = actor
}

func StampUpdate(a *Audit, actor uuid.UUID) {
	a.UpdatedBy = &actor
}

// SoftDelete stamps who deleted the row, then lets GORM flip DeletedAt.
// Both statements run on the caller's handle so they share its transaction.
func SoftDelete(db *gorm.DB, m Auditable, actor uuid.UUID) error {
	if err := db.Model(m).UpdateColumns(map[string]interface{}{
		"DeletedBy": actor,
	}).Error; err != nil {
		return err
	}
	m.AuditBlock().DeletedBy = &actor
	return db.Delete(m).Error
}
