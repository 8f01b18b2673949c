// file: internals/scope/scope.go
//
// Composable GORM scopes applied on every read/write path, in order:
// tenant-id equality, soft-delete exclusion (gorm.DeletedAt, automatic),
// role-narrowing, and pagination last. Totals are counted against the
// filtered set before Limit/Offset.
package scope

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
)

// Tenant pins a query to one school. column is the entity's own
// *_school_id column.
func Tenant(column string, schoolID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", schoolID)
	}
}

// TargetedOrGeneral narrows classroom-targeted rows (announcements,
// activities) to the given classrooms plus untargeted rows. An empty id
// set leaves only the general rows.
func TargetedOrGeneral(column string, classroomIDs []uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(classroomIDs) == 0 {
			return db.Where(column + " IS NULL")
		}
		return db.Where("("+column+" IN ? OR "+column+" IS NULL)", classroomIDs)
	}
}

// ChildIn restricts child-owned rows to an explicit child set.
func ChildIn(column string, childIDs []uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(childIDs) == 0 {
			// Matches nothing on purpose: a parent with no alive links
			// sees no child-owned rows.
			return db.Where("1 = 0")
		}
		return db.Where(column+" IN ?", childIDs)
	}
}

// Paginate applies Limit/Offset. Compose it last.
func Paginate(p helper.Params) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(p.Limit()).Offset(p.Offset())
	}
}

/* ===============================
   Link-table lookups for narrowing
=================================*/

// ParentChildIDs returns the child ids the parent holds an alive link to.
func ParentChildIDs(db *gorm.DB, parentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.Table("parent_child_links").
		Joins("JOIN children ON children.child_id = parent_child_links.parent_child_link_child_id").
		Where("parent_child_links.parent_child_link_parent_id = ?", parentID).
		Where("parent_child_links.parent_child_link_deleted_at IS NULL").
		Where("children.child_deleted_at IS NULL").
		Pluck("children.child_id", &ids).Error
	return ids, err
}

// ParentClassroomIDs resolves the distinct classrooms reachable through
// the parent's alive child links.
func ParentClassroomIDs(db *gorm.DB, parentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.Table("children").
		Distinct("children.child_classroom_id").
		Joins("JOIN parent_child_links ON parent_child_links.parent_child_link_child_id = children.child_id").
		Where("parent_child_links.parent_child_link_parent_id = ?", parentID).
		Where("parent_child_links.parent_child_link_deleted_at IS NULL").
		Where("children.child_deleted_at IS NULL").
		Where("children.child_classroom_id IS NOT NULL").
		Pluck("children.child_classroom_id", &ids).Error
	return ids, err
}

// TeacherClassroomIDs resolves the distinct classrooms the teacher leads
// plus those reachable through alive teacher-child links.
func TeacherClassroomIDs(db *gorm.DB, teacherID uuid.UUID) ([]uuid.UUID, error) {
	var led []uuid.UUID
	if err := db.Table("classrooms").
		Where("classroom_lead_teacher_id = ?", teacherID).
		Where("classroom_deleted_at IS NULL").
		Pluck("classroom_id", &led).Error; err != nil {
		return nil, err
	}

	var linked []uuid.UUID
	if err := db.Table("children").
		Distinct("children.child_classroom_id").
		Joins("JOIN teacher_child_links ON teacher_child_links.teacher_child_link_child_id = children.child_id").
		Where("teacher_child_links.teacher_child_link_teacher_id = ?", teacherID).
		Where("teacher_child_links.teacher_child_link_deleted_at IS NULL").
		Where("children.child_deleted_at IS NULL").
		Where("children.child_classroom_id IS NOT NULL").
		Pluck("children.child_classroom_id", &linked).Error; err != nil {
		return nil, err
	}

	return dedupe(append(led, linked...)), nil
}

// LinkedChildIDs merges the per-role child lookups for the roles the
// principal actually holds. An account that is both a teacher and a
// parent keeps the visibility of each role.
func LinkedChildIDs(db *gorm.DB, userID uuid.UUID, teacher, parent bool) ([]uuid.UUID, error) {
	var all []uuid.UUID
	if teacher {
		ids, err := TeacherChildIDs(db, userID)
		if err != nil {
			return nil, err
		}
		all = append(all, ids...)
	}
	if parent {
		ids, err := ParentChildIDs(db, userID)
		if err != nil {
			return nil, err
		}
		all = append(all, ids...)
	}
	return dedupe(all), nil
}

// LinkedClassroomIDs is the classroom counterpart of LinkedChildIDs.
func LinkedClassroomIDs(db *gorm.DB, userID uuid.UUID, teacher, parent bool) ([]uuid.UUID, error) {
	var all []uuid.UUID
	if teacher {
		ids, err := TeacherClassroomIDs(db, userID)
		if err != nil {
			return nil, err
		}
		all = append(all, ids...)
	}
	if parent {
		ids, err := ParentClassroomIDs(db, userID)
		if err != nil {
			return nil, err
		}
		all = append(all, ids...)
	}
	return dedupe(all), nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// TeacherChildIDs returns the child ids the teacher holds an alive link
// to, plus the alive children of classrooms the teacher leads.
func TeacherChildIDs(db *gorm.DB, teacherID uuid.UUID) ([]uuid.UUID, error) {
	var linked []uuid.UUID
	if err := db.Table("teacher_child_links").
		Joins("JOIN children ON children.child_id = teacher_child_links.teacher_child_link_child_id").
		Where("teacher_child_links.teacher_child_link_teacher_id = ?", teacherID).
		Where("teacher_child_links.teacher_child_link_deleted_at IS NULL").
		Where("children.child_deleted_at IS NULL").
		Pluck("children.child_id", &linked).Error; err != nil {
		return nil, err
	}

	var led []uuid.UUID
	if err := db.Table("children").
		Joins("JOIN classrooms ON classrooms.classroom_id = children.child_classroom_id").
		Where("classrooms.classroom_lead_teacher_id = ?", teacherID).
		Where("classrooms.classroom_deleted_at IS NULL").
		Where("children.child_deleted_at IS NULL").
		Pluck("children.child_id", &led).Error; err != nil {
		return nil, err
	}

	return dedupe(append(linked, led...)), nil
}
