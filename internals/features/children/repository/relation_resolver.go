// file: internals/features/children/repository/relation_resolver.go
package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	childModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
	classModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/classrooms/model"
)

// RelationResolver answers the policy engine's link questions against the
// store. Soft-deleted links never resolve: GORM keeps them out of every
// query through their DeletedAt column.
type RelationResolver struct {
	DB *gorm.DB
}

func NewRelationResolver(db *gorm.DB) *RelationResolver { return &RelationResolver{DB: db} }

func (r *RelationResolver) ParentOfChild(ctx context.Context, parentID, childID uuid.UUID) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&childModel.ParentChildLinkModel{}).
		Where("parent_child_link_parent_id = ? AND parent_child_link_child_id = ?", parentID, childID).
		Count(&n).Error
	return n > 0, err
}

func (r *RelationResolver) ParentOfClassroom(ctx context.Context, parentID, classroomID uuid.UUID) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&childModel.ParentChildLinkModel{}).
		Joins("JOIN children ON children.child_id = parent_child_links.parent_child_link_child_id").
		Where("parent_child_links.parent_child_link_parent_id = ?", parentID).
		Where("children.child_classroom_id = ?", classroomID).
		Where("children.child_deleted_at IS NULL").
		Count(&n).Error
	return n > 0, err
}

func (r *RelationResolver) TeacherOfChild(ctx context.Context, teacherID, childID uuid.UUID) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&childModel.TeacherChildLinkModel{}).
		Where("teacher_child_link_teacher_id = ? AND teacher_child_link_child_id = ?", teacherID, childID).
		Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	// lead-teacher reference on the child's classroom also connects
	err := r.DB.WithContext(ctx).
		Model(&childModel.ChildModel{}).
		Joins("JOIN classrooms ON classrooms.classroom_id = children.child_classroom_id").
		Where("children.child_id = ?", childID).
		Where("classrooms.classroom_lead_teacher_id = ?", teacherID).
		Where("classrooms.classroom_deleted_at IS NULL").
		Count(&n).Error
	return n > 0, err
}

func (r *RelationResolver) TeacherOfClassroom(ctx context.Context, teacherID, classroomID uuid.UUID) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&classModel.ClassroomModel{}).
		Where("classroom_id = ? AND classroom_lead_teacher_id = ?", classroomID, teacherID).
		Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	err := r.DB.WithContext(ctx).
		Model(&childModel.TeacherChildLinkModel{}).
		Joins("JOIN children ON children.child_id = teacher_child_links.teacher_child_link_child_id").
		Where("teacher_child_links.teacher_child_link_teacher_id = ?", teacherID).
		Where("children.child_classroom_id = ?", classroomID).
		Where("children.child_deleted_at IS NULL").
		Count(&n).Error
	return n > 0, err
}
