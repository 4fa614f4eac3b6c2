package requirement

import (
	"fmt"
	"time"
)

// Snapshot is the persisted form of a TeachingRequirement.
type Snapshot struct {
	ID                     string    `yaml:"id" validate:"required"`
	CourseName             string    `yaml:"course_name"`
	CourseCode             string    `yaml:"course_code"`
	Schedule               string    `yaml:"schedule"`
	Location               string    `yaml:"location"`
	RequiredQualifications []string  `yaml:"required_qualifications"`
	Notes                  string    `yaml:"notes"`
	Status                 Status    `yaml:"status" validate:"omitempty,oneof=UNASSIGNED PARTIALLY_ASSIGNED FULLY_ASSIGNED"`
	AssignedTeacherIDs     []int     `yaml:"assigned_teacher_ids" validate:"dive,ne=0"`
	CreatedAt              time.Time `yaml:"created_at"`
	LastModifiedAt         time.Time `yaml:"last_modified_at"`
}

func (r *TeachingRequirement) Snapshot() Snapshot {
	return Snapshot{
		ID:                     r.id,
		CourseName:             r.courseName,
		CourseCode:             r.courseCode,
		Schedule:               r.schedule,
		Location:               r.location,
		RequiredQualifications: cloneStrings(r.requiredQualifications),
		Notes:                  r.notes,
		Status:                 r.status,
		AssignedTeacherIDs:     dedupe(r.assignedTeacherIDs),
		CreatedAt:              r.createdAt,
		LastModifiedAt:         r.lastModifiedAt,
	}
}

// FromSnapshot restores a requirement from its persisted form. The stored
// status is ignored and derived again from the assigned teachers.
func FromSnapshot(s Snapshot, opts ...Option) (*TeachingRequirement, error) {
	if s.ID == "" {
		return nil, fmt.Errorf("requirement snapshot has empty id")
	}
	assigned := dedupe(s.AssignedTeacherIDs)
	r := &TeachingRequirement{
		id:                     s.ID,
		courseName:             s.CourseName,
		courseCode:             s.CourseCode,
		schedule:               s.Schedule,
		location:               s.Location,
		requiredQualifications: cloneStrings(s.RequiredQualifications),
		notes:                  s.Notes,
		status:                 deriveStatus(assigned),
		assignedTeacherIDs:     assigned,
		createdAt:              s.CreatedAt.UTC().Round(0),
		lastModifiedAt:         s.LastModifiedAt.UTC().Round(0),
		clock:                  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}
