package requirement

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// TeachingRequirement is a course slot that needs one or more teachers.
// The identifier and creation time are fixed at construction; every
// mutating method moves the last-modified time forward.
type TeachingRequirement struct {
	id                     string
	courseName             string
	courseCode             string
	schedule               string
	location               string
	requiredQualifications []string
	notes                  string
	status                 Status
	assignedTeacherIDs     []int
	createdAt              time.Time
	lastModifiedAt         time.Time

	clock func() time.Time
}

// Option customizes a TeachingRequirement during construction.
type Option func(*TeachingRequirement)

// WithClock overrides the clock used for timestamps.
func WithClock(clock func() time.Time) Option {
	return func(r *TeachingRequirement) {
		r.clock = clock
	}
}

// New creates an unassigned requirement with a freshly generated identifier.
func New(courseName, courseCode, schedule, location string, qualifications []string, opts ...Option) *TeachingRequirement {
	r := &TeachingRequirement{
		id:                     uuid.NewString(),
		courseName:             courseName,
		courseCode:             courseCode,
		schedule:               schedule,
		location:               location,
		requiredQualifications: cloneStrings(qualifications),
		status:                 StatusUnassigned,
		assignedTeacherIDs:     []int{},
		clock:                  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	now := r.now()
	r.createdAt = now
	r.lastModifiedAt = now
	return r
}

func (r *TeachingRequirement) ID() string                       { return r.id }
func (r *TeachingRequirement) Key() string                      { return r.id }
func (r *TeachingRequirement) CourseName() string               { return r.courseName }
func (r *TeachingRequirement) CourseCode() string               { return r.courseCode }
func (r *TeachingRequirement) Schedule() string                 { return r.schedule }
func (r *TeachingRequirement) Location() string                 { return r.location }
func (r *TeachingRequirement) Notes() string                    { return r.notes }
func (r *TeachingRequirement) Status() Status                   { return r.status }
func (r *TeachingRequirement) CreatedAt() time.Time             { return r.createdAt }
func (r *TeachingRequirement) LastModifiedAt() time.Time        { return r.lastModifiedAt }
func (r *TeachingRequirement) RequiredQualifications() []string { return cloneStrings(r.requiredQualifications) }
func (r *TeachingRequirement) AssignedTeacherIDs() []int        { return slices.Clone(r.assignedTeacherIDs) }

func (r *TeachingRequirement) SetCourseName(v string) {
	r.courseName = v
	r.touch()
}

func (r *TeachingRequirement) SetCourseCode(v string) {
	r.courseCode = v
	r.touch()
}

func (r *TeachingRequirement) SetSchedule(v string) {
	r.schedule = v
	r.touch()
}

func (r *TeachingRequirement) SetLocation(v string) {
	r.location = v
	r.touch()
}

func (r *TeachingRequirement) SetNotes(v string) {
	r.notes = v
	r.touch()
}

func (r *TeachingRequirement) SetRequiredQualifications(qs []string) {
	r.requiredQualifications = cloneStrings(qs)
	r.touch()
}

func (r *TeachingRequirement) AddRequiredQualification(q string) {
	r.requiredQualifications = append(r.requiredQualifications, q)
	r.touch()
}

// SetAssignedTeacherIDs replaces the assignment list, dropping duplicates
// while keeping first-seen order.
func (r *TeachingRequirement) SetAssignedTeacherIDs(ids []int) {
	r.assignedTeacherIDs = dedupe(ids)
	r.status = deriveStatus(r.assignedTeacherIDs)
	r.touch()
}

// AssignTeacher adds teacherID to the assignment list. It returns false
// and leaves the requirement untouched when the teacher is already assigned.
func (r *TeachingRequirement) AssignTeacher(teacherID int) bool {
	if slices.Contains(r.assignedTeacherIDs, teacherID) {
		return false
	}
	r.assignedTeacherIDs = append(r.assignedTeacherIDs, teacherID)
	r.status = deriveStatus(r.assignedTeacherIDs)
	r.touch()
	return true
}

// RemoveTeacher drops teacherID from the assignment list. It returns false
// when the teacher was not assigned.
func (r *TeachingRequirement) RemoveTeacher(teacherID int) bool {
	i := slices.Index(r.assignedTeacherIDs, teacherID)
	if i < 0 {
		return false
	}
	r.assignedTeacherIDs = slices.Delete(r.assignedTeacherIDs, i, i+1)
	r.status = deriveStatus(r.assignedTeacherIDs)
	r.touch()
	return true
}

func (r *TeachingRequirement) IsAssigned(teacherID int) bool {
	return slices.Contains(r.assignedTeacherIDs, teacherID)
}

func (r *TeachingRequirement) Clone() *TeachingRequirement {
	c := *r
	c.requiredQualifications = cloneStrings(r.requiredQualifications)
	c.assignedTeacherIDs = slices.Clone(r.assignedTeacherIDs)
	return &c
}

func (r *TeachingRequirement) String() string {
	return fmt.Sprintf("Requirement [ID=%s, Course=%s (%s), Schedule=%s, Location=%s, Status=%s, Assigned Teachers=%d]",
		r.id, r.courseName, r.courseCode, r.schedule, r.location, r.status, len(r.assignedTeacherIDs))
}

func (r *TeachingRequirement) now() time.Time {
	return r.clock().UTC().Round(0)
}

// touch keeps lastModifiedAt strictly increasing even on coarse clocks.
func (r *TeachingRequirement) touch() {
	now := r.now()
	if !now.After(r.lastModifiedAt) {
		now = r.lastModifiedAt.Add(time.Nanosecond)
	}
	r.lastModifiedAt = now
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}

func dedupe(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
