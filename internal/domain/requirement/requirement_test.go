package requirement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewRequirementIsUnassigned(t *testing.T) {
	r := New("Algorithms", "CS301", "Mon 9-11", "Room 4", []string{"PhD"})

	assert.NotEmpty(t, r.ID())
	assert.Equal(t, StatusUnassigned, r.Status())
	assert.Empty(t, r.AssignedTeacherIDs())
	assert.Equal(t, []string{"PhD"}, r.RequiredQualifications())
	assert.Equal(t, r.CreatedAt(), r.LastModifiedAt())
	assert.Equal(t, "", r.Notes())
}

func TestNewGeneratesDistinctIDs(t *testing.T) {
	a := New("A", "A1", "", "", nil)
	b := New("A", "A1", "", "", nil)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestAssignTeacherDerivesStatusAndTouches(t *testing.T) {
	r := New("Algorithms", "CS301", "", "", nil, WithClock(fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))))
	before := r.LastModifiedAt()

	require.True(t, r.AssignTeacher(7))
	assert.Equal(t, StatusPartiallyAssigned, r.Status())
	assert.True(t, r.LastModifiedAt().After(before), "last modified must strictly increase")
	assert.Equal(t, before, r.CreatedAt())

	assert.False(t, r.AssignTeacher(7), "duplicate assignment is rejected")
	assert.Equal(t, []int{7}, r.AssignedTeacherIDs())
}

func TestRemoveTeacherReturnsToUnassigned(t *testing.T) {
	r := New("Algorithms", "CS301", "", "", nil)
	r.AssignTeacher(1)
	r.AssignTeacher(2)

	require.True(t, r.RemoveTeacher(1))
	assert.Equal(t, StatusPartiallyAssigned, r.Status())
	require.True(t, r.RemoveTeacher(2))
	assert.Equal(t, StatusUnassigned, r.Status())

	touched := r.LastModifiedAt()
	assert.False(t, r.RemoveTeacher(99))
	assert.Equal(t, touched, r.LastModifiedAt())
}

func TestSetAssignedTeacherIDs(t *testing.T) {
	r := New("Algorithms", "CS301", "", "", nil)

	r.SetAssignedTeacherIDs([]int{3, 3, 4})
	assert.Equal(t, []int{3, 4}, r.AssignedTeacherIDs())
	assert.Equal(t, StatusPartiallyAssigned, r.Status())

	r.SetAssignedTeacherIDs(nil)
	assert.Equal(t, StatusUnassigned, r.Status())
}

func TestSettersTouchWithoutChangingStatus(t *testing.T) {
	r := New("Algorithms", "CS301", "", "", nil)
	r.AssignTeacher(5)

	steps := []func(){
		func() { r.SetCourseName("Advanced Algorithms") },
		func() { r.SetCourseCode("CS401") },
		func() { r.SetSchedule("Tue 10-12") },
		func() { r.SetLocation("Room 9") },
		func() { r.SetNotes("bring laptops") },
		func() { r.SetRequiredQualifications([]string{"MSc"}) },
		func() { r.AddRequiredQualification("PhD") },
	}
	for _, step := range steps {
		prev := r.LastModifiedAt()
		step()
		assert.True(t, r.LastModifiedAt().After(prev))
		assert.Equal(t, StatusPartiallyAssigned, r.Status())
	}
	assert.Equal(t, []string{"MSc", "PhD"}, r.RequiredQualifications())
}

func TestAccessorsReturnCopies(t *testing.T) {
	r := New("Algorithms", "CS301", "", "", []string{"PhD"})
	r.AssignTeacher(1)

	quals := r.RequiredQualifications()
	quals[0] = "changed"
	ids := r.AssignedTeacherIDs()
	ids[0] = 42

	assert.Equal(t, []string{"PhD"}, r.RequiredQualifications())
	assert.Equal(t, []int{1}, r.AssignedTeacherIDs())
}

func TestCloneIsIndependent(t *testing.T) {
	r := New("Algorithms", "CS301", "", "", []string{"PhD"})
	c := r.Clone()
	c.AssignTeacher(9)
	c.SetCourseName("Other")

	assert.Equal(t, StatusUnassigned, r.Status())
	assert.Equal(t, "Algorithms", r.CourseName())
	assert.Equal(t, r.ID(), c.ID())
}

func TestSnapshotRoundTrip(t *testing.T) {
	r := New("Algorithms", "CS301", "Mon 9-11", "Room 4", []string{"PhD", "MSc"})
	r.SetNotes("core course")
	r.AssignTeacher(12)

	restored, err := FromSnapshot(r.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, r.Snapshot(), restored.Snapshot())
}

func TestFromSnapshotDerivesStatus(t *testing.T) {
	restored, err := FromSnapshot(Snapshot{ID: "req-1", Status: StatusFullyAssigned})
	require.NoError(t, err)
	assert.Equal(t, StatusUnassigned, restored.Status())

	restored, err = FromSnapshot(Snapshot{ID: "req-2", Status: StatusUnassigned, AssignedTeacherIDs: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyAssigned, restored.Status())
}

func TestFromSnapshotRejectsEmptyID(t *testing.T) {
	_, err := FromSnapshot(Snapshot{CourseName: "x"})
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"UNASSIGNED":         StatusUnassigned,
		"partially-assigned": StatusPartiallyAssigned,
		"fully assigned":     StatusFullyAssigned,
	}
	for in, want := range cases {
		got, ok := ParseStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := ParseStatus("assigned")
	assert.False(t, ok)
	assert.Equal(t, "Partially Assigned", StatusPartiallyAssigned.DisplayName())
}
