package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teaching_admin/internal/domain/requirement"
	"teaching_admin/internal/domain/teacher"
)

func TestParseTeacherPayload(t *testing.T) {
	cmd, err := parseTeacherPayload(" 7 | Ada Lovelace | ada@example.com | yes | PhD, Analytical engines ")
	require.NoError(t, err)
	assert.Equal(t, 7, cmd.ID)
	assert.Equal(t, "Ada Lovelace", cmd.Name)
	assert.Equal(t, "ada@example.com", cmd.Contact)
	require.NotNil(t, cmd.Available)
	assert.True(t, *cmd.Available)
	assert.Equal(t, "PhD, Analytical engines", cmd.Qualifications)
}

func TestParseTeacherPayloadPartial(t *testing.T) {
	cmd, err := parseTeacherPayload("7||new@example.com")
	require.NoError(t, err)
	assert.Equal(t, 7, cmd.ID)
	assert.Empty(t, cmd.Name)
	assert.Equal(t, "new@example.com", cmd.Contact)
	assert.Nil(t, cmd.Available)

	upd := cmd.update()
	assert.Equal(t, "new@example.com", upd.Contact)
	assert.Nil(t, upd.Available)
}

func TestParseTeacherPayloadErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"non numeric id", "abc|Ada"},
		{"zero id", "0|Ada"},
		{"bad availability", "1|Ada||maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTeacherPayload(tt.payload)
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestParseYesNo(t *testing.T) {
	for _, v := range []string{"yes", "Y", "true", "1"} {
		b, err := parseYesNo(v)
		require.NoError(t, err)
		assert.True(t, *b, v)
	}
	for _, v := range []string{"no", "N", "false", "0"} {
		b, err := parseYesNo(v)
		require.NoError(t, err)
		assert.False(t, *b, v)
	}
}

func TestParseRequirementPayload(t *testing.T) {
	in, err := parseRequirementPayload("Algorithms|CS301|Mon 9-11|Room 4|PhD, ,Teaching cert|bring | pipes")
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", in.CourseName)
	assert.Equal(t, "CS301", in.CourseCode)
	assert.Equal(t, "Mon 9-11", in.Schedule)
	assert.Equal(t, "Room 4", in.Location)
	assert.Equal(t, []string{"PhD", "Teaching cert"}, in.Qualifications)
	assert.Equal(t, "bring | pipes", in.Notes, "notes keep the remaining separators")

	_, err = parseRequirementPayload("  ")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestParseRequirementUpdate(t *testing.T) {
	id, in, err := parseRequirementUpdate("abc-123||CS302")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)
	assert.Empty(t, in.CourseName)
	assert.Equal(t, "CS302", in.CourseCode)

	id, in, err = parseRequirementUpdate("abc-123")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)
	assert.Empty(t, in.CourseCode)

	_, _, err = parseRequirementUpdate("|Algorithms")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestParseAssignArgs(t *testing.T) {
	reqID, teacherID, err := parseAssignArgs([]string{"abc-123", "9"})
	require.NoError(t, err)
	assert.Equal(t, "abc-123", reqID)
	assert.Equal(t, 9, teacherID)

	_, _, err = parseAssignArgs([]string{"abc-123"})
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, _, err = parseAssignArgs([]string{"abc-123", "nine"})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestFormatTeacher(t *testing.T) {
	out := formatTeacher(teacher.New(3, "Grace", "grace@example.com", false, "Compilers"))
	assert.Equal(t, "Teacher #3: Grace (unavailable)\nContact: grace@example.com\nQualifications: Compilers", out)

	assert.Equal(t, "Teacher #4: Alan (available)", formatTeacher(teacher.New(4, "Alan", "", true, "")))
}

func TestFormatTeacherList(t *testing.T) {
	assert.Equal(t, "Teachers: none.", formatTeacherList("Teachers", nil))

	out := formatTeacherList("Teachers", []*teacher.Teacher{
		teacher.New(1, "Ada", "", true, "PhD"),
		teacher.New(2, "Grace", "", false, ""),
	})
	assert.Equal(t, "Teachers (2):\n1. #1 Ada, available, PhD\n2. #2 Grace, unavailable", out)
}

func TestFormatRequirement(t *testing.T) {
	fixed := time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)
	r := requirement.New("Algorithms", "CS301", "Mon 9-11", "", []string{"PhD"},
		requirement.WithClock(func() time.Time { return fixed }))
	r.AssignTeacher(5)

	out := formatRequirement(r)
	assert.True(t, strings.HasPrefix(out, "CS301 Algorithms [Partially Assigned]\nID: "+r.ID()+"\n"))
	assert.Contains(t, out, "Schedule: Mon 9-11\n")
	assert.NotContains(t, out, "Location:")
	assert.Contains(t, out, "Qualifications: PhD\n")
	assert.Contains(t, out, "Assigned: #5\n")
	assert.True(t, strings.HasSuffix(out, "Modified: 2026-04-02 10:30"))

	list := formatRequirementList("Requirements", []*requirement.TeachingRequirement{r})
	assert.Equal(t, "Requirements (1):\n1. CS301 Algorithms [Partially Assigned]\n   "+r.ID(), list)
}

func TestHelpTextListsCommands(t *testing.T) {
	text := helpText()
	for _, cmd := range []string{"/add_teacher", "/update_teacher", "/delete_teacher", "/list_teachers",
		"/search_teachers", "/add_requirement", "/update_requirement", "/delete_requirement",
		"/list_requirements", "/search_requirements", "/eligible_teachers", "/apply_for_course",
		"/assign_teacher", "/unassign_teacher"} {
		assert.Contains(t, text, cmd)
	}
}
