package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"teaching_admin/internal/app"
	"teaching_admin/internal/domain/requirement"
	"teaching_admin/internal/domain/teacher"
)

var ErrInvalidPayload = errors.New("invalid command payload")

const (
	teacherPayloadUsage     = "id|name|contact|yes/no|qualifications"
	requirementPayloadUsage = "course|code|schedule|location|q1,q2|notes"
)

// teacherCommand is the parsed payload of /add_teacher and /update_teacher.
type teacherCommand struct {
	ID             int
	Name           string
	Contact        string
	Available      *bool
	Qualifications string
}

func (c teacherCommand) update() app.TeacherUpdate {
	return app.TeacherUpdate{
		Name:           c.Name,
		Contact:        c.Contact,
		Available:      c.Available,
		Qualifications: c.Qualifications,
	}
}

// splitPayload splits a "|" separated payload into at most n trimmed fields.
func splitPayload(payload string, n int) []string {
	parts := strings.SplitN(payload, "|", n)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseTeacherID(v string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: teacher id must be a non-zero number, got %q", ErrInvalidPayload, v)
	}
	return id, nil
}

// parseYesNo returns nil for an empty value.
func parseYesNo(v string) (*bool, error) {
	var b bool
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return nil, nil
	case "yes", "y", "true", "1":
		b = true
	case "no", "n", "false", "0":
		b = false
	default:
		return nil, fmt.Errorf("%w: availability must be yes or no, got %q", ErrInvalidPayload, v)
	}
	return &b, nil
}

// parseTeacherPayload parses "id|name|contact|yes/no|qualifications".
// Only the id is mandatory; missing trailing fields are left empty.
func parseTeacherPayload(payload string) (teacherCommand, error) {
	var cmd teacherCommand
	if strings.TrimSpace(payload) == "" {
		return cmd, fmt.Errorf("%w: expected %s", ErrInvalidPayload, teacherPayloadUsage)
	}
	parts := splitPayload(payload, 5)
	for len(parts) < 5 {
		parts = append(parts, "")
	}

	id, err := parseTeacherID(parts[0])
	if err != nil {
		return cmd, err
	}
	available, err := parseYesNo(parts[3])
	if err != nil {
		return cmd, err
	}
	cmd = teacherCommand{
		ID:             id,
		Name:           parts[1],
		Contact:        parts[2],
		Available:      available,
		Qualifications: parts[4],
	}
	return cmd, nil
}

// parseQualifications splits a comma separated list, dropping blanks.
func parseQualifications(v string) []string {
	var out []string
	for _, q := range strings.Split(v, ",") {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}

// parseRequirementPayload parses "course|code|schedule|location|q1,q2|notes".
func parseRequirementPayload(payload string) (app.RequirementInput, error) {
	if strings.TrimSpace(payload) == "" {
		return app.RequirementInput{}, fmt.Errorf("%w: expected %s", ErrInvalidPayload, requirementPayloadUsage)
	}
	parts := splitPayload(payload, 6)
	for len(parts) < 6 {
		parts = append(parts, "")
	}
	return app.RequirementInput{
		CourseName:     parts[0],
		CourseCode:     parts[1],
		Schedule:       parts[2],
		Location:       parts[3],
		Qualifications: parseQualifications(parts[4]),
		Notes:          parts[5],
	}, nil
}

// parseRequirementUpdate parses "id|course|code|schedule|location|q1,q2|notes".
func parseRequirementUpdate(payload string) (string, app.RequirementInput, error) {
	id, rest, _ := strings.Cut(payload, "|")
	id = strings.TrimSpace(id)
	if id == "" {
		return "", app.RequirementInput{}, fmt.Errorf("%w: expected id|%s", ErrInvalidPayload, requirementPayloadUsage)
	}
	if strings.TrimSpace(rest) == "" {
		return id, app.RequirementInput{}, nil
	}
	in, err := parseRequirementPayload(rest)
	return id, in, err
}

// parseAssignArgs parses "<requirementID> <teacherID>".
func parseAssignArgs(args []string) (string, int, error) {
	if len(args) != 2 {
		return "", 0, fmt.Errorf("%w: expected <requirementID> <teacherID>", ErrInvalidPayload)
	}
	teacherID, err := parseTeacherID(args[1])
	if err != nil {
		return "", 0, err
	}
	return args[0], teacherID, nil
}

func availabilityLabel(available bool) string {
	if available {
		return "available"
	}
	return "unavailable"
}

func formatTeacher(t *teacher.Teacher) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Teacher #%d: %s (%s)\n", t.ID, t.Name, availabilityLabel(t.IsAvailable))
	if t.Contact != "" {
		fmt.Fprintf(&b, "Contact: %s\n", t.Contact)
	}
	if t.Qualifications != "" {
		fmt.Fprintf(&b, "Qualifications: %s\n", t.Qualifications)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTeacherList(title string, teachers []*teacher.Teacher) string {
	if len(teachers) == 0 {
		return title + ": none."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d):\n", title, len(teachers))
	for i, t := range teachers {
		fmt.Fprintf(&b, "%d. #%d %s, %s", i+1, t.ID, t.Name, availabilityLabel(t.IsAvailable))
		if t.Qualifications != "" {
			fmt.Fprintf(&b, ", %s", t.Qualifications)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRequirement(r *requirement.TeachingRequirement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s [%s]\n", r.CourseCode(), r.CourseName(), r.Status().DisplayName())
	fmt.Fprintf(&b, "ID: %s\n", r.ID())
	if r.Schedule() != "" {
		fmt.Fprintf(&b, "Schedule: %s\n", r.Schedule())
	}
	if r.Location() != "" {
		fmt.Fprintf(&b, "Location: %s\n", r.Location())
	}
	if qs := r.RequiredQualifications(); len(qs) > 0 {
		fmt.Fprintf(&b, "Qualifications: %s\n", strings.Join(qs, ", "))
	}
	if ids := r.AssignedTeacherIDs(); len(ids) > 0 {
		labels := make([]string, len(ids))
		for i, id := range ids {
			labels[i] = "#" + strconv.Itoa(id)
		}
		fmt.Fprintf(&b, "Assigned: %s\n", strings.Join(labels, ", "))
	}
	if r.Notes() != "" {
		fmt.Fprintf(&b, "Notes: %s\n", r.Notes())
	}
	fmt.Fprintf(&b, "Modified: %s", r.LastModifiedAt().Format("2006-01-02 15:04"))
	return b.String()
}

func formatRequirementList(title string, reqs []*requirement.TeachingRequirement) string {
	if len(reqs) == 0 {
		return title + ": none."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d):\n", title, len(reqs))
	for i, r := range reqs {
		fmt.Fprintf(&b, "%d. %s %s [%s]\n   %s\n", i+1, r.CourseCode(), r.CourseName(), r.Status().DisplayName(), r.ID())
	}
	return strings.TrimRight(b.String(), "\n")
}
