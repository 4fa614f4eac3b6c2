package telegram

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"teaching_admin/internal/app"
	"teaching_admin/internal/domain/requirement"
)

const msgUnauthorized = "Error: you are not allowed to run this command."

// senderID returns 0 for updates without a sender, such as channel posts.
func senderID(c telebot.Context) int64 {
	if c.Sender() == nil {
		return 0
	}
	return c.Sender().ID
}

// adminOnly wraps handler with the admin check and a per-command logger.
func adminOnly(command string, adminTelegramID int64, baseLogger *logrus.Entry, handler func(c telebot.Context, log *logrus.Entry) error) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   command,
			"sender_id": senderID(c),
		})
		handlerLogger.Info("Command received")

		if c.Sender() == nil || c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(msgUnauthorized)
		}
		return handler(c, handlerLogger)
	}
}

func payloadOf(c telebot.Context) string {
	if c.Message() == nil {
		return ""
	}
	return strings.TrimSpace(c.Message().Payload)
}

// RegisterAdminHandlers registers the teacher and requirement commands.
// Every command is restricted to adminTelegramID.
func RegisterAdminHandlers(
	b *telebot.Bot,
	teachers *app.TeacherAdminService,
	requirements *app.RequirementService,
	adminTelegramID int64,
	baseLogger *logrus.Entry,
) {
	handle := func(command string, h func(c telebot.Context, log *logrus.Entry) error) {
		b.Handle(command, adminOnly(command, adminTelegramID, baseLogger, h))
	}

	handle("/add_teacher", func(c telebot.Context, log *logrus.Entry) error {
		cmd, err := parseTeacherPayload(payloadOf(c))
		if err != nil {
			log.WithError(err).Warn("Invalid command format")
			return c.Send("Usage: /add_teacher " + teacherPayloadUsage)
		}
		if cmd.Name == "" {
			return c.Send("Error: teacher name must not be empty.")
		}
		available := cmd.Available != nil && *cmd.Available
		if !teachers.AddTeacher(cmd.ID, cmd.Name, cmd.Contact, available, cmd.Qualifications) {
			return c.Send(fmt.Sprintf("Could not add teacher #%d: the id is taken or storage failed.", cmd.ID))
		}
		return c.Send(fmt.Sprintf("Teacher %s (#%d) added.", cmd.Name, cmd.ID))
	})

	handle("/update_teacher", func(c telebot.Context, log *logrus.Entry) error {
		cmd, err := parseTeacherPayload(payloadOf(c))
		if err != nil {
			log.WithError(err).Warn("Invalid command format")
			return c.Send("Usage: /update_teacher " + teacherPayloadUsage + " (empty fields are kept)")
		}
		if !teachers.UpdateTeacher(cmd.ID, cmd.update()) {
			return c.Send(fmt.Sprintf("Could not update teacher #%d: not found or storage failed.", cmd.ID))
		}
		t, found := teachers.FindTeacher(cmd.ID)
		if !found {
			return c.Send(fmt.Sprintf("Teacher #%d updated, but it has since been deleted.", cmd.ID))
		}
		return c.Send("Teacher updated.\n" + formatTeacher(t))
	})

	handle("/delete_teacher", func(c telebot.Context, log *logrus.Entry) error {
		id, err := parseTeacherID(payloadOf(c))
		if err != nil {
			log.WithError(err).Warn("Invalid command format")
			return c.Send("Usage: /delete_teacher <id>")
		}
		if !teachers.DeleteTeacher(id) {
			return c.Send(fmt.Sprintf("Could not delete teacher #%d: not found or storage failed.", id))
		}
		return c.Send(fmt.Sprintf("Teacher #%d deleted.", id))
	})

	handle("/teacher", func(c telebot.Context, log *logrus.Entry) error {
		id, err := parseTeacherID(payloadOf(c))
		if err != nil {
			log.WithError(err).Warn("Invalid command format")
			return c.Send("Usage: /teacher <id>")
		}
		t, found := teachers.FindTeacher(id)
		if !found {
			return c.Send(fmt.Sprintf("Teacher #%d not found.", id))
		}
		return c.Send(formatTeacher(t))
	})

	handle("/list_teachers", func(c telebot.Context, log *logrus.Entry) error {
		list := teachers.ListTeachers()
		log.WithField("teachers_count", len(list)).Info("Listing teachers")
		return c.Send(formatTeacherList("Teachers", list))
	})

	handle("/search_teachers", func(c telebot.Context, log *logrus.Entry) error {
		keyword := payloadOf(c)
		if keyword == "" {
			return c.Send("Usage: /search_teachers <keyword>")
		}
		list := teachers.SearchTeachersByQualification(keyword)
		log.WithFields(logrus.Fields{"keyword": keyword, "teachers_count": len(list)}).Info("Searching teachers")
		return c.Send(formatTeacherList(fmt.Sprintf("Teachers qualified in %q", keyword), list))
	})

	handle("/add_requirement", func(c telebot.Context, log *logrus.Entry) error {
		in, err := parseRequirementPayload(payloadOf(c))
		if err != nil {
			log.WithError(err).Warn("Invalid command format")
			return c.Send("Usage: /add_requirement " + requirementPayloadUsage)
		}
		r, ok := requirements.CreateRequirement(in)
		if !ok {
			return c.Send("Could not create requirement: course name and code are required, or storage failed.")
		}
		log.WithField("requirement_id", r.ID()).Info("Requirement created")
		return c.Send("Requirement created.\n" + formatRequirement(r))
	})

	handle("/update_requirement", func(c telebot.Context, log *logrus.Entry) error {
		id, in, err := parseRequirementUpdate(payloadOf(c))
		if err != nil {
			log.WithError(err).Warn("Invalid command format")
			return c.Send("Usage: /update_requirement id|" + requirementPayloadUsage + " (empty fields are kept)")
		}
		if !requirements.UpdateRequirement(id, in) {
			return c.Send(fmt.Sprintf("Could not update requirement %s: not found or storage failed.", id))
		}
		r, found := requirements.GetRequirement(id)
		if !found {
			return c.Send(fmt.Sprintf("Requirement %s updated, but it has since been deleted.", id))
		}
		return c.Send("Requirement updated.\n" + formatRequirement(r))
	})

	handle("/delete_requirement", func(c telebot.Context, log *logrus.Entry) error {
		id := payloadOf(c)
		if id == "" {
			return c.Send("Usage: /delete_requirement <id>")
		}
		if !requirements.DeleteRequirement(id) {
			return c.Send(fmt.Sprintf("Could not delete requirement %s: not found or storage failed.", id))
		}
		return c.Send(fmt.Sprintf("Requirement %s deleted.", id))
	})

	handle("/requirement", func(c telebot.Context, log *logrus.Entry) error {
		id := payloadOf(c)
		if id == "" {
			return c.Send("Usage: /requirement <id>")
		}
		r, found := requirements.GetRequirement(id)
		if !found {
			return c.Send(fmt.Sprintf("Requirement %s not found.", id))
		}
		return c.Send(formatRequirement(r))
	})

	handle("/list_requirements", func(c telebot.Context, log *logrus.Entry) error {
		filter := payloadOf(c)
		if filter == "" {
			return c.Send(formatRequirementList("Requirements", requirements.ListRequirements()))
		}
		status, ok := requirement.ParseStatus(filter)
		if !ok {
			log.WithField("status", filter).Warn("Invalid status argument")
			return c.Send("Unknown status. Use unassigned, partially_assigned or fully_assigned, or leave empty.")
		}
		list := requirements.ListRequirementsByStatus(status)
		return c.Send(formatRequirementList(status.DisplayName()+" requirements", list))
	})

	handle("/search_requirements", func(c telebot.Context, log *logrus.Entry) error {
		keyword := payloadOf(c)
		if keyword == "" {
			return c.Send("Usage: /search_requirements <keyword>")
		}
		list := requirements.SearchRequirementsByCourseName(keyword)
		return c.Send(formatRequirementList(fmt.Sprintf("Courses matching %q", keyword), list))
	})

	handle("/eligible_teachers", func(c telebot.Context, log *logrus.Entry) error {
		id := payloadOf(c)
		if id == "" {
			return c.Send("Usage: /eligible_teachers <requirementID>")
		}
		list, found := requirements.EligibleTeachers(id)
		if !found {
			return c.Send(fmt.Sprintf("Requirement %s not found.", id))
		}
		log.WithFields(logrus.Fields{"requirement_id": id, "teachers_count": len(list)}).Info("Listing eligible teachers")
		return c.Send(formatTeacherList("Eligible teachers", list))
	})

	handle("/apply_for_course", func(c telebot.Context, log *logrus.Entry) error {
		reqID, teacherID, err := parseAssignArgs(c.Args())
		if err != nil {
			log.WithError(err).Warn("Invalid command format")
			return c.Send("Usage: /apply_for_course <requirementID> <teacherID>")
		}
		if !requirements.ApplyForCourse(teacherID, reqID) {
			return c.Send("Application rejected: teacher is unavailable, lacks the qualifications, is already assigned, or a record is missing.")
		}
		return c.Send(fmt.Sprintf("Teacher #%d applied and was assigned to %s.", teacherID, reqID))
	})

	handle("/assign_teacher", func(c telebot.Context, log *logrus.Entry) error {
		reqID, teacherID, err := parseAssignArgs(c.Args())
		if err != nil {
			log.WithError(err).Warn("Invalid command format")
			return c.Send("Usage: /assign_teacher <requirementID> <teacherID>")
		}
		if !requirements.AssignTeacher(reqID, teacherID) {
			return c.Send("Could not assign: requirement or teacher not found, already assigned, or storage failed.")
		}
		return c.Send(fmt.Sprintf("Teacher #%d assigned to %s.", teacherID, reqID))
	})

	handle("/unassign_teacher", func(c telebot.Context, log *logrus.Entry) error {
		reqID, teacherID, err := parseAssignArgs(c.Args())
		if err != nil {
			log.WithError(err).Warn("Invalid command format")
			return c.Send("Usage: /unassign_teacher <requirementID> <teacherID>")
		}
		if !requirements.UnassignTeacher(reqID, teacherID) {
			return c.Send("Could not unassign: requirement not found, teacher not assigned, or storage failed.")
		}
		return c.Send(fmt.Sprintf("Teacher #%d removed from %s.", teacherID, reqID))
	})
}
