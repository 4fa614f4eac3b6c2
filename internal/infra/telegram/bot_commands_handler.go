package telegram

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func helpText() string {
	var helpText strings.Builder
	helpText.WriteString("Administrator commands:\n\n")
	helpText.WriteString("Teachers\n")
	helpText.WriteString("/add_teacher " + teacherPayloadUsage + "\n")
	helpText.WriteString("/update_teacher " + teacherPayloadUsage + "\n")
	helpText.WriteString("/delete_teacher <id>\n")
	helpText.WriteString("/teacher <id>\n")
	helpText.WriteString("/list_teachers\n")
	helpText.WriteString("/search_teachers <qualification keyword>\n\n")
	helpText.WriteString("Teaching requirements\n")
	helpText.WriteString("/add_requirement " + requirementPayloadUsage + "\n")
	helpText.WriteString("/update_requirement id|" + requirementPayloadUsage + "\n")
	helpText.WriteString("/delete_requirement <id>\n")
	helpText.WriteString("/requirement <id>\n")
	helpText.WriteString("/list_requirements [status]\n")
	helpText.WriteString("/search_requirements <course keyword>\n")
	helpText.WriteString("/eligible_teachers <requirementID>\n")
	helpText.WriteString("/apply_for_course <requirementID> <teacherID> (only if eligible)\n")
	helpText.WriteString("/assign_teacher <requirementID> <teacherID>\n")
	helpText.WriteString("/unassign_teacher <requirementID> <teacherID>\n\n")
	helpText.WriteString("/help - show this message.")
	return helpText.String()
}

func RegisterBotCommands(b *telebot.Bot, adminTelegramID int64, baseLogger *logrus.Entry) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID(c))
		logCtx.Info("Processing /start command")

		if c.Sender() != nil && c.Sender().ID == adminTelegramID {
			logCtx.Info("User identified as Admin")
			return c.Send(fmt.Sprintf("Hello, %s! Teaching administration is ready. Use /help for the list of commands.", c.Sender().FirstName))
		}
		logCtx.Info("User is unknown")
		return c.Send("This bot manages teaching assignments and is only available to the administrator.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID(c))
		logCtx.Info("Processing /help command")

		if c.Sender() == nil || c.Sender().ID != adminTelegramID {
			logCtx.Info("User is unknown, sending restricted help.")
			return c.Send("No commands are available to you.")
		}
		return c.Send(helpText())
	})
}
