package scheduler

import (
	"fmt"
	"strings"

	"github.com/tmajors/daykeeper/internal/models"
)

// Subject is used as the email subject line and app-notification headline.
const Subject = "Daykeeper Reminder"

const timeLayout = "Jan 2, 2006 at 3:04 PM"

// FormatMessage builds the notification text for one entity/reminder pair.
// Pure function: no clock, no store access.
func FormatMessage(entity *models.DueEntity, reminder *models.Reminder) string {
	info, ok := kinds[entity.Kind]
	if !ok {
		info = kindInfo{label: string(entity.Kind)}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: Your %s %q", Subject, info.label, entity.Title)
	if entity.When != nil && info.predicate != "" {
		fmt.Fprintf(&b, " is %s %s", info.predicate, entity.When.Local().Format(timeLayout))
	}
	b.WriteString(".")

	if reminder.Message != "" {
		fmt.Fprintf(&b, " Note: %q", reminder.Message)
	}
	return b.String()
}
