package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/tmajors/daykeeper/internal/database"
	"github.com/tmajors/daykeeper/internal/models"
)

// entityDescriptor resolves a kind's table layout once, so the due-reminder
// query never branches on field names at runtime.
type entityDescriptor struct {
	kind       models.Kind
	table      string
	idColumn   string
	timeColumn string
}

var (
	taskDescriptor  = entityDescriptor{models.KindTask, "tasks", "task_id", "due_date"}
	eventDescriptor = entityDescriptor{models.KindEvent, "events", "event_id", "start_time"}
	goalDescriptor  = entityDescriptor{models.KindGoal, "goals", "goal_id", "target_date"}
)

// dueReminders returns entities of one kind that carry at least one unsent
// reminder inside [from, until], joined with their owner's contact info.
// Rows are grouped into one DueEntity per parent record; an entity whose
// owner row is missing comes back with a nil Owner.
func dueReminders(ctx context.Context, db *database.DB, d entityDescriptor, from, until time.Time) ([]*models.DueEntity, error) {
	query := fmt.Sprintf(
		`SELECT e.%[2]s, e.user_id, e.title, e.%[3]s,
		        u.user_id, u.email, u.phone, u.chat_id,
		        r.reminder_id, r.remind_at, r.method, r.message, r.is_sent,
		        r.recurrence_rule, r.dtstart
		 FROM reminders r
		 JOIN %[1]s e ON r.entity_id = e.%[2]s
		 LEFT JOIN users u ON u.user_id = e.user_id
		 WHERE r.entity_kind = $1 AND r.is_sent = false
		   AND r.remind_at >= $2 AND r.remind_at <= $3
		 ORDER BY e.%[2]s, r.remind_at`,
		d.table, d.idColumn, d.timeColumn,
	)

	rows, err := db.Pool.Query(ctx, query, string(d.kind), from, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []*models.DueEntity
	byID := make(map[int64]*models.DueEntity)

	for rows.Next() {
		var (
			entityID int64
			userID   int64
			title    string
			when     *time.Time
			ownerID  *int64
			email    *string
			phone    *string
			chatID   *int64
		)
		reminder := &models.Reminder{Kind: d.kind}
		if err := rows.Scan(
			&entityID, &userID, &title, &when,
			&ownerID, &email, &phone, &chatID,
			&reminder.ReminderID, &reminder.RemindAt, &reminder.Method, &reminder.Message,
			&reminder.IsSent, &reminder.RecurrenceRule, &reminder.Dtstart,
		); err != nil {
			return nil, err
		}
		reminder.EntityID = entityID

		entity, ok := byID[entityID]
		if !ok {
			entity = &models.DueEntity{
				Kind:     d.kind,
				EntityID: entityID,
				UserID:   userID,
				Title:    title,
				When:     when,
			}
			if ownerID != nil {
				entity.Owner = &models.Contact{}
				if email != nil {
					entity.Owner.Email = *email
				}
				if phone != nil {
					entity.Owner.Phone = *phone
				}
				if chatID != nil {
					entity.Owner.ChatID = *chatID
				}
			}
			byID[entityID] = entity
			entities = append(entities, entity)
		}
		entity.Reminders = append(entity.Reminders, reminder)
	}
	return entities, rows.Err()
}
