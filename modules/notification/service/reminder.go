package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"opscal/core/constants"
	coreEntity "opscal/core/entity"
	"opscal/core/logger"
	eventEntity "opscal/modules/event/entity"
	eventRepo "opscal/modules/event/repository"
	"opscal/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// EventReminderPayload is the task body carried through the queue. The
// handler reloads the event, so only identifiers travel.
type EventReminderPayload struct {
	EventID uuid.UUID `json:"event_id"`
}

// ReminderScheduler enqueues delayed reminder tasks. It satisfies the
// event service's scheduler interface.
type ReminderScheduler struct {
	client *asynq.Client
}

func NewReminderScheduler(client *asynq.Client) *ReminderScheduler {
	return &ReminderScheduler{client: client}
}

func (r *ReminderScheduler) ScheduleReminder(ctx context.Context, event *eventEntity.Event) error {
	if event.ReminderMinutes == nil {
		return nil
	}
	processAt := event.Start.Add(-time.Duration(*event.ReminderMinutes) * time.Minute)
	if processAt.Before(time.Now()) {
		return nil
	}

	payload, err := json.Marshal(EventReminderPayload{EventID: event.ID})
	if err != nil {
		return fmt.Errorf("marshal reminder payload: %w", err)
	}
	task := asynq.NewTask(constants.TaskEventReminder, payload)
	info, err := r.client.EnqueueContext(ctx, task, asynq.ProcessAt(processAt))
	if err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	logger.Info("ReminderScheduler:ScheduleReminder:Enqueued",
		"event_id", event.ID, "task_id", info.ID, "process_at", processAt)
	return nil
}

// ReminderHandler consumes reminder tasks and turns them into in-app
// notifications for the event creator.
type ReminderHandler struct {
	events        eventRepo.EventRepository
	notifications NotificationServiceInterface
}

func NewReminderHandler(events eventRepo.EventRepository, notifications NotificationServiceInterface) *ReminderHandler {
	return &ReminderHandler{events: events, notifications: notifications}
}

func (h *ReminderHandler) HandleEventReminder(ctx context.Context, t *asynq.Task) error {
	var payload EventReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal reminder payload: %w: %w", err, asynq.SkipRetry)
	}

	event, err := h.events.GetByID(ctx, payload.EventID)
	if err != nil {
		if err == sql.ErrNoRows {
			// Event deleted after the reminder was scheduled.
			return nil
		}
		return fmt.Errorf("load event %s: %w", payload.EventID, err)
	}
	if event.Status == eventEntity.StatusCancelled || event.CreatorID == nil {
		return nil
	}

	n := &entity.Notification{
		UserID:  *event.CreatorID,
		Type:    entity.TypeEventReminder,
		Title:   "Upcoming event: " + event.Title,
		Message: fmt.Sprintf("%s starts at %s", event.Title, event.Start.Format(time.RFC1123)),
		Data: coreEntity.JSONMap{
			"event_id": event.ID.String(),
			"start":    event.Start.Format(time.RFC3339),
		},
	}
	if _, appErr := h.notifications.Notify(ctx, n); appErr != nil {
		return fmt.Errorf("create reminder notification: %s", appErr.Message)
	}
	return nil
}
