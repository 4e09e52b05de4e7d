package service

import (
	"context"
	"fmt"
	"time"

	"opscal/core/errors"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// ICalWindowPast and ICalWindowFuture bound the expansion window of the
// published feed. Subscribing clients re-fetch, so a rolling window is
// enough.
const (
	ICalWindowPast   = 30 * 24 * time.Hour
	ICalWindowFuture = 365 * 24 * time.Hour
)

// ICalFeed renders a calendar's occurrences as an iCalendar document.
// Recurring events are emitted as individual instances so per-instance
// moves and cancellations are reflected without EXDATE bookkeeping.
func (s *calendarService) ICalFeed(ctx context.Context, calendarID uuid.UUID, now time.Time) (string, *errors.AppError) {
	cal, appErr := s.Get(ctx, calendarID)
	if appErr != nil {
		return "", appErr
	}

	occs, appErr := s.occurrences.CalendarOccurrencesInRange(ctx, calendarID, now.Add(-ICalWindowPast), now.Add(ICalWindowFuture))
	if appErr != nil {
		return "", appErr
	}

	feed := ics.NewCalendar()
	feed.SetMethod(ics.MethodPublish)
	feed.SetProductId("-//opscal//schedule//EN")
	feed.SetXWRCalName(cal.Name)
	if cal.Description != "" {
		feed.SetXWRCalDesc(cal.Description)
	}
	feed.SetXWRTimezone(cal.Timezone)

	for _, occ := range occs {
		// UIDs are stable per instance: the event plus its original slot.
		// Moves keep the UID, so clients see an update rather than a
		// delete-and-recreate.
		uid := fmt.Sprintf("%s-%d@opscal", occ.EventID, occ.OriginalStart.Unix())

		vevent := feed.AddEvent(uid)
		vevent.SetDtStampTime(now)
		vevent.SetStartAt(occ.Start)
		vevent.SetEndAt(occ.End)
		vevent.SetSummary(occ.Title)
		if occ.Description != "" {
			vevent.SetDescription(occ.Description)
		}
	}

	return feed.Serialize(), nil
}
