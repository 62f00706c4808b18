package get_staff_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/staff"
)

// ParseQuery собирает запрос расписания из query-параметров
// from, to - YYYY-MM-DD; includeCanceled - true/false
func ParseQuery(q url.Values, actorID, staffUserID int64) (*staff.ScheduleRequest, error) {
	req := &staff.ScheduleRequest{
		ActorID:     actorID,
		StaffUserID: staffUserID,
	}

	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
		req.StartDate = &from
	}

	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
		req.EndDate = &to
	}

	if raw := q.Get("includeCanceled"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("includeCanceled: %w", err)
		}
		req.IncludeCanceled = include
	}

	return req, nil
}
