package get_business_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/bookings/models"
)

// ParseQuery собирает запрос к сервису из query-параметров
// from, to - YYYY-MM-DD; staffId - ID сотрудника; includeCanceled - true/false
func ParseQuery(q url.Values, actorID, businessUserID int64) (*models.GetBusinessBookingsRequest, error) {
	req := &models.GetBusinessBookingsRequest{
		ActorID:        actorID,
		BusinessUserID: businessUserID,
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

	if raw := q.Get("staffId"); raw != "" {
		staffID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || staffID <= 0 {
			return nil, fmt.Errorf("staffId: invalid value %q", raw)
		}
		req.StaffUserID = &staffID
	}

	if raw := q.Get("status"); raw != "" {
		req.Status = &raw
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
