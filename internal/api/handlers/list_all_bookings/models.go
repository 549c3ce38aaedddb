package list_all_bookings

import (
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/internal/service/bookings/models"
)

// ToServiceRequest собирает фильтр из query параметров:
// machineId, hostelId, status, date (YYYY-MM-DD), limit, offset
func ToServiceRequest(r *http.Request) (*models.ListAllRequest, error) {
	req := &models.ListAllRequest{Status: handlers.QueryString(r, "status")}

	var err error
	if req.MachineID, err = handlers.QueryInt64(r, "machineId"); err != nil {
		return nil, err
	}
	if req.HostelID, err = handlers.QueryInt64(r, "hostelId"); err != nil {
		return nil, err
	}

	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if req.Limit, err = strconv.Atoi(raw); err != nil {
			return nil, err
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if req.Offset, err = strconv.Atoi(raw); err != nil {
			return nil, err
		}
	}

	return req, nil
}
