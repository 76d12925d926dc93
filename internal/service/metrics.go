package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"cafeteria-reservations/internal/domain"
)

var toggleTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "reservation_toggles_total", Help: "Reservation toggles by outcome"},
	[]string{"outcome"},
)

func init() { prometheus.MustRegister(toggleTotal) }

// observeToggle 只记录失败；成功分支在原处计数
func observeToggle(err error) {
	if err == nil {
		return
	}
	toggleTotal.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, domain.ErrNotEligible):
		return "not_eligible"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	}
	return "error"
}
