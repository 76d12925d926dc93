package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cafeteria-reservations/internal/domain"
	"cafeteria-reservations/internal/feature/reservation"
	"cafeteria-reservations/internal/service"
	"cafeteria-reservations/internal/transport/http/ez"
	mdw "cafeteria-reservations/internal/transport/http/middleware"
	"cafeteria-reservations/internal/transport/http/router"
)

type ReservationModule struct {
	Engine   *service.ReservationEngine
	Calendar domain.Calendar
	DB       *gorm.DB
}

type toggleIn struct {
	DishID string `json:"dishId" binding:"required"`
}

type toggleOut struct {
	Date      domain.Date `json:"date"`
	DishIDs   []string    `json:"dishIds"`
	Remaining int         `json:"remaining"`
}

func (m *ReservationModule) MountAPI(g router.Groups) {
	ez.RegisterAction(ez.New(g.Authed), ez.Action[toggleIn, toggleOut]{
		Method: http.MethodPost,
		Path:   "/reservations/toggle",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *toggleIn) (toggleOut, error) {
			today := m.Calendar.Today()
			held, err := m.Engine.ToggleToday(c.Request.Context(), mdw.CurrentUser(c), in.DishID, today)
			if err != nil {
				return toggleOut{}, err
			}
			return toggleOut{Date: today, DishIDs: domain.DishIDs(held), Remaining: service.Remaining(held)}, nil
		},
	})

	// 只读：我的预约
	ez.Owned(ez.OwnedConfig[reservation.ReservationModel]{
		DB:         m.DB,
		Group:      g.Authed,
		Path:       "/reservations",
		New:        func() *reservation.ReservationModel { return &reservation.ReservationModel{} },
		OwnerField: "UserID",
		OrderBy:    "date DESC, slot",
		ScopeList: func(c *gin.Context, q *gorm.DB) (*gorm.DB, error) {
			s := c.Query("date")
			if s == "" {
				return q, nil
			}
			date, err := domain.ParseDate(s)
			if err != nil {
				return nil, err
			}
			return q.Where("date = ?", string(date)), nil
		},
	})
}
