package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cafeteria-reservations/internal/domain"
	"cafeteria-reservations/internal/service"
	"cafeteria-reservations/internal/transport/http/ez"
	mdw "cafeteria-reservations/internal/transport/http/middleware"
	"cafeteria-reservations/internal/transport/http/router"
)

type MenuModule struct {
	Directory *service.MenuDirectory
	Engine    *service.ReservationEngine
	Calendar  domain.Calendar
}

// MountAPI 菜单浏览；登录用户额外看到自己的预约与资格
func (m *MenuModule) MountAPI(g router.Groups) {
	e := ez.New(g.Public)
	ez.RegisterAction(e, ez.Action[struct{}, *service.MenuView]{
		Method: http.MethodGet,
		Path:   "/menus/today",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.MenuView, error) {
			return m.Engine.MenuView(c.Request.Context(), mdw.CurrentUser(c), m.Calendar.Today())
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, *service.MenuView]{
		Method: http.MethodGet,
		Path:   "/menus/:date",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.MenuView, error) {
			date, err := domain.ParseDate(c.Param("date"))
			if err != nil {
				return nil, err
			}
			return m.Engine.MenuView(c.Request.Context(), mdw.CurrentUser(c), date)
		},
	})
}

type pageQ struct {
	Offset int `form:"offset,default=0"`
	Limit  int `form:"limit,default=20"`
}

func (q *pageQ) clamp() {
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
}

type menuList struct {
	Total int64         `json:"total"`
	Items []domain.Menu `json:"items"`
}

type saveMenuIn struct {
	Date   domain.Date        `json:"date"   binding:"required"`
	Status domain.MenuStatus  `json:"status" binding:"required"`
	Dishes []domain.DishInput `json:"dishes"`
}

type statusIn struct {
	Status domain.MenuStatus `json:"status" binding:"required"`
}

type dishesIn struct {
	Dishes []domain.DishInput `json:"dishes"`
}

func (m *MenuModule) MountAdmin(g router.Groups) {
	e := ez.New(g.Authed)

	ez.RegisterAction(e, ez.Action[pageQ, menuList]{
		Method: http.MethodGet,
		Path:   "/menus",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (menuList, error) {
			in.clamp()
			items, total, err := m.Directory.ListMenus(c.Request.Context(), in.Offset, in.Limit)
			if err != nil {
				return menuList{}, err
			}
			return menuList{Total: total, Items: items}, nil
		},
	})

	// 不带 dishes 时只 upsert 菜单状态
	ez.RegisterAction(e, ez.Action[saveMenuIn, *domain.Menu]{
		Method: http.MethodPost,
		Path:   "/menus",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *saveMenuIn) (*domain.Menu, error) {
			ctx := c.Request.Context()
			if len(in.Dishes) > 0 {
				return m.Directory.SaveMenu(ctx, in.Date, in.Status, in.Dishes)
			}
			id, err := m.Directory.UpsertMenu(ctx, in.Date, in.Status)
			if err != nil {
				return nil, err
			}
			return m.Directory.GetMenu(ctx, id)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Menu]{
		Method: http.MethodGet,
		Path:   "/menus/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Menu, error) {
			return m.Directory.GetMenu(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[statusIn, gin.H]{
		Method: http.MethodPut,
		Path:   "/menus/:id/status",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *statusIn) (gin.H, error) {
			id := c.Param("id")
			if err := m.Directory.SetMenuStatus(c.Request.Context(), id, in.Status); err != nil {
				return nil, err
			}
			return gin.H{"id": id, "status": in.Status}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[dishesIn, []domain.Dish]{
		Method: http.MethodPut,
		Path:   "/menus/:id/dishes",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *dishesIn) ([]domain.Dish, error) {
			return m.Directory.ReplaceDishes(c.Request.Context(), c.Param("id"), in.Dishes)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Dish]{
		Method: http.MethodPost,
		Path:   "/menus/:id/dishes/default",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Dish, error) {
			return m.Directory.AddDefaultDish(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []service.DishCount]{
		Method: http.MethodGet,
		Path:   "/menus/:id/reservations",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.DishCount, error) {
			return m.Directory.ReservationSummary(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/menus/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := m.Directory.DeleteMenu(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[domain.DishInput, *domain.Dish]{
		Method: http.MethodPut,
		Path:   "/dishes/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *domain.DishInput) (*domain.Dish, error) {
			return m.Directory.UpdateDish(c.Request.Context(), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/dishes/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := m.Directory.DeleteDish(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
