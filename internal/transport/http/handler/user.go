package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cafeteria-reservations/internal/domain"
	"cafeteria-reservations/internal/transport/http/ez"
	"cafeteria-reservations/internal/transport/http/router"
)

// UserModule 管理端用户列表与资料维护；用户不可删除
type UserModule struct {
	Users domain.UserRepository
}

type userListQ struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"` // 按证件号/姓名模糊搜
}

type userList struct {
	Total int64         `json:"total"`
	Items []domain.User `json:"items"`
}

type profileIn struct {
	Role         domain.Role `json:"role" binding:"required"`
	IsVegetarian bool        `json:"isVegetarian"`
	IsCeliac     bool        `json:"isCeliac"`
}

func (m *UserModule) MountAdmin(g router.Groups) {
	e := ez.New(g.Authed)

	ez.RegisterAction(e, ez.Action[userListQ, userList]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *userListQ) (userList, error) {
			p := pageQ{Offset: in.Offset, Limit: in.Limit}
			p.clamp()
			items, total, err := m.Users.List(c.Request.Context(), in.Q, p.Offset, p.Limit)
			if err != nil {
				return userList{}, err
			}
			return userList{Total: total, Items: items}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[profileIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id/profile",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *profileIn) (*domain.User, error) {
			return m.Users.UpdateProfile(c.Request.Context(), c.Param("id"), domain.Profile{
				Role:         in.Role,
				IsVegetarian: in.IsVegetarian,
				IsCeliac:     in.IsCeliac,
			})
		},
	})
}
