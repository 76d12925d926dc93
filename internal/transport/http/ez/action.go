package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cafeteria-reservations/internal/domain"
	mdw "cafeteria-reservations/internal/transport/http/middleware"
	resp "cafeteria-reservations/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "DELETE"
	Path    string   // 例："/auth/login"、"/menus/:id/status"
	Binder  Binder   // 绑定方式
	Auth    bool     // 是否要求登录（检查 userId）
	Roles   []string // 限定角色（可选）
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			if c.GetString("userId") == "" {
				write(c, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			if len(a.Roles) > 0 && !hasRole(c.GetString("role"), a.Roles) {
				write(c, resp.Error(resp.CodeForbidden, "forbidden"))
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			if domain.IsValidation(bindErr) {
				Fail(c, bindErr)
				return
			}
			Fail(c, BadRequest(bindErr.Error()))
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		write(c, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}

// Fail 把错误写成统一响应，data.kind 给出机器可读的错误类别
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	code, kind := Classify(err)
	var data any
	if kind != "" {
		data = gin.H{"kind": kind}
	}
	write(c, resp.ErrorWith(code, err.Error(), data))
}

func write(c *gin.Context, r resp.Resp) {
	c.Set(mdw.KeyRespCode, r.Code)
	c.JSON(http.StatusOK, r)
}

// Classify 领域错误 → 响应码 + 类别
func Classify(err error) (int, string) {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae.Code, ""
	}
	switch {
	case domain.IsValidation(err):
		return resp.CodeBadRequest, "validation"
	case errors.Is(err, domain.ErrDuplicateDietaryType):
		return resp.CodeConflict, "duplicate_dietary_type"
	case errors.Is(err, domain.ErrForbidden):
		return resp.CodeForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotEligible):
		return resp.CodeForbidden, "not_eligible"
	case errors.Is(err, domain.ErrQuotaExceeded):
		return resp.CodeConflict, "quota_exceeded"
	case errors.Is(err, domain.ErrMenuFull):
		return resp.CodeConflict, "menu_full"
	case errors.Is(err, domain.ErrConflict):
		return resp.CodeConflict, "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return resp.CodeNotFound, "not_found"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return resp.CodeUnavailable, "store_unavailable"
	}
	return resp.CodeServerError, "internal"
}
