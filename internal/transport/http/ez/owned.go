package ez

import (
	"errors"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cafeteria-reservations/internal/domain"
	resp "cafeteria-reservations/internal/transport/http/response"
)

// OwnedConfig 只读、按归属人过滤的列表/详情
type OwnedConfig[T any] struct {
	DB    *gorm.DB
	Group *gin.RouterGroup // 已鉴权分组（能拿 userId）
	Path  string
	New   func() *T

	ScopeList func(c *gin.Context, q *gorm.DB) (*gorm.DB, error) // 自定义筛选
	AfterGet  func(c *gin.Context, m *T)

	IDField    string // 默认 "ID"
	OwnerField string // 默认优先 "OwnerID"，其次 "UserID"/"UID"
	OrderBy    string // 为空则按 id DESC
}

func (c *OwnedConfig[T]) idFieldCandidates() []string {
	if c.IDField != "" {
		return []string{c.IDField, "ID", "Id"}
	}
	return []string{"ID", "Id"}
}

func (c *OwnedConfig[T]) ownerFieldCandidates() []string {
	if c.OwnerField != "" {
		return []string{c.OwnerField, "OwnerID", "UserID", "UID"}
	}
	return []string{"OwnerID", "UserID", "UID"}
}

func getStringFieldPtr(obj any, candidates []string) (*string, bool) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr {
		return nil, false
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	t := v.Type()
	for _, cand := range candidates {
		f, ok := t.FieldByName(cand)
		// 未导出字段跳过
		if !ok || f.PkgPath != "" {
			continue
		}
		fv := v.FieldByIndex(f.Index)
		if fv.Kind() == reflect.String && fv.CanSet() {
			return fv.Addr().Interface().(*string), true
		}
	}
	return nil, false
}

func writeStringField(obj any, candidates []string, val string) bool {
	p, ok := getStringFieldPtr(obj, candidates)
	if !ok {
		return false
	}
	*p = val
	return true
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// Owned 注册 GET path 与 GET path/:id，只返回当前用户的数据
func Owned[T any](cfg OwnedConfig[T]) {
	idFieldNames := cfg.idFieldCandidates()
	ownerFieldNames := cfg.ownerFieldCandidates()
	if _, ok := getStringFieldPtr(cfg.New(), ownerFieldNames); !ok {
		panic("ez.Owned: owner field not found")
	}

	cfg.Group.GET(cfg.Path, func(c *gin.Context) {
		uid := c.GetString("userId")
		if uid == "" {
			write(c, resp.Error(resp.CodeUnauthorized, "unauthorized"))
			return
		}
		page := atoiDefault(c.Query("page"), 1)
		size := atoiDefault(c.Query("size"), 20)
		if size > 100 {
			size = 20
		}

		// 用结构体 Where 自动映射列名，避免手写 user_id
		ownerFilter := cfg.New()
		_ = writeStringField(ownerFilter, ownerFieldNames, uid)
		q := cfg.DB.WithContext(c.Request.Context()).Model(cfg.New()).Where(ownerFilter)
		if cfg.ScopeList != nil {
			var err error
			if q, err = cfg.ScopeList(c, q); err != nil {
				Fail(c, err)
				return
			}
		}
		q = q.Session(&gorm.Session{})

		var total int64
		if err := q.Count(&total).Error; err != nil {
			Fail(c, domain.Store("count", err))
			return
		}
		order := cfg.OrderBy
		if order == "" {
			order = "id DESC"
		}
		var items []T
		if err := q.Order(order).Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
			Fail(c, domain.Store("list", err))
			return
		}
		if cfg.AfterGet != nil {
			for i := range items {
				cfg.AfterGet(c, &items[i])
			}
		}
		write(c, resp.OK(gin.H{
			"list": items, "total": total, "page": page, "size": size,
		}))
	})

	cfg.Group.GET(cfg.Path+"/:id", func(c *gin.Context) {
		uid := c.GetString("userId")
		if uid == "" {
			write(c, resp.Error(resp.CodeUnauthorized, "unauthorized"))
			return
		}
		filter := cfg.New()
		_ = writeStringField(filter, idFieldNames, c.Param("id"))
		_ = writeStringField(filter, ownerFieldNames, uid)

		m := cfg.New()
		err := cfg.DB.WithContext(c.Request.Context()).Where(filter).First(m).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			Fail(c, domain.ErrNotFound)
			return
		case err != nil:
			Fail(c, domain.Store("get", err))
			return
		}
		if cfg.AfterGet != nil {
			cfg.AfterGet(c, m)
		}
		write(c, resp.OK(m))
	})
}
