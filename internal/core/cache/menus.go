package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"cafeteria-reservations/internal/domain"
)

// Menus 按日期缓存菜单读；管理端写操作后失效。
// 每个日期带一个代数，失效即递增代数，进行中的回源只会写到旧代的 key
type Menus struct {
	c   *Cache
	ttl time.Duration
}

func NewMenus(c *Cache, ttl time.Duration) *Menus { return &Menus{c: c, ttl: ttl} }

func genKey(date domain.Date) string { return "menu:gen:" + string(date) }

func menuKey(date domain.Date, gen int64) string {
	return "menu:date:" + string(date) + ":v" + strconv.FormatInt(gen, 10)
}

func (m *Menus) Load(ctx context.Context, date domain.Date, load func(context.Context) (*domain.Menu, error)) (*domain.Menu, error) {
	gen, err := m.c.RDB.Get(ctx, m.c.key(genKey(date))).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		gen = 0
	case err != nil:
		// 代数读不到就不缓存，直接回源
		return load(ctx)
	}
	return GetOrLoadJSON(m.c, ctx, menuKey(date, gen), m.ttl, load)
}

func (m *Menus) Invalidate(ctx context.Context, date domain.Date) error {
	return m.c.RDB.Incr(ctx, m.c.key(genKey(date))).Err()
}
