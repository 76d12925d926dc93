// Package session 保存每个会话的当前身份。
// 不是安全边界：只缓存登录时解析出的用户，没有密码。
package session

import "context"

const (
	KeyCurrentUser    = "current_user"    // JSON 序列化的用户
	KeyUserIdentifier = "user_identifier" // 原始证件号
)

// Provider 按会话 ID 读写键值；Get 未命中返回 ok=false
type Provider interface {
	Get(ctx context.Context, sid, key string) (string, bool, error)
	Set(ctx context.Context, sid, key, value string) error
	Clear(ctx context.Context, sid string) error
}
