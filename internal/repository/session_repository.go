package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionRepository 保存 OAuth 握手期间、以浏览器会话为键的一次性状态。
// Pop 必须是原子的读取并删除：同一会话的并发回调最多只有一个能取到值。
type SessionRepository struct {
	RDB *redis.Client
}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{RDB: rdb}
}

const handshakePrefix = "oauth:handshake:"

func (r *SessionRepository) Put(ctx context.Context, sid, value string, ttl time.Duration) error {
	return r.RDB.Set(ctx, handshakePrefix+sid, value, ttl).Err()
}

// Pop 取出并删除会话状态。GETDEL 在 Redis 侧单命令完成，天然原子。
// 键不存在（未发起过、已被消费或已过期）返回空串。
func (r *SessionRepository) Pop(ctx context.Context, sid string) (string, error) {
	val, err := r.RDB.GetDel(ctx, handshakePrefix+sid).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
