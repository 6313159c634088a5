package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Tsukikage7/go-sugar/lang/random"
)

// TokenGenerator 为用户生成令牌.
type TokenGenerator[U any] interface {
	Generate(ctx context.Context, user U) (string, error)
}

// TokenGeneratorFunc 函数式令牌生成器.
type TokenGeneratorFunc[U any] func(ctx context.Context, user U) (string, error)

// Generate 实现 TokenGenerator 接口.
func (f TokenGeneratorFunc[U]) Generate(ctx context.Context, user U) (string, error) {
	return f(ctx, user)
}

// DefaultRandomTokenLength 随机令牌默认长度.
const DefaultRandomTokenLength = 32

// RandomTokenGenerator 生成与用户无关的随机令牌.
type RandomTokenGenerator[U any] struct {
	// Length 令牌长度，默认 32.
	Length int
	// Charset 字符集，默认字母与数字.
	Charset string
}

// Generate 实现 TokenGenerator 接口.
func (g RandomTokenGenerator[U]) Generate(context.Context, U) (string, error) {
	length := g.Length
	if length <= 0 {
		length = DefaultRandomTokenLength
	}
	charset := g.Charset
	if charset == "" {
		charset = random.Alphanumeric
	}
	return random.String(length, charset), nil
}

// HashTokenGenerator 生成十六进制 SHA-256 令牌.
//
// 摘要输入为用户主题、随机 UUID 与当前纳秒时间，同一用户每次生成的令牌不同.
type HashTokenGenerator[U any] struct {
	// Subject 返回用户主题，不能为空.
	Subject func(U) string
	// Now 时钟，默认 time.Now.
	Now func() time.Time
}

// Generate 实现 TokenGenerator 接口.
func (g HashTokenGenerator[U]) Generate(_ context.Context, user U) (string, error) {
	if g.Subject == nil {
		return "", errors.New("auth: HashTokenGenerator 缺少 Subject")
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	h := sha256.New()
	h.Write([]byte(g.Subject(user)))
	h.Write([]byte(uuid.NewString()))
	h.Write([]byte(strconv.FormatInt(now().UnixNano(), 10)))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// StoringTokenGenerator 生成令牌后将 令牌 -> 主题 写入 TokenStore.
//
// 与 StoreUserFinder 配合实现不透明令牌认证.
type StoringTokenGenerator[U any] struct {
	generator TokenGenerator[U]
	store     TokenStore
	subject   func(U) string
	ttl       time.Duration
}

// NewStoringTokenGenerator 创建带存储的令牌生成器.
func NewStoringTokenGenerator[U any](generator TokenGenerator[U], store TokenStore, subject func(U) string, ttl time.Duration) *StoringTokenGenerator[U] {
	if generator == nil {
		panic("auth: 令牌生成器不能为空")
	}
	if store == nil {
		panic("auth: 令牌存储不能为空")
	}
	if subject == nil {
		panic("auth: 主题函数不能为空")
	}
	return &StoringTokenGenerator[U]{
		generator: generator,
		store:     store,
		subject:   subject,
		ttl:       ttl,
	}
}

// Generate 实现 TokenGenerator 接口.
func (g *StoringTokenGenerator[U]) Generate(ctx context.Context, user U) (string, error) {
	token, err := g.generator.Generate(ctx, user)
	if err != nil {
		return "", err
	}
	if err := g.store.Save(ctx, token, g.subject(user), g.ttl); err != nil {
		return "", err
	}
	return token, nil
}
