// Package storage 提供按保存策略命名的文件存储.
//
// 保存策略在文件名前加上应用前缀与时间戳目录，并可追加后缀：
//
//	policy := storage.SavePolicy{Application: "avatar", TimestampLayout: storage.DefaultTimestampLayout}
//	fs := storage.NewFileSystemStorage("/data/upload", storage.WithSavePolicy(policy))
//	name, err := fs.Save(ctx, "me.png", file)
//	// name == "avatar/2024-06-01/me.png"
//
// 后端支持本地文件系统与 S3 兼容的对象存储.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/Tsukikage7/go-sugar/lang/random"
	"github.com/Tsukikage7/go-sugar/logger"
)

// 错误定义.
var (
	ErrNilConfig       = errors.New("storage: 配置为空")
	ErrInvalidName     = errors.New("storage: 无效的文件名")
	ErrNotFound        = errors.New("storage: 文件不存在")
	ErrUnsupportedType = errors.New("storage: 不支持的存储类型")
)

// DefaultTimestampLayout 默认时间戳目录格式.
const DefaultTimestampLayout = "2006-01-02"

// Storage 文件存储接口.
type Storage interface {
	// Save 按保存策略命名并写入内容，返回最终文件名.
	Save(ctx context.Context, name string, content io.Reader) (string, error)
	// Open 打开文件，不存在时返回 ErrNotFound.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Delete 删除文件，文件不存在不视为错误.
	Delete(ctx context.Context, name string) error
	// Exists 判断文件是否存在.
	Exists(ctx context.Context, name string) (bool, error)
}

// SavePolicy 文件保存策略.
type SavePolicy struct {
	// Application 应用前缀目录，为空时不加.
	Application string
	// TimestampLayout 时间戳目录格式，为空时不加.
	TimestampLayout string
	// Suffix 文件名后缀，为 nil 时不加.
	Suffix func() string
	// Now 时间来源，为 nil 时使用 time.Now.
	Now func() time.Time
}

// DefaultSavePolicy 返回默认保存策略：仅按日期分目录.
func DefaultSavePolicy() SavePolicy {
	return SavePolicy{TimestampLayout: DefaultTimestampLayout}
}

// Prefix 返回文件名前缀.
func (p SavePolicy) Prefix() string {
	var b strings.Builder
	if p.Application != "" {
		b.WriteString(p.Application)
		b.WriteByte('/')
	}
	if p.TimestampLayout != "" {
		now := time.Now
		if p.Now != nil {
			now = p.Now
		}
		b.WriteString(now().Format(p.TimestampLayout))
		b.WriteByte('/')
	}
	return b.String()
}

// SuffixValue 返回文件名后缀.
func (p SavePolicy) SuffixValue() string {
	if p.Suffix == nil {
		return ""
	}
	return p.Suffix()
}

// Name 返回按策略处理后的文件名.
func (p SavePolicy) Name(name string) string {
	return p.Prefix() + name + p.SuffixValue()
}

// StaticSuffix 返回固定后缀.
func StaticSuffix(suffix string) func() string {
	return func() string { return suffix }
}

// UUIDSuffix 返回以 32 位 UUID 为后缀的生成函数.
func UUIDSuffix() func() string {
	return func() string { return "_" + random.UUID32() }
}

// Option 配置选项函数.
type Option func(*options)

type options struct {
	policy SavePolicy
	logger logger.Logger
}

func defaultOptions() *options {
	return &options{
		policy: DefaultSavePolicy(),
		logger: logger.NewNop(),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSavePolicy 设置保存策略.
func WithSavePolicy(policy SavePolicy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// WithLogger 设置日志记录器.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.logger = logger.OrNop(log)
	}
}

// validName 校验并规整文件名，拒绝绝对路径与越出根目录的路径.
func validName(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") {
		return "", ErrInvalidName
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidName
	}
	return clean, nil
}

// alternativeName 在扩展名前插入随机串，用于避免覆盖已有文件.
func alternativeName(name string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + random.Letters(7) + ext
}

// availableName 返回不与已有文件冲突的名称.
func availableName(ctx context.Context, name string, exists func(context.Context, string) (bool, error)) (string, error) {
	candidate := name
	for {
		ok, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !ok {
			return candidate, nil
		}
		candidate = alternativeName(name)
	}
}
