package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Tsukikage7/go-sugar/logger"
)

// S3API S3Storage 依赖的客户端方法，*s3.Client 实现了该接口.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Storage S3 兼容对象存储.
type S3Storage struct {
	client S3API
	bucket string
	opts   *options
}

// NewS3Storage 创建 S3 存储.
func NewS3Storage(client S3API, bucket string, opts ...Option) *S3Storage {
	if client == nil {
		panic("storage: s3 client 不能为空")
	}
	return &S3Storage{
		client: client,
		bucket: bucket,
		opts:   applyOptions(opts),
	}
}

// NewS3Client 按配置创建 S3 客户端.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	if cfg.MaxRetries > 0 {
		loadOpts = append(loadOpts, awsconfig.WithRetryMaxAttempts(cfg.MaxRetries))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage: 加载 AWS 配置失败: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// Bucket 返回桶名.
func (s *S3Storage) Bucket() string {
	return s.bucket
}

// Save 上传对象，同名对象存在时自动改名.
func (s *S3Storage) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	key, err := validName(s.opts.policy.Name(name))
	if err != nil {
		return "", err
	}
	key, err = availableName(ctx, key, s.Exists)
	if err != nil {
		return "", err
	}

	body, size, err := seekable(content)
	if err != nil {
		return "", fmt.Errorf("storage: 读取内容失败: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType := mime.TypeByExtension(path.Ext(key)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	log := s.opts.logger.WithContext(ctx).With(
		logger.String("bucket", s.bucket),
		logger.String("key", key),
	)
	if _, err := s.client.PutObject(ctx, input); err != nil {
		log.With(logger.Err(err)).Error("[Storage] 上传对象失败")
		return "", fmt.Errorf("storage: 上传对象失败: %w", err)
	}

	log.Debug("[Storage] 对象已上传")
	return key, nil
}

// Open 下载对象.
func (s *S3Storage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key, err := validName(name)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, err
	}
	return out.Body, nil
}

// Delete 删除对象.
func (s *S3Storage) Delete(ctx context.Context, name string) error {
	key, err := validName(name)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isS3NotFound(err) {
		return err
	}
	return nil
}

// Exists 判断对象是否存在.
func (s *S3Storage) Exists(ctx context.Context, name string) (bool, error) {
	key, err := validName(name)
	if err != nil {
		return false, err
	}
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	switch {
	case err == nil:
		return true, nil
	case isS3NotFound(err):
		return false, nil
	default:
		return false, err
	}
}

func isS3NotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}

// seekable 返回可重放的内容及其长度，签名与重试需要.
func seekable(r io.Reader) (io.ReadSeeker, int64, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		cur, err := rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, 0, err
		}
		end, err := rs.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, err
		}
		if _, err := rs.Seek(cur, io.SeekStart); err != nil {
			return nil, 0, err
		}
		return rs, end - cur, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(data), int64(len(data)), nil
}
