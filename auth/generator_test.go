package auth

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomTokenGenerator(t *testing.T) {
	ctx := context.Background()

	token, err := RandomTokenGenerator[*user]{}.Generate(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, token, DefaultRandomTokenLength)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-Za-z]+$`), token)

	token, err = RandomTokenGenerator[*user]{Length: 8, Charset: "ab"}.Generate(ctx, nil)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[ab]{8}$`), token)
}

func TestHashTokenGenerator(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	g := HashTokenGenerator[*user]{
		Subject: func(u *user) string { return u.ID },
		Now:     func() time.Time { return fixed },
	}

	a, err := g.Generate(ctx, &user{ID: "1"})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), a)

	b, err := g.Generate(ctx, &user{ID: "1"})
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "每次生成包含随机 UUID")

	_, err = HashTokenGenerator[*user]{}.Generate(ctx, &user{})
	assert.Error(t, err)
}

func TestStoringTokenGenerator(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()

	g := NewStoringTokenGenerator[*user](
		RandomTokenGenerator[*user]{Length: 16},
		store,
		func(u *user) string { return u.ID },
		time.Hour,
	)

	token, err := g.Generate(ctx, &user{ID: "42"})
	require.NoError(t, err)

	subject, ok, err := store.Load(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "42", subject)

	t.Run("生成失败不写入存储", func(t *testing.T) {
		failing := TokenGeneratorFunc[*user](func(context.Context, *user) (string, error) {
			return "", errors.New("boom")
		})
		g := NewStoringTokenGenerator[*user](failing, store, func(u *user) string { return u.ID }, 0)

		before := store.Len()
		_, err := g.Generate(ctx, &user{ID: "1"})
		assert.Error(t, err)
		assert.Equal(t, before, store.Len())
	})

	t.Run("缺少依赖时 panic", func(t *testing.T) {
		assert.Panics(t, func() { NewStoringTokenGenerator[*user](nil, store, func(*user) string { return "" }, 0) })
		assert.Panics(t, func() { NewStoringTokenGenerator[*user](RandomTokenGenerator[*user]{}, nil, func(*user) string { return "" }, 0) })
		assert.Panics(t, func() { NewStoringTokenGenerator[*user](RandomTokenGenerator[*user]{}, store, nil, 0) })
	})
}

func TestOpaqueTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()
	users := map[string]*user{"7": {ID: "7", Name: "grace"}}

	g := NewStoringTokenGenerator[*user](RandomTokenGenerator[*user]{}, store, func(u *user) string { return u.ID }, time.Hour)
	finder := NewStoreUserFinder[*user](store, func(_ context.Context, subject string) (*user, bool, error) {
		u, ok := users[subject]
		return u, ok, nil
	})
	a := NewTokenBasedAuthenticator[*user](NewBearerTokenResolver(), finder)

	token, err := g.Generate(ctx, users["7"])
	require.NoError(t, err)

	result, err := a.Authenticate(ctx, bearer(token))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "grace", result.User.Name)
}
