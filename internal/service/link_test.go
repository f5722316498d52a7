package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shortlyhq/shortly/internal/entity"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type MockLinkRepository struct {
	mock.Mock
}

func (r *MockLinkRepository) Create(ctx context.Context, params CreateLinkParams) (*entity.Link, error) {
	args := r.Called(ctx, params)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) GetByShortID(ctx context.Context, shortID string) (*entity.Link, error) {
	args := r.Called(ctx, shortID)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) IncrementClicks(ctx context.Context, shortID string) (*entity.Link, error) {
	args := r.Called(ctx, shortID)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) ListByOwner(ctx context.Context, ownerID int64) ([]entity.Link, error) {
	args := r.Called(ctx, ownerID)
	links, _ := args.Get(0).([]entity.Link)
	return links, args.Error(1)
}

func (r *MockLinkRepository) Delete(ctx context.Context, shortID string) error {
	args := r.Called(ctx, shortID)
	return args.Error(0)
}

type LinkServiceTestSuite struct {
	suite.Suite
	errUnknown error
	repoMock   *MockLinkRepository
	svc        *LinkService
}

func (suite *LinkServiceTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
}

func (suite *LinkServiceTestSuite) SetupSubTest() {
	suite.repoMock = new(MockLinkRepository)
	suite.svc = NewLinkService(suite.repoMock, 6)
}

func (suite *LinkServiceTestSuite) TearDownSubTest() {
	suite.repoMock.AssertExpectations(suite.T())
}

func (suite *LinkServiceTestSuite) TestShorten() {
	suite.Run("missing original url", func() {
		link, err := suite.svc.Shorten(context.Background(), ShortenInput{})

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrOriginalURLRequired)
		suite.Nil(link)
	})

	suite.Run("custom short id conflict", func() {
		suite.repoMock.
			On("Create", context.Background(), mock.Anything).
			Once().
			Return(nil, entity.ErrShortIDExists)

		link, err := suite.svc.Shorten(context.Background(), ShortenInput{
			OriginalURL:   "https://example.com",
			CustomShortID: "mylink",
		})

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrShortIDExists)
		suite.Nil(link)
	})

	suite.Run("custom short id success", func() {
		var captured CreateLinkParams

		suite.repoMock.
			On("Create", context.Background(), mock.Anything).
			Once().
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(CreateLinkParams)
			}).
			Return(&entity.Link{
				ShortID:     "mylink",
				OriginalURL: "https://example.com",
			}, nil)

		link, err := suite.svc.Shorten(context.Background(), ShortenInput{
			OriginalURL:   "https://example.com",
			CustomShortID: "mylink",
		})

		suite.NoError(err)
		suite.NotNil(link)
		suite.Equal("mylink", captured.ShortID)
		suite.Empty(captured.PasswordHash)
		suite.WithinDuration(time.Now().Add(30*24*time.Hour), captured.ExpiresAt, time.Minute)
	})

	suite.Run("generated short id retried on collision", func() {
		seen := make(map[string]struct{})

		suite.repoMock.
			On("Create", context.Background(), mock.Anything).
			Times(2).
			Run(func(args mock.Arguments) {
				params := args.Get(1).(CreateLinkParams)
				seen[params.ShortID] = struct{}{}
			}).
			Return(nil, entity.ErrShortIDExists)
		suite.repoMock.
			On("Create", context.Background(), mock.Anything).
			Once().
			Return(&entity.Link{
				ShortID:     "abc123",
				OriginalURL: "https://example.com",
			}, nil)

		link, err := suite.svc.Shorten(context.Background(), ShortenInput{
			OriginalURL: "https://example.com",
		})

		suite.NoError(err)
		suite.NotNil(link)
		suite.Len(seen, 2)
	})

	suite.Run("maximum retries error", func() {
		suite.repoMock.
			On("Create", context.Background(), mock.Anything).
			Times(5).
			Return(nil, entity.ErrShortIDExists)

		link, err := suite.svc.Shorten(context.Background(), ShortenInput{
			OriginalURL: "https://example.com",
		})

		suite.Error(err)
		suite.ErrorIs(err, ErrMaxRetriesExceeded)
		suite.Nil(link)
	})

	suite.Run("password is stored hashed", func() {
		var captured CreateLinkParams

		suite.repoMock.
			On("Create", context.Background(), mock.Anything).
			Once().
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(CreateLinkParams)
			}).
			Return(&entity.Link{
				ShortID:             "abc123",
				OriginalURL:         "https://example.com",
				IsPasswordProtected: true,
			}, nil)

		link, err := suite.svc.Shorten(context.Background(), ShortenInput{
			OriginalURL: "https://example.com",
			Password:    "secret",
		})

		suite.NoError(err)
		suite.NotNil(link)
		suite.NotEmpty(captured.PasswordHash)
		suite.NotEqual("secret", captured.PasswordHash)
		suite.NoError(bcrypt.CompareHashAndPassword([]byte(captured.PasswordHash), []byte("secret")))
	})

	suite.Run("explicit expiry", func() {
		var captured CreateLinkParams

		suite.repoMock.
			On("Create", context.Background(), mock.Anything).
			Once().
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(CreateLinkParams)
			}).
			Return(&entity.Link{
				ShortID:     "abc123",
				OriginalURL: "https://example.com",
			}, nil)

		link, err := suite.svc.Shorten(context.Background(), ShortenInput{
			OriginalURL:   "https://example.com",
			ExpiresInDays: 1,
		})

		suite.NoError(err)
		suite.NotNil(link)
		suite.WithinDuration(time.Now().Add(24*time.Hour), captured.ExpiresAt, time.Minute)
	})

	suite.Run("unknown error", func() {
		suite.repoMock.
			On("Create", context.Background(), mock.Anything).
			Once().
			Return(nil, suite.errUnknown)

		link, err := suite.svc.Shorten(context.Background(), ShortenInput{
			OriginalURL: "https://example.com",
		})

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(link)
	})
}

func (suite *LinkServiceTestSuite) TestResolve() {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	suite.Require().NoError(err)

	protectedLink := func() *entity.Link {
		return &entity.Link{
			ShortID:             "abc123",
			OriginalURL:         "https://example.com",
			IsPasswordProtected: true,
			PasswordHash:        string(hash),
			ExpiresAt:           time.Now().Add(time.Hour),
		}
	}

	suite.Run("link not found", func() {
		suite.repoMock.
			On("GetByShortID", context.Background(), "abc123").
			Once().
			Return(nil, entity.ErrLinkNotFound)

		link, err := suite.svc.Resolve(context.Background(), "abc123", "")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrLinkNotFound)
		suite.Nil(link)
	})

	suite.Run("expired link never resolves", func() {
		suite.repoMock.
			On("GetByShortID", context.Background(), "abc123").
			Once().
			Return(&entity.Link{
				ShortID:     "abc123",
				OriginalURL: "https://example.com",
				ExpiresAt:   time.Now().Add(-time.Second),
			}, nil)

		link, err := suite.svc.Resolve(context.Background(), "abc123", "")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrLinkExpired)
		suite.Nil(link)
		suite.repoMock.AssertNotCalled(suite.T(), "IncrementClicks", mock.Anything, mock.Anything)
	})

	suite.Run("expired wins over password", func() {
		expired := protectedLink()
		expired.ExpiresAt = time.Now().Add(-time.Second)

		suite.repoMock.
			On("GetByShortID", context.Background(), "abc123").
			Once().
			Return(expired, nil)

		link, err := suite.svc.Resolve(context.Background(), "abc123", "secret")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrLinkExpired)
		suite.Nil(link)
	})

	suite.Run("password required", func() {
		suite.repoMock.
			On("GetByShortID", context.Background(), "abc123").
			Once().
			Return(protectedLink(), nil)

		link, err := suite.svc.Resolve(context.Background(), "abc123", "")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrPasswordRequired)
		suite.Nil(link)
		suite.repoMock.AssertNotCalled(suite.T(), "IncrementClicks", mock.Anything, mock.Anything)
	})

	suite.Run("invalid password", func() {
		suite.repoMock.
			On("GetByShortID", context.Background(), "abc123").
			Once().
			Return(protectedLink(), nil)

		link, err := suite.svc.Resolve(context.Background(), "abc123", "wrong")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrInvalidPassword)
		suite.Nil(link)
		suite.repoMock.AssertNotCalled(suite.T(), "IncrementClicks", mock.Anything, mock.Anything)
	})

	suite.Run("correct password increments clicks", func() {
		resolved := protectedLink()
		resolved.Clicks = 1

		suite.repoMock.
			On("GetByShortID", context.Background(), "abc123").
			Once().
			Return(protectedLink(), nil)
		suite.repoMock.
			On("IncrementClicks", context.Background(), "abc123").
			Once().
			Return(resolved, nil)

		link, err := suite.svc.Resolve(context.Background(), "abc123", "secret")

		suite.NoError(err)
		suite.NotNil(link)
		suite.Equal("https://example.com", link.OriginalURL)
		suite.Equal(int64(1), link.Clicks)
	})

	suite.Run("unprotected link resolves without password", func() {
		suite.repoMock.
			On("GetByShortID", context.Background(), "abc123").
			Once().
			Return(&entity.Link{
				ShortID:     "abc123",
				OriginalURL: "https://example.com",
				ExpiresAt:   time.Now().Add(time.Hour),
			}, nil)
		suite.repoMock.
			On("IncrementClicks", context.Background(), "abc123").
			Once().
			Return(&entity.Link{
				ShortID:     "abc123",
				OriginalURL: "https://example.com",
				Clicks:      1,
				ExpiresAt:   time.Now().Add(time.Hour),
			}, nil)

		link, err := suite.svc.Resolve(context.Background(), "abc123", "")

		suite.NoError(err)
		suite.NotNil(link)
		suite.Equal(int64(1), link.Clicks)
	})
}

func (suite *LinkServiceTestSuite) TestInfo() {
	suite.Run("link not found", func() {
		suite.repoMock.
			On("GetByShortID", context.Background(), "abc123").
			Once().
			Return(nil, entity.ErrLinkNotFound)

		link, err := suite.svc.Info(context.Background(), "abc123")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrLinkNotFound)
		suite.Nil(link)
	})

	suite.Run("success does not touch clicks", func() {
		suite.repoMock.
			On("GetByShortID", context.Background(), "abc123").
			Once().
			Return(&entity.Link{
				ShortID:     "abc123",
				OriginalURL: "https://example.com",
				Clicks:      7,
			}, nil)

		link, err := suite.svc.Info(context.Background(), "abc123")

		suite.NoError(err)
		suite.NotNil(link)
		suite.Equal(int64(7), link.Clicks)
		suite.repoMock.AssertNotCalled(suite.T(), "IncrementClicks", mock.Anything, mock.Anything)
	})
}

func (suite *LinkServiceTestSuite) TestListByOwner() {
	suite.Run("unknown error", func() {
		suite.repoMock.
			On("ListByOwner", context.Background(), int64(1)).
			Once().
			Return(nil, suite.errUnknown)

		links, err := suite.svc.ListByOwner(context.Background(), 1)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(links)
	})

	suite.Run("success preserves order", func() {
		suite.repoMock.
			On("ListByOwner", context.Background(), int64(1)).
			Once().
			Return([]entity.Link{
				{ShortID: "new"},
				{ShortID: "old"},
			}, nil)

		links, err := suite.svc.ListByOwner(context.Background(), 1)

		suite.NoError(err)
		suite.Len(links, 2)
		suite.Equal("new", links[0].ShortID)
		suite.Equal("old", links[1].ShortID)
	})
}

func (suite *LinkServiceTestSuite) TestDelete() {
	ownerID := int64(1)

	suite.Run("link not found", func() {
		suite.repoMock.
			On("GetByShortID", context.Background(), "abc123").
			Once().
			Return(nil, entity.ErrLinkNotFound)

		err := suite.svc.Delete(context.Background(), ownerID, "abc123")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrLinkNotFound)
	})

	suite.Run("not the owner", func() {
		otherID := int64(2)

		suite.repoMock.
			On("GetByShortID", context.Background(), "abc123").
			Once().
			Return(&entity.Link{
				ShortID: "abc123",
				OwnerID: &otherID,
			}, nil)

		err := suite.svc.Delete(context.Background(), ownerID, "abc123")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrNotLinkOwner)
		suite.repoMock.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything)
	})

	suite.Run("anonymous link has no owner", func() {
		suite.repoMock.
			On("GetByShortID", context.Background(), "abc123").
			Once().
			Return(&entity.Link{
				ShortID: "abc123",
			}, nil)

		err := suite.svc.Delete(context.Background(), ownerID, "abc123")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrNotLinkOwner)
	})

	suite.Run("success", func() {
		suite.repoMock.
			On("GetByShortID", context.Background(), "abc123").
			Once().
			Return(&entity.Link{
				ShortID: "abc123",
				OwnerID: &ownerID,
			}, nil)
		suite.repoMock.
			On("Delete", context.Background(), "abc123").
			Once().
			Return(nil)

		err := suite.svc.Delete(context.Background(), ownerID, "abc123")

		suite.NoError(err)
	})
}

func TestLinkService(t *testing.T) {
	suite.Run(t, new(LinkServiceTestSuite))
}
