package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret-with-enough-entropy"

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) last() mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

type fixture struct {
	db       *gorm.DB
	hasher   Hasher
	tokens   *TokenManager
	resets   *ResetTokenManager
	ratings  *RatingAggregator
	mail     *fakeMailer
	auth     *AuthService
	users    *UserService
	products *ProductService
	reviews  *ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{LoginTimingSafe: true}

	f := &fixture{
		db:      db,
		hasher:  NewBcryptHasher(bcrypt.MinCost),
		tokens:  NewTokenManager(testSecret, time.Hour),
		resets:  NewResetTokenManager(db, DefaultResetTokenTTL),
		ratings: NewRatingAggregator(db),
		mail:    &fakeMailer{},
	}
	f.auth = NewAuthService(db, cfg, f.hasher, f.tokens, f.resets, f.mail)
	f.users = NewUserService(db, f.hasher, f.ratings)
	f.products = NewProductService(db)
	f.reviews = NewReviewService(db, f.ratings)
	return f
}

func (f *fixture) createUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	hash, err := f.hasher.Hash("secret123")
	require.NoError(t, err)
	u := &models.User{Name: "User " + email, Email: email, Password: hash, Phone: "+905551112233", Role: role}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) createProduct(t *testing.T, title string) *models.Product {
	t.Helper()
	p := &models.Product{Title: title, Description: "desc", Price: 10, Category: "laptops"}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *fixture) averageOf(t *testing.T, p *models.Product) *float64 {
	t.Helper()
	var stored models.Product
	require.NoError(t, f.db.First(&stored, "id = ?", p.ID).Error)
	return stored.AverageRating
}

var errSMTPDown = errors.New("smtp: connection refused")
