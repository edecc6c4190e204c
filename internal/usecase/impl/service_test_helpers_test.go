package impl

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"keystore/config"
	"keystore/internal/domain/entity"
	"keystore/internal/domain/repository"
	"keystore/internal/infra/persistence/memory"
	"keystore/internal/state"
	"keystore/internal/usecase"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	demoEmail    = "demo@keystore.test"
	demoPassword = "demo123"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	return cfg
}

// plainHasher keeps tests fast; the bcrypt hasher has its own tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "plain:" + password, nil
}

func (plainHasher) Check(password, hash string) bool {
	return hash == "plain:"+password
}

// staticCatalog is an in-memory catalog feed.
type staticCatalog struct {
	products []*entity.Product
	users    []*entity.SeedUser
}

func (c *staticCatalog) ListProducts(_ context.Context) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(c.products))
	for _, p := range c.products {
		cp := *p
		out = append(out, &cp)
	}

	return out, nil
}

func (c *staticCatalog) FindProduct(_ context.Context, id string) (*entity.Product, error) {
	for _, p := range c.products {
		if p.ID == id {
			cp := *p

			return &cp, nil
		}
	}

	return nil, repository.ErrProductNotFound
}

func (c *staticCatalog) ListPublishers(_ context.Context) ([]*entity.Publisher, error) {
	return []*entity.Publisher{{ID: "nebula", Name: "Nebula Interactive"}}, nil
}

func (c *staticCatalog) SeedUsers(_ context.Context) ([]*entity.SeedUser, error) {
	return c.users, nil
}

func newStaticCatalog() *staticCatalog {
	released := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	return &staticCatalog{
		products: []*entity.Product{
			{ID: "A", Title: "Alpha Quest", Price: 50, Discount: 10, Platform: "PC", Category: "games", Genres: []string{"RPG"}, Publisher: "Nebula Interactive", ReleaseDate: released, Rating: 4.5, Sales: 1000, Image: "/a.png"},
			{ID: "B", Title: "Beta Racer", Price: 20, Platform: "Xbox", Category: "games", Genres: []string{"Racing"}, Publisher: "Ironleaf Games", ReleaseDate: released, Rating: 4.0, Sales: 500, Image: "/b.png"},
			{ID: "C", Title: "Code Suite", Price: 100, Discount: 50, Platform: "PC", Category: "software", Genres: []string{"Productivity"}, Publisher: "Brightworks Software", ReleaseDate: released, Rating: 3.5, Sales: 200, Image: "/c.png"},
		},
		users: []*entity.SeedUser{
			{Name: "Demo Player", Email: demoEmail, Password: demoPassword},
			{Name: "Broken Seed", Email: "", Password: "x"},
		},
	}
}

type mockQRCodeService struct {
	mock.Mock
}

func (m *mockQRCodeService) GenerateRedemptionQR(productID, code string) ([]byte, error) {
	args := m.Called(productID, code)

	data, _ := args.Get(0).([]byte)

	return data, args.Error(1)
}

// testServices wires every use case against one in-memory backend.
type testServices struct {
	repo     repository.StateRepository
	notifier *state.Notifier
	provider *state.Provider
	accounts *Accounts
	catalog  *staticCatalog
	qr       *mockQRCodeService

	session  usecase.SessionUsecase
	cart     usecase.CartUsecase
	wishlist usecase.WishlistUsecase
	checkout usecase.CheckoutUsecase
}

func createTestServices(t *testing.T) *testServices {
	t.Helper()

	cfg := newTestConfig()
	logger := newDiscardLogger()
	repo := memory.NewStateRepository()
	notifier := state.NewNotifier()
	provider := state.NewProvider(state.ProviderParams{Repo: repo, Notifier: notifier, Logger: logger})
	catalogRepo := newStaticCatalog()
	accounts := NewAccounts(AccountsParams{Provider: provider, CatalogRepo: catalogRepo, Hasher: plainHasher{}, Logger: logger})
	qr := new(mockQRCodeService)

	return &testServices{
		repo:     repo,
		notifier: notifier,
		provider: provider,
		accounts: accounts,
		catalog:  catalogRepo,
		qr:       qr,
		session:  NewSessionService(SessionServiceParams{Provider: provider, Accounts: accounts, Config: cfg, Logger: logger}),
		cart:     NewCartService(CartServiceParams{Provider: provider, Accounts: accounts, CatalogRepo: catalogRepo, Logger: logger}),
		wishlist: NewWishlistService(WishlistServiceParams{Provider: provider, Accounts: accounts, CatalogRepo: catalogRepo, Logger: logger}),
		checkout: NewCheckoutService(CheckoutServiceParams{Provider: provider, Accounts: accounts, QRService: qr, Config: cfg, Logger: logger}),
	}
}

func (ts *testServices) login(t *testing.T, clientID string) *entity.UserAccount {
	t.Helper()

	user, err := ts.session.Login(context.Background(), clientID, usecase.LoginInput{Email: demoEmail, Password: demoPassword})
	require.NoError(t, err)

	return user
}

// storedAccount reads the persisted account straight from the users collection.
func (ts *testServices) storedAccount(t *testing.T, email string) entity.UserAccount {
	t.Helper()

	users, err := state.Get[[]entity.UserAccount](context.Background(), ts.provider.Shared(), state.AllUsers, nil)
	require.NoError(t, err)

	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	t.Fatalf("account %s not stored", email)

	return entity.UserAccount{}
}

func quantities(cart entity.Cart) map[string]int {
	out := make(map[string]int, len(cart))
	for _, l := range cart {
		out[l.ProductID] = l.Quantity
	}

	return out
}
