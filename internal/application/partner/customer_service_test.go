package partner

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/domain/partner"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	shared.PasswordHashCost = bcrypt.MinCost
}

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uint) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, filter shared.Filter) ([]partner.Customer, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, zap.NewNop())
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).
			Run(func(args mock.Arguments) { args.Get(1).(*partner.Customer).ID = 11 }).
			Return(nil)

		resp, err := svc.Create(ctx, CreateCustomerRequest{
			FirstName: "Grace",
			LastName:  "Hopper",
			Phone:     "5550100",
			Email:     "grace@example.com",
			Password:  "cobol-rules",
		})
		require.NoError(t, err)
		assert.Equal(t, uint(11), resp.ID)
		assert.Equal(t, "Grace Hopper", resp.Name)
		assert.True(t, resp.HasPassword)

		saved := repo.Calls[0].Arguments.Get(1).(*partner.Customer)
		assert.NotEqual(t, "cobol-rules", saved.PasswordHash)
		assert.True(t, saved.VerifyPassword("cobol-rules"))
	})

	t.Run("invalid contact is not saved", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, zap.NewNop())

		_, err := svc.Create(ctx, CreateCustomerRequest{FirstName: "Grace", LastName: "Hopper", Phone: "555010012345"})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, zap.NewNop())

	existing, err := partner.NewCustomer("Grace", "Hopper", "", "grace@example.com", "old-secret")
	require.NoError(t, err)
	existing.ID = 4
	repo.On("FindByID", ctx, uint(4)).Return(existing, nil)
	repo.On("Save", ctx, existing).Return(nil)

	phone := "5559999"
	password := "new-secret"
	resp, err := svc.Update(ctx, 4, UpdateCustomerRequest{Phone: &phone, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "5559999", resp.Phone)
	assert.Equal(t, "grace@example.com", resp.Email)
	assert.True(t, existing.VerifyPassword("new-secret"))

	repo.On("FindByID", ctx, uint(5)).Return(nil, shared.ErrNotFound)
	_, err = svc.Update(ctx, 5, UpdateCustomerRequest{Phone: &phone})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, zap.NewNop())

	expected := shared.Filter{Page: 1, PageSize: 20, Search: "hop"}
	repo.On("List", ctx, expected).Return([]partner.Customer{{FirstName: "Grace", LastName: "Hopper"}}, int64(1), nil)

	customers, total, err := svc.List(ctx, CustomerListFilter{Search: "  hop "})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, customers, 1)
	assert.Equal(t, "Grace Hopper", customers[0].Name)
	assert.False(t, customers[0].HasPassword)
}
