package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// fakeProducts serves a fixed product set. Methods the cart does not use
// panic through the embedded nil interface.
type fakeProducts struct {
	catalog.ProductRepository
	byID map[uint]catalog.Product
}

func newFakeProducts(products ...catalog.Product) *fakeProducts {
	f := &fakeProducts{byID: make(map[uint]catalog.Product)}
	for _, p := range products {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProducts) FindByID(_ context.Context, id uint) (*catalog.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProducts) FindByIDs(_ context.Context, ids []uint) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeProfiles keeps profiles in memory and counts snapshot writes
type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[uint]*identity.Profile
	writes   int
	saveErr  error
}

func newFakeProfiles(userIDs ...uint) *fakeProfiles {
	f := &fakeProfiles{profiles: make(map[uint]*identity.Profile)}
	for _, id := range userIDs {
		f.profiles[id] = identity.NewProfile(id)
	}
	return f
}

func (f *fakeProfiles) FindByUserID(_ context.Context, userID uint) (*identity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) Save(_ context.Context, profile *identity.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *profile
	f.profiles[profile.UserID] = &cp
	return nil
}

func (f *fakeProfiles) SaveOldCart(_ context.Context, userID uint, oldCart *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return shared.ErrNotFound
	}
	f.writes++
	if oldCart == nil {
		p.OldCart = nil
		return nil
	}
	v := *oldCart
	p.OldCart = &v
	return nil
}

func (f *fakeProfiles) setOldCart(userID uint, snapshot string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[userID].OldCart = &snapshot
}

func (f *fakeProfiles) oldCart(userID uint) *string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[userID].OldCart
}

func product(id uint, name, price string) catalog.Product {
	p, err := catalog.NewProduct(name, decimal.RequireFromString(price), catalog.DefaultCategoryID)
	if err != nil {
		panic(err)
	}
	p.ID = id
	return *p
}
