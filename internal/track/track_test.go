package track

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"priceping/internal/model"
)

// fakeStore backs ProductStore and HistoryStore with a map, mimicking the
// (user_id, url) unique constraint.
type fakeStore struct {
	mu       sync.Mutex
	seq      int
	products map[string]*model.Product // by id
	history  []model.PriceHistory

	listErr   error
	updateErr map[string]error // by product id
	insertErr map[string]error // history, by product id
}

func newFakeStore(products ...model.Product) *fakeStore {
	s := &fakeStore{
		products:  make(map[string]*model.Product),
		updateErr: make(map[string]error),
		insertErr: make(map[string]error),
	}
	for i := range products {
		p := products[i]
		s.products[p.ID] = &p
	}
	return s
}

func (s *fakeStore) ListAll(ctx context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []model.Product
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakeStore) GetByUserAndURL(ctx context.Context, userID, url string) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.UserID == userID && p.URL == url {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) Upsert(ctx context.Context, in *model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.UserID == in.UserID && p.URL == in.URL {
			p.Name = in.Name
			if in.ImageURL != "" {
				p.ImageURL = in.ImageURL
			}
			p.CurrentPrice = in.CurrentPrice
			p.Currency = in.Currency
			cp := *p
			return &cp, nil
		}
	}
	s.seq++
	p := *in
	p.ID = fmt.Sprintf("p%d", s.seq)
	s.products[p.ID] = &p
	cp := p
	return &cp, nil
}

func (s *fakeStore) UpdatePrice(ctx context.Context, id string, price decimal.Decimal, currency, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.updateErr[id]; err != nil {
		return err
	}
	p, ok := s.products[id]
	if !ok {
		return fmt.Errorf("no product %s", id)
	}
	p.CurrentPrice = price
	p.Currency = currency
	if imageURL != "" {
		p.ImageURL = imageURL
	}
	return nil
}

func (s *fakeStore) Insert(ctx context.Context, productID string, price decimal.Decimal, currency string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.insertErr[productID]; err != nil {
		return err
	}
	s.history = append(s.history, model.PriceHistory{
		ID:        fmt.Sprintf("h%d", len(s.history)+1),
		ProductID: productID,
		Price:     price,
		Currency:  currency,
	})
	return nil
}

func (s *fakeStore) historyFor(productID string) []model.PriceHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.PriceHistory
	for _, h := range s.history {
		if h.ProductID == productID {
			out = append(out, h)
		}
	}
	return out
}

type fakeUsers map[string]string

func (u fakeUsers) GetEmail(ctx context.Context, userID string) (string, error) {
	return u[userID], nil
}

type fakeExtractor struct {
	mu    sync.Mutex
	recs  map[string]*model.ExtractedProduct // by url
	errs  map[string]error                   // by url
	calls []string
}

func (f *fakeExtractor) Extract(ctx context.Context, url string) (*model.ExtractedProduct, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	if rec, ok := f.recs[url]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, fmt.Errorf("no extraction stubbed for %s", url)
}

type alertCall struct {
	to                 string
	productID          string
	oldPrice, newPrice decimal.Decimal
}

type fakeNotifier struct {
	mu    sync.Mutex
	err   error
	calls []alertCall
}

func (f *fakeNotifier) SendPriceDropAlert(ctx context.Context, to string, product *model.Product, oldPrice, newPrice decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, alertCall{to: to, productID: product.ID, oldPrice: oldPrice, newPrice: newPrice})
	return f.err
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func trackedProduct(id, userID, url, priceStr string) model.Product {
	return model.Product{
		ID:           id,
		UserID:       userID,
		URL:          url,
		Name:         "Product " + id,
		CurrentPrice: dec(priceStr),
		Currency:     "INR",
	}
}
