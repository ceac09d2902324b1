package orders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/latavola/ordering/internal/config"
)

type placedOrder struct {
	userID int64
	total  float64
	items  []OrderItem
}

// fakeStore satisfies the Store contract: a call either records the whole
// order or records nothing.
type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]placedOrder

	// failOnItem > 0 simulates a storage failure while inserting the Nth
	// item; per the contract the transaction aborts and nothing persists.
	failOnItem int
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: make(map[int64]placedOrder)}
}

func (f *fakeStore) CreateOrder(_ context.Context, userID int64, total float64, items []OrderItem) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOnItem > 0 && len(items) >= f.failOnItem {
		return 0, errors.New("connection reset during item insert")
	}
	f.nextID++
	f.orders[f.nextID] = placedOrder{userID: userID, total: total, items: items}
	return f.nextID, nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

type fakeIdentity struct {
	known map[int64]bool
}

func (f *fakeIdentity) UserExists(_ context.Context, id int64) (bool, error) {
	return f.known[id], nil
}

type fakeCatalog struct {
	prices map[int64]float64
}

func (f *fakeCatalog) PricesFor(_ context.Context, ids []int64) (map[int64]float64, error) {
	out := make(map[int64]float64)
	for _, id := range ids {
		if p, ok := f.prices[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func newTestEngine(store *fakeStore, mode config.PriceCheckMode) *Engine {
	identity := &fakeIdentity{known: map[int64]bool{1: true, 2: true}}
	cat := &fakeCatalog{prices: map[int64]float64{1: 150, 2: 450}}
	return NewEngine(store, identity, cat, mode)
}

func TestPlaceOrder_Success(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store, config.PriceCheckTotal)

	req := &CreateOrderRequest{
		UserID: 1,
		Items: []LineItem{
			{ID: 1, Quantity: 2, Price: 150},
			{ID: 2, Quantity: 1, Price: 450},
		},
		TotalAmount: 750,
	}
	orderID, err := engine.PlaceOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}
	if orderID == 0 {
		t.Fatal("expected non-zero order id")
	}

	placed := store.orders[orderID]
	if placed.userID != 1 {
		t.Errorf("userID = %d, want 1", placed.userID)
	}
	if placed.total != 750 {
		t.Errorf("total = %v, want 750", placed.total)
	}
	if len(placed.items) != 2 {
		t.Fatalf("items = %d, want 2", len(placed.items))
	}
	// Items keep submission order and snapshot the submitted unit price.
	if placed.items[0].ItemID != 1 || placed.items[0].Price != 150 {
		t.Errorf("first item = %+v", placed.items[0])
	}
	if placed.items[1].ItemID != 2 || placed.items[1].Quantity != 1 {
		t.Errorf("second item = %+v", placed.items[1])
	}
}

func TestPlaceOrder_ValidationFailureWritesNothing(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store, config.PriceCheckTotal)

	reqs := []*CreateOrderRequest{
		{UserID: 1, Items: nil, TotalAmount: 0},
		{UserID: 1, Items: []LineItem{{ID: 1, Quantity: -1, Price: 150}}, TotalAmount: -150},
		{UserID: 1, Items: []LineItem{{ID: 1, Quantity: 2, Price: 150}}, TotalAmount: 1000},
	}
	for _, req := range reqs {
		if _, err := engine.PlaceOrder(context.Background(), req); err == nil {
			t.Errorf("PlaceOrder(%+v) expected error", req)
		}
	}
	if store.count() != 0 {
		t.Errorf("store has %d orders, want 0", store.count())
	}
}

func TestPlaceOrder_UnknownUser(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store, config.PriceCheckTotal)

	req := &CreateOrderRequest{
		UserID:      99,
		Items:       []LineItem{{ID: 1, Quantity: 1, Price: 150}},
		TotalAmount: 150,
	}
	_, err := engine.PlaceOrder(context.Background(), req)
	var re ReferenceError
	if !errors.As(err, &re) {
		t.Fatalf("expected ReferenceError, got %v", err)
	}
	if re.Entity != "user" || re.ID != 99 {
		t.Errorf("ReferenceError = %+v", re)
	}
	if store.count() != 0 {
		t.Errorf("store has %d orders, want 0", store.count())
	}
}

func TestPlaceOrder_StorageFailureLeavesNothing(t *testing.T) {
	store := newFakeStore()
	store.failOnItem = 2
	engine := newTestEngine(store, config.PriceCheckTotal)

	req := &CreateOrderRequest{
		UserID: 1,
		Items: []LineItem{
			{ID: 1, Quantity: 2, Price: 150},
			{ID: 2, Quantity: 1, Price: 450},
		},
		TotalAmount: 750,
	}
	_, err := engine.PlaceOrder(context.Background(), req)
	if err == nil {
		t.Fatal("expected error from injected storage failure")
	}
	if IsClientError(err) {
		t.Errorf("storage failure classified as client error: %v", err)
	}
	if store.count() != 0 {
		t.Errorf("store has %d orders, want 0", store.count())
	}
}

func TestPlaceOrder_CatalogPriceCheck(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store, config.PriceCheckCatalog)

	// Price drifted from the catalog's 150.
	req := &CreateOrderRequest{
		UserID:      1,
		Items:       []LineItem{{ID: 1, Quantity: 1, Price: 1.00}},
		TotalAmount: 1.00,
	}
	_, err := engine.PlaceOrder(context.Background(), req)
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// Unknown item id.
	req = &CreateOrderRequest{
		UserID:      1,
		Items:       []LineItem{{ID: 42, Quantity: 1, Price: 5.00}},
		TotalAmount: 5.00,
	}
	_, err = engine.PlaceOrder(context.Background(), req)
	var re ReferenceError
	if !errors.As(err, &re) {
		t.Fatalf("expected ReferenceError, got %v", err)
	}

	// Exact catalog price goes through.
	req = &CreateOrderRequest{
		UserID:      1,
		Items:       []LineItem{{ID: 1, Quantity: 1, Price: 150}},
		TotalAmount: 150,
	}
	if _, err := engine.PlaceOrder(context.Background(), req); err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}
	if store.count() != 1 {
		t.Errorf("store has %d orders, want 1", store.count())
	}
}

func TestPlaceOrder_ConcurrentDisjointCarts(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store, config.PriceCheckTotal)

	carts := []*CreateOrderRequest{
		{UserID: 1, Items: []LineItem{{ID: 1, Quantity: 2, Price: 150}}, TotalAmount: 300},
		{UserID: 1, Items: []LineItem{{ID: 2, Quantity: 3, Price: 450}}, TotalAmount: 1350},
	}

	var wg sync.WaitGroup
	ids := make([]int64, len(carts))
	errs := make([]error, len(carts))
	for i, cart := range carts {
		wg.Add(1)
		go func(i int, cart *CreateOrderRequest) {
			defer wg.Done()
			ids[i], errs[i] = engine.PlaceOrder(context.Background(), cart)
		}(i, cart)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("cart %d: PlaceOrder() error = %v", i, err)
		}
	}
	if ids[0] == ids[1] {
		t.Fatalf("both carts got order id %d", ids[0])
	}

	// No cross-contamination: each committed order holds exactly its own
	// submission.
	for i, cart := range carts {
		placed := store.orders[ids[i]]
		if len(placed.items) != len(cart.Items) {
			t.Fatalf("cart %d: %d items, want %d", i, len(placed.items), len(cart.Items))
		}
		for j, it := range cart.Items {
			got := placed.items[j]
			if got.ItemID != it.ID || got.Quantity != it.Quantity || got.Price != it.Price {
				t.Errorf("cart %d item %d = %+v, want %+v", i, j, got, it)
			}
		}
	}
}
