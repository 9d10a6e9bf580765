package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarynet/internal/entity"
)

func testSeed() []entity.Book {
	return []entity.Book{
		{ID: 1, Title: "The Hunger Games", Author: "Suzanne Collins", Available: true},
		{ID: 2, Title: "Dune", Author: "Frank Herbert", Available: true},
		{ID: 10, Title: "1984", Author: "George Orwell", Available: false, Reserved: true},
	}
}

// requireInvariant checks that no book is both free and reserved.
func requireInvariant(t *testing.T, s *Store) {
	t.Helper()
	for _, b := range s.List() {
		if b.Reserved {
			require.False(t, b.Available, "book %d is reserved while available", b.ID)
		}
	}
}

func findBook(t *testing.T, s *Store, id int) entity.Book {
	t.Helper()
	for _, b := range s.List() {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("book %d not in store", id)
	return entity.Book{}
}

func TestStoreBorrow(t *testing.T) {
	store := NewStore(testSeed())

	require.NoError(t, store.Borrow(2))
	assert.False(t, findBook(t, store, 2).Available)

	assert.ErrorIs(t, store.Borrow(2), ErrNotAvailable)
	assert.ErrorIs(t, store.Borrow(10), ErrNotAvailable)
	assert.ErrorIs(t, store.Borrow(99), ErrNotAvailable)
	requireInvariant(t, store)
}

func TestStoreReserve(t *testing.T) {
	tests := []struct {
		name    string
		id      int
		prep    func(*Store)
		wantErr error
	}{
		{name: "available book needs no reservation", id: 1, wantErr: ErrNoReserveNeeded},
		{name: "already reserved", id: 10, wantErr: ErrAlreadyReserved},
		{name: "missing book", id: 99, wantErr: ErrNotFound},
		{
			name: "checked-out unreserved book",
			id:   2,
			prep: func(s *Store) { require.NoError(t, s.Borrow(2)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(testSeed())
			if tt.prep != nil {
				tt.prep(store)
			}
			err := store.Reserve(tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.True(t, findBook(t, store, tt.id).Reserved)
			}
			requireInvariant(t, store)
		})
	}
}

func TestStoreReturnKeepsReservation(t *testing.T) {
	store := NewStore(testSeed())

	require.NoError(t, store.Return(10))

	book := findBook(t, store, 10)
	assert.True(t, book.Available)
	// Returning never clears a reservation; that is pinned behavior.
	assert.True(t, book.Reserved)

	assert.ErrorIs(t, store.Return(99), ErrNotFound)
}

func TestStoreSearch(t *testing.T) {
	store := NewStore(testSeed())

	tests := []struct {
		name    string
		query   string
		wantIDs []int
	}{
		{name: "empty query matches all", query: "", wantIDs: []int{1, 2, 10}},
		{name: "title substring", query: "dune", wantIDs: []int{2}},
		{name: "mixed case author", query: "ORWELL", wantIDs: []int{10}},
		{name: "no match", query: "tolstoy", wantIDs: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.Search(tt.query)
			ids := make([]int, 0, len(got))
			for _, b := range got {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestStoreListReturnsCopies(t *testing.T) {
	store := NewStore(testSeed())

	books := store.List()
	books[0].Available = false

	assert.True(t, findBook(t, store, 1).Available)
}
