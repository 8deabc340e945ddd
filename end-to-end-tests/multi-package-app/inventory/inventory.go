package inventory

// Store tracks stock levels per item.
type Store struct {
	stock map[string]int
}

func NewStore() *Store {
	return &Store{stock: map[string]int{}}
}

// Add increases the stock level of an item.
func (s *Store) Add(item string, n int) {
	s.stock[item] += n
}

// Count returns the stock level of an item.
//
// Deprecated: use Level, which distinguishes unknown items from empty stock.
func (s *Store) Count(item string) int {
	return s.stock[item]
}

// Level returns the stock level of an item and whether the item is known.
func (s *Store) Level(item string) (int, bool) {
	n, ok := s.stock[item]
	return n, ok
}
