package entity

// Book is the catalog's unit of state. Reserved may only be true
// while the book is checked out; a free book cannot be reserved.
type Book struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Available bool   `json:"available"`
	Reserved  bool   `json:"reserved"`
}
