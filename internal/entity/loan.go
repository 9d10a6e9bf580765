package entity

const (
	LoanStatusBorrowed = "borrowed"
	LoanStatusReturned = "returned"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// LoanRecord tracks one borrow of one book by one user. The ledger
// service owns these exclusively; every other component sees copies.
// A (user, book) pair is unique among records with status "borrowed".
type LoanRecord struct {
	UserID       string `json:"user_id"`
	BookID       int    `json:"book_id"`
	Title        string `json:"title"`
	BorrowedDate string `json:"borrowed_date"`
	DueDate      string `json:"due_date"`
	Status       string `json:"status"`
}

// Active reports whether the loan is still out.
func (r LoanRecord) Active() bool {
	return r.Status == LoanStatusBorrowed
}
