package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"librarynet/internal/auth"
	"librarynet/internal/catalog"
	"librarynet/internal/config"
	"librarynet/internal/entity"
	"librarynet/internal/history"
	"librarynet/internal/ledger"
	"librarynet/internal/rpc"
	"librarynet/internal/workflow"
)

// app bundles the service clients a command needs.
type app struct {
	orchestrator *workflow.Orchestrator
	auth         *auth.Client
}

func newApp() *app {
	timeout := config.GetDurationEnv("RPC_TIMEOUT", config.DefaultRPCTimeout)
	newRPC := func(url string) *rpc.Client {
		return rpc.NewClient(url, rpc.WithTimeout(timeout))
	}
	return &app{
		orchestrator: workflow.New(
			catalog.NewClient(newRPC(config.GetEnv("CATALOG_URL", config.DefaultCatalogURL))),
			ledger.NewClient(newRPC(config.GetEnv("LEDGER_URL", config.DefaultLedgerURL))),
			history.NewClient(newRPC(config.GetEnv("HISTORY_URL", config.DefaultHistoryURL))),
		),
		auth: auth.NewClient(newRPC(config.GetEnv("AUTH_URL", config.DefaultAuthURL))),
	}
}

// withSession resolves the cached login and attaches it before the
// command runs.
func (a *app) withSession() error {
	user, err := currentUser()
	if err != nil {
		return err
	}
	a.orchestrator.SetUser(user)
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "library",
		Short:         "Browse, borrow, reserve and return library books",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newRegisterCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newBooksCmd(),
		newBorrowCmd(),
		newReturnCmd(),
		newReserveCmd(),
		newLoansCmd(),
		newHistoryCmd(),
		newOverdueCmd(),
	)
	return root
}

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newApp().auth.SignUp(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("Registration successful. You can now log in.")
			return nil
		},
	}
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Sign in and cache the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := newApp().auth.SignIn(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := saveSession(session{Username: args[0], Token: token}); err != nil {
				return err
			}
			fmt.Printf("Signed in as %s.\n", args[0])
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the cached session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := clearSession(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func newBooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "books [query]",
		Short: "List the catalog, or search it by title or author",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			books, err := newApp().orchestrator.Books(cmd.Context(), query)
			if err != nil {
				return err
			}
			printBooks(books)
			return nil
		},
	}
}

func newBorrowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "borrow <book-id>",
		Short: "Borrow a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("book id must be a number: %q", args[0])
			}
			a := newApp()
			if err := a.withSession(); err != nil {
				return err
			}
			books, err := a.orchestrator.Books(cmd.Context(), "")
			if err != nil {
				return err
			}
			book := entity.Book{ID: id}
			for _, b := range books {
				if b.ID == id {
					book = b
				}
			}
			dueDate, err := a.orchestrator.Borrow(cmd.Context(), book)
			if err != nil {
				return err
			}
			fmt.Printf("Borrowed %q, due %s.\n", book.Title, dueDate)
			return nil
		},
	}
}

func newReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <book-id>",
		Short: "Return a borrowed book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("book id must be a number: %q", args[0])
			}
			a := newApp()
			if err := a.withSession(); err != nil {
				return err
			}
			if err := a.orchestrator.Return(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println("Book returned.")
			return nil
		},
	}
}

func newReserveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reserve <book-id>",
		Short: "Reserve a checked-out book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("book id must be a number: %q", args[0])
			}
			if err := newApp().orchestrator.Reserve(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println("Book reserved.")
			return nil
		},
	}
}

func newLoansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "loans",
		Short: "List your active loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			if err := a.withSession(); err != nil {
				return err
			}
			records, err := a.orchestrator.BorrowedBooks(cmd.Context())
			if err != nil {
				return err
			}
			printLoans(records)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List your full borrowing history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			if err := a.withSession(); err != nil {
				return err
			}
			records, err := a.orchestrator.BorrowingHistory(cmd.Context())
			if err != nil {
				return err
			}
			printLoans(records)
			return nil
		},
	}
}

func newOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "Check for overdue loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			if err := a.withSession(); err != nil {
				return err
			}
			reply, err := a.orchestrator.OverdueBooks(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(reply.Message)
			if len(reply.OverdueBooks) > 0 {
				printLoans(reply.OverdueBooks)
			}
			return nil
		},
	}
}

func printBooks(books []entity.Book) {
	if len(books) == 0 {
		fmt.Println("No books found.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tSTATUS")
	for _, b := range books {
		status := "available"
		if !b.Available {
			status = "checked out"
			if b.Reserved {
				status += ", reserved"
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, status)
	}
	_ = w.Flush()
}

func printLoans(records []entity.LoanRecord) {
	if len(records) == 0 {
		fmt.Println("No records.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BOOK\tTITLE\tBORROWED\tDUE\tSTATUS")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.BookID, r.Title, r.BorrowedDate, r.DueDate, r.Status)
	}
	_ = w.Flush()
}
