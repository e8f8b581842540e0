// Command donortrack is a terminal front-end for the DonorTrack backend:
// log in, browse and filter the donators list, add and edit records, view
// summary totals, and download the PDF report.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"donortrack"
	"donortrack/filter"
	"donortrack/internal/config"
	"donortrack/internal/form"
	"donortrack/internal/logging"
	"donortrack/internal/session"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	app := &app{
		cfg:    cfg,
		logger: logger,
		store:  session.NewStore(cfg.SessionFile),
	}

	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "login":
		err = app.login(ctx, os.Args[2:])
	case "logout":
		err = app.logout()
	case "list":
		err = app.list(ctx, os.Args[2:])
	case "add":
		err = app.add(ctx, os.Args[2:])
	case "edit":
		err = app.edit(ctx, os.Args[2:])
	case "summary":
		err = app.summary(ctx)
	case "report":
		err = app.report(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error().Err(err).Str("command", os.Args[1]).Msg("command failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: donortrack <command> [flags]

commands:
  login    authenticate and store the session
  logout   discard the stored session
  list     list donators with filtering and sorting
  add      add a donator, optionally with an initial donation
  edit     edit a donator or one of their donations
  summary  show aggregate donation totals
  report   download the donations report PDF`)
}

type app struct {
	cfg    config.Config
	logger zerolog.Logger
	store  *session.Store
}

// clientOptions assembles the options shared by every command.
func (a *app) clientOptions(token string) []donortrack.ClientOption {
	opts := []donortrack.ClientOption{
		donortrack.WithHTTPClient(&http.Client{Timeout: a.cfg.HTTPTimeout}),
		donortrack.WithLogger(a.logger),
	}
	if a.cfg.APIURL != "" {
		opts = append(opts, donortrack.WithBaseURL(a.cfg.APIURL))
	}
	if a.cfg.Retry {
		opts = append(opts, donortrack.WithRetry())
	}
	if token != "" {
		opts = append(opts, donortrack.WithToken(token))
	}
	return opts
}

// authedClient builds a client from the stored session, refusing to proceed
// when there is no session or its token has expired.
func (a *app) authedClient() (donortrack.Client, error) {
	sess, err := a.store.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, errors.New("not logged in, run: donortrack login")
		}
		return nil, err
	}

	if sess.Expired() {
		return nil, errors.New("session expired, run: donortrack login")
	}

	return donortrack.NewClient(a.clientOptions(sess.Token)...)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	fs.Parse(args)

	if *email == "" {
		return errors.New("missing -email")
	}

	fmt.Fprint(os.Stderr, "password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password = strings.TrimSpace(password)

	client, err := donortrack.NewClient(a.clientOptions("")...)
	if err != nil {
		return err
	}

	sess, err := client.Login(ctx, *email, password)
	if err != nil {
		return err
	}

	if err := a.store.Save(sess); err != nil {
		return err
	}

	a.logger.Info().Str("user", sess.User.Name).Str("role", sess.User.Role).Msg("logged in")
	return nil
}

func (a *app) logout() error {
	if err := a.store.Clear(); err != nil {
		return err
	}
	a.logger.Info().Msg("logged out")
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "match name, phone or address")
	status := fs.String("status", "", "PAID, PARTIAL or PENDING")
	amount := fs.String("amount", "", "SMALL, MEDIUM, LARGE or CUSTOM")
	minAmount := fs.String("min", "", "custom range lower bound")
	maxAmount := fs.String("max", "", "custom range upper bound")
	balance := fs.String("balance", "", "ZERO, LOW, MEDIUM or HIGH")
	addedBy := fs.String("added-by", "", "staff member who recorded a donation")
	count := fs.String("count", "", "SINGLE or MULTIPLE")
	priority := fs.String("priority", "", "HIGH_PRIORITY or LOW_PRIORITY")
	sortBy := fs.String("sort", string(filter.SortNameAsc), "name_asc, name_desc, amount_asc, amount_desc, balance_asc, balance_desc or donations_count")
	fs.Parse(args)

	state := filter.NewState()
	state.Search = *search
	state.MinAmount = *minAmount
	state.MaxAmount = *maxAmount
	state.AddedBy = *addedBy
	state.SortBy = filter.SortKey(strings.ToLower(*sortBy))
	if *status != "" {
		state.Status = filter.Status(strings.ToUpper(*status))
	}
	if *amount != "" {
		state.AmountRange = filter.AmountRange(strings.ToUpper(*amount))
	}
	if *balance != "" {
		state.BalanceRange = filter.BalanceRange(strings.ToUpper(*balance))
	}
	if *count != "" {
		state.DonationCount = filter.CountFilter(strings.ToUpper(*count))
	}
	if *priority != "" {
		state.Priority = filter.Priority(strings.ToUpper(*priority))
	}

	client, err := a.authedClient()
	if err != nil {
		return err
	}

	donators, err := client.ListDonators(ctx, 0, 0)
	if err != nil {
		return err
	}

	result := filter.New().Apply(donators, state)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPHONE\tAMOUNT\tPAID\tBALANCE\tSTATUS\tPROGRESS\tDONATIONS")
	for _, row := range result.Rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%.2f\t%.2f\t%s\t%.0f%%\t%d\n",
			row.Donator.ID,
			row.Donator.Name,
			row.Donator.Phone,
			row.Metrics.TotalAmount,
			row.Metrics.TotalPaid,
			row.Metrics.TotalBalance,
			row.Metrics.Status,
			filter.ProgressPercent(row.Metrics),
			len(row.Donator.Donations),
		)
	}
	w.Flush()

	fmt.Printf("%d donators, %d filters active\n", len(result.Rows), result.ActiveFilters)
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "donator name (required)")
	phone := fs.String("phone", "", "phone number")
	address := fs.String("address", "", "address")
	email := fs.String("email", "", "email address")
	amount := fs.Float64("amount", 0, "initial donation amount")
	paid := fs.Float64("paid", 0, "amount already paid")
	method := fs.String("method", donortrack.PaymentNotDone, "payment method: Cash, Online or 'Not Done'")
	book := fs.String("book", "", "receipt book number")
	fs.Parse(args)

	if err := form.Validate(form.DonatorForm{
		Name:    *name,
		Phone:   *phone,
		Address: *address,
		Email:   *email,
	}); err != nil {
		return err
	}

	donator := donortrack.Donator{
		Name:    strings.TrimSpace(*name),
		Phone:   *phone,
		Address: *address,
		Email:   *email,
	}

	if *amount > 0 || *paid > 0 {
		if err := form.Validate(form.DonationForm{
			Amount:        *amount,
			PaidAmount:    *paid,
			PaymentMethod: *method,
			BookNumber:    *book,
		}); err != nil {
			return err
		}
		donator.Donations = []donortrack.Donation{{
			Amount:        *amount,
			PaidAmount:    *paid,
			PaymentMethod: *method,
			BookNumber:    *book,
		}}
	}

	client, err := a.authedClient()
	if err != nil {
		return err
	}

	saved, err := client.SaveDonator(ctx, donator)
	if err != nil {
		return err
	}

	a.logger.Info().Int("id", saved.ID).Str("name", saved.Name).Msg("donator created")
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.Int("id", 0, "donator id (required)")
	name := fs.String("name", "", "new name")
	phone := fs.String("phone", "", "new phone number")
	address := fs.String("address", "", "new address")
	email := fs.String("email", "", "new email address")
	donationID := fs.Int("donation-id", 0, "donation to update")
	amount := fs.Float64("amount", -1, "new donation amount")
	paid := fs.Float64("paid", -1, "new paid amount")
	method := fs.String("method", "", "new payment method")
	fs.Parse(args)

	if *id == 0 {
		return errors.New("missing -id")
	}

	client, err := a.authedClient()
	if err != nil {
		return err
	}

	donator, err := client.FindDonator(ctx, *id)
	if err != nil {
		return err
	}

	if *donationID != 0 {
		return a.editDonation(ctx, client, donator, *donationID, *amount, *paid, *method)
	}

	if *name != "" {
		donator.Name = *name
	}
	if *phone != "" {
		donator.Phone = *phone
	}
	if *address != "" {
		donator.Address = *address
	}
	if *email != "" {
		donator.Email = *email
	}

	if err := form.Validate(form.DonatorForm{
		Name:    donator.Name,
		Phone:   donator.Phone,
		Address: donator.Address,
		Email:   donator.Email,
	}); err != nil {
		return err
	}

	saved, err := client.SaveDonator(ctx, donator)
	if err != nil {
		return err
	}

	a.logger.Info().Int("id", saved.ID).Msg("donator updated")
	return nil
}

func (a *app) editDonation(ctx context.Context, client donortrack.Client, donator donortrack.Donator, donationID int, amount, paid float64, method string) error {
	var donation *donortrack.Donation
	for i := range donator.Donations {
		if donator.Donations[i].ID == donationID {
			donation = &donator.Donations[i]
			break
		}
	}
	if donation == nil {
		return fmt.Errorf("donator %d has no donation %d", donator.ID, donationID)
	}

	if amount >= 0 {
		donation.Amount = amount
	}
	if paid >= 0 {
		donation.PaidAmount = paid
	}
	if method != "" {
		donation.PaymentMethod = method
	}

	if err := form.Validate(form.DonationForm{
		Amount:        donation.Amount,
		PaidAmount:    donation.PaidAmount,
		PaymentMethod: donation.PaymentMethod,
		BookNumber:    donation.BookNumber,
	}); err != nil {
		return err
	}

	saved, err := client.SaveDonation(ctx, donator.ID, *donation)
	if err != nil {
		return err
	}

	a.logger.Info().Int("donator_id", donator.ID).Int("donation_id", saved.ID).Msg("donation updated")
	return nil
}

func (a *app) summary(ctx context.Context) error {
	client, err := a.authedClient()
	if err != nil {
		return err
	}

	summary, err := client.Summary(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "donators\t%d\n", summary.TotalDonators)
	fmt.Fprintf(w, "total amount\t%.2f\n", summary.TotalAmount)
	fmt.Fprintf(w, "total paid\t%.2f\n", summary.TotalPaid)
	fmt.Fprintf(w, "total balance\t%.2f\n", summary.TotalBalance)
	fmt.Fprintf(w, "paid / partial / pending\t%d / %d / %d\n", summary.PaidCount, summary.PartialCount, summary.PendingCount)
	w.Flush()

	return nil
}

func (a *app) report(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	out := fs.String("o", "donations.pdf", "output file")
	fs.Parse(args)

	client, err := a.authedClient()
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *out, err)
	}
	defer f.Close()

	if err := client.DownloadReport(ctx, f); err != nil {
		return err
	}

	a.logger.Info().Str("file", *out).Msg("report downloaded")
	return nil
}
