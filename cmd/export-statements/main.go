package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sponsorship_console/config"
	"sponsorship_console/models"
	"sponsorship_console/services"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// exportOptions are the command-line choices of one export
type exportOptions struct {
	Status  string
	Year    string
	Search  string
	Format  string
	Archive bool
	Email   []string
}

func main() {
	status := flag.String("status", "", "statement status (pending, partial, paid, overdue)")
	year := flag.String("year", "", "statement year")
	search := flag.String("search", "", "free-text search")
	format := flag.String("format", services.FormatCSV, "output format: csv, xlsx or pdf")
	archive := flag.Bool("archive", false, "also store the report in object storage")
	email := flag.String("email", "", "comma-separated recipients to mail the report to")
	flag.Parse()

	opts := exportOptions{
		Status:  *status,
		Year:    *year,
		Search:  strings.TrimSpace(*search),
		Format:  strings.ToLower(*format),
		Archive: *archive,
		Email:   splitRecipients(*email),
	}
	if opts.Format != services.FormatCSV && opts.Format != services.FormatXLSX && opts.Format != services.FormatPDF {
		log.Fatalf("Unknown format %q (want csv, xlsx or pdf)", opts.Format)
	}

	// Load configuration
	cfg := config.Load()

	logger, err := services.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Export Fee Statements ===")
	fmt.Println()

	fmt.Print("Admin email: ")
	login, _ := reader.ReadString('\n')
	login = strings.TrimSpace(login)

	// Get password securely
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	fmt.Println() // New line after password input

	backend := services.NewBackend(services.NewAPIClient(cfg, logger))
	creds := services.Credentials{Email: login, Password: string(passwordBytes)}

	err = run(ctx, cfg, logger, backend, creds, opts, os.Stdout)
	stop()
	_ = logger.Sync()
	if err != nil {
		log.Fatal(err)
	}
}

// run signs in, writes the report and delivers it. The backend session is
// logged out on every return path.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, backend *services.Backend, creds services.Credentials, opts exportOptions, out io.Writer) error {
	resp, err := backend.Auth.Login(ctx, creds, true)
	if err != nil {
		return fmt.Errorf("sign-in failed: %s", services.UserMessage(err))
	}
	sess := services.NewSessionContext()
	sess.SignIn(resp.User, resp.Token)
	defer func() {
		if err := backend.Auth.Logout(context.Background(), sess); err != nil {
			logger.Warn("backend logout failed", zap.Error(err))
		}
	}()

	q := services.ListQuery{
		Search:  opts.Search,
		Filters: map[string]string{"status": opts.Status, "year": opts.Year},
	}
	rows, err := services.CollectAll(ctx, backend.Statements.Fetcher(sess), q, services.StatementFilters,
		func(snap services.ListSnapshot[models.FeeStatement]) {
			fmt.Fprintf(out, "  page %d/%d (%s)\n", snap.Page, snap.TotalPages, snap.Showing)
		})
	if err != nil {
		return fmt.Errorf("failed to load statements: %s", services.UserMessage(err))
	}

	now := time.Now()
	table := services.StatementsTable(rows)
	filters := services.DescribeFilters(q, services.StatementFilters)

	var buf bytes.Buffer
	if opts.Format == services.FormatPDF {
		pdf, err := services.RenderStatementPDF(ctx, table, filters, now)
		if err != nil {
			return fmt.Errorf("failed to render PDF: %w", err)
		}
		buf.Write(pdf)
	} else if err := table.Write(&buf, opts.Format); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	name := services.StatementsFileName(opts.Format, now)
	if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", cfg.ExportDir, err)
	}
	path := filepath.Join(cfg.ExportDir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "✓ Report written")
	fmt.Fprintf(out, "  Rows: %d\n", len(rows))
	fmt.Fprintf(out, "  Filters: %s\n", filters)
	fmt.Fprintf(out, "  File: %s\n", path)

	if opts.Archive {
		storage := services.NewStorage(cfg, logger)
		result, err := services.Archive(ctx, storage, name, services.ContentType(opts.Format), buf.Bytes(), now)
		if err != nil {
			return fmt.Errorf("failed to archive report: %w", err)
		}
		fmt.Fprintf(out, "  Archived (%s): %s\n", storage.Name(), result.Key)
	}

	if len(opts.Email) > 0 {
		msg, err := services.BuildExportEmail(opts.Email, services.ExportEmailData{
			Report:  "fee statements",
			Date:    now.Format(services.DateLayout),
			Rows:    len(rows),
			Filters: filters,
		}, name, buf.Bytes())
		if err != nil {
			return fmt.Errorf("failed to build email: %w", err)
		}
		if err := services.NewMailer(cfg, logger).Send(msg); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		fmt.Fprintf(out, "  Mailed to: %s\n", strings.Join(opts.Email, ", "))
	}
	return nil
}

func splitRecipients(list string) []string {
	var to []string
	for _, addr := range strings.Split(list, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	return to
}
