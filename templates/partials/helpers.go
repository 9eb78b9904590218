package partials

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sponsorship_console/templates/pages"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// Toast kinds
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Toast renders a dismissible notification. HTMX swaps it into #toasts.
func Toast(kind, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		style := "bg-blue-500/10 border-blue-500/20 text-blue-400"
		switch kind {
		case ToastSuccess:
			style = "bg-green-500/10 border-green-500/20 text-green-400"
		case ToastError:
			style = "bg-red-500/10 border-red-500/20 text-red-400"
		}
		_, err := fmt.Fprintf(w,
			`<div id="toasts" hx-swap-oob="afterbegin"><div class="toast %s border px-4 py-3 rounded-xl" role="alert" data-kind="%s"><span class="text-sm font-medium">%s</span></div></div>`,
			style, templ.EscapeString(kind), templ.EscapeString(message))
		return err
	})
}

// EmptyState renders the placeholder shown when a list has no rows
func EmptyState(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="empty-state text-center text-gray-400 py-12">%s</div>`, templ.EscapeString(message))
		return err
	})
}

// Pagination renders the page window with previous/next links. Links target
// baseURL with the page number set, keeping any other query parameters.
func Pagination(p pages.PaginationView, baseURL string, target string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if p.TotalPages <= 1 {
			_, err := fmt.Fprintf(w, `<nav class="pagination"><span class="showing">%s</span></nav>`, templ.EscapeString(p.Showing))
			return err
		}

		var b strings.Builder
		b.WriteString(`<nav class="pagination">`)
		fmt.Fprintf(&b, `<span class="showing">%s</span>`, templ.EscapeString(p.Showing))
		if p.HasPrevious {
			b.WriteString(pageLink(baseURL, target, p.CurrentPage-1, "Previous", false))
		}
		for _, n := range p.Pages {
			b.WriteString(pageLink(baseURL, target, n, strconv.Itoa(n), n == p.CurrentPage))
		}
		if p.HasNext {
			b.WriteString(pageLink(baseURL, target, p.CurrentPage+1, "Next", false))
		}
		b.WriteString(`</nav>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func pageLink(baseURL, target string, page int, label string, current bool) string {
	if current {
		return fmt.Sprintf(`<span class="page current" aria-current="page">%s</span>`, templ.EscapeString(label))
	}
	return fmt.Sprintf(`<a class="page" hx-get="%s" hx-target="%s" hx-swap="outerHTML">%s</a>`,
		templ.EscapeString(withPage(baseURL, page)), templ.EscapeString(target), templ.EscapeString(label))
}

func withPage(baseURL string, page int) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
