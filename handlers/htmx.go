package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sponsorship_console/middleware"
	"sponsorship_console/models"
	"sponsorship_console/services"
	"sponsorship_console/templates/components"
	"sponsorship_console/templates/pages"
	"sponsorship_console/templates/partials"
	"strconv"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// maxFormBytes bounds a whole form body, files included
const maxFormBytes = 2 * services.MaxUploadSize

func render(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response())
}

// fail answers a failed operation. Session errors end the console session;
// everything else becomes a toast (HTMX) or a {success:false} payload.
func (h *Handler) fail(c echo.Context, err error) error {
	if services.IsCanceled(err) {
		// The browser went away; nobody is left to answer
		return nil
	}

	if services.IsAuthError(err) {
		if token := middleware.GetSessionToken(c); token != "" {
			h.lists.DropSession(token)
		}
		middleware.ClearSessionCookie(c, h.secure())
		return middleware.DenyAccess(c, err)
	}

	status := http.StatusInternalServerError
	var valErr *services.ValidationError
	var apiErr *services.APIError
	var netErr *services.NetworkError
	switch {
	case errors.As(err, &valErr):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrAdminRequired):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrSubmissionInProgress), errors.Is(err, services.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, services.ErrMessageNotFound):
		status = http.StatusNotFound
	case errors.As(err, &apiErr):
		status = http.StatusBadGateway
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
	case errors.As(err, &netErr):
		status = http.StatusBadGateway
	}

	message := services.UserMessage(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err))
	} else {
		h.logger.Debug("request refused",
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.String("reason", message))
	}

	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Reswap", "none")
		c.Response().Header().Set("HX-Trigger", components.ToastTrigger(partials.ToastError, message))
		return render(c, status, partials.Toast(partials.ToastError, message))
	}
	return c.JSON(status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// done answers a successful mutation and asks the page to reload refresh
func (h *Handler) done(c echo.Context, message string, data map[string]any, refresh ...string) error {
	if len(refresh) > 0 {
		c.Response().Header().Set("HX-Trigger", components.RefreshTrigger(refresh...))
	}
	if middleware.IsHTMX(c) {
		return render(c, http.StatusOK, partials.Toast(partials.ToastSuccess, message))
	}

	payload := map[string]any{"success": true}
	if message != "" {
		payload["message"] = message
	}
	for k, v := range data {
		payload[k] = v
	}
	return c.JSON(http.StatusOK, payload)
}

// submitted answers a Submitter result. A mutation whose views failed to
// reload still succeeded, so it is reported as saved with a warning.
func (h *Handler) submitted(c echo.Context, err error, message string, data map[string]any, refresh ...string) error {
	var refreshErr *services.RefreshError
	if errors.As(err, &refreshErr) && !services.IsAuthError(refreshErr.Err) {
		h.logger.Warn("refresh after mutation failed", zap.String("path", c.Path()), zap.Error(refreshErr.Err))
		if data == nil {
			data = map[string]any{}
		}
		data["warning"] = refreshErr.Error()
		return h.done(c, message, data, refresh...)
	}
	if err != nil {
		return h.fail(c, err)
	}
	return h.done(c, message, data, refresh...)
}

func (h *Handler) session(c echo.Context) *services.SessionContext {
	if sess := middleware.GetSession(c); sess != nil {
		return sess
	}
	return services.NewSessionContext()
}

// listDesk is one console session's view of a list: the controller, the
// submitter its forms go through and the last loaded summary. Evicting the
// desk closes the controller.
type listDesk[T, S any] struct {
	list   *services.ListController[T]
	submit *services.Submitter

	mu      sync.Mutex
	summary S
}

func (d *listDesk[T, S]) Close() {
	d.list.Close()
}

// Summary returns the summary loaded by the last refresh
func (d *listDesk[T, S]) Summary() S {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.summary
}

func (d *listDesk[T, S]) setSummary(s S) {
	d.mu.Lock()
	d.summary = s
	d.mu.Unlock()
}

// sessionDesk returns the console session's desk for name. The desk
// outlives this request, so its fetchers read the session through the
// registry's ref. Submissions refresh the list and, when summary is set,
// the summary as well.
func sessionDesk[T, S any](h *Handler, c echo.Context, name string, opts services.ListOptions,
	fetcher func(sess *services.SessionContext) services.Fetcher[T],
	summary func(ctx context.Context, sess *services.SessionContext) (S, error),
) *listDesk[T, S] {
	token := middleware.GetSessionToken(c)
	ref := h.lists.SessionRef(token, h.session(c))

	return services.Registered(h.lists, token, name, func() *listDesk[T, S] {
		opts.Name = name
		opts.Logger = h.logger
		if opts.Debounce == 0 {
			opts.Debounce = h.cfg.SearchDebounce
		}
		d := &listDesk[T, S]{}
		d.list = services.NewListController(func(ctx context.Context, q services.ListQuery) (models.Page[T], error) {
			return fetcher(ref.Get())(ctx, q)
		}, opts)

		refreshers := []services.Refresher{services.RefreshList(d.list)}
		if summary != nil {
			refreshers = append(refreshers, func(ctx context.Context) error {
				s, err := summary(ctx, ref.Get())
				if err != nil {
					return err
				}
				d.setSummary(s)
				return nil
			})
		}
		d.submit = services.NewSubmitter(refreshers...)
		return d
	})
}

// sessionList is sessionDesk for lists without a summary
func sessionList[T any](h *Handler, c echo.Context, name string, opts services.ListOptions,
	fetcher func(sess *services.SessionContext) services.Fetcher[T],
) *services.ListController[T] {
	return sessionDesk[T, struct{}](h, c, name, opts, fetcher, nil).list
}

// listPage applies the query carried in the URL and answers with the page
func listPage[T any](h *Handler, c echo.Context, list *services.ListController[T], emptyMessage string) error {
	q, err := parseListQuery(c, list.Filters())
	if err != nil {
		return h.fail(c, err)
	}
	snap, err := list.Apply(c.Request().Context(), q)
	return respondList(h, c, snap, err, emptyMessage)
}

// liveSearch feeds one keystroke into the list's debounced search. A
// keystroke overtaken by a newer one answers 204 so the table stays put.
func liveSearch[T any](h *Handler, c echo.Context, list *services.ListController[T], emptyMessage string) error {
	if seq := c.QueryParam("seq"); seq != "" {
		c.Response().Header().Set("X-Search-Seq", seq)
	}

	settled := list.SetSearch(c.QueryParam("search"))
	select {
	case snap, ok := <-settled:
		if !ok {
			return c.NoContent(http.StatusNoContent)
		}
		return respondList(h, c, snap, snap.Err, emptyMessage)
	case <-c.Request().Context().Done():
		return nil
	}
}

// respondList renders a list snapshot. Fetch failures keep the previous
// rows and surface as the view's error; only session and input errors fail
// the request.
func respondList[T any](h *Handler, c echo.Context, snap services.ListSnapshot[T], err error, emptyMessage string) error {
	if errors.Is(err, services.ErrSuperseded) {
		return c.NoContent(http.StatusNoContent)
	}
	var valErr *services.ValidationError
	if err != nil && (services.IsAuthError(err) || services.IsCanceled(err) || errors.As(err, &valErr)) {
		return h.fail(c, err)
	}

	view := pages.NewListView(snap, emptyMessage)
	if err != nil {
		view.Success = false
		view.Error = services.UserMessage(err)
	}

	if middleware.IsHTMX(c) {
		if view.Error != "" {
			c.Response().Header().Set("HX-Trigger", components.ToastTrigger(partials.ToastError, view.Error))
		}
		if c.QueryParam("fragment") == "pagination" {
			target := "this"
			if id := c.Request().Header.Get("HX-Target"); id != "" {
				target = "#" + id
			}
			fragment := partials.Pagination(view.Pagination, c.Request().URL.String(), target)
			if view.Empty {
				fragment = partials.EmptyState(emptyMessage)
			}
			return render(c, http.StatusOK, fragment)
		}
	}
	return c.JSON(http.StatusOK, view)
}

// parseListQuery reads search, page, page_size and the declared filters
func parseListQuery(c echo.Context, filters []services.FilterSpec) (services.ListQuery, error) {
	q := services.ListQuery{
		Search:  strings.TrimSpace(c.QueryParam("search")),
		Filters: make(map[string]string, len(filters)),
		Page:    1,
	}

	if p := c.QueryParam("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			q.Page = n
		}
	}

	size := c.QueryParam("page_size")
	if size == "" {
		size = c.QueryParam("limit")
	}
	if size != "" {
		n, err := strconv.Atoi(size)
		if err != nil {
			return q, &services.ValidationError{Problems: []string{"Page size must be a number"}}
		}
		q.PageSize = n
	}

	for _, f := range filters {
		q.Filters[f.Field] = c.QueryParam(f.Field)
	}
	return q, nil
}

// formValues reads a JSON, urlencoded or multipart body into flat values
// and uploaded files
func formValues(c echo.Context) (map[string]string, []services.FilePart, error) {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, maxFormBytes)
	values := map[string]string{}
	contentType := req.Header.Get(echo.HeaderContentType)

	switch {
	case strings.HasPrefix(contentType, echo.MIMEApplicationJSON):
		var raw map[string]any
		dec := json.NewDecoder(req.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, &services.ValidationError{Problems: []string{"Invalid request body"}}
		}
		for k, v := range raw {
			if v == nil {
				continue
			}
			values[k] = fmt.Sprint(v)
		}
		return values, nil, nil

	case strings.HasPrefix(contentType, echo.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, nil, &services.ValidationError{Problems: []string{"Invalid form data"}}
		}
		for k, vs := range form.Value {
			if len(vs) > 0 {
				values[k] = vs[0]
			}
		}
		var files []services.FilePart
		for field, headers := range form.File {
			for _, fh := range headers {
				part, err := services.ReadUpload(field, fh)
				if err != nil {
					return nil, nil, err
				}
				files = append(files, part)
			}
		}
		return values, files, nil

	default:
		params, err := c.FormParams()
		if err != nil {
			return nil, nil, &services.ValidationError{Problems: []string{"Invalid form data"}}
		}
		for k, vs := range params {
			if len(vs) > 0 {
				values[k] = vs[0]
			}
		}
		return values, nil, nil
	}
}

// paramID parses a positive integer path parameter
func paramID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, &services.ValidationError{Problems: []string{fmt.Sprintf("Invalid %s", name)}}
	}
	return id, nil
}

// sendDownload streams a backend file to the browser as an attachment
func sendDownload(c echo.Context, d *services.Download, fallbackName string) error {
	name := d.FileName
	if name == "" {
		name = fallbackName
	}
	contentType := d.ContentType
	if contentType == "" {
		contentType = services.UploadContentType("", name, d.Body)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, contentType, d.Body)
}
