package form

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/requestid"
)

// Fetch submits the form with GET; values are sent as query parameters.
func (f *Form) Fetch(ctx context.Context, target string, opts ...SubmitOption) {
	f.Submit(ctx, http.MethodGet, target, opts...)
}

// Post submits the form with POST.
func (f *Form) Post(ctx context.Context, target string, opts ...SubmitOption) {
	f.Submit(ctx, http.MethodPost, target, opts...)
}

// Put submits the form with PUT.
func (f *Form) Put(ctx context.Context, target string, opts ...SubmitOption) {
	f.Submit(ctx, http.MethodPut, target, opts...)
}

// Patch submits the form with PATCH.
func (f *Form) Patch(ctx context.Context, target string, opts ...SubmitOption) {
	f.Submit(ctx, http.MethodPatch, target, opts...)
}

// Delete submits the form with DELETE.
func (f *Form) Delete(ctx context.Context, target string, opts ...SubmitOption) {
	f.Submit(ctx, http.MethodDelete, target, opts...)
}

// Submit sends the current values and blocks until the submission reaches a
// terminal state. Values holding a file anywhere are sent as multipart form
// data with upload progress; everything else is sent as JSON (query
// parameters for GET).
//
// Submit never returns an error. Outcomes are reported through the
// callbacks: OnSuccess for 2xx, OnError for HTTP, network, timeout and
// request building failures, and OnFinish exactly once in every case,
// including aborts. A 422 response carrying data.errors also replaces the
// form errors.
func (f *Form) Submit(ctx context.Context, method, target string, opts ...SubmitOption) {
	s := &submission{
		form:   f,
		cfg:    newSubmitConfig(opts),
		method: strings.ToUpper(method),
	}

	f.ResetErrors()
	f.begin()

	f.mu.RLock()
	order := make([]string, len(f.fields))
	copy(order, f.fields)
	f.mu.RUnlock()
	values := f.Values()

	enc := selectEncoder(values)
	log := f.logger.With(
		logger.Component("form"),
		logger.Method(s.method),
		logger.Transport(enc.name()),
	)

	timeout := s.cfg.timeout
	if timeout <= 0 {
		timeout = f.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := f.newRequest(ctx, s, enc, target, order, values)
	if err != nil {
		log.WarnContext(ctx, "failed to build form request", logger.Error(err))
		s.fail(err)
		return
	}
	log = log.With(logger.URL(req.URL.String()))
	log.DebugContext(ctx, "submitting form")

	client := f.client
	if !s.cfg.credentials && client.Jar != nil {
		c := *client
		c.Jar = nil
		client = &c
	}

	resp, err := client.Do(req)
	if err != nil {
		s.transportFailure(ctx, log, err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		s.transportFailure(ctx, log, err)
		return
	}
	data := parseBody(raw)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.DebugContext(ctx, "form submitted", logger.StatusCode(resp.StatusCode))
		s.succeed(&Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Data:       data,
			Raw:        raw,
		})
		return
	}

	log.WarnContext(ctx, "form submission rejected", logger.StatusCode(resp.StatusCode))
	s.fail(&HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Data:       data,
		Raw:        raw,
	})
}

func (f *Form) newRequest(ctx context.Context, s *submission, enc encoder, target string, order []string, values Map) (*http.Request, error) {
	u, err := f.resolve(target)
	if err != nil {
		return nil, err
	}

	body, contentType, err := enc.encode(s.method, u, order, values)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
		if enc.progress() {
			reader = &progressReader{
				r:      reader,
				total:  int64(len(body)),
				report: s.progress,
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, s.method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if body != nil {
		req.ContentLength = int64(len(body))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	for k, vs := range f.Header() {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, vs := range s.cfg.headers {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if id := requestid.FromContext(ctx); id != "" && req.Header.Get(requestid.Header) == "" {
		req.Header.Set(requestid.Header, id)
	}

	for _, edit := range s.cfg.editors {
		if err := edit(req); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	return req, nil
}

func (f *Form) resolve(target string) (*url.URL, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if f.baseURL != "" && !u.IsAbs() {
		base, err := url.Parse(f.baseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: base url: %v", ErrInvalidRequest, err)
		}
		u = base.ResolveReference(u)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%w: url %q is not absolute", ErrInvalidRequest, target)
	}
	return u, nil
}

// begin moves the form into the processing state.
func (f *Form) begin() {
	f.mu.Lock()
	f.processing = true
	f.success = false
	f.hasProgress = false
	f.progress = 0
	f.mu.Unlock()
	f.notify(Event{Kind: EventStatus}, Event{Kind: EventProgress})
}

// end leaves the processing state and clears progress. The submission is
// marked ended under the same lock so late progress reports are dropped.
func (f *Form) end(s *submission, success bool) {
	f.mu.Lock()
	s.ended = true
	f.processing = false
	f.success = success
	f.hasProgress = false
	f.progress = 0
	f.mu.Unlock()
	f.notify(Event{Kind: EventStatus}, Event{Kind: EventProgress})
}

// submission carries the per-call callbacks and guarantees a single
// terminal transition.
type submission struct {
	form   *Form
	cfg    *submitConfig
	method string
	done   sync.Once

	ended bool // guarded by form.mu
}

// progress may run on a transport goroutine after the response arrived.
func (s *submission) progress(pct int) {
	f := s.form
	f.mu.Lock()
	if s.ended {
		f.mu.Unlock()
		return
	}
	f.progress = pct
	f.hasProgress = true
	f.mu.Unlock()
	f.notify(Event{Kind: EventProgress})
	if s.cfg.onProgress != nil {
		s.cfg.onProgress(pct)
	}
}

func (s *submission) succeed(resp *Response) {
	s.done.Do(func() {
		s.form.end(s, true)
		if s.cfg.onSuccess != nil {
			s.cfg.onSuccess(resp)
		}
		s.finish()
	})
}

func (s *submission) fail(err error) {
	s.done.Do(func() {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			if errs, ok := httpErr.ValidationErrors(); ok {
				s.form.SetErrorsFromValidation(errs)
			}
		}
		s.form.end(s, false)
		if s.cfg.onError != nil {
			s.cfg.onError(err)
		}
		s.finish()
	})
}

func (s *submission) abort() {
	s.done.Do(func() {
		s.form.end(s, false)
		s.finish()
	})
}

func (s *submission) finish() {
	if s.cfg.onFinish != nil {
		s.cfg.onFinish()
	}
}

// transportFailure routes a failed round trip to the abort, timeout or
// network error path.
func (s *submission) transportFailure(ctx context.Context, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		log.DebugContext(ctx, "form submission aborted")
		s.abort()
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		log.WarnContext(ctx, "form submission timed out", logger.Error(err))
		s.fail(fmt.Errorf("%w: %v", ErrTimeout, err))
	default:
		log.WarnContext(ctx, "form submission failed", logger.Error(err))
		s.fail(&NetworkError{Err: err})
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
