package client

import "strings"

// Request is an outgoing HTTP request as the client abstraction sees
// it: method, url, body, and single-valued headers. Requests are
// immutable; Enhance returns a merged copy and never mutates.
type Request struct {
	method  string
	url     string
	body    string
	hasBody bool
	headers map[string]string
}

// Overrides carries the fields Enhance merges into a request. Zero
// fields are left untouched; headers merge key by key with the
// override winning.
type Overrides struct {
	Method  string
	URL     string
	Body    *string
	Headers map[string]string
}

// NewRequest builds a request with no body and no headers.
func NewRequest(method, url string) *Request {
	return &Request{method: method, url: url}
}

// WithBody returns a copy of the request carrying the given body.
func (r *Request) WithBody(body string) *Request {
	clone := r.clone()
	clone.body = body
	clone.hasBody = true
	return clone
}

// WithHeader returns a copy of the request with one header set.
func (r *Request) WithHeader(name, value string) *Request {
	clone := r.clone()
	if clone.headers == nil {
		clone.headers = make(map[string]string, 1)
	}
	clone.headers[name] = value
	return clone
}

// WithHeaders returns a copy of the request with all given headers set.
func (r *Request) WithHeaders(headers map[string]string) *Request {
	clone := r.clone()
	if clone.headers == nil {
		clone.headers = make(map[string]string, len(headers))
	}
	for k, v := range headers {
		clone.headers[k] = v
	}
	return clone
}

// Method returns the HTTP method, upper-cased.
func (r *Request) Method() string { return strings.ToUpper(r.method) }

// URL returns the request URL verbatim.
func (r *Request) URL() string { return r.url }

// Body returns the request body, or the empty string if none was set.
func (r *Request) Body() string { return r.body }

// HasBody reports whether a body was set. An explicitly set empty body
// is distinct from no body.
func (r *Request) HasBody() bool { return r.hasBody }

// Headers returns a copy of the request headers.
func (r *Request) Headers() map[string]string {
	out := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		out[k] = v
	}
	return out
}

// Header looks up a header by name, ignoring case.
func (r *Request) Header(name string) (string, bool) {
	if v, ok := r.headers[name]; ok {
		return v, true
	}
	for k, v := range r.headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// Enhance returns a new request merged with the given overrides. The
// receiver is left untouched; middleware relies on this to attach
// computed headers without side effects.
func (r *Request) Enhance(o Overrides) *Request {
	clone := r.clone()
	if o.Method != "" {
		clone.method = o.Method
	}
	if o.URL != "" {
		clone.url = o.URL
	}
	if o.Body != nil {
		clone.body = *o.Body
		clone.hasBody = true
	}
	if len(o.Headers) > 0 {
		if clone.headers == nil {
			clone.headers = make(map[string]string, len(o.Headers))
		}
		for k, v := range o.Headers {
			clone.headers[k] = v
		}
	}
	return clone
}

func (r *Request) clone() *Request {
	headers := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		headers[k] = v
	}
	return &Request{
		method:  r.method,
		url:     r.url,
		body:    r.body,
		hasBody: r.hasBody,
		headers: headers,
	}
}
