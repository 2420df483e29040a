package client

// Response is the result of a request: status code, single-valued
// headers, and a body.
type Response struct {
	Status  int
	Headers map[string]string
	Body    string
}

// NewResponse builds a response from its parts.
func NewResponse(status int, headers map[string]string, body string) *Response {
	return &Response{Status: status, Headers: headers, Body: body}
}

// Header looks up a response header by exact name.
func (r *Response) Header(name string) string {
	return r.Headers[name]
}
