package mock

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/clientmock/clientmock/pkg/client"
)

// Responder produces the response for a matched request. It is invoked
// lazily, at match time, with the request that matched.
type Responder interface {
	Respond(req *client.Request) (*client.Response, error)
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(req *client.Request) (*client.Response, error)

// Respond implements Responder.
func (f ResponderFunc) Respond(req *client.Request) (*client.Response, error) {
	return f(req)
}

// StaticResponder returns the same response for every match. A
// non-zero Delay is honored before returning.
type StaticResponder struct {
	Status  int
	Headers map[string]string
	Body    string
	Delay   time.Duration
}

// Respond implements Responder.
func (r *StaticResponder) Respond(*client.Request) (*client.Response, error) {
	if r.Delay > 0 {
		time.Sleep(r.Delay)
	}
	status := r.Status
	if status == 0 {
		status = 200
	}
	return client.NewResponse(status, r.Headers, r.Body), nil
}

// JSONResponder returns a static response with v marshaled as the JSON
// body and Content-Type set. Marshaling failures surface at
// registration, not at match time.
func JSONResponder(status int, v any) (Responder, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mock: cannot marshal response body: %w", err)
	}
	return &StaticResponder{
		Status:  status,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    string(data),
	}, nil
}

// exprEnv is the environment an expression responder evaluates in.
type exprEnv struct {
	Method  string            `expr:"method"`
	URL     string            `expr:"url"`
	Body    string            `expr:"body"`
	Headers map[string]string `expr:"headers"`
}

// ExprResponder compiles an expression into a response producer. The
// expression sees the matched request as {method, url, body, headers}
// and its result becomes the response body: strings verbatim, anything
// else marshaled as JSON. Compilation failures surface now, so a typo
// in the expression fails at registration.
func ExprResponder(status int, src string) (Responder, error) {
	program, err := expr.Compile(src, expr.Env(exprEnv{}))
	if err != nil {
		return nil, fmt.Errorf("mock: cannot compile response expression %q: %w", src, err)
	}
	return &exprResponder{status: status, program: program}, nil
}

type exprResponder struct {
	status  int
	program *vm.Program
}

func (r *exprResponder) Respond(req *client.Request) (*client.Response, error) {
	env := exprEnv{
		Method:  req.Method(),
		URL:     req.URL(),
		Body:    req.Body(),
		Headers: req.Headers(),
	}

	result, err := expr.Run(r.program, env)
	if err != nil {
		return nil, fmt.Errorf("mock: response expression failed: %w", err)
	}

	var body string
	switch v := result.(type) {
	case string:
		body = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("mock: cannot marshal expression result: %w", err)
		}
		body = string(data)
	}

	return client.NewResponse(r.status, nil, body), nil
}
