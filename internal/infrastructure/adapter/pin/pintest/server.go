// Package pintest provides an in-process fake of the Pin Payments API for tests.
package pintest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"sync"
	"testing"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/gateway"
	"github.com/gin-gonic/gin"
)

// Call is one request received by the fake server
type Call struct {
	Method      string
	Path        string // without the /1 version prefix
	Query       url.Values
	Username    string
	Password    string
	ContentType string
}

// Reply is what the fake server answers with
type Reply struct {
	Status int
	Body   string
}

// Handler computes a reply from the incoming call
type Handler func(call Call) Reply

// Server is a fake gateway. Unstubbed routes answer 404 with a gateway-style error body.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]Handler
	calls  []Call
}

// NewServer starts a fake gateway that is closed when the test ends
func NewServer(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{routes: make(map[string]Handler)}

	engine := gin.New()
	engine.Use(logRequests(t), recoverAsServerError(t))
	engine.Any("/1/*path", s.dispatch)
	s.Server = httptest.NewServer(engine)
	t.Cleanup(s.Server.Close)

	return s
}

// Host returns the value to configure as an environment host
func (s *Server) Host() string {
	return s.URL
}

// Handle registers fn for method and path (e.g. "POST", "/charges")
func (s *Server) Handle(method, path string, fn Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = fn
}

// Stub answers method and path with a fixed status and raw body
func (s *Server) Stub(method, path string, status int, body string) {
	s.Handle(method, path, func(Call) Reply { return Reply{Status: status, Body: body} })
}

// StubJSON answers method and path with v encoded as JSON
func (s *Server) StubJSON(method, path string, status int, v any) {
	reply := JSONReply(status, v)
	s.Handle(method, path, func(Call) Reply { return reply })
}

// JSONReply encodes v as a reply body
func JSONReply(status int, v any) Reply {
	data, err := json.Marshal(v)
	if err != nil {
		panic("pintest: cannot encode stub body: " + err.Error())
	}
	return Reply{Status: status, Body: string(data)}
}

// Calls returns a copy of every call received so far
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount returns how many calls matched method and path
func (s *Server) CallCount(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// TotalCalls returns how many calls were received on any route
func (s *Server) TotalCalls() int {
	return len(s.Calls())
}

func (s *Server) dispatch(c *gin.Context) {
	user, pass, _ := c.Request.BasicAuth()
	call := Call{
		Method:      c.Request.Method,
		Path:        c.Param("path"),
		Query:       c.Request.URL.Query(),
		Username:    user,
		Password:    pass,
		ContentType: c.GetHeader("Content-Type"),
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	fn, ok := s.routes[call.Method+" "+call.Path]
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             "not_found",
			"error_description": "The requested resource could not be found.",
		})
		return
	}

	reply := fn(call)
	if reply.Status == 0 {
		reply.Status = http.StatusOK
	}
	c.Data(reply.Status, "application/json; charset=utf-8", []byte(reply.Body))
}

// Credentials is a fixed credential table implementing gateway.CredentialSource
type Credentials struct {
	Default      string
	Environments map[string]gateway.Credentials
}

// NewCredentials creates a table with one complete environment pointing at s
func (s *Server) NewCredentials(name string) *Credentials {
	return &Credentials{
		Default: name,
		Environments: map[string]gateway.Credentials{
			name: {Key: "pk_" + name, Secret: "sk_" + name, Host: s.Host()},
		},
	}
}

func (c *Credentials) Lookup(name string) (gateway.Credentials, bool) {
	creds, ok := c.Environments[name]
	return creds, ok
}

func (c *Credentials) DefaultEnvironment() string {
	return c.Default
}

func (c *Credentials) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
