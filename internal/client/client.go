// Package client is the entry point for talking to a Micetro server. A
// Client holds the authenticated transport and one service per resource
// kind, plus the operations that work on any object by reference.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jroosing/mmws/internal/entity"
	"github.com/jroosing/mmws/internal/resources"
	"github.com/jroosing/mmws/internal/service"
	"github.com/jroosing/mmws/internal/transport"
)

// Client is an explicit handle on one MMWS endpoint. It shares one
// transport between all services; concurrent use is as safe as the
// configured http.Client.
type Client struct {
	tr     *transport.Transport
	logger *slog.Logger

	Users  *UserService
	Groups *GroupService
	Roles  *RoleService

	DNSZones   *service.Service
	DNSRecords *service.Service
	DNSViews   *service.Service

	Folders        *service.Service
	IPAMRecords    *service.Service
	Ranges         *service.Service
	Interfaces     *service.Service
	Devices        *service.Service
	ChangeRequests *service.Service

	byPath map[string]*service.Service
}

type options struct {
	scheme     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithHTTPClient sets the http.Client used for every request. Timeouts and
// TLS configuration live there.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithScheme switches the URL scheme, "http" by default.
func WithScheme(scheme string) Option {
	return func(o *options) { o.scheme = scheme }
}

// WithBaseURL replaces the derived "<scheme>://<server>/mmws/api/" base.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// New returns a client for server (host or host:port) using HTTP basic
// authentication.
func New(server, username, password string, opts ...Option) (*Client, error) {
	o := options{scheme: "http"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	base := o.baseURL
	if base == "" {
		server = strings.TrimRight(strings.TrimSpace(server), "/")
		if server == "" {
			return nil, fmt.Errorf("server is required")
		}
		base = o.scheme + "://" + server + transport.APIPath
	}

	tr, err := transport.New(base, username, password,
		transport.WithHTTPClient(o.httpClient),
		transport.WithLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}

	c := &Client{tr: tr, logger: o.logger, byPath: make(map[string]*service.Service)}
	svc := func(d service.Descriptor) *service.Service {
		s := service.New(tr, d)
		c.byPath[d.Path] = s
		return s
	}

	c.Users = &UserService{Service: svc(resources.Users)}
	c.Groups = &GroupService{Service: svc(resources.Groups)}
	c.Roles = &RoleService{Service: svc(resources.Roles)}
	c.DNSZones = svc(resources.DNSZones)
	c.DNSRecords = svc(resources.DNSRecords)
	c.DNSViews = svc(resources.DNSViews)
	c.Folders = svc(resources.Folders)
	c.IPAMRecords = svc(resources.IPAMRecords)
	c.Ranges = svc(resources.Ranges)
	c.Interfaces = svc(resources.Interfaces)
	c.Devices = svc(resources.Devices)
	c.ChangeRequests = svc(resources.ChangeRequests)

	c.logger.Debug("mmws client configured", "base_url", tr.BaseURL(), "username", username)
	return c, nil
}

// BaseURL returns the API base URL requests are sent to.
func (c *Client) BaseURL() string { return c.tr.BaseURL() }

// Service returns the service for a kind, looked up by path, object type
// or collection key ("DNSZones", "dnsZone", "dnszones").
func (c *Client) Service(kind string) (*service.Service, bool) {
	d, ok := resources.Lookup(kind)
	if !ok {
		return nil, false
	}
	s, ok := c.byPath[d.Path]
	return s, ok
}

// ServiceForRef returns the service owning a reference such as "Ranges/4".
func (c *Client) ServiceForRef(ref string) (*service.Service, bool) {
	d, ok := resources.LookupRef(ref)
	if !ok {
		return nil, false
	}
	s, ok := c.byPath[d.Path]
	return s, ok
}

// Update modifies any object by reference. objType names the object's type
// as the server expects it ("User", "DNSZone").
func (c *Client) Update(ctx context.Context, ref entity.Referent, fields entity.Payload, objType, saveComment string, deleteUnspecified bool) error {
	s := service.New(c.tr, service.Descriptor{ObjType: objType})
	return s.Update(ctx, ref, fields, saveComment, deleteUnspecified)
}

// Delete removes any object by reference.
func (c *Client) Delete(ctx context.Context, ref entity.Referent, q transport.Query) error {
	r, err := entity.Resolve(ref)
	if err != nil {
		return err
	}
	return c.tr.Delete(ctx, r, q)
}
