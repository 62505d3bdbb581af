// Package dispatch routes tool calls to the right backend: the built-in
// productivity tools or one of the external office bridges. Every call
// produces a uniform result envelope and a route trace, and failures are
// reported inside the envelope instead of as errors.
package dispatch

import "context"

// Bridge is the slice of an office client the distributor needs.
type Bridge interface {
	Execute(ctx context.Context, tool string, params map[string]any, userID, requestID string) (map[string]any, error)
	Tools(ctx context.Context) ([]map[string]any, error)
}

// Provider is where a tool call runs: a built-in tool group or an office
// bridge. The set is closed; execution does a type switch over the two
// cases.
type Provider interface {
	Name() string
	Internal() bool
	sealed()
}

// InternalProvider is a built-in tool group handled in-process.
type InternalProvider struct {
	group string
}

// NewInternalProvider wraps an internal group name such as "internal_tasks".
func NewInternalProvider(group string) InternalProvider {
	return InternalProvider{group: group}
}

// Name returns the group name.
func (p InternalProvider) Name() string { return p.group }

// Internal reports true.
func (p InternalProvider) Internal() bool { return true }

func (p InternalProvider) sealed() {}

// ExternalProvider is an office bridge reached over HTTP.
type ExternalProvider struct {
	name   string
	bridge Bridge
}

// NewExternalProvider binds a provider name such as "google" to its bridge.
func NewExternalProvider(name string, bridge Bridge) ExternalProvider {
	return ExternalProvider{name: name, bridge: bridge}
}

// Name returns the provider name.
func (p ExternalProvider) Name() string { return p.name }

// Internal reports false.
func (p ExternalProvider) Internal() bool { return false }

// Bridge returns the HTTP client for this provider.
func (p ExternalProvider) Bridge() Bridge { return p.bridge }

func (p ExternalProvider) sealed() {}
