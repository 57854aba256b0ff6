package signpost

type Key string

const (
	// IpAddrKey stashes the IP address of an HTTP request being handled by signpost.
	IpAddrKey Key = "IpAddrKey"

	// PagePathKey stashes the manifest route a page handler was bound under.
	PagePathKey Key = "PagePathKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "signpost context key: " + string(k)
}
