package pgwire

// SslMode selects how the connection state machine negotiates TLS during
// startup (spec §4.5, §6).
type SslMode int

const (
	// SslDisable never attempts TLS; Startup is written immediately.
	SslDisable SslMode = iota
	// SslPrefer attempts TLS but falls back to plaintext if the server
	// declines.
	SslPrefer
	// SslRequire attempts TLS and fails the connection if the server
	// declines.
	SslRequire
)

func (m SslMode) String() string {
	switch m {
	case SslDisable:
		return "disable"
	case SslPrefer:
		return "prefer"
	case SslRequire:
		return "require"
	default:
		return "unknown"
	}
}

// Opts is the configuration the connection state machine consumes (spec
// §6). URL parsing and defaulting are out of scope; callers populate this
// record directly.
type Opts struct {
	Host string
	Port uint16

	// Socket is a Unix-domain socket path, mutually exclusive with Host.
	Socket string

	// User is required; sent as the Startup "user" parameter.
	User string

	// Database is sent as the Startup "database" parameter when non-empty.
	Database string

	// Password is required for any non-trivial authentication method.
	Password string

	// ApplicationName is sent as the Startup "application_name" parameter
	// when non-empty.
	ApplicationName string

	SslMode SslMode

	// Params holds extra Startup parameters beyond user/database/
	// application_name, in the order they should be written.
	Params [][2]string

	// PreferUnixSocket, when true and the resolved peer is a loopback TCP
	// address, asks the host to query "SHOW unix_socket_directories" after
	// Ready and attempt to reconnect through the first nonempty directory's
	// `.s.PGSQL.<port>` socket, falling back to the original TCP connection
	// on failure (spec §9). The core does not perform the reconnect itself;
	// it only exposes the flag for the host to act on.
	PreferUnixSocket bool
}

// startupParams returns the ordered (name, value) pairs the connection state
// machine writes into the StartupMessage: user, then database (if set), then
// application_name (if set), then Params, per spec §6.
func (o Opts) startupParams() [][2]string {
	params := make([][2]string, 0, 3+len(o.Params))
	params = append(params, [2]string{"user", o.User})

	if o.Database != "" {
		params = append(params, [2]string{"database", o.Database})
	}
	if o.ApplicationName != "" {
		params = append(params, [2]string{"application_name", o.ApplicationName})
	}
	params = append(params, o.Params...)
	return params
}
