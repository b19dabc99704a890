package tuner

// ServerOption is a functional option for configuring a tuning panel Server.
type ServerOption func(*serverImpl)

// WithAddr sets the listen address. Use ":0" to bind an ephemeral port and
// read it back with Addr after Start.
//
// Parameters:
//   - addr: the host:port to listen on
//
// Returns:
//   - ServerOption: functional option to set the listen address
func WithAddr(addr string) ServerOption {
	return func(s *serverImpl) {
		s.addr = addr
	}
}
