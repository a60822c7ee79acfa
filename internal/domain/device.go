package domain

import (
	"net"
	"strconv"
)

// DefaultPort is the NetProfiler HTTPS port.
const DefaultPort = 443

// Device is a configured NetProfiler appliance. Passwords are kept in the
// OS keychain, never here.
type Device struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     int    `json:"port,omitempty"`
	Username string `json:"username"`

	// Insecure skips TLS verification for appliances with self-signed
	// certificates.
	Insecure bool `json:"insecure,omitempty"`
}

// Address returns host:port.
func (d Device) Address() string {
	port := d.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(d.Host, strconv.Itoa(port))
}
