package config

import (
	"time"

	"github.com/spf13/pflag"
)

type (
	CoordinatorConfig struct {
		Coordinator Coordinator
	}
	Coordinator struct {
		Auth       Auth
		Debug      bool
		Monitoring Monitoring
		Origin     string
		Server     Server
	}
	// Auth holds the credential verification params.
	// The secret signs the HS256 bearer tokens issued by the main app.
	Auth struct {
		Secret string
		Leeway time.Duration
	}
	Monitoring struct {
		Port             int
		URLPrefix        string
		MetricEnabled    bool `fig:"metric_enabled"`
		ProfilingEnabled bool `fig:"profiling_enabled"`
	}
	Server struct {
		Address string
		Https   bool
		Tls     struct {
			Address   string
			Domain    string
			HttpsKey  string
			HttpsCert string
		}
	}
)

func (m *Monitoring) IsEnabled() bool { return m.MetricEnabled || m.ProfilingEnabled }

func (s *Server) GetAddr() string {
	if s.Https {
		return s.Tls.Address
	}
	return s.Address
}

// allows custom config path
var coordinatorConfigPath string

func NewCoordinatorConfig() (conf CoordinatorConfig) {
	if err := LoadConfig(&conf, coordinatorConfigPath); err != nil {
		panic(err)
	}
	return
}

func (c *CoordinatorConfig) ParseFlags() {
	fs := pflag.CommandLine
	fs.StringVar(&c.Coordinator.Server.Address, "address", c.Coordinator.Server.Address, "HTTP server address (host:port)")
	fs.StringVar(&c.Coordinator.Server.Tls.Address, "httpsAddress", c.Coordinator.Server.Tls.Address, "HTTPS server address (host:port)")
	fs.BoolVarP(&c.Coordinator.Debug, "debug", "d", c.Coordinator.Debug, "Enable debug logging")
	fs.IntVar(&c.Coordinator.Monitoring.Port, "monitoring.port", c.Coordinator.Monitoring.Port, "Monitoring server port")
	fs.StringVar(&coordinatorConfigPath, "conf", coordinatorConfigPath, "Set custom configuration file path")
	pflag.Parse()
}
