package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	var conf CoordinatorConfig
	if err := LoadConfig(&conf, ""); err != nil {
		t.Fatal(err)
	}
	c := conf.Coordinator
	if c.Server.Address != ":8000" {
		t.Errorf("bad default address: %v", c.Server.Address)
	}
	if c.Auth.Leeway != 30*time.Second {
		t.Errorf("bad default leeway: %v", c.Auth.Leeway)
	}
	if c.Monitoring.IsEnabled() {
		t.Errorf("monitoring is on by default")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CLASSROOM_COORDINATOR_AUTH_SECRET", "sesame")
	t.Setenv("CLASSROOM_COORDINATOR_SERVER_ADDRESS", ":9999")
	var conf CoordinatorConfig
	if err := LoadConfig(&conf, ""); err != nil {
		t.Fatal(err)
	}
	if got := conf.Coordinator.Auth.Secret; got != "sesame" {
		t.Errorf("env secret wasn't applied: %q", got)
	}
	if got := conf.Coordinator.Server.Address; got != ":9999" {
		t.Errorf("env address wasn't applied: %q", got)
	}
}

func TestGetAddr(t *testing.T) {
	s := Server{Address: ":8000"}
	s.Tls.Address = ":443"
	if s.GetAddr() != ":8000" {
		t.Errorf("plain server should listen on the http address")
	}
	s.Https = true
	if s.GetAddr() != ":443" {
		t.Errorf("https server should listen on the tls address")
	}
}
