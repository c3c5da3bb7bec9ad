package config

import (
	"fmt"
	"os"
	"testing"
)

// TestMain refuses to run unless GO_ENV=test, since Load reads .env.<GO_ENV>
// and ConnectDatabase tests must never see a real DATABASE_URL.
func TestMain(m *testing.M) {
	if env := os.Getenv("GO_ENV"); env != "test" {
		fmt.Fprintf(os.Stderr, "config tests need GO_ENV=test (got %q); run: GO_ENV=test go test ./...\n", env)
		os.Exit(1)
	}
	os.Exit(m.Run())
}
