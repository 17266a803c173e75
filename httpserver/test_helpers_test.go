package httpserver_test

import (
	"reelreviews/pkg/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Supabase.URL = "https://project.supabase.co"
	cfg.Supabase.AnonKey = "public-anon-key"
	return cfg
}
