package database

import (
	"strings"
	"testing"

	"smart-va/internal/config"
)

func TestBuildMongoURI(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.MongoDBConfig
		expectedURI string
		expectedLog string
	}{
		{
			name:        "explicit uri masks password",
			cfg:         config.MongoDBConfig{URI: "mongodb://admin:s3cret@db:27017/smart-va"},
			expectedURI: "mongodb://admin:s3cret@db:27017/smart-va",
			expectedLog: "mongodb://admin:xxxxx@db:27017/smart-va",
		},
		{
			name:        "host without credentials",
			cfg:         config.MongoDBConfig{Host: "localhost", Port: "27017", Database: "smart-va"},
			expectedURI: "mongodb://localhost:27017/smart-va",
			expectedLog: "mongodb://localhost:27017/smart-va",
		},
		{
			name:        "credentials",
			cfg:         config.MongoDBConfig{Host: "db", Port: "27017", Database: "smart-va", Username: "admin", Password: "p@ss"},
			expectedURI: "mongodb://admin:p%40ss@db:27017/smart-va?authSource=admin",
			expectedLog: "mongodb://admin:***@db:27017/smart-va?authSource=admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, logURI := BuildMongoURI(tt.cfg)
			if uri != tt.expectedURI {
				t.Errorf("Expected URI %s, got %s", tt.expectedURI, uri)
			}
			if logURI != tt.expectedLog {
				t.Errorf("Expected log URI %s, got %s", tt.expectedLog, logURI)
			}
			if strings.Contains(logURI, "s3cret") || strings.Contains(logURI, "p@ss") {
				t.Error("Expected password to be masked")
			}
		})
	}
}
