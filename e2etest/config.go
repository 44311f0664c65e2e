package e2etest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/status-im/market-dashboard/config"
)

// createTestConfig writes a test configuration pointing at the fake provider
// and returns the path to the file
func createTestConfig(mockURL, port string) (string, error) {
	tempDir, err := os.MkdirTemp("", "market-dashboard-test")
	if err != nil {
		return "", err
	}

	configContent := fmt.Sprintf(`
log_level: warn

server:
  port: "%s"
  default_currency: usd

coingecko:
  override_public_url: "%s"   # fake provider
  markets_limit: 50
  request_timeout: 2s

query:
  retry:
    base_delay: 10ms          # short backoff for tests
    max_delay: 50ms
    network_retries: 3
    default_retries: 2

recently_viewed:
  backend: file
  file_path: "%s"
  max_items: 10
`, port, mockURL, filepath.Join(tempDir, "local_storage.json"))

	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		os.RemoveAll(tempDir)
		return "", err
	}

	return configPath, nil
}

// loadTestConfig creates and loads test configuration
func loadTestConfig(mockURL, port string) (*config.Config, string, error) {
	configPath, err := createTestConfig(mockURL, port)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		os.RemoveAll(filepath.Dir(configPath))
		return nil, "", err
	}

	return cfg, configPath, nil
}

// cleanupTestConfig removes the temporary directory with configuration
func cleanupTestConfig(configPath string) {
	os.RemoveAll(filepath.Dir(configPath))
}
