package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuessService(t *testing.T) {
	tests := []struct {
		port int
		want string
	}{
		{22, "SSH"},
		{80, "HTTP"},
		{443, "HTTPS"},
		{3389, "RDP"},
		{27017, "MongoDB"},
		{54321, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GuessService(tt.port), "port %d", tt.port)
	}
}

func TestClassifyRisk(t *testing.T) {
	t.Run("high risk table", func(t *testing.T) {
		for _, port := range []int{21, 23, 135, 139, 445, 1433, 3389} {
			assert.Equal(t, RiskHigh, ClassifyRisk(port, ""), "port %d", port)
		}
	})

	t.Run("medium risk table", func(t *testing.T) {
		for _, port := range []int{25, 110, 143, 3306, 5432, 5900, 6379, 9200, 27017} {
			assert.Equal(t, RiskMedium, ClassifyRisk(port, ""), "port %d", port)
		}
	})

	t.Run("recognized benign services are low", func(t *testing.T) {
		for _, port := range []int{22, 53, 80, 443, 993, 995, 8080, 8443} {
			assert.Equal(t, RiskLow, ClassifyRisk(port, ""), "port %d", port)
		}
	})

	t.Run("unrecognized ports are none", func(t *testing.T) {
		assert.Equal(t, RiskNone, ClassifyRisk(54321, ""))
		assert.Equal(t, RiskNone, ClassifyRisk(12345, "some device"))
	})

	t.Run("banner upgrades cleartext login services", func(t *testing.T) {
		assert.Equal(t, RiskHigh, ClassifyRisk(2323, "Telnet server ready"))
		assert.Equal(t, RiskHigh, ClassifyRisk(2121, "220 ProFTPD Server"))
	})

	t.Run("banner never downgrades", func(t *testing.T) {
		assert.Equal(t, RiskHigh, ClassifyRisk(23, "harmless looking banner"))
		assert.Equal(t, RiskMedium, ClassifyRisk(6379, "redis"))
	})

	t.Run("deterministic", func(t *testing.T) {
		first := ClassifyRisk(445, "")
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, ClassifyRisk(445, ""))
		}
	})
}
