package scan

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/avrost/netsweep/internal/errors"
)

var validate = validator.New()

// Options configures a scan engine. There are no implicit defaults here:
// callers (normally internal/config) supply every field explicitly.
type Options struct {
	// Concurrency bounds the number of probes in flight.
	Concurrency int `validate:"min=1,max=1024"`
	// PerProbeTimeout is the hard deadline for each individual probe.
	PerProbeTimeout time.Duration `validate:"gt=0"`
	// CandidateTCPPorts are tried in order during host discovery.
	CandidateTCPPorts []int `validate:"min=1,dive,min=1,max=65535"`
	// QueueSize caps the pending task queue. Zero sizes the queue to the
	// target count, so submission never blocks; a smaller cap bounds memory
	// on very large sweeps at the cost of a possible pool-exhaustion stop.
	QueueSize int `validate:"omitempty,min=1,max=65536"`
	// EnableICMPFallback sends an ICMP echo when no candidate port answers.
	EnableICMPFallback bool
	// EnableBannerGrab reads service banners from open ports.
	EnableBannerGrab bool
	// EnableHostnameResolution performs reverse DNS on responsive hosts.
	EnableHostnameResolution bool
}

// Validate checks option constraints and reports the first violation.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return errors.WrapScanError(errors.CodeValidation,
			"invalid scan options", err)
	}
	return nil
}
