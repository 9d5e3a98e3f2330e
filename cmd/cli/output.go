package cli

import (
	"fmt"
	"os"

	"github.com/avrost/netsweep/internal/format"
	"github.com/avrost/netsweep/internal/scan"
)

// renderSummary writes a scan summary to stdout in the selected format.
func renderSummary(summary *scan.ScanSummary, asJSON bool) error {
	if asJSON {
		data, err := format.JSON(summary)
		if err != nil {
			return fmt.Errorf("failed to render summary: %w", err)
		}
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}

	_, err := fmt.Fprint(os.Stdout, format.Text(summary))
	return err
}
