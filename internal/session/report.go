package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/ekslens/leadgen-cli/internal/model"
)

// writeReport serializes the session report to a timestamped JSON file
// as an audit trail. The format is an implementation detail, not a
// compatibility contract.
func writeReport(dir, industryID string, report *model.Report) (string, error) {
	name := fmt.Sprintf("leadgen_session_%s_%s.json", industryID, report.FinishedAt.Format("20060102_1504"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "session: marshal report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrap(err, "session: write report")
	}
	return path, nil
}
