package release

import (
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sagikazarmark/gorelease/pkg/checksum"
)

// writeChecksums records the checksums of the released archives in the manifest
// of the release and returns the manifest path (resolved like the archive paths).
func (b *Builder) writeChecksums(summary Summary) (string, error) {
	manifest := filepath.Join(b.config.OutputDir, checksum.ManifestName(summary.Product, summary.Version))

	var entries []checksum.Entry

	for _, archive := range summary.Archives() {
		sum, err := checksum.Sum(b.config.Path(archive))
		if err != nil {
			return manifest, errors.WithMessage(err, "checksum archive")
		}

		entries = append(entries, checksum.Entry{Name: filepath.Base(archive), Sum: sum})
	}

	parseErrs, err := checksum.Update(b.config.Path(manifest), entries)
	for _, parseErr := range parseErrs {
		b.logger.Warn("dropped invalid checksum line", map[string]interface{}{
			"manifest": manifest,
			"line":     parseErr.Pos,
			"error":    parseErr.Err,
		})
	}

	if err != nil {
		return manifest, err
	}

	b.logger.Info("checksums written", map[string]interface{}{"manifest": manifest, "archives": len(entries)})

	return manifest, nil
}
