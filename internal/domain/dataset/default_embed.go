package dataset

import (
	"bytes"
	_ "embed"

	"github.com/skipperlabs/skipper/internal/domain/model"
)

// Bundled sample season so the service and CLI work out of the box
// before any upload.
//
//go:embed default.csv
var defaultCSV []byte

// Default returns the embedded sample dataset. The embedded file is
// covered by tests, so decode failure here indicates a broken build.
func Default() ([]model.CaptainRecord, error) {
	return Decode(bytes.NewReader(defaultCSV))
}
