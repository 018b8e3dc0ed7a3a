// Package emit implements the format-specific serializers named by the
// external interface: `yaml` via gopkg.in/yaml.v3 (shared with pkg/parser,
// which already walks *yaml.Node directly rather than through
// yaml.Unmarshal into interface{}); `json` via encoding/json plus an
// order-preserving marshal wrapper grounded on the teacher's
// pkg/types/value.go Value.MarshalJSON, which builds JSON object bytes by
// hand from an ordered key list rather than handing a map to
// encoding/json (which would sort or randomize key order); `toml` via
// github.com/pelletier/go-toml/v2; and `python`, a repr-style serializer
// with no ecosystem equivalent, written by hand and justified in the
// grounding ledger.
package emit

import (
	"path/filepath"
	"strings"

	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
)

// Options carries every emit-argument named by the external interface
// across all four formats; each emitter reads only the fields meaningful
// to it.
type Options struct {
	// yaml
	Indent        int
	Width         int
	Offset        int
	ExplicitStart bool

	// json
	SortKeys    bool
	EnsureASCII bool
	Separators  [2]string // [itemSep, keySep]; zero value means "use the format default"
	AllowNaN    bool
	SkipKeys    bool
}

// DefaultOptions returns the documented defaults for format.
func DefaultOptions(format string) Options {
	switch format {
	case "yaml":
		return Options{Indent: 2, Width: 80}
	case "json":
		return Options{AllowNaN: true, Separators: [2]string{",", ":"}}
	default:
		return Options{}
	}
}

// InferFormat maps a filename extension to an emit format, per "Extension
// inference: .yaml|.yml → yaml, .json → json, .toml → toml".
func InferFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	case ".py":
		return "python"
	default:
		return "yaml"
	}
}

// Emit serializes n according to format, using opts (zero-value opts get
// format defaults merged in by each emitter where applicable).
func Emit(n node.Node, format string, opts Options) ([]byte, error) {
	switch format {
	case "yaml", "yml":
		return EmitYAML(n, opts)
	case "json":
		return EmitJSON(n, opts)
	case "toml":
		return EmitTOML(n, opts)
	case "python":
		return EmitPython(n), nil
	default:
		return nil, errors.IO(n.Line(), "unsupported emit format %q", format)
	}
}
