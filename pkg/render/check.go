package render

import (
	"github.com/goccy/go-graphviz"

	"github.com/asanagraph/asana-deps-graph/pkg/errors"
)

// Check parses DOT text with Graphviz and reports whether it is
// syntactically valid. Rendering stays with external tools; this only
// guards against emitting output a downstream `dot` would reject.
func Check(dot string) error {
	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "generated DOT failed to parse")
	}
	return g.Close()
}
