package protocol

import (
	"fmt"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/optsx"
)

// Render emits the protocol-schema backend per spec.md §6: one XML file
// per service for v2/v4, or one JSON document per service for v4 with
// odataFormat carrying no bearing on the wire shape (it only changed how
// the preprocessor flattened paths upstream). It refuses to emit if sink
// already carries an error, per the error-propagation rule every renderer
// shares.
func Render(store *model.Store, opts *optsx.Options, sink *errs.Sink) (map[string]string, error) {
	if sink.HasErrors() {
		return nil, fmt.Errorf("protocol: refusing to emit, the model carries unresolved errors")
	}
	schemas := BuildAll(store, opts)

	out := make(map[string]string, len(schemas))
	for name, sch := range schemas {
		switch opts.Version {
		case optsx.V2:
			out[name+".xml"] = sch.XMLv2()
		default:
			body, err := sch.JSONv4()
			if err != nil {
				return nil, fmt.Errorf("protocol: rendering %s: %w", name, err)
			}
			out[name+".xml"] = sch.XMLv4()
			out[name+".json"] = string(body)
		}
	}
	return out, nil
}
