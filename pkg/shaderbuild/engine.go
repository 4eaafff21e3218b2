// SPDX-License-Identifier: MPL-2.0

package shaderbuild

import (
	"fmt"
	"strings"

	"github.com/invowk/modglsl/pkg/shadermod"
)

// Build resolves target and concatenates its modules, ignoring any cached
// record. On success the target's build record is replaced. On failure a
// *BuildError is returned and the previous record is kept.
func (b *Builder) Build(target string) (string, error) {
	rec, err := b.build(target)
	if err != nil {
		return "", b.buildFailed(target, err)
	}
	b.logf("built %q: %d modules, %d bytes", target, len(rec.Order), len(rec.Text))
	return rec.Text, nil
}

func (b *Builder) build(target string) (*BuildRecord, error) {
	order, err := b.Resolve(target)
	if err != nil {
		return nil, err
	}

	modules := make([]*shadermod.Module, 0, len(order))
	for _, name := range order {
		m, err := b.store.Get(name)
		if err != nil {
			return nil, &ModuleNotFoundError{Name: name}
		}
		modules = append(modules, m)
	}

	rec := &BuildRecord{
		Target:     target,
		Text:       b.concat(modules),
		Signatures: make(map[string]shadermod.Signature, len(modules)),
		Origins:    make(map[string]string, len(modules)),
		Order:      order,
		BuiltAt:    b.now(),
	}
	for _, m := range modules {
		rec.Signatures[m.Name] = m.Signature
		rec.Origins[m.Name] = m.Origin
	}
	b.records[target] = rec
	return rec, nil
}

func (b *Builder) concat(modules []*shadermod.Module) string {
	var sb strings.Builder
	for _, m := range modules {
		if b.markers {
			fmt.Fprintf(&sb, "// --- module: %s (%s) ---\n", m.Name, m.Origin)
		}
		sb.WriteString(m.Source)
		if m.Source != "" && !strings.HasSuffix(m.Source, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (b *Builder) buildFailed(target string, err error) *BuildError {
	be := &BuildError{Target: target, Err: err}
	b.logf("%v", be)
	return be
}
