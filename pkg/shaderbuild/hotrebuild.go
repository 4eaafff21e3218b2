// SPDX-License-Identifier: MPL-2.0

package shaderbuild

// HotRebuild returns the current text for target, rebuilding it only when
// the signatures of its dependency closure differ from the last successful
// build.
//
// changed is true only when a rebuild happened and succeeded. On failure the
// last good text (empty if there is none) is returned together with a
// *BuildError and the cached record is kept.
func (b *Builder) HotRebuild(target string) (string, bool, error) {
	prev, hasPrev := b.records[target]
	lastText := ""
	if hasPrev {
		lastText = prev.Text
	}

	order, err := b.Resolve(target)
	if err != nil {
		return lastText, false, b.buildFailed(target, err)
	}

	if hasPrev && b.fresh(prev, order) {
		return prev.Text, false, nil
	}

	rec, err := b.build(target)
	if err != nil {
		return lastText, false, b.buildFailed(target, err)
	}
	b.logf("rebuilt %q: %d modules, %d bytes", target, len(rec.Order), len(rec.Text))
	return rec.Text, true, nil
}

// fresh reports whether every module in order still has the origin recorded
// in rec and a signature equal to the recorded one under the builder's
// signature mode.
func (b *Builder) fresh(rec *BuildRecord, order []string) bool {
	if len(order) != len(rec.Signatures) {
		return false
	}
	for _, name := range order {
		cached, ok := rec.Signatures[name]
		if !ok {
			return false
		}
		m, err := b.store.Get(name)
		if err != nil || m.Origin != rec.Origins[name] || !m.Signature.Equal(cached, b.mode) {
			return false
		}
	}
	return true
}
