package lpedit

import "sort"

// maxFrozenReasonSample caps the number of distinct frozen reasons in Stats.
const maxFrozenReasonSample = 5

// Stats summarizes the editable model of a project.
type Stats struct {
	EditableText   int      `json:"editableText"`
	EditableImages int      `json:"editableImages"`
	EditableLinks  int      `json:"editableLinks"`
	FrozenBlocks   int      `json:"frozenBlocks"`
	FrozenSections int      `json:"frozenSections"`
	FrozenReasons  []string `json:"frozenReasons"`
}

// RecomputeStats derives Stats from the current sections and blocks.
func (p *ImportProject) RecomputeStats() {
	var st Stats
	reasons := make(map[string]struct{})

	for _, s := range p.Sections {
		if s.Frozen() {
			st.FrozenSections++
			for _, r := range s.FrozenReasons {
				reasons[r] = struct{}{}
			}
		}
		for _, b := range s.Blocks {
			switch b.Type() {
			case BlockText:
				st.EditableText++
			case BlockLink:
				st.EditableLinks++
			case BlockImage:
				st.EditableImages++
			case BlockFrozen:
				st.FrozenBlocks++
				if r := b.FrozenReason(); r != "" {
					reasons[r] = struct{}{}
				}
			}
		}
	}

	for r := range reasons {
		st.FrozenReasons = append(st.FrozenReasons, r)
	}
	sort.Strings(st.FrozenReasons)
	if len(st.FrozenReasons) > maxFrozenReasonSample {
		st.FrozenReasons = st.FrozenReasons[:maxFrozenReasonSample]
	}

	p.Stats = st
}
