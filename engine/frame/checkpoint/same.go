package checkpoint

// SamePosition compares two records the way flow.LayoutPosition.IsSamePosition
// compares layout positions, without resolving any nodes. Fragment indices
// and formatting contexts are ignored.
func SamePosition(a, b *LayoutRecord) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Page != b.Page || a.HighestSeenOffset != b.HighestSeenOffset ||
		len(a.Positions) != len(b.Positions) {
		return false
	}
	byFlow := make(map[string]*FlowPositionRecord, len(b.Positions))
	for i := range b.Positions {
		byFlow[b.Positions[i].Flow] = &b.Positions[i]
	}
	for i := range a.Positions {
		other, ok := byFlow[a.Positions[i].Flow]
		if !ok || !sameFlowPosition(a, b, &a.Positions[i], other) {
			return false
		}
	}
	return true
}

func sameFlowPosition(ra, rb *LayoutRecord, a, b *FlowPositionRecord) bool {
	if len(a.Chunks) != len(b.Chunks) {
		return false
	}
	for i := range a.Chunks {
		ca, cb := &a.Chunks[i], &b.Chunks[i]
		sa, oka := chunkStart(ra, ca.Chunk)
		sb, okb := chunkStart(rb, cb.Chunk)
		if oka != okb || sa != sb {
			return false
		}
		if !sameNodePosition(ca.Primary, cb.Primary) {
			return false
		}
		if (ca.HasFloats || len(ca.Floats) > 0) != (cb.HasFloats || len(cb.Floats) > 0) ||
			len(ca.Floats) != len(cb.Floats) {
			return false
		}
		for j := range ca.Floats {
			if !sameNodePosition(ca.Floats[j], cb.Floats[j]) {
				return false
			}
		}
	}
	return true
}

func chunkStart(r *LayoutRecord, index int) (int, bool) {
	if index < 0 || index >= len(r.Chunks) {
		return 0, false
	}
	return r.Chunks[index].StartOffset, true
}

func sameNodePosition(a, b *NodePositionRecord) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.OffsetInNode != b.OffsetInNode || a.After != b.After || len(a.Steps) != len(b.Steps) {
		return false
	}
	for i := range a.Steps {
		if !sameStep(&a.Steps[i], &b.Steps[i]) {
			return false
		}
	}
	return true
}

func sameStep(a, b *StepRecord) bool {
	if a == nil || b == nil {
		return a == b
	}
	return sameRef(&a.Node, &b.Node) && shadowType(a.ShadowType) == shadowType(b.ShadowType) &&
		sameShadow(a.Shadow, b.Shadow) && sameShadow(a.NodeShadow, b.NodeShadow) &&
		sameStep(a.ShadowSibling, b.ShadowSibling)
}

func shadowType(t string) string {
	if t == "" {
		return "none"
	}
	return t
}

// sameShadow mirrors position.ShadowContext.Equals: roots are not compared.
func sameShadow(a, b *ShadowRecord) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Type == b.Type && a.Doc == b.Doc && sameRef(a.Owner, b.Owner) &&
		sameShadow(a.Parent, b.Parent)
}

func sameRef(a, b *NodeRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Doc == b.Doc && a.Path == b.Path
}
