package checkpoint

// LayoutRecord is the serializable form of a flow.LayoutPosition.
type LayoutRecord struct {
	Page              int                  `yaml:"page"`
	HighestSeenOffset int                  `yaml:"highest_seen_offset"`
	Flows             []FlowRecord         `yaml:"flows,omitempty"`
	Chunks            []FlowChunkRecord    `yaml:"chunks,omitempty"`
	Positions         []FlowPositionRecord `yaml:"positions,omitempty"`
}

// FlowRecord is the serializable form of a flow.Flow.
type FlowRecord struct {
	Name              string `yaml:"name"`
	Parent            string `yaml:"parent,omitempty"`
	ForcedBreaks      []int  `yaml:"forced_breaks,omitempty,flow"`
	FormattingContext string `yaml:"formatting_context,omitempty"`
}

// NodeRef references a node by document URL and location path.
type NodeRef struct {
	Doc  string `yaml:"doc,omitempty"`
	Path string `yaml:"path"`
}

// FlowChunkRecord is the serializable form of a flow.FlowChunk.
type FlowChunkRecord struct {
	Flow        string   `yaml:"flow"`
	Element     *NodeRef `yaml:"element,omitempty"`
	StartOffset int      `yaml:"start_offset"`
	Priority    int      `yaml:"priority"`
	Linger      int      `yaml:"linger,omitempty"`
	Exclusive   bool     `yaml:"exclusive,omitempty"`
	Repeated    bool     `yaml:"repeated,omitempty"`
	Last        bool     `yaml:"last,omitempty"`
	StartPage   int      `yaml:"start_page"`
	BreakBefore string   `yaml:"break_before,omitempty"`
}

// FlowPositionRecord is the serializable form of a flow.FlowPosition.
type FlowPositionRecord struct {
	Flow       string        `yaml:"flow"`
	StartSide  string        `yaml:"start_side,omitempty"`
	BreakAfter string        `yaml:"break_after,omitempty"`
	Chunks     []ChunkRecord `yaml:"chunks,omitempty"`
}

// ChunkRecord is the serializable form of a flow.FlowChunkPosition. Chunk
// is an index into LayoutRecord.Chunks.
type ChunkRecord struct {
	Chunk     int                   `yaml:"chunk"`
	Primary   *NodePositionRecord   `yaml:"primary,omitempty"`
	HasFloats bool                  `yaml:"has_floats,omitempty"`
	Floats    []*NodePositionRecord `yaml:"floats,omitempty"`
}

// NodePositionRecord is the serializable form of a position.NodePosition.
type NodePositionRecord struct {
	Steps        []StepRecord   `yaml:"steps"`
	OffsetInNode int            `yaml:"offset"`
	After        bool           `yaml:"after,omitempty"`
	Preprocessed []ChangeRecord `yaml:"preprocessed,omitempty"`
}

// StepRecord is the serializable form of a position.NodePositionStep.
type StepRecord struct {
	Node              NodeRef       `yaml:"node"`
	ShadowType        string        `yaml:"shadow_type,omitempty"`
	Shadow            *ShadowRecord `yaml:"shadow,omitempty"`
	NodeShadow        *ShadowRecord `yaml:"node_shadow,omitempty"`
	ShadowSibling     *StepRecord   `yaml:"shadow_sibling,omitempty"`
	FormattingContext string        `yaml:"formatting_context,omitempty"`
	FragmentIndex     int           `yaml:"fragment"`
}

// ShadowRecord is the serializable form of a position.ShadowContext.
// Stylers and sub-shadow links are not recorded.
type ShadowRecord struct {
	Owner  *NodeRef      `yaml:"owner,omitempty"`
	Root   *NodeRef      `yaml:"root,omitempty"`
	Doc    string        `yaml:"doc,omitempty"`
	Type   string        `yaml:"type"`
	Parent *ShadowRecord `yaml:"parent,omitempty"`
}

// ChangeRecord is the serializable form of a position.Change.
type ChangeRecord struct {
	Op   int    `yaml:"op"`
	Text string `yaml:"text"`
}
