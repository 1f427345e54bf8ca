package orz

// LZCfg carries the three search-depth knobs the match finder uses to
// bound its work: how many recency candidates to examine for the primary
// match, and for each of the two lazy lookahead positions.
type LZCfg struct {
	MatchDepth      int
	LazyMatchDepth1 int
	LazyMatchDepth2 int
}

// A fixed table of named presets: each widens the search at the cost of
// encoder time.
var (
	PresetFast    = LZCfg{MatchDepth: 8, LazyMatchDepth1: 4, LazyMatchDepth2: 2}
	PresetDefault = LZCfg{MatchDepth: 32, LazyMatchDepth1: 16, LazyMatchDepth2: 8}
	PresetBest    = LZCfg{MatchDepth: bucketItemSize, LazyMatchDepth1: 32, LazyMatchDepth2: 16}
)

// DefaultCfg returns the preset used when a caller has no particular
// throughput/ratio preference.
func DefaultCfg() LZCfg {
	return PresetDefault
}
