package graph

// Commit is the minimal history record the layout needs. Author, date and
// message live with the history provider and are never consulted here.
type Commit struct {
	Hash    string
	Parents []string
}

// Connector is a line segment from a commit's lane to one of its parents'
// lanes.
type Connector struct {
	Parent   string `json:"parent" yaml:"parent"`
	FromLane int    `json:"from_lane" yaml:"from_lane"`
	ToLane   int    `json:"to_lane" yaml:"to_lane"`
}

// LaneColor pairs an occupied lane with the color id drawn in it.
type LaneColor struct {
	Lane  int
	Color int
}

// Node is the visual placement of one commit. Row always equals the index of
// the commit in the Layout input.
type Node struct {
	Hash  string
	Row   int
	Lane  int
	Color int

	Connectors []Connector

	// Continuing holds the lanes active above the node, sorted by lane.
	Continuing []LaneColor
	// Active holds the lanes active below the node, sorted by lane.
	Active []LaneColor

	// Converging lists other lanes that were also waiting for this commit and
	// end at this node.
	Converging []int

	Merge bool
}

// Width returns the number of lane columns needed to draw the row.
func (n Node) Width() int {
	width := n.Lane + 1
	for _, lc := range n.Continuing {
		width = max(width, lc.Lane+1)
	}
	for _, lc := range n.Active {
		width = max(width, lc.Lane+1)
	}
	for _, c := range n.Connectors {
		width = max(width, c.ToLane+1)
	}
	return width
}

// ColorOf returns the color id of lane in lanes, if present.
func ColorOf(lanes []LaneColor, lane int) (int, bool) {
	for _, lc := range lanes {
		if lc.Lane == lane {
			return lc.Color, true
		}
	}
	return 0, false
}
