// Package graph assigns commits to lanes for drawing a branch/merge graph.
//
// Layout is a single forward pass over an ordered commit list. The lane a
// commit lands in depends on every commit before it, so rows cannot be laid
// out independently.
package graph

import (
	"maps"
	"slices"
)

// expectation is what an active lane waits for next.
type expectation struct {
	hash  string
	color int
}

type layoutState struct {
	known      map[string]struct{}
	commitLane map[string]int
	active     map[int]expectation
	nextColor  int
}

// Layout returns one Node per commit, in input order. Parents that are not
// part of commits are dropped and their edges are not drawn.
func Layout(commits []Commit) []Node {
	st := newLayoutState(commits)
	nodes := make([]Node, len(commits))
	for row, c := range commits {
		nodes[row] = st.place(row, c)
	}
	return nodes
}

func newLayoutState(commits []Commit) *layoutState {
	known := make(map[string]struct{}, len(commits))
	for _, c := range commits {
		known[c.Hash] = struct{}{}
	}
	return &layoutState{
		known:      known,
		commitLane: make(map[string]int, len(commits)),
		active:     make(map[int]expectation),
	}
}

func (s *layoutState) place(row int, c Commit) Node {
	node := Node{Hash: c.Hash, Row: row}
	node.Continuing = s.snapshot()

	parents := s.presentParents(c)

	lane, color, converging, found := s.claim(c.Hash)
	if !found {
		lane = s.freshLane(parents)
		color = s.allocColor()
	}
	node.Lane = lane
	node.Color = color
	node.Converging = converging
	s.commitLane[c.Hash] = lane

	for i, parent := range parents {
		if placed, ok := s.commitLane[parent]; ok {
			// Parent already drawn above; nothing will arrive in a lane for it.
			// A merge edge drawn into the commit's own lane would read as a
			// linear edge, so it is pointed at a free lane instead.
			if i > 0 && placed == lane {
				placed = s.lowestFreeLane(lane)
				s.allocColor()
			}
			node.Connectors = append(node.Connectors, Connector{Parent: parent, FromLane: lane, ToLane: placed})
			continue
		}
		target := lane
		if i == 0 {
			s.active[lane] = expectation{hash: parent, color: color}
		} else if existing, ok := s.expecting(parent); ok {
			target = existing
		} else {
			target = s.lowestFreeLane(lane)
			s.active[target] = expectation{hash: parent, color: s.allocColor()}
		}
		node.Connectors = append(node.Connectors, Connector{Parent: parent, FromLane: lane, ToLane: target})
	}
	node.Merge = len(parents) >= 2

	node.Active = s.snapshot()
	return node
}

// presentParents drops parents outside the known set and duplicates,
// keeping order.
func (s *layoutState) presentParents(c Commit) []string {
	var parents []string
	for _, p := range c.Parents {
		if _, ok := s.known[p]; !ok {
			continue
		}
		if slices.Contains(parents, p) {
			continue
		}
		parents = append(parents, p)
	}
	return parents
}

// claim resolves every lane waiting for hash. The lowest one becomes the
// commit's lane; the rest are reported as converging.
func (s *layoutState) claim(hash string) (lane, color int, converging []int, ok bool) {
	lanes := s.lanesExpecting(hash)
	if len(lanes) == 0 {
		return 0, 0, nil, false
	}
	lane = lanes[0]
	color = s.active[lane].color
	for _, l := range lanes {
		delete(s.active, l)
	}
	if len(lanes) > 1 {
		converging = lanes[1:]
	}
	return lane, color, converging, true
}

// freshLane picks the lane for a commit nobody was waiting for.
func (s *layoutState) freshLane(parents []string) int {
	if len(parents) > 0 {
		if l, ok := s.commitLane[parents[0]]; ok {
			if _, busy := s.active[l]; !busy {
				return l
			}
		}
	}
	return s.lowestFreeLane(-1)
}

// lowestFreeLane scans upwards from lane 0, skipping exclude. Pass -1 to
// exclude nothing.
func (s *layoutState) lowestFreeLane(exclude int) int {
	for lane := 0; ; lane++ {
		if lane == exclude {
			continue
		}
		if _, busy := s.active[lane]; !busy {
			return lane
		}
	}
}

func (s *layoutState) expecting(hash string) (int, bool) {
	lanes := s.lanesExpecting(hash)
	if len(lanes) == 0 {
		return 0, false
	}
	return lanes[0], true
}

func (s *layoutState) lanesExpecting(hash string) []int {
	var lanes []int
	for lane, exp := range s.active {
		if exp.hash == hash {
			lanes = append(lanes, lane)
		}
	}
	slices.Sort(lanes)
	return lanes
}

func (s *layoutState) allocColor() int {
	c := s.nextColor
	s.nextColor++
	return c
}

func (s *layoutState) snapshot() []LaneColor {
	if len(s.active) == 0 {
		return nil
	}
	lanes := slices.Sorted(maps.Keys(s.active))
	out := make([]LaneColor, 0, len(lanes))
	for _, lane := range lanes {
		out = append(out, LaneColor{Lane: lane, Color: s.active[lane].color})
	}
	return out
}
