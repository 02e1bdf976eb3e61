// Package handoff implements the static transfer table used by handoff
// orchestration: a directed graph of edges between agents, each carrying a
// natural-language condition interpreted by the acting agent itself.
//
// Cycles (A→B→A) are legal and expected, e.g. return-to-triage patterns, so
// the table enforces no acyclicity. Resolution is advisory: a declared
// target that matches no registered edge yields no match rather than an
// error, leaving the engine a deterministic fallback path.
package handoff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/convoke-ai/convoke/core"
)

// Edge is one directed transfer permission with its prose condition.
type Edge struct {
	Source    core.AgentID `json:"source"`
	Target    core.AgentID `json:"target"`
	Condition string       `json:"condition"`
}

// Table maps each source agent to the edges it may transfer along. The
// table is caller-supplied configuration, built once and not mutated at
// runtime.
type Table struct {
	edges map[core.AgentID][]Edge
}

// NewTable creates an empty handoff table.
func NewTable() *Table {
	return &Table{edges: make(map[core.AgentID][]Edge)}
}

// Add registers a single transfer edge and returns the table for chaining.
func (t *Table) Add(source, target core.AgentID, condition string) *Table {
	t.edges[source] = append(t.edges[source], Edge{Source: source, Target: target, Condition: condition})
	return t
}

// AddMany registers one edge per target for a single source. Edges are
// inserted in target-name order so iteration stays deterministic.
func (t *Table) AddMany(source core.AgentID, targets map[core.AgentID]string) *Table {
	ids := make([]core.AgentID, 0, len(targets))
	for id := range targets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		t.Add(source, id, targets[id])
	}
	return t
}

// TargetsFor returns a copy of the edges registered for a source.
func (t *Table) TargetsFor(source core.AgentID) []Edge {
	edges := t.edges[source]
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

// Empty reports whether the table holds no edges.
func (t *Table) Empty() bool { return len(t.edges) == 0 }

// Resolve matches a declared target against the edges registered for the
// source. Matching is best effort: an exact case-insensitive target name
// wins; otherwise a target name contained in the declared text matches if
// it is the only such candidate. No match returns false, never an error,
// so the engine can fall back to its selection policy.
func (t *Table) Resolve(source core.AgentID, declared string) (core.AgentID, bool) {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return "", false
	}
	lowered := strings.ToLower(declared)

	var candidates []core.AgentID
	for _, edge := range t.edges[source] {
		target := strings.ToLower(string(edge.Target))
		if target == lowered {
			return edge.Target, true
		}
		if strings.Contains(lowered, target) {
			candidates = append(candidates, edge.Target)
		}
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}
	return "", false
}

// Validate checks that every edge endpoint names a participating agent.
func (t *Table) Validate(participants []core.AgentID) error {
	known := make(map[core.AgentID]bool, len(participants))
	for _, id := range participants {
		known[id] = true
	}
	for source, edges := range t.edges {
		if !known[source] {
			return fmt.Errorf("handoff source %q is not a participant", source)
		}
		for _, edge := range edges {
			if !known[edge.Target] {
				return fmt.Errorf("handoff target %q (from %q) is not a participant", edge.Target, source)
			}
		}
	}
	return nil
}

// Directive is the line prefix an agent uses to textually declare a
// transfer in its response.
const Directive = "HANDOFF:"

// ExtractDirective scans response text for a transfer declaration. It
// returns the text with the directive line removed plus the declared target
// verbatim; target is empty when no directive is present.
func ExtractDirective(text string) (content, target string) {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if target == "" && strings.HasPrefix(strings.ToUpper(trimmed), Directive) {
			target = strings.TrimSpace(trimmed[len(Directive):])
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n")), target
}
