package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []domain.State
	CurrentState  domain.State
	// CurrentSet marks CurrentState as meaningful (StateA is the zero value).
	CurrentSet bool
}

// GenerateMermaid produces a Mermaid flowchart of the states reachable from
// StateA. Edges between the same pair of states are merged; each label line
// reads "read / write move". Shapes:
// - StateA: ((Circle))
// - Halting states: [[Subroutine]]
// - Default: [Rectangle]
func GenerateMermaid(rules domain.Rules, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, s := range reachable(rules) {
		opener, closer := "[", "]"
		switch {
		case s == domain.StateA:
			opener, closer = "((", "))"
		case s.IsHalting():
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(s), opener, s, closer)
	}

	for _, s := range reachable(rules) {
		if !s.IsWorking() {
			continue
		}
		// Group labels by target, keeping the first-seen target order.
		var targets []domain.State
		labels := make(map[domain.State][]string)
		for sym := 0; sym < domain.NumSymbols; sym++ {
			r := rules[s][sym]
			if _, seen := labels[r.Next]; !seen {
				targets = append(targets, r.Next)
			}
			label := string(domain.Symbol(sym).Glyph())
			if !r.Halts() {
				label = fmt.Sprintf("%c / %c %c", domain.Symbol(sym).Glyph(), r.Write.Glyph(), r.Move.Glyph())
			}
			labels[r.Next] = append(labels[r.Next], label)
		}
		for _, to := range targets {
			text := strings.ReplaceAll(strings.Join(labels[to], "<br/>"), "\"", "'")
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", nodeID(s), text, nodeID(to))
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[domain.State]bool)
		for _, s := range overlay.VisitedStates {
			if !visited[s] && s.Valid() {
				visited[s] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(s))
			}
		}
		if overlay.CurrentSet {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.CurrentState))
		}
	}

	return sb.String()
}

// reachable lists the states reachable from StateA in breadth-first order.
func reachable(rules domain.Rules) []domain.State {
	seen := map[domain.State]bool{domain.StateA: true}
	order := []domain.State{domain.StateA}
	for i := 0; i < len(order); i++ {
		s := order[i]
		if !s.IsWorking() {
			continue
		}
		for sym := 0; sym < domain.NumSymbols; sym++ {
			next := rules[s][sym].Next
			if !seen[next] {
				seen[next] = true
				order = append(order, next)
			}
		}
	}
	return order
}

// nodeID keeps Mermaid from reading single letters as keywords.
func nodeID(s domain.State) string {
	return "s_" + s.String()
}
