package babel

import (
	"strings"

	"github.com/pkg/errors"
)

// Inspect traverses a rule tree in depth-first order, calling `f` for
// each rule.  If `f` returns false the children of that rule are
// skipped.  Each rule is visited once, so recursive grammars are
// fine.
func Inspect(r Rule, f func(Rule) bool) {
	inspect(r, f, map[Rule]struct{}{})
}

func inspect(r Rule, f func(Rule) bool, visited map[Rule]struct{}) {
	if r == nil {
		return
	}
	if _, ok := visited[r]; ok {
		return
	}
	visited[r] = struct{}{}
	if !f(r) {
		return
	}
	for _, child := range children(r) {
		inspect(child, f, visited)
	}
}

func children(r Rule) []Rule {
	switch n := r.(type) {
	case *SequenceNode:
		return n.Items
	case *AlternativeNode:
		return n.Items
	case *RepeatNode:
		return []Rule{n.Expr}
	case *OptionalNode:
		return []Rule{n.Expr}
	case *NotNode:
		return []Rule{n.Expr}
	case *IgnoreNode:
		return []Rule{n.Expr}
	case *PushNode:
		return []Rule{n.Expr}
	case *HandleNode:
		return []Rule{n.Expr}
	case *CopyNode:
		return []Rule{n.Expr}
	case *CutNode:
		return []Rule{n.Expr}
	case *RefNode:
		if target := n.Target(); target != nil {
			return []Rule{target}
		}
	}
	return nil
}

// Validate returns an error wrapping ErrUnresolvedRef if any
// reference reachable from `r` was never set
func Validate(r Rule) error {
	var missing []string
	Inspect(r, func(r Rule) bool {
		if ref, ok := r.(*RefNode); ok && ref.Target() == nil {
			missing = append(missing, "`"+ref.name+"`")
		}
		return true
	})
	if len(missing) > 0 {
		return errors.Wrapf(ErrUnresolvedRef, "%s", strings.Join(missing, ", "))
	}
	return nil
}
