package babel

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// interpreter applies a rule tree to the state of a single parse.
// Failing to match is reported as `ok == false` and is routine: it
// happens every time an alternative is discarded.  Errors are only
// used for things that must abort the whole parse.
type interpreter struct {
	defaultHandler Handler
	maxDepth       int
	trace          bool
	traceLevel     klog.Level

	depth int

	// furthest is the largest position where a terminal failed
	// to match, which is usually where the input is wrong
	furthest int
}

func (in *interpreter) visit(r Rule, s *state) (Values, bool, error) {
	in.depth++
	defer func() { in.depth-- }()

	if in.maxDepth > 0 && in.depth > in.maxDepth {
		return nil, false, errors.Wrapf(ErrMaxDepth, "%d levels deep in `%s` @ %s",
			in.maxDepth, label(r), s.cursor.Location())
	}
	if in.trace {
		klog.V(in.traceLevel).Infof("%*s> %s @ %d", in.depth, "", label(r), s.cursor.Pos())
	}

	vals, ok, err := in.dispatch(r, s)

	if in.trace {
		klog.V(in.traceLevel).Infof("%*s< %s ok=%t %s", in.depth, "", label(r), ok, vals)
	}
	if err != nil {
		return nil, false, err
	}
	if !ok {
		s.cursor.Fail()
	}
	return vals, ok, nil
}

func (in *interpreter) dispatch(r Rule, s *state) (Values, bool, error) {
	switch n := r.(type) {
	case *TerminalNode:
		return in.visitTerminal(n, s)
	case *SequenceNode:
		return in.visitSequence(n, s)
	case *AlternativeNode:
		return in.visitAlternative(n, s)
	case *RepeatNode:
		return in.visitRepeat(n, s)
	case *OptionalNode:
		return in.visitOptional(n, s)
	case *NotNode:
		return in.visitNot(n, s)
	case *AlwaysNode:
		return in.apply(n, nil)
	case *NeverNode:
		return nil, false, nil
	case *IgnoreNode:
		return in.visitIgnore(n, s)
	case *PushNode:
		return in.visitPush(n, s)
	case *HandleNode:
		return in.visitHandle(n, s)
	case *CopyNode:
		return in.visitCopy(n, s)
	case *CutNode:
		return in.visitCut(n, s)
	case *PasteNode:
		vals, ok := s.table.lookup(n.Key)
		return vals, ok, nil
	case *RefNode:
		if n.target == nil {
			return nil, false, errors.Wrapf(ErrUnresolvedRef, "`%s`", n.name)
		}
		return in.visit(n.target, s)
	default:
		panic(fmt.Sprintf("unknown rule type %T", r))
	}
}

// apply runs the handler attached to `r`, or the default one
func (in *interpreter) apply(r Rule, vals Values) (Values, bool, error) {
	h := r.base().handler
	if h == nil {
		h = in.defaultHandler
	}
	out, err := h(vals)
	if err != nil {
		return nil, false, &HandlerError{Rule: label(r), Err: err}
	}
	return out, true, nil
}

func (in *interpreter) visitTerminal(n *TerminalNode, s *state) (Values, bool, error) {
	at := s.cursor.next()
	vals, ok, err := n.Matcher.Match(s.cursor)
	if err != nil {
		return nil, false, &HandlerError{Rule: label(n), Err: err}
	}
	if !ok {
		if at > in.furthest {
			in.furthest = at
		}
		return nil, false, nil
	}
	return in.apply(n, vals)
}

// visitSequence doesn't fork: whoever needs to roll back a failed
// sequence forks before getting here
func (in *interpreter) visitSequence(n *SequenceNode, s *state) (Values, bool, error) {
	var out Values
	for _, item := range n.Items {
		vals, ok, err := in.visit(item, s)
		if err != nil || !ok {
			return nil, false, err
		}
		out = append(out, vals...)
	}
	return in.apply(n, out)
}

func (in *interpreter) visitAlternative(n *AlternativeNode, s *state) (Values, bool, error) {
	for _, item := range n.Items {
		f := s.fork()
		vals, ok, err := in.visit(item, f)
		if err != nil {
			return nil, false, err
		}
		if ok {
			s.join(f)
			return in.apply(n, vals)
		}
	}
	return nil, false, nil
}

// visitRepeat forks for every iteration so an iteration that fails
// half way doesn't leave anything behind.  An iteration that succeeds
// without consuming input ends the loop, otherwise it'd never end.
func (in *interpreter) visitRepeat(n *RepeatNode, s *state) (Values, bool, error) {
	var out Values
	for {
		f := s.fork()
		vals, ok, err := in.visit(n.Expr, f)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			break
		}
		progress := f.cursor.Pos() != s.cursor.Pos()
		s.join(f)
		out = append(out, vals...)
		if !progress {
			break
		}
	}
	return in.apply(n, out)
}

func (in *interpreter) visitOptional(n *OptionalNode, s *state) (Values, bool, error) {
	f := s.fork()
	vals, ok, err := in.visit(n.Expr, f)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return in.apply(n, nil)
	}
	s.join(f)
	return in.apply(n, vals)
}

// visitNot never joins its fork: whatever `Expr` consumed, pushed or
// stored is dropped regardless of the outcome
func (in *interpreter) visitNot(n *NotNode, s *state) (Values, bool, error) {
	_, ok, err := in.visit(n.Expr, s.fork())
	if err != nil {
		return nil, false, err
	}
	if ok {
		return nil, false, nil
	}
	return in.apply(n, nil)
}

func (in *interpreter) visitIgnore(n *IgnoreNode, s *state) (Values, bool, error) {
	if _, ok, err := in.visit(n.Expr, s); err != nil || !ok {
		return nil, false, err
	}
	return in.apply(n, nil)
}

func (in *interpreter) visitPush(n *PushNode, s *state) (Values, bool, error) {
	vals, ok, err := in.visit(n.Expr, s)
	if err != nil || !ok {
		return nil, false, err
	}
	if len(vals) == 0 {
		return nil, true, nil
	}
	out, _, err := in.apply(n, vals)
	if err != nil {
		return nil, false, err
	}
	s.stack = append(s.stack, out...)
	return nil, true, nil
}

func (in *interpreter) visitHandle(n *HandleNode, s *state) (Values, bool, error) {
	vals, ok, err := in.visit(n.Expr, s)
	if err != nil || !ok {
		return nil, false, err
	}
	return in.apply(n, vals)
}

func (in *interpreter) visitCopy(n *CopyNode, s *state) (Values, bool, error) {
	vals, ok, err := in.visit(n.Expr, s)
	if err != nil || !ok {
		return nil, false, err
	}
	s.table = s.table.store(n.Key, vals)
	return vals, true, nil
}

func (in *interpreter) visitCut(n *CutNode, s *state) (Values, bool, error) {
	vals, ok, err := in.visit(n.Expr, s)
	if err != nil || !ok {
		return nil, false, err
	}
	s.table = s.table.store(n.Key, vals)
	return in.apply(n, nil)
}
