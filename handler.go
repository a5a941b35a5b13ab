package babel

// Handler transforms the raw result of a rule into the values the
// rule returns.  Handlers only ever see results of successful
// matches, so an error from a handler is a hard error, not a parse
// failure.
type Handler func(Values) (Values, error)

// Identity is the default handler: it returns its input untouched.
func Identity(v Values) (Values, error) { return v, nil }

// Const returns a handler that discards its input and returns
// `values` instead
func Const(values ...any) Handler {
	return func(Values) (Values, error) {
		if len(values) == 0 {
			return nil, nil
		}
		out := make(Values, len(values))
		copy(out, values)
		return out, nil
	}
}

// Flatten is a handler that splices nested Values into a single
// level
func Flatten(v Values) (Values, error) {
	var out Values
	for _, item := range v {
		if nested, ok := item.(Values); ok {
			flat, _ := Flatten(nested)
			out = append(out, flat...)
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// Chain returns a handler that applies each handler in order
func Chain(handlers ...Handler) Handler {
	return func(v Values) (Values, error) {
		var err error
		for _, h := range handlers {
			if v, err = h(v); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
}
