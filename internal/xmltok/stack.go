package xmltok

import "strings"

// elementStack is the open-element stack: a simple LIFO of element names,
// grounded on ucarion/c14n's internal/stack.Stack (here simplified to
// push/pop/top/len, since well-formedness checking needs nothing else).
type elementStack struct {
	names []string
}

// push stores an owned copy of name. name is normally a zero-copy view into
// the tokenizer's buffer, valid only until the next DiscardBefore, but an
// open element's name must survive until its matching (possibly much later,
// possibly many chunks later) end tag, so it has to be cloned here rather
// than aliased.
func (s *elementStack) push(name string) {
	s.names = append(s.names, strings.Clone(name))
}

func (s *elementStack) pop() {
	s.names = s.names[:len(s.names)-1]
}

func (s *elementStack) top() (string, bool) {
	if len(s.names) == 0 {
		return "", false
	}
	return s.names[len(s.names)-1], true
}

func (s *elementStack) len() int {
	return len(s.names)
}
