package pipeline

import (
	"github.com/golang-collections/collections/stack"

	"github.com/retro-framework/go-filter/framework/filter"
)

// StageStack orders restores for composition: the stage pushed first is
// popped, and therefore restored, last.
type StageStack struct {
	s stack.Stack
}

func (ss *StageStack) Len() int {
	return ss.s.Len()
}

func (ss *StageStack) Push(s *filter.Stage) {
	ss.s.Push(s)
}

// Pop returns nil once the stack is empty.
func (ss *StageStack) Pop() *filter.Stage {
	v := ss.s.Pop()
	if v == nil {
		return nil
	}
	return v.(*filter.Stage)
}
