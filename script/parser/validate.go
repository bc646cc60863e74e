package parser

import (
	"fmt"
	"slices"
)

// MemberTable lists the methods of objects provided by the host, e.g.
// "helper" -> ["stripTags", "trim"]. It is owned outside the parser.
type MemberTable interface {
	// Members returns the method names of object and whether object is known.
	Members(object string) ([]string, bool)
}

// MemberMap is the simplest MemberTable.
type MemberMap map[string][]string

func (m MemberMap) Members(object string) ([]string, bool) {
	methods, ok := m[object]
	return methods, ok
}

// validator runs the whole-program checks after a parse. It only fills the
// error slot when the parse left it empty.
type validator struct {
	err     *ErrorState
	members MemberTable
}

func (v *validator) run(nodes []Node) {
	v.checkDuplicateFunctions(nodes)
	v.checkMembers(nodes)
}

// checkDuplicateFunctions reports a top-level function whose name was already
// used. Arguments are not part of the signature key.
func (v *validator) checkDuplicateFunctions(nodes []Node) {
	seen := make(map[string]*Function)
	for _, n := range nodes {
		fn, ok := n.(*Function)
		if !ok || fn.Anonymous() {
			continue
		}
		key := fn.Name() + "()"
		if prev, ok := seen[key]; ok {
			msg := fmt.Sprintf("function %s is already defined", key)
			v.err.record(SeverityInformation, msg, fn.Range().Start, prev.Range().Start.Line)
			continue
		}
		seen[key] = fn
	}
}

// checkMembers reports calls to methods a known object does not have.
func (v *validator) checkMembers(nodes []Node) {
	if v.members == nil {
		return
	}
	for _, n := range nodes {
		Walk(n, func(n Node) bool {
			call, ok := n.(*FunctionCall)
			if !ok {
				return true
			}
			methods, known := v.members.Members(call.Object())
			if known && !slices.Contains(methods, call.Function()) {
				msg := fmt.Sprintf("%s is not a member of %s", call.Function(), call.Object())
				v.err.record(SeverityInformation, msg, call.Range().Start, 0)
			}
			return true
		})
	}
}
