package hierarchy

import (
	"fmt"
	"regexp"
	"strings"
)

// classnamePattern is the expected shape of a fully-qualified test classname:
// dot-separated word identifiers, e.g. "tests.test_default" or
// "this.is.the.classname".
var classnamePattern = regexp.MustCompile(`^\w+(\.\w+)*$`)

// Derive converts a fully-qualified dotted classname and the resolved module
// hierarchy template into the ordered list of hierarchy segments used to file
// the test result. The template must already have its placeholders
// substituted by the config layer; no substitution happens here.
//
// The last returned segment always identifies the class: when the template
// does not end in the classname (or its leaf segment), the leaf segment is
// appended.
func Derive(classname string, template []string) ([]string, error) {
	if !classnamePattern.MatchString(classname) {
		return nil, fmt.Errorf("invalid classname '%s': expected dotted identifiers", classname)
	}
	if len(template) == 0 {
		return nil, fmt.Errorf("module hierarchy template is empty")
	}

	segments := append([]string(nil), template...)

	last := segments[len(segments)-1]
	if leaf := LeafName(classname); last != classname && last != leaf {
		segments = append(segments, leaf)
	}

	return segments, nil
}

// LeafName returns the class-identifying final segment of a dotted classname.
func LeafName(classname string) string {
	if i := strings.LastIndex(classname, "."); i >= 0 {
		return classname[i+1:]
	}
	return classname
}
