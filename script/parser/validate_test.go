package parser

import "testing"

func TestDuplicateFunctions(t *testing.T) {
	res := Parse("function test(a) {\n}\nfunction test() {\n}\n")
	if !res.Error.HasError {
		t.Fatal("expected a duplicate definition")
	}
	if res.Error.Severity != SeverityInformation {
		t.Errorf("severity: got %v", res.Error.Severity)
	}
	if res.Error.Message != "function test() is already defined" {
		t.Errorf("message: got %q", res.Error.Message)
	}
	if res.Error.Position() != (Position{3, 0}) || res.Error.AffectedLine != 1 {
		t.Errorf("got %v affecting line %d", res.Error.Position(), res.Error.AffectedLine)
	}
	if got := res.Error.Error(); got != "3:0: function test() is already defined (see line 1)" {
		t.Errorf("Error(): got %q", got)
	}
	if len(res.Nodes) != 2 {
		t.Errorf("got %d nodes, want 2", len(res.Nodes))
	}
}

func TestDuplicateFunctionsDoNotHideSyntaxErrors(t *testing.T) {
	res := Parse("function a() {}\nfunction a() {}\nfunction b( {}")
	if res.Error.Severity != SeverityError || res.Error.Message != "expected argument or ')'" {
		t.Fatalf("got %+v", res.Error)
	}
	if res.Error.Position() != (Position{3, 12}) {
		t.Errorf("position: got %v", res.Error.Position())
	}
}

func TestAnonymousFunctionsAreNotDuplicates(t *testing.T) {
	res := Parse("x = function() {};\ny = function() {};\nfunction() {}\nfunction() {}")
	if res.Error.HasError {
		t.Errorf("unexpected error: %v", res.Error.Err())
	}
}

func TestMemberCheck(t *testing.T) {
	members := MemberMap{"helper": {"trim", "stripTags"}}
	tests := []struct {
		name    string
		input   string
		members MemberTable
		message string
		pos     Position
	}{
		{"known method", "helper.trim(x);", members, "", Position{}},
		{"unknown method", "helper.strip(x);", members, "strip is not a member of helper", Position{1, 0}},
		{"unknown object", "foo.bar(x);", members, "", Position{}},
		{"no table", "helper.strip(x);", nil, "", Position{}},
		{"inside function", "function f() {\n  x = helper.strip(y);\n}", members, "strip is not a member of helper", Position{2, 6}},
		{"inside arguments", "log(helper.nope());", members, "nope is not a member of helper", Position{1, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.input, WithMembers(tt.members))
			if tt.message == "" {
				if res.Error.HasError {
					t.Errorf("unexpected error: %v", res.Error.Err())
				}
				return
			}
			if res.Error.Message != tt.message || res.Error.Severity != SeverityInformation {
				t.Fatalf("got %+v", res.Error)
			}
			if res.Error.Position() != tt.pos {
				t.Errorf("position: got %v, want %v", res.Error.Position(), tt.pos)
			}
		})
	}
}

func TestValidatorRunsBeforeSemicolonCheck(t *testing.T) {
	res := Parse("function a() {}\nfunction a() {}\nx = b\ny = c;", WithSemicolonCheck())
	if res.Error.Severity != SeverityInformation {
		t.Errorf("got %+v", res.Error)
	}
}
