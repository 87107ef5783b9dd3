package lang

import (
	"context"
	"testing"
)

func TestParseClean(t *testing.T) {
	t.Parallel()

	parser := NewParser()
	tree, err := Parse(context.Background(), parser, []byte("x = 1\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	if issue := SyntaxIssue(tree.RootNode()); issue != nil {
		t.Errorf("unexpected syntax issue: %+v", issue)
	}
}

func TestSyntaxIssueLocation(t *testing.T) {
	t.Parallel()

	parser := NewParser()
	source := []byte("x = 1\ny = 2\ndef broken(:\n    pass\n")
	tree, err := Parse(context.Background(), parser, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	issue := SyntaxIssue(tree.RootNode())
	if issue == nil {
		t.Fatal("expected a syntax issue")
	}
	if issue.Line < 1 || issue.Line > 4 {
		t.Errorf("issue line = %d, want within the source", issue.Line)
	}
	if issue.Msg == "" {
		t.Error("issue message is empty")
	}
}

func TestNodeText(t *testing.T) {
	t.Parallel()

	parser := NewParser()
	source := []byte("def hello():\n    pass\n")
	tree, err := Parse(context.Background(), parser, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	fn := tree.RootNode().Child(0)
	if fn.Type() != "function_definition" {
		t.Fatalf("child type = %q", fn.Type())
	}
	name := fn.ChildByFieldName("name")
	if name == nil {
		t.Fatal("no name field")
	}
	if got := NodeText(name, source); got != "hello" {
		t.Errorf("NodeText = %q, want hello", got)
	}
}
