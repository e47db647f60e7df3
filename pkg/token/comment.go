package token

// CommentKind distinguishes comment syntaxes.
type CommentKind int

// Comment kinds.
const (
	LineComment  CommentKind = iota // -- comment
	BlockComment                    // /* comment */
	HashComment                     // # comment (MySQL)
)

// Comment represents a SQL comment with position.
type Comment struct {
	Kind CommentKind
	Text string // includes delimiters (--, # or /* */)
	Span Span
}

// IsLineComment reports whether the comment runs to the end of its line.
func (c *Comment) IsLineComment() bool {
	return c.Kind == LineComment || c.Kind == HashComment
}

// IsBlockComment returns true if this is a block comment.
func (c *Comment) IsBlockComment() bool {
	return c.Kind == BlockComment
}

// Terminated reports whether a block comment has its closing delimiter.
func (c *Comment) Terminated() bool {
	if c.Kind != BlockComment {
		return true
	}
	return len(c.Text) >= 4 && c.Text[len(c.Text)-2:] == "*/"
}
