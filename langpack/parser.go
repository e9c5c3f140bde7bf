package langpack

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	packLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Colon", Pattern: `:`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(packLexer),
		participle.Elide("Whitespace", "LineComment", "HashComment"),
	)
)

// File is the root AST node for a .lang pack file.
type File struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Code     string         `parser:"Newline* 'pack' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"LBrace Newline* ( @@ Newline* )* RBrace Newline*"`
}

// Section is either a meta or a labels block.
type Section struct {
	Meta   *Block `parser:"  'meta' @@"`
	Labels *Block `parser:"| 'labels' @@"`
}

// Block is a brace-delimited list of key/value entries.
type Block struct {
	Entries []*Entry `parser:"LBrace Newline* ( @@ Newline* )* RBrace"`
}

// Entry is a single `key: "value"` assignment.
type Entry struct {
	Key   string        `parser:"@Ident"`
	Value StringLiteral `parser:"Colon @String"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a pack file from an io.Reader.
func Parse(r io.Reader) (*File, error) {
	return fileParser.Parse("", r)
}

// ParseString parses a pack file from a string.
func ParseString(input string) (*File, error) {
	return fileParser.ParseString("", input)
}
