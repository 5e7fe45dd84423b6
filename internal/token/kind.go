package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	IntLit

	KwModule
	KwStruct
	KwFun
	KwLet
	KwReturn
	KwIf
	KwElse
	KwAs
	KwTrue
	KwFalse

	Plus
	Minus
	Star
	Slash
	Percent
	Amp
	Pipe
	Caret
	Shl
	Shr
	AndAnd
	OrOr
	Bang
	EqEq
	BangEq
	Lt
	LtEq
	Gt
	GtEq
	Assign
	Colon
	ColonColon
	Semicolon
	Comma
	At
	LParen
	RParen
	LBrace
	RBrace
)

var kindNames = [...]string{
	Invalid:    "invalid",
	EOF:        "end of file",
	Ident:      "identifier",
	IntLit:     "integer literal",
	KwModule:   "'module'",
	KwStruct:   "'struct'",
	KwFun:      "'fun'",
	KwLet:      "'let'",
	KwReturn:   "'return'",
	KwIf:       "'if'",
	KwElse:     "'else'",
	KwAs:       "'as'",
	KwTrue:     "'true'",
	KwFalse:    "'false'",
	Plus:       "'+'",
	Minus:      "'-'",
	Star:       "'*'",
	Slash:      "'/'",
	Percent:    "'%'",
	Amp:        "'&'",
	Pipe:       "'|'",
	Caret:      "'^'",
	Shl:        "'<<'",
	Shr:        "'>>'",
	AndAnd:     "'&&'",
	OrOr:       "'||'",
	Bang:       "'!'",
	EqEq:       "'=='",
	BangEq:     "'!='",
	Lt:         "'<'",
	LtEq:       "'<='",
	Gt:         "'>'",
	GtEq:       "'>='",
	Assign:     "'='",
	Colon:      "':'",
	ColonColon: "'::'",
	Semicolon:  "';'",
	Comma:      "','",
	At:         "'@'",
	LParen:     "'('",
	RParen:     "')'",
	LBrace:     "'{'",
	RBrace:     "'}'",
}

// String returns a quoted, human readable name used in parse errors.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
