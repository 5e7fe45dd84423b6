package token

var keywords = map[string]Kind{
	"module": KwModule,
	"struct": KwStruct,
	"fun":    KwFun,
	"let":    KwLet,
	"return": KwReturn,
	"if":     KwIf,
	"else":   KwElse,
	"as":     KwAs,
	"true":   KwTrue,
	"false":  KwFalse,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
