package token

import "sort"

// keywordEntry pairs a spelling with its Kind. The table is kept sorted by
// Word so LookupKeyword can binary-search it, matching spec.md §4.1's
// "keyword recognition uses a sorted table with binary search".
type keywordEntry struct {
	Word string
	Kind Kind
}

var keywordTable = []keywordEntry{
	{"alignof", KwAlignof},
	{"and", KwAnd},
	{"as", KwAs},
	{"asm", KwAsm},
	{"break", KwBreak},
	{"case", KwCase},
	{"cast", KwCast},
	{"const", KwConst},
	{"continue", KwContinue},
	{"default", KwDefault},
	{"defer", KwDefer},
	{"do", KwDo},
	{"elif", KwElif},
	{"else", KwElse},
	{"enum", KwEnum},
	{"extern", KwExtern},
	{"false", KwFalse},
	{"for", KwFor},
	{"fun", KwFun},
	{"global", KwGlobal},
	{"goto", KwGoto},
	{"if", KwIf},
	{"impl", KwImpl},
	{"import", KwImport},
	{"in", KwIn},
	{"inline", KwInline},
	{"is", KwIs},
	{"macro", KwMacro},
	{"match", KwMatch},
	{"module", KwModule},
	{"mut", KwMut},
	{"next", KwNext},
	{"nil", KwNil},
	{"not", KwNot},
	{"object", KwObject},
	{"or", KwOr},
	{"pub", KwPub},
	{"register", KwRegister},
	{"return", KwReturn},
	{"self", KwSelf},
	{"Self", KwSelfType},
	{"sizeof", KwSizeof},
	{"static", KwStatic},
	{"struct", KwStruct},
	{"switch", KwSwitch},
	{"test", KwTest},
	{"thread_local", KwThreadLocal},
	{"trait", KwTrait},
	{"true", KwTrue},
	{"typedef", KwTypedef},
	{"union", KwUnion},
	{"unsafe", KwUnsafe},
	{"val", KwVal},
	{"var", KwVar},
	{"where", KwWhere},
	{"while", KwWhile},
	{"xor", KwXor},
}

func init() {
	sort.Slice(keywordTable, func(i, j int) bool {
		return keywordTable[i].Word < keywordTable[j].Word
	})
}

// LookupKeyword returns the Kind for word and true if word is a keyword,
// via binary search over the sorted table.
func LookupKeyword(word string) (Kind, bool) {
	lo, hi := 0, len(keywordTable)
	for lo < hi {
		mid := (lo + hi) / 2
		if keywordTable[mid].Word < word {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(keywordTable) && keywordTable[lo].Word == word {
		return keywordTable[lo].Kind, true
	}
	return Invalid, false
}

// atKeywordTable maps @-prefixed spellings (without the leading @) to their
// Kind, following the same closed-set recognition as ordinary keywords.
var atKeywordTable = map[string]Kind{
	"builtin": AtBuiltin,
	"cc":      AtCc,
	"cpp":     AtCpp,
	"hide":    AtHide,
	"hideout": AtHideout,
	"len":     AtLen,
	"sys":     AtSys,
}

// LookupAtKeyword returns the Kind for an @-prefixed word (without the @).
func LookupAtKeyword(word string) (Kind, bool) {
	k, ok := atKeywordTable[word]
	return k, ok
}
