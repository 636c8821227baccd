package diag

import (
	"fmt"
	"regexp"
	"strings"
)

// codeKind enumerates the closed set of diagnostic codes plus the two
// open namespaces for external and ad-hoc diagnostics.
type codeKind uint8

const (
	codeUnknown codeKind = iota
	codeMissingModule
	codeUnusedInclude
	codeHeadMismatch
	codeSyntaxError
	codeBoundVarInPattern
	codeModuleMismatch
	codeUnusedMacro
	codeUnusedRecordField
	codeMissingSeparator
	codeMutableVarBug
	codeStatementHasNoEffect
	codeTrivialMatch
	codeUnreachableTest
	codeRedundantAssignment
	codeUnusedFunctionArg
	codeApplicationGetEnv
	codeMissingCompileWarnMissingSpec
	codeMisspelledAttribute
	codeCrossNodeEval
	codeErlangService
	codeAdHoc
)

// Code is a diagnostic code value: закрытое перечисление плюс два
// открытых пространства имён. Значения сравнимы между собой.
type Code struct {
	kind  codeKind
	extra string // подкод W0004, код внешнего сервиса или имя ad-hoc линта
}

// The closed code set.
var (
	MissingModule                 = Code{kind: codeMissingModule}
	UnusedInclude                 = Code{kind: codeUnusedInclude}
	HeadMismatch                  = Code{kind: codeHeadMismatch}
	SyntaxError                   = Code{kind: codeSyntaxError}
	BoundVarInPattern             = Code{kind: codeBoundVarInPattern}
	ModuleMismatch                = Code{kind: codeModuleMismatch}
	UnusedMacro                   = Code{kind: codeUnusedMacro}
	UnusedRecordField             = Code{kind: codeUnusedRecordField}
	MutableVarBug                 = Code{kind: codeMutableVarBug}
	StatementHasNoEffect          = Code{kind: codeStatementHasNoEffect}
	TrivialMatch                  = Code{kind: codeTrivialMatch}
	UnreachableTest               = Code{kind: codeUnreachableTest}
	RedundantAssignment           = Code{kind: codeRedundantAssignment}
	UnusedFunctionArg             = Code{kind: codeUnusedFunctionArg}
	ApplicationGetEnv             = Code{kind: codeApplicationGetEnv}
	MissingCompileWarnMissingSpec = Code{kind: codeMissingCompileWarnMissingSpec}
	MisspelledAttribute           = Code{kind: codeMisspelledAttribute}
	CrossNodeEval                 = Code{kind: codeCrossNodeEval}
)

// MissingSeparator wraps the epp missing_comma / missing_semi family.
func MissingSeparator(sub string) Code {
	return Code{kind: codeMissingSeparator, extra: sub}
}

// ErlangService wraps a code reported by the external analyzer.
func ErlangService(code string) Code {
	return Code{kind: codeErlangService, extra: code}
}

// AdHoc wraps a user-registered lint name.
func AdHoc(name string) Code {
	return Code{kind: codeAdHoc, extra: name}
}

// IsErlangService reports whether the code belongs to the external namespace.
func (c Code) IsErlangService() bool { return c.kind == codeErlangService }

// IsAdHoc reports whether the code names an ad-hoc lint.
func (c Code) IsAdHoc() bool { return c.kind == codeAdHoc }

// ServiceCode returns the raw external code for ErlangService values.
func (c Code) ServiceCode() string {
	if c.kind == codeErlangService {
		return c.extra
	}
	return ""
}

// AsCode returns the canonical short form, e.g. "W0007".
func (c Code) AsCode() string {
	switch c.kind {
	case codeMissingModule:
		return "L1201"
	case codeUnusedInclude:
		return "L1500" // unused file
	case codeHeadMismatch:
		return "P1700"
	case codeSyntaxError:
		return "P1711"
	case codeBoundVarInPattern:
		return "W0000"
	case codeModuleMismatch:
		return "W0001"
	case codeUnusedMacro:
		return "W0002"
	case codeUnusedRecordField:
		return "W0003"
	case codeMissingSeparator:
		// у epp это были missing_comma и missing_parenthesis
		return "W0004"
	case codeMutableVarBug:
		return "W0005"
	case codeStatementHasNoEffect:
		return "W0006"
	case codeTrivialMatch:
		return "W0007"
	case codeUnreachableTest:
		return "W0008"
	case codeRedundantAssignment:
		return "W0009"
	case codeUnusedFunctionArg:
		return "W0010"
	case codeApplicationGetEnv:
		return "W0011"
	case codeMissingCompileWarnMissingSpec:
		return "W0012"
	case codeMisspelledAttribute:
		return "W0013"
	case codeCrossNodeEval:
		return "W0014"
	case codeErlangService:
		return c.extra
	case codeAdHoc:
		return fmt.Sprintf("ad-hoc: %s", c.extra)
	default:
		return "E0000"
	}
}

// AsLabel returns the canonical label, e.g. "trivial_match".
func (c Code) AsLabel() string {
	switch c.kind {
	case codeMissingModule:
		return "missing_module"
	case codeUnusedInclude:
		return "unused_include"
	case codeHeadMismatch:
		return "head_mismatch"
	case codeSyntaxError:
		return "syntax_error"
	case codeBoundVarInPattern:
		return "bound_var_in_pattern"
	case codeModuleMismatch:
		return "module_mismatch"
	case codeUnusedMacro:
		return "unused_macro"
	case codeUnusedRecordField:
		return "unused_record_field"
	case codeMissingSeparator:
		return "missing_comma_or_parenthesis"
	case codeMutableVarBug:
		return "mutable_variable_bug"
	case codeStatementHasNoEffect:
		return "statement_has_no_effect"
	case codeTrivialMatch:
		return "trivial_match"
	case codeUnreachableTest:
		return "unreachable_test"
	case codeRedundantAssignment:
		return "redundant_assignment"
	case codeUnusedFunctionArg:
		return "unused_function_arg"
	case codeApplicationGetEnv:
		return "application_get_env"
	case codeMissingCompileWarnMissingSpec:
		// совпадает с именем опции компилятора
		return "compile-warn-missing-spec"
	case codeMisspelledAttribute:
		return "misspelled_attribute"
	case codeCrossNodeEval:
		return "cross_node_eval"
	case codeErlangService:
		return c.extra
	case codeAdHoc:
		return fmt.Sprintf("ad-hoc: %s", c.extra)
	default:
		return "unknown"
	}
}

func (c Code) String() string { return c.AsCode() }

// SameCode compares two codes by their canonical short form, collapsing
// sub-codes of the W0004 family.
func (c Code) SameCode(other Code) bool {
	return c.AsCode() == other.AsCode()
}

var (
	codeLookup = buildCodeLookup()

	adhocRe   = regexp.MustCompile(`^ad-hoc: (\S+)$`)
	serviceRe = regexp.MustCompile(`^[A-Z]+[0-9]{4}$`)
)

func buildCodeLookup() map[string]Code {
	closed := []Code{
		MissingModule, UnusedInclude, HeadMismatch, SyntaxError,
		BoundVarInPattern, ModuleMismatch, UnusedMacro, UnusedRecordField,
		MissingSeparator(""), MutableVarBug, StatementHasNoEffect,
		TrivialMatch, UnreachableTest, RedundantAssignment,
		UnusedFunctionArg, ApplicationGetEnv, MissingCompileWarnMissingSpec,
		MisspelledAttribute, CrossNodeEval,
	}
	res := make(map[string]Code, len(closed)*2)
	for _, c := range closed {
		res[c.AsCode()] = c
		res[c.AsLabel()] = c
	}
	return res
}

// FromString parses a canonical short form or label. Распознавание
// открытых пространств: сперва ad-hoc, затем внешний сервис.
func FromString(s string) (Code, bool) {
	if c, ok := codeLookup[s]; ok {
		return c, true
	}
	if m := adhocRe.FindStringSubmatch(s); m != nil {
		return AdHoc(m[1]), true
	}
	if serviceRe.MatchString(strings.TrimSpace(s)) {
		return ErlangService(strings.TrimSpace(s)), true
	}
	return Code{}, false
}
