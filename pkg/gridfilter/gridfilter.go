// Package gridfilter compiles the data-grid filter parameter into a boolean
// program evaluated per row, e.g. `value >= 100000 && stage == "Proposta"`.
package gridfilter

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/funil-crm/funil/pkg/apperror"
)

// The working set is the handful of saved grid views a user cycles through.
// Filters arrive straight from a query parameter, so the cache is bounded:
// once the limit is hit the whole map is dropped rather than tracking
// recency per entry.
const cacheLimit = 256

var programCache = struct {
	mu       sync.Mutex
	programs map[string]*vm.Program
}{programs: make(map[string]*vm.Program)}

func cachedProgram(source string) (*vm.Program, bool) {
	programCache.mu.Lock()
	defer programCache.mu.Unlock()
	p, ok := programCache.programs[source]
	return p, ok
}

func storeProgram(source string, p *vm.Program) {
	programCache.mu.Lock()
	defer programCache.mu.Unlock()
	if len(programCache.programs) >= cacheLimit {
		programCache.programs = make(map[string]*vm.Program)
	}
	programCache.programs[source] = p
}

// Filter is a compiled row predicate.
type Filter struct {
	source  string
	program *vm.Program
}

// Compile parses source into a reusable filter. Compilation failures are
// validation errors: the filter came straight from a query parameter.
func Compile(source string) (*Filter, error) {
	if cached, ok := cachedProgram(source); ok {
		return &Filter{source: source, program: cached}, nil
	}

	program, err := expr.Compile(source,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeValidation,
			fmt.Sprintf("filtro inválido: %v", err), err)
	}

	storeProgram(source, program)
	return &Filter{source: source, program: program}, nil
}

// Match evaluates the filter against one row environment. Runtime failures
// (type mismatch against an actual row) also classify as validation errors.
func (f *Filter) Match(row map[string]any) (bool, error) {
	out, err := expr.Run(f.program, row)
	if err != nil {
		return false, apperror.Wrap(apperror.CodeValidation,
			fmt.Sprintf("filtro inválido: %v", err), err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, apperror.New(apperror.CodeValidation, "filtro deve ser booleano")
	}
	return matched, nil
}

func (f *Filter) String() string { return f.source }
